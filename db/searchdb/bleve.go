package searchdb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/encarta/config"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
)

const indexingBatchSize = 100

const (
	indexFieldTitle  = "title"
	indexFieldLink   = "link"
	indexFieldType   = "type"
	indexFieldSeenAt = "seen_at"
)

var quotedPhrasePattern = regexp.MustCompile(`"([^"]*)"`)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	mapping := createIndexMapping()
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

// BuildIndex adds or replaces documents by id.
func (b *BleveDB) BuildIndex(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		err := batch.Index(doc.ID, doc)
		if err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}

		if (i+1)%indexingBatchSize == 0 {
			err = b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	// Links and types are matched exactly.
	linkFieldMapping := bleve.NewTextFieldMapping()
	linkFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldLink, linkFieldMapping)

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldType, typeFieldMapping)

	seenAtFieldMapping := bleve.NewDateTimeFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldSeenAt, seenAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Search matches documents by title. An empty query returns the most recently
// seen documents first.
func (b *BleveDB) Search(queryString string, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchQuery := b.buildSearchQuery(queryString)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, offset, false)
	searchRequest.Fields = []string{indexFieldTitle, indexFieldLink, indexFieldType}
	if strings.TrimSpace(queryString) == "" {
		searchRequest.SortBy([]string{"-" + indexFieldSeenAt, "_id"})
	}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if title, ok := hit.Fields[indexFieldTitle].(string); ok {
			result.Title = title
		}
		if link, ok := hit.Fields[indexFieldLink].(string); ok {
			result.Link = link
		}
		if docType, ok := hit.Fields[indexFieldType].(string); ok {
			result.Type = docType
		}

		results[i] = result
	}

	response := &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}

	return response, nil
}

// Find returns up to limit matching documents in their backend form.
func (b *BleveDB) Find(queryString string, limit int) ([]gateway.Document, error) {
	response, err := b.Search(queryString, limit, 0)
	if err != nil {
		return nil, err
	}

	documents := make([]gateway.Document, len(response.Results))
	for i, result := range response.Results {
		documents[i] = result.Document()
	}
	return documents, nil
}

func (b *BleveDB) buildSearchQuery(queryString string) query.Query {

	const (
		boostForTitle        = 2.0
		boostForPhraseMatch  = 5.0
		boostForPartialMatch = 1.5
	)

	queryString = strings.ToLower(strings.TrimSpace(queryString))

	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}

	quoted, remaining := parseQuotedQuery(queryString)

	disjunctQuery := bleve.NewDisjunctionQuery()

	for _, phrase := range quoted {
		phraseQuery := bleve.NewMatchPhraseQuery(phrase)
		phraseQuery.SetField(indexFieldTitle)
		phraseQuery.SetBoost(boostForPhraseMatch)
		disjunctQuery.AddQuery(phraseQuery)
	}

	if remaining != "" {
		titleQuery := bleve.NewMatchQuery(remaining)
		titleQuery.SetField(indexFieldTitle)
		titleQuery.SetBoost(boostForTitle)
		disjunctQuery.AddQuery(titleQuery)

		phraseQuery := bleve.NewMatchPhraseQuery(remaining)
		phraseQuery.SetField(indexFieldTitle)
		phraseQuery.SetBoost(boostForPhraseMatch)
		disjunctQuery.AddQuery(phraseQuery)

		for _, term := range strings.Fields(remaining) {
			if len(term) <= 2 {
				continue
			}
			prefixQuery := bleve.NewPrefixQuery(term)
			prefixQuery.SetField(indexFieldTitle)
			prefixQuery.SetBoost(boostForPartialMatch)
			disjunctQuery.AddQuery(prefixQuery)
		}
	}

	if len(disjunctQuery.Disjuncts) == 0 {
		return bleve.NewMatchAllQuery()
	}

	return disjunctQuery
}

// parseQuotedQuery splits out "quoted phrases" from the remaining free terms.
func parseQuotedQuery(queryString string) ([]string, string) {
	var quoted []string
	for _, match := range quotedPhrasePattern.FindAllStringSubmatch(queryString, -1) {
		phrase := strings.TrimSpace(match[1])
		if phrase != "" {
			quoted = append(quoted, phrase)
		}
	}

	remaining := quotedPhrasePattern.ReplaceAllString(queryString, " ")
	remaining = strings.Join(strings.Fields(remaining), " ")

	return quoted, remaining
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		if (i+1)%indexingBatchSize == 0 {
			err := b.index.Batch(batch)
			if err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}

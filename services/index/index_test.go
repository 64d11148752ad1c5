package index

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	mu        sync.Mutex
	documents []searchdb.Document
	err       error
	block     chan struct{}
}

func (r *recordingIndexer) BuildIndex(documents []searchdb.Document) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.documents = append(r.documents, documents...)
	return nil
}

func (r *recordingIndexer) all() []searchdb.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]searchdb.Document(nil), r.documents...)
}

func TestSubmitIndexesDocuments(t *testing.T) {
	assert := require.New(t)
	indexer := &recordingIndexer{}
	service := New(context.Background(), logger.Discard(), indexer)

	assert.NoError(service.Submit(gateway.SearchResult{
		{ID: "1", Title: "Radiation Study", Link: "https://x/1", Type: gateway.MediaTypePDF},
		{ID: "2", Title: "Plant growth", Type: gateway.MediaTypePDF},
	}))
	assert.NoError(service.Submit(nil), "empty submissions are ignored")
	service.Stop()

	documents := indexer.all()
	assert.Len(documents, 2)
	assert.Equal("1", documents[0].ID)
	assert.Equal("Radiation Study", documents[0].Title)
	assert.Equal("pdf", documents[0].Type)
	assert.False(documents[0].SeenAt.IsZero())
	assert.Equal(Stats{Indexed: 2}, service.Stats())

	assert.ErrorIs(service.Submit(gateway.SearchResult{{ID: "3"}}), ErrStopped)
}

func TestSubmitDropsWhenQueueIsFull(t *testing.T) {
	assert := require.New(t)
	indexer := &recordingIndexer{block: make(chan struct{})}
	service := New(context.Background(), logger.Discard(), indexer)

	var err error
	submitted := 0
	for range defaultQueueSize + 2 {
		if err = service.Submit(gateway.SearchResult{{ID: "1"}}); err != nil {
			break
		}
		submitted++
	}
	assert.ErrorIs(err, ErrQueueFull)
	assert.Equal(uint64(1), service.Stats().Dropped)

	close(indexer.block)
	service.Stop()
	assert.Equal(uint64(submitted), service.Stats().Indexed)
}

func TestIndexerFailureIsNotCounted(t *testing.T) {
	assert := require.New(t)
	indexer := &recordingIndexer{err: errors.New("index closed")}
	service := New(context.Background(), logger.Discard(), indexer)

	assert.NoError(service.Submit(gateway.SearchResult{{ID: "1"}}))
	service.Stop()

	assert.Equal(Stats{}, service.Stats())
}

package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type MediaType string

const (
	MediaTypePDF   MediaType = "pdf"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

// DocumentID accepts both JSON numbers and strings; 42, 42.0 and "42" are the same id.
type DocumentID string

const maxExactFloatInt = 1 << 53

func (id *DocumentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocumentID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document id must be a string or a number: %w", err)
	}
	*id = DocumentID(canonicalNumber(n))
	return nil
}

// canonicalNumber writes integral numbers without fraction or exponent so 1, 1.0
// and 1e0 name the same id. Integers beyond float precision keep their text.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloatInt {
		return n.String()
	}

	return strconv.FormatInt(int64(f), 10)
}

func (id DocumentID) String() string {
	return string(id)
}

type Document struct {
	ID    DocumentID `json:"id"`
	Title string     `json:"title"`
	Link  string     `json:"link"`
	Type  MediaType  `json:"type"`
}

// UnmarshalJSON defaults a missing or unknown type to pdf. Backend search rows
// are articles and never carry a type.
func (d *Document) UnmarshalJSON(data []byte) error {
	type rawDocument Document
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document(raw)
	d.Type = normalizeMediaType(d.Type)
	return nil
}

// ParseMediaType maps s to a media type. Unknown or empty values are pdf.
func ParseMediaType(s string) MediaType {
	return normalizeMediaType(MediaType(strings.TrimSpace(s)))
}

func normalizeMediaType(t MediaType) MediaType {
	switch MediaType(strings.ToLower(string(t))) {
	case MediaTypeAudio:
		return MediaTypeAudio
	case MediaTypeVideo:
		return MediaTypeVideo
	default:
		return MediaTypePDF
	}
}

// SearchResult keeps backend order. It carries no total count.
type SearchResult []Document

func (r SearchResult) Len() int {
	return len(r)
}

type SearchQuery struct {
	Text       string   `json:"q" validate:"max=1000"`
	Categories []string `json:"categories" validate:"max=50,dive,valid_category"`
	Skip       int      `json:"skip" validate:"min=0"`
	Limit      int      `json:"limit" validate:"min=1,max=1000"`
}

// Normalized trims the text and drops repeated categories, keeping first occurrences in order.
func (q SearchQuery) Normalized() SearchQuery {
	q.Text = strings.TrimSpace(q.Text)
	if len(q.Categories) == 0 {
		q.Categories = nil
		return q
	}

	seen := make(map[string]bool, len(q.Categories))
	categories := make([]string, 0, len(q.Categories))
	for _, category := range q.Categories {
		category = strings.TrimSpace(category)
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	q.Categories = categories

	return q
}

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatOptions are sent only when set.
type ChatOptions struct {
	MaxTokens   *int
	Temperature *float64
}

type chatRequest struct {
	Messages    []ChatTurn `json:"messages"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Content *string `json:"content"`
}

type abstractResponse struct {
	Abstract *string `json:"abstract"`
}

type categoryCountResponse struct {
	Count int `json:"count"`
}

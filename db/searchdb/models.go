package searchdb

import (
	"time"

	"github.com/meghashyamc/encarta/gateway"
)

// Document is a backend document the user has already been shown.
type Document struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Link   string    `json:"link"`
	Type   string    `json:"type"`
	SeenAt time.Time `json:"seen_at"`
}

type Result struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Link  string  `json:"link"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}

func FromGateway(docs []gateway.Document, seenAt time.Time) []Document {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		out = append(out, Document{
			ID:     doc.ID.String(),
			Title:  doc.Title,
			Link:   doc.Link,
			Type:   string(doc.Type),
			SeenAt: seenAt,
		})
	}
	return out
}

func (r Result) Document() gateway.Document {
	return gateway.Document{
		ID:    gateway.DocumentID(r.ID),
		Title: r.Title,
		Link:  r.Link,
		Type:  gateway.MediaType(r.Type),
	}
}

package viewstate

import (
	"fmt"
	"sync"

	"github.com/meghashyamc/encarta/gateway"
)

// Viewer is a category of document viewer. Each viewer shows at most one document.
type Viewer string

const (
	ViewerReader Viewer = "reader"
	ViewerFile   Viewer = "file"
	ViewerAudio  Viewer = "audio"
	ViewerVideo  Viewer = "video"
)

var viewers = []Viewer{ViewerReader, ViewerFile, ViewerAudio, ViewerVideo}

func ParseViewer(s string) (Viewer, error) {
	for _, v := range viewers {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown viewer %q", s)
}

type Selection struct {
	mu   sync.RWMutex
	open map[Viewer]gateway.Document
}

func NewSelection() *Selection {
	return &Selection{open: make(map[Viewer]gateway.Document)}
}

// Select opens doc in the viewer, replacing what was open there. The replaced
// document is returned so callers can release it.
func (s *Selection) Select(viewer Viewer, doc gateway.Document) (gateway.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.open[viewer]
	s.open[viewer] = doc

	return previous, ok
}

func (s *Selection) Clear(viewer Viewer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.open[viewer]
	delete(s.open, viewer)

	return ok
}

func (s *Selection) Current(viewer Viewer) (gateway.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.open[viewer]
	return doc, ok
}

func (s *Selection) Snapshot() map[Viewer]gateway.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Viewer]gateway.Document, len(s.open))
	for v, doc := range s.open {
		out[v] = doc
	}
	return out
}

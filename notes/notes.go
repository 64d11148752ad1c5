package notes

import (
	"errors"

	"github.com/meghashyamc/encarta/db/kvdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
)

const keyPrefix = "articleNotes:"

// KV is the storage the notes are kept in.
type KV interface {
	Set(key string, value string) error
	Get(key string) (string, error)
}

// Store keeps one free-text note per document. It never returns storage errors
// to callers; a failed read is an empty note and a failed write reports false.
type Store struct {
	kv     KV
	logger logger.Logger
}

// New accepts a nil kv, in which case the store is permanently unavailable.
func New(kv KV, logger logger.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

func Key(id gateway.DocumentID) string {
	return keyPrefix + id.String()
}

func (s *Store) Available() bool {
	return s.kv != nil
}

func (s *Store) Load(id gateway.DocumentID) string {
	if s.kv == nil {
		return ""
	}

	text, err := s.kv.Get(Key(id))
	if err != nil {
		if !errors.Is(err, kvdb.ErrNotFound) {
			s.logger.Warn("could not load note", "document_id", id.String(), "err", err.Error())
		}
		return ""
	}

	return text
}

// Save overwrites the note of a document. Saving the same text twice leaves
// the same stored state.
func (s *Store) Save(id gateway.DocumentID, text string) bool {
	if s.kv == nil {
		s.logger.Warn("note not saved, storage unavailable", "document_id", id.String())
		return false
	}

	if err := s.kv.Set(Key(id), text); err != nil {
		s.logger.Warn("could not save note", "document_id", id.String(), "err", err.Error())
		return false
	}

	return true
}

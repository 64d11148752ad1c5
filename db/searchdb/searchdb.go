package searchdb

import "github.com/meghashyamc/encarta/gateway"

type DB interface {
	BuildIndex(documents []Document) error
	DeleteDocuments(documentIDs []string) error
	Search(queryString string, limit int, offset int) (*Response, error)
	Find(queryString string, limit int) ([]gateway.Document, error)
	GetDocCount() (uint64, error)
	Close() error
}

package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
)

// Indexer represents the library operations needed to record seen documents.
type Indexer interface {
	BuildIndex(documents []searchdb.Document) error
}

const defaultQueueSize = 16

var (
	ErrQueueFull = errors.New("indexing queue is full")
	ErrStopped   = errors.New("index service stopped")
)

// Service records documents returned by searches into the local library in the
// background. Submissions never block the caller; when the queue is full the
// batch is dropped.
type Service struct {
	logger      logger.Logger
	indexer     Indexer
	buildIndexC chan indexRequest
	now         func() time.Time

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}

	indexed atomic.Uint64
	dropped atomic.Uint64
}

type indexRequest struct {
	documents []gateway.Document
	seenAt    time.Time
}

type Stats struct {
	Indexed uint64 `json:"indexed"`
	Dropped uint64 `json:"dropped"`
}

func New(ctx context.Context, logger logger.Logger, indexer Indexer) *Service {
	indexService := &Service{
		logger:      logger,
		indexer:     indexer,
		buildIndexC: make(chan indexRequest, defaultQueueSize),
		now:         time.Now,
		done:        make(chan struct{}),
	}

	go indexService.build(ctx)
	return indexService
}

// Submit queues documents for indexing.
func (s *Service) Submit(documents []gateway.Document) error {
	if len(documents) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return ErrStopped
	}

	select {
	case s.buildIndexC <- indexRequest{documents: documents, seenAt: s.now().UTC()}:
		return nil
	default:
		s.dropped.Add(uint64(len(documents)))
		s.logger.Warn("dropping documents, indexing queue is full", "documents", len(documents))
		return ErrQueueFull
	}
}

// Stop refuses further submissions and waits until queued batches are indexed.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.buildIndexC)
	}
	s.mu.Unlock()

	<-s.done
}

func (s *Service) Stats() Stats {
	return Stats{Indexed: s.indexed.Load(), Dropped: s.dropped.Load()}
}

func (s *Service) build(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case req, ok := <-s.buildIndexC:
			if !ok {
				s.logger.Info("index service stopped", "reason", "queue closed")
				return
			}
			s.buildIndex(req)
		case <-ctx.Done():
			s.logger.Info("index service stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) buildIndex(req indexRequest) {
	documents := searchdb.FromGateway(req.documents, req.seenAt)
	if len(documents) == 0 {
		return
	}

	if err := s.indexer.BuildIndex(documents); err != nil {
		s.logger.Error("failed to index documents", "documents", len(documents), "err", err.Error())
		return
	}

	s.indexed.Add(uint64(len(documents)))
	s.logger.Debug("indexed documents", "documents", len(documents))
}

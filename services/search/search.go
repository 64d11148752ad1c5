package search

import (
	"context"
	"strings"

	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/viewstate"
)

const (
	DefaultBasicLimit    = 10
	DefaultAdvancedLimit = 100
)

// Gateway is the part of the backend client searches are made with.
type Gateway interface {
	Search(ctx context.Context, query gateway.SearchQuery) (gateway.SearchResult, error)
	SearchAbstracts(ctx context.Context, query gateway.SearchQuery) (gateway.SearchResult, error)
}

// Library receives documents returned by successful searches.
type Library interface {
	Submit(documents []gateway.Document) error
}

type Service struct {
	logger   logger.Logger
	gateway  Gateway
	library  Library
	basic    *viewstate.Slot[gateway.SearchResult]
	advanced *viewstate.Slot[gateway.SearchResult]
}

// New wires the search slots of the controller. library may be nil.
func New(logger logger.Logger, gw Gateway, library Library, controller *viewstate.Controller) *Service {
	return &Service{
		logger:   logger,
		gateway:  gw,
		library:  library,
		basic:    controller.BasicSearch,
		advanced: controller.AdvancedSearch,
	}
}

// Basic runs the search bar query. A blank query clears the results without a
// request. A newer query supersedes one still in flight.
func (s *Service) Basic(ctx context.Context, text string, skip int, limit int) (viewstate.State[gateway.SearchResult], error) {
	if strings.TrimSpace(text) == "" {
		s.basic.Reset()
		return s.basic.State(), nil
	}

	query := gateway.SearchQuery{Text: text, Skip: skip, Limit: limit}
	if query.Limit == 0 {
		query.Limit = DefaultBasicLimit
	}
	query = query.Normalized()

	return viewstate.RunLatest(ctx, s.basic, func(ctx context.Context) (gateway.SearchResult, error) {
		return s.search(ctx, "basic", query, s.gateway.SearchAbstracts)
	})
}

// Advanced runs a filtered search. It is rejected with viewstate.ErrSlotBusy
// while an earlier advanced search is in flight.
func (s *Service) Advanced(ctx context.Context, query gateway.SearchQuery) (viewstate.State[gateway.SearchResult], error) {
	if query.Limit == 0 {
		query.Limit = DefaultAdvancedLimit
	}
	query = query.Normalized()

	return viewstate.Run(ctx, s.advanced, func(ctx context.Context) (gateway.SearchResult, error) {
		return s.search(ctx, "advanced", query, s.gateway.Search)
	})
}

// ClearFilters drops the advanced results. A search still in flight is discarded when it completes.
func (s *Service) ClearFilters() viewstate.State[gateway.SearchResult] {
	s.advanced.Reset()
	return s.advanced.State()
}

func (s *Service) search(ctx context.Context, kind string, query gateway.SearchQuery, fn func(context.Context, gateway.SearchQuery) (gateway.SearchResult, error)) (gateway.SearchResult, error) {
	result, err := fn(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", "kind", kind, "q", query.Text, "err", err.Error())
		return nil, err
	}

	s.logger.Info("search finished", "kind", kind, "q", query.Text, "results", result.Len())
	if s.library != nil {
		if err := s.library.Submit(result); err != nil {
			s.logger.Warn("could not record search results in library", "err", err.Error())
		}
	}

	return result, nil
}

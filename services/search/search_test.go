package search

import (
	"context"
	"sync"
	"testing"

	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/viewstate"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu      sync.Mutex
	queries []gateway.SearchQuery
	basic   []gateway.SearchQuery
	result  gateway.SearchResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeGateway) Search(ctx context.Context, query gateway.SearchQuery) (gateway.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeGateway) SearchAbstracts(ctx context.Context, query gateway.SearchQuery) (gateway.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.basic = append(f.basic, query)
	return f.result, f.err
}

type fakeLibrary struct {
	mu        sync.Mutex
	submitted []gateway.Document
}

func (f *fakeLibrary) Submit(documents []gateway.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, documents...)
	return nil
}

func newTestService(gw *fakeGateway, library Library) (*Service, *viewstate.Controller) {
	controller := viewstate.NewController()
	return New(logger.Discard(), gw, library, controller), controller
}

func TestAdvancedSearchSuccess(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{result: gateway.SearchResult{{ID: "1", Title: "Radiation Study", Link: "https://x/1", Type: gateway.MediaTypePDF}}}
	library := &fakeLibrary{}
	service, controller := newTestService(gw, library)

	state, err := service.Advanced(context.Background(), gateway.SearchQuery{Text: " radiation ", Categories: []string{"radiacion", "radiacion", "medicina"}})
	assert.NoError(err)
	assert.Equal(viewstate.StatusSuccess, state.Status)
	assert.Equal(viewstate.RenderResults, state.Render())
	assert.Equal(gw.result, state.Result)
	assert.Equal(state, controller.AdvancedSearch.State())

	assert.Len(gw.queries, 1)
	assert.Equal(gateway.SearchQuery{Text: "radiation", Categories: []string{"radiacion", "medicina"}, Skip: 0, Limit: DefaultAdvancedLimit}, gw.queries[0])
	assert.Equal([]gateway.Document(gw.result), library.submitted)
}

func TestAdvancedSearchFailure(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{err: &gateway.HTTPError{Status: 500}}
	library := &fakeLibrary{}
	service, _ := newTestService(gw, library)

	state, err := service.Advanced(context.Background(), gateway.SearchQuery{Text: "radiation", Limit: 100})
	assert.NoError(err)
	assert.Equal(viewstate.StatusFailure, state.Status)
	assert.Equal(viewstate.RenderError, state.Render())
	assert.Equal(500, gateway.StatusOf(state.Err))
	assert.Empty(state.Result)
	assert.Empty(library.submitted)
}

func TestAdvancedSearchRejectedWhileInFlight(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{
		result:  gateway.SearchResult{{ID: "1"}},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	service, _ := newTestService(gw, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = service.Advanced(context.Background(), gateway.SearchQuery{Text: "first"})
	}()
	<-gw.started

	state, err := service.Advanced(context.Background(), gateway.SearchQuery{Text: "second"})
	assert.ErrorIs(err, viewstate.ErrSlotBusy)
	assert.Equal(viewstate.StatusLoading, state.Status)

	close(gw.release)
	<-done

	gw.mu.Lock()
	assert.Len(gw.queries, 1, "rejected search should not reach the backend")
	gw.mu.Unlock()
}

func TestClearFiltersDiscardsInFlightSearch(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{
		result:  gateway.SearchResult{{ID: "1"}},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	service, controller := newTestService(gw, nil)

	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, runErr = service.Advanced(context.Background(), gateway.SearchQuery{Text: "mars"})
	}()
	<-gw.started

	state := service.ClearFilters()
	assert.Equal(viewstate.StatusIdle, state.Status)

	close(gw.release)
	<-done
	assert.ErrorIs(runErr, viewstate.ErrStaleTicket)
	assert.Equal(viewstate.StatusIdle, controller.AdvancedSearch.State().Status)
}

func TestBasicSearch(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{result: gateway.SearchResult{}}
	service, _ := newTestService(gw, nil)

	state, err := service.Basic(context.Background(), "bone loss", 0, 0)
	assert.NoError(err)
	assert.Equal(viewstate.RenderNoResults, state.Render())
	assert.Equal([]gateway.SearchQuery{{Text: "bone loss", Limit: DefaultBasicLimit}}, gw.basic)
	assert.Empty(gw.queries, "basic search should not use the advanced endpoint")
}

func TestBasicSearchBlankClearsResults(t *testing.T) {
	assert := require.New(t)
	gw := &fakeGateway{result: gateway.SearchResult{{ID: "1"}}}
	service, _ := newTestService(gw, nil)

	state, err := service.Basic(context.Background(), "plants", 0, 10)
	assert.NoError(err)
	assert.Equal(viewstate.StatusSuccess, state.Status)

	state, err = service.Basic(context.Background(), "   ", 0, 10)
	assert.NoError(err)
	assert.Equal(viewstate.StatusIdle, state.Status)
	assert.Len(gw.basic, 1, "blank query should not send a request")
}

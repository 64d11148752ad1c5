package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/stretchr/testify/require"
)

func TestCalculatePagination(t *testing.T) {
	assert := require.New(t)

	assert.Equal(Pagination{CurrentPage: 1, PageSize: 20, TotalPages: 1, TotalResults: 0}, calculatePagination(0, 20, 0))
	assert.Equal(Pagination{CurrentPage: 2, PageSize: 2, TotalPages: 3, HasNextPage: true, HasPrevPage: true, TotalResults: 5}, calculatePagination(5, 2, 2))
}

var libraryTestCases = []testCase{
	{
		name:           "Most recent first",
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			library := decodeTestData[LibraryResponse](assert, response)
			assert.Len(library.Results, 2)
			assert.Equal("2", library.Results[0].ID)
			assert.Equal(2, library.PageDetails.TotalResults)
		},
	},
	{
		name:           "Title query",
		queryParams:    map[string]string{"query": "radiation"},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			library := decodeTestData[LibraryResponse](assert, response)
			assert.Len(library.Results, 1)
			assert.Equal("Radiation Study", library.Results[0].Title)
		},
	},
	{
		name:           "Page size too large",
		queryParams:    map[string]string{"per_page": "500"},
		expectedStatus: http.StatusNotAcceptable,
		expectedErrors: []string{"value or length of field 'per_page' is not in the expected range"},
	},
	{
		name:           "Page beyond the last offset",
		queryParams:    map[string]string{"page": "9223372036854775807"},
		expectedStatus: http.StatusNotAcceptable,
		expectedErrors: []string{"value or length of field 'page' is not in the expected range"},
	},
}

func TestLibrary(t *testing.T) {
	for _, testCase := range libraryTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			server := setupTestServer(t, assert, nil)

			seenAt := time.Date(2025, 10, 4, 12, 0, 0, 0, time.UTC)
			assert.NoError(server.library.BuildIndex(searchdb.FromGateway([]gateway.Document{{ID: "1", Title: "Radiation Study"}}, seenAt)))
			assert.NoError(server.library.BuildIndex(searchdb.FromGateway([]gateway.Document{{ID: "2", Title: "Plant growth"}}, seenAt.Add(time.Hour))))

			w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/api/library", testCase.requestHeaders, testCase.requestBody, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, w.Body.String())

			response := decodeTestResponse(assert, w)
			assert.Equal(testCase.expectedErrors, response.Errors)
			if testCase.check != nil {
				testCase.check(assert, response)
			}
		})
	}
}

func TestEvictFromLibrary(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert, nil)

	assert.NoError(server.library.BuildIndex(searchdb.FromGateway([]gateway.Document{{ID: "1", Title: "Radiation Study"}, {ID: "2", Title: "Plant growth"}}, time.Now())))

	w := makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/api/library/1", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(EvictResponse{ID: "1", Remaining: 1}, decodeTestData[EvictResponse](assert, decodeTestResponse(assert, w)))

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/api/library", nil, nil, map[string]string{"query": "radiation"})
	assert.Equal(http.StatusOK, w.Code)
	assert.Empty(decodeTestData[LibraryResponse](assert, decodeTestResponse(assert, w)).Results)

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/api/library/%20", nil, nil, nil)
	assert.Equal(http.StatusNotAcceptable, w.Code)
	assert.Equal([]string{"invalid document id"}, decodeTestResponse(assert, w).Errors)
}

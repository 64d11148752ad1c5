package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/media"
	"github.com/meghashyamc/encarta/services/reader"
	"github.com/meghashyamc/encarta/viewstate"
	"github.com/stretchr/testify/require"
)

var openDocumentTestCases = []testCase{
	{
		name:           "Reader with text proxy",
		requestHeaders: defaultTestRequestHeaders,
		requestBody: map[string]any{
			"id":         "PMC1515272",
			"title":      "Bone loss",
			"link":       "https://pmc.ncbi.nlm.nih.gov/articles/PMC1515272/",
			"reader":     true,
			"text_proxy": true,
		},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			article := decodeTestData[reader.Article](assert, response)
			assert.Equal(gateway.DocumentID("PMC1515272"), article.Document.ID)
			assert.Equal(gateway.MediaTypePDF, article.Document.Type)
			assert.True(article.Embed.Blocked)
			assert.True(article.Embed.Embeddable)
			assert.True(strings.HasSuffix(article.Embed.URI, "/proxy/http://pmc.ncbi.nlm.nih.gov/articles/PMC1515272/"), article.Embed.URI)
			assert.Empty(article.Note)
		},
	},
	{
		name:           "Audio summary",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"id": "9", "title": "Summary", "type": "audio"},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			shown := decodeTestData[reader.Media](assert, response)
			assert.Equal(viewstate.ViewerAudio, shown.Viewer)
			assert.Equal(media.Resolution{Kind: media.KindAudio, URI: "/assets/audio_resumen.mp3"}, shown.Resolution)
		},
	},
	{
		name:           "Unknown pdf opens default",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"id": "777", "title": "Task book", "type": "pdf"},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			shown := decodeTestData[reader.Media](assert, response)
			assert.Equal(viewstate.ViewerFile, shown.Viewer)
			assert.Equal(media.Resolution{Kind: media.KindPDF, URI: "/assets/TaskBook16068-10042025.pdf"}, shown.Resolution)
		},
	},
	{
		name:           "Unsupported type",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"id": "9", "type": "slides"},
		expectedStatus: http.StatusNotAcceptable,
		expectedErrors: []string{"field 'type' has an unsupported value"},
	},
	{
		name:           "Missing id",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"title": "No id"},
		expectedStatus: http.StatusNotAcceptable,
		expectedErrors: []string{"invalid document id"},
	},
}

func TestOpenDocument(t *testing.T) {
	for _, testCase := range openDocumentTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			runTestCase(t, http.MethodPost, "/api/documents/open", testCase)
		})
	}
}

func TestCloseViewer(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert, nil)

	w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/api/documents/open", defaultTestRequestHeaders, map[string]any{"id": "42", "reader": true}, nil)
	assert.Equal(http.StatusOK, w.Code)
	_, open := server.controller.Selection.Current(viewstate.ViewerReader)
	assert.True(open)

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/api/viewers/reader", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal(CloseViewerResponse{Viewer: viewstate.ViewerReader, Closed: true}, decodeTestData[CloseViewerResponse](assert, decodeTestResponse(assert, w)))

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/api/viewers/reader", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.False(decodeTestData[CloseViewerResponse](assert, decodeTestResponse(assert, w)).Closed)

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/api/viewers/projector", nil, nil, nil)
	assert.Equal(http.StatusNotAcceptable, w.Code)
}

var embedTestCases = []testCase{
	{
		name:           "Blocked host",
		queryParams:    map[string]string{"link": "https://pmc.ncbi.nlm.nih.gov/articles/PMC1/"},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			assert.Equal(media.Embed{Blocked: true, URI: "https://pmc.ncbi.nlm.nih.gov/articles/PMC1/"}, decodeTestData[media.Embed](assert, response))
		},
	},
	{
		name:           "Allowed host",
		queryParams:    map[string]string{"link": "https://www.nasa.gov/", "text_proxy": "true"},
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			assert.Equal(media.Embed{Embeddable: true, URI: "https://www.nasa.gov/"}, decodeTestData[media.Embed](assert, response))
		},
	},
	{
		name:           "Missing link",
		expectedStatus: http.StatusNotAcceptable,
		expectedErrors: []string{"missing required field 'link'"},
	},
}

func TestEmbed(t *testing.T) {
	for _, testCase := range embedTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			runTestCase(t, http.MethodGet, "/api/embed", testCase)
		})
	}
}

func generationBackend(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/abstracts/42":
		writeBackendJSON(w, http.StatusOK, map[string]string{"abstract": "Mice lost bone mass in orbit."})
	case "/chat":
		writeBackendJSON(w, http.StatusOK, map[string]string{"content": "Key words: bone, mice"})
	default:
		http.NotFound(w, r)
	}
}

var generationTestCases = []testCase{
	{
		name:           "Insights from abstract",
		backend:        generationBackend,
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			view := decodeTestData[testView](assert, response)
			assert.Equal("results", view.Render)
			assert.JSONEq(`"Key words: bone, mice"`, string(view.Result))
		},
	},
	{
		name:           "No source renders error",
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			view := decodeTestData[testView](assert, response)
			assert.Equal("error", view.Render)
			assert.Equal(reader.ErrNoSource.Error(), view.Error)
		},
	},
}

func TestInsights(t *testing.T) {
	for _, testCase := range generationTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := runTestCase(t, http.MethodPost, "/api/documents/42/insights", testCase)
			require.Equal(t, viewstate.StatusIdle, server.controller.Risks("42").State().Status, "risks are generated separately")
		})
	}
}

func TestRisksWithBody(t *testing.T) {
	runTestCase(t, http.MethodPost, "/api/documents/42/risks", testCase{
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"title": "Bone loss", "link": "https://pmc.ncbi.nlm.nih.gov/articles/PMC42/"},
		backend:        generationBackend,
		expectedStatus: http.StatusOK,
		check: func(assert *require.Assertions, response testResponse) {
			assert.Equal("results", decodeTestData[testView](assert, response).Render)
		},
	})
}

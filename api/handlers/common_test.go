// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/config"
	"github.com/meghashyamc/encarta/db/kvdb"
	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/media"
	"github.com/meghashyamc/encarta/notes"
	"github.com/meghashyamc/encarta/services/assistant"
	"github.com/meghashyamc/encarta/services/index"
	"github.com/meghashyamc/encarta/services/reader"
	"github.com/meghashyamc/encarta/services/search"
	"github.com/meghashyamc/encarta/validation"
	"github.com/meghashyamc/encarta/viewstate"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name           string
	requestHeaders map[string]string
	requestBody    map[string]any
	queryParams    map[string]string
	backend        http.HandlerFunc
	expectedStatus int
	expectedErrors []string
	check          func(assert *require.Assertions, response testResponse)
}

// testResponse mirrors response with data left undecoded.
type testResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

type testView struct {
	Status string          `json:"status"`
	Render string          `json:"render"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Seq    uint64          `json:"seq"`
}

type testServer struct {
	router     *gin.Engine
	controller *viewstate.Controller
	library    *searchdb.BleveDB
	indexer    *index.Service
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func writeBackendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// setupTestServer wires every handler against a fake backend. A nil backend answers 404 to everything.
func setupTestServer(t *testing.T, assert *require.Assertions, backend http.HandlerFunc) *testServer {

	if backend == nil {
		backend = http.NotFound
	}
	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	tempDir := t.TempDir()
	t.Setenv("STORAGE_PATH", tempDir)
	t.Setenv("KVDB_PATH", filepath.Join(tempDir, "notes.db"))
	t.Setenv("BACKEND_URL", backendServer.URL)

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")
	cfg.Set("chat.local_fallback", false)

	testLogger := newTestLogger()

	client, err := gateway.New(cfg.GetBackendURL(),
		gateway.WithLogger(testLogger),
		gateway.WithTextProxy(backendServer.URL+"/proxy/"),
	)
	assert.NoError(err, "could not create gateway client")

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	indexer := index.New(context.Background(), testLogger, searchDB)
	controller := viewstate.NewController()
	resolver := media.New(media.Config{
		PDFAssets:     cfg.GetPDFAssets(),
		DefaultPDF:    cfg.GetDefaultPDF(),
		Fixtures:      media.Fixtures{Audio: cfg.GetAudioFixture(), Video: cfg.GetVideoFixture()},
		Blocklist:     cfg.GetEmbedBlocklist(),
		TextProxyBase: client.TextProxyBase(),
	})

	searchService := search.New(testLogger, client, indexer, controller)
	assistantService := assistant.New(testLogger, client, searchDB, controller, assistant.WithLocalFallback(cfg.GetChatLocalFallback()))
	readerService := reader.New(testLogger, client, resolver, notes.New(kvDB, testLogger), controller)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")

	SetupSearch(api, testLogger, searchService, client, controller, validator)
	SetupChat(api, testLogger, assistantService, controller, validator)
	SetupDocuments(api, testLogger, readerService, resolver, validator)
	SetupNotes(api, testLogger, readerService, validator)
	SetupView(api, testLogger, controller)
	SetupLibrary(api, testLogger, searchDB, indexer, validator)

	t.Cleanup(func() {
		indexer.Stop()
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return &testServer{router: router, controller: controller, library: searchDB, indexer: indexer}
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func runTestCase(t *testing.T, method string, endpoint string, testCase testCase) *testServer {
	assert := require.New(t)
	server := setupTestServer(t, assert, testCase.backend)

	w := makeTestHTTPRequest(server.router, assert, method, endpoint, testCase.requestHeaders, testCase.requestBody, testCase.queryParams)
	assert.Equal(testCase.expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	response := decodeTestResponse(assert, w)
	assert.Equal(testCase.expectedErrors, response.Errors)
	if testCase.check != nil {
		testCase.check(assert, response)
	}

	return server
}

func decodeTestResponse(assert *require.Assertions, w *httptest.ResponseRecorder) testResponse {
	var response testResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response), "response should be the json envelope")
	return response
}

func decodeTestData[T any](assert *require.Assertions, response testResponse) T {
	var data T
	assert.NoError(json.Unmarshal(response.Data, &data), "could not decode response data")
	return data
}

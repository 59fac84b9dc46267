package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundprediction/patternbase"
	"github.com/soundprediction/patternbase/pkg/config"
	"github.com/soundprediction/patternbase/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: "test",
		},
	}
}

func testClient(t *testing.T) *patternbase.Client {
	t.Helper()
	client := patternbase.NewClient(&patternbase.Options{SweepInterval: -1})
	t.Cleanup(client.Close)

	records := []types.Record{
		&types.Pattern{
			ID: "switch-function", Name: "Switch Function", Category: "conditionals",
			Difficulty: types.DifficultyBeginner, Confidence: 0.9,
			ServerCompatibility: []string{"oxmysql"},
		},
		&types.Pattern{
			ID: "while-loop", Name: "While Loop", Category: "loops",
			Difficulty: types.DifficultyIntermediate,
		},
		&types.Example{ID: "obj-basic", Title: "Basic Object Creation", Category: "objects"},
	}
	for _, rec := range records {
		if err := client.Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	return client
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	srv := New(testConfig(), testClient(t))
	srv.Setup()
	return srv
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	srv := New(cfg, nil)
	if srv == nil {
		t.Fatal("expected non-nil server")
	}
	if srv.config != cfg {
		t.Error("expected config to be set")
	}
}

func TestSetup(t *testing.T) {
	srv := New(testConfig(), nil)
	srv.Setup()

	if srv.router == nil {
		t.Error("expected router to be initialized")
	}
	if srv.server == nil {
		t.Error("expected http.Server to be initialized")
	}

	expectedAddr := "localhost:8080"
	if srv.server.Addr != expectedAddr {
		t.Errorf("expected addr %s, got %s", expectedAddr, srv.server.Addr)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["service"] != "patternbase" {
		t.Errorf("expected service patternbase, got %v", response["service"])
	}
}

func TestReadyEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["records"] != float64(3) {
		t.Errorf("expected 3 records, got %v", response["records"])
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := setupServer(t)

	body, _ := json.Marshal(map[string]interface{}{
		"query": "switch function",
		"limit": 10,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var results types.SearchResults
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results.Patterns) == 0 {
		t.Fatal("expected at least one pattern match")
	}
	if results.Patterns[0].ID != "switch-function" {
		t.Errorf("expected switch-function first, got %s", results.Patterns[0].ID)
	}
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSearchEndpointRejectsNegativeLimit(t *testing.T) {
	srv := setupServer(t)

	body := []byte(`{"query": "loop", "limit": -1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetRecordEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/patterns/switch-function", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestGetRecordEndpointNotFound(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/patterns/missing", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetRecordEndpointBadKind(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/bogus/x", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestDifficultyEndpointValidation(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/difficulty/expert", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown difficulty, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/difficulty/beginner", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestIngestEndpoint(t *testing.T) {
	srv := setupServer(t)

	body := []byte(`{
		"patterns": [{"id": "new-pattern", "name": "New Pattern", "category": "misc"}],
		"examples": [{"title": "New Example"}]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Added int `json:"added"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Success || response.Data.Added != 2 {
		t.Errorf("expected 2 records added, got %+v", response)
	}
}

func TestClearEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/clear", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var stats types.StoreStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.Patterns != 0 || stats.Examples != 0 {
		t.Errorf("expected empty store after clear, got %+v", stats)
	}
}

func TestStatsEndpoints(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("stats: expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("cache stats: expected status 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}

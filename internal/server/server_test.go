package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ziadkadry99/cdp-assistant/internal/db"
	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

func TestHealthCheck(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	srv := New(Config{Port: 0}, database, kb.Default())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || body.Backlog != "ok" {
		t.Errorf("unexpected health %+v", body)
	}
	if body.Platforms != 4 || body.Topics != kb.Default().Len() {
		t.Errorf("expected knowledge base size in health, got %+v", body)
	}
}

func TestHealthCheckWithoutBacklog(t *testing.T) {
	srv := New(Config{}, nil, kb.Default())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var body healthResponse
	json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || body.Backlog != "disabled" {
		t.Errorf("expected ok with disabled backlog, got %d %+v", w.Code, body)
	}
}

func TestHealthCheckClosedDatabase(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	database.Close()

	srv := New(Config{}, database, kb.Default())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, nil, kb.Default())

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestRequestIDAndRecoverer(t *testing.T) {
	srv := New(Config{}, nil, kb.Default())
	srv.Router().Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected recovered 500, got %d", w.Code)
	}
}

func TestTimeoutSkipsWebSocketUpgrade(t *testing.T) {
	var sawDeadline bool
	h := timeoutUnlessUpgrade(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawDeadline = r.Context().Deadline()
	}))

	req := httptest.NewRequest("GET", "/ws/chat", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if sawDeadline {
		t.Error("websocket upgrade should not get a deadline")
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/topics", nil))
	if !sawDeadline {
		t.Error("plain requests should get a deadline")
	}
}

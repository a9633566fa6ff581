package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ecosort/internal/logger"
)

func newTestLogger(t *testing.T) (*logger.Logger, string) {
	t.Helper()

	dir := t.TempDir()
	log, err := logger.New(dir, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(log.Close)
	return log, dir
}

func TestRequestLogger_AssignsID(t *testing.T) {
	log, dir := newTestLogger(t)

	var seen string
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("Expected a UUID request ID, got %q", id)
	}
	if seen != id {
		t.Errorf("Handler saw %q, response carried %q", seen, id)
	}

	data, err := os.ReadFile(filepath.Join(dir, logger.InfoFile))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), id) || !strings.Contains(string(data), "GET /api/state -> 418") {
		t.Errorf("Request not logged: %s", data)
	}
}

func TestRequestLogger_ReusesValidID(t *testing.T) {
	log, _ := newTestLogger(t)
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != incoming {
		t.Errorf("Expected incoming ID to be kept")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) == "not-a-uuid" {
		t.Error("Invalid incoming ID should be replaced")
	}
}

func TestRequestLogger_ServerErrorsGoToErrorLog(t *testing.T) {
	log, dir := newTestLogger(t)
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/submit", nil))

	data, err := os.ReadFile(filepath.Join(dir, logger.ErrorFile))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "POST /submit -> 500") {
		t.Errorf("Expected error log entry, got %s", data)
	}
}

// ABOUTME: Tests for the site probe against httptest servers.
// ABOUTME: Covers JSON descriptors, error statuses, and non-JSON responses.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProbeSite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "Example", "routes": {}}`))
	}))
	defer server.Close()

	if err := ProbeSite(context.Background(), server.URL); err != nil {
		t.Errorf("expected probe to succeed, got %v", err)
	}
}

func TestProbeSiteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nothing here"))
	}))
	defer server.Close()

	err := ProbeSite(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "nothing here") {
		t.Errorf("expected status and body in error, got %v", err)
	}
}

func TestProbeSiteNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an api</html>"))
	}))
	defer server.Close()

	err := ProbeSite(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if !strings.Contains(err.Error(), "JSON API descriptor") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProbeSiteUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := ProbeSite(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	if !strings.Contains(err.Error(), "connection failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

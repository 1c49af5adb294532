package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(origins ...string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return CORS(origins)(next)
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/leads", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return req
}

func TestCORSPreflightAllowedOrigin(t *testing.T) {
	handler := corsHandler("https://app.example.com")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, preflight("https://app.example.com"))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestCORSPreflightDisallowedOrigin(t *testing.T) {
	handler := corsHandler("https://app.example.com")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, preflight("https://evil.example.com"))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("no CORS headers expected, got allow-origin %q", got)
	}
}

func TestCORSWildcardOrigin(t *testing.T) {
	handler := corsHandler("*")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, preflight("https://anywhere.example.com"))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestCORSPassThroughWithoutOrigin(t *testing.T) {
	handler := corsHandler("https://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCORSDisallowedOriginNonPreflightStillServed(t *testing.T) {
	handler := corsHandler("https://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// the browser enforces the missing headers; the request itself passes
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("no CORS headers expected, got allow-origin %q", got)
	}
}

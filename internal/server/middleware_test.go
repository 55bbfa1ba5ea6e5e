package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/iposhala-portal/internal/app"
	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/config"
)

func newTestServer() *Server {
	return &Server{
		app:    &app.App{Config: config.NewDefaultConfig()},
		logger: common.NewSilentLogger(),
	}
}

// --- Correlation ID Middleware ---

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	s := newTestServer()

	var seen string
	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(correlationIDKey).(string)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	got := w.Header().Get("X-Correlation-ID")
	if got == "" {
		t.Fatal("expected X-Correlation-ID header to be generated")
	}
	if seen != got {
		t.Errorf("expected context ID %q to match header %q", seen, got)
	}
}

func TestCorrelationIDMiddleware_UsesRequestID(t *testing.T) {
	s := newTestServer()
	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set("X-Correlation-ID", "corr-456")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "req-123" {
		t.Errorf("expected X-Request-ID to win, got %q", got)
	}
}

func TestCorrelationIDMiddleware_UsesCorrelationID(t *testing.T) {
	s := newTestServer()
	handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Correlation-ID", "corr-456")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "corr-456" {
		t.Errorf("expected corr-456, got %q", got)
	}
}

// --- Recovery Middleware ---

func TestRecoveryMiddleware_CatchesPanic(t *testing.T) {
	s := newTestServer()

	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
}

func TestRecoveryMiddleware_RepanicsAbort(t *testing.T) {
	s := newTestServer()

	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Error("expected ErrAbortHandler to propagate")
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/abort", nil))
}

// --- Logging Middleware ---

func TestLoggingMiddleware_CapturesStatusCode(t *testing.T) {
	s := newTestServer()

	for _, code := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			w.Write([]byte("body"))
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		if w.Code != code {
			t.Errorf("expected status %d, got %d", code, w.Code)
		}
		if w.Body.String() != "body" {
			t.Errorf("expected body to pass through, got %q", w.Body.String())
		}
	}
}

// --- responseWriter ---

func TestResponseWriter_CapturesBytes(t *testing.T) {
	rw := &responseWriter{
		ResponseWriter: httptest.NewRecorder(),
		statusCode:     http.StatusOK,
	}

	data := []byte("hello world")
	n, err := rw.Write(data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("expected %d bytes written, got %d", len(data), n)
	}
	if rw.bytesWritten != len(data) {
		t.Errorf("expected bytesWritten=%d, got %d", len(data), rw.bytesWritten)
	}
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	var _ http.Flusher = rw
	rw.Flush()

	if !rec.Flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}

// --- Security Headers Middleware ---

func TestSecurityHeadersMiddleware_SetsAllHeaders(t *testing.T) {
	s := newTestServer()

	handler := s.securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range expected {
		if got := w.Header().Get(header); got != want {
			t.Errorf("expected %s=%s, got %s", header, want, got)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("expected CSP default-src directive, got %q", csp)
	}
	if !strings.Contains(csp, "https://unpkg.com") {
		t.Errorf("expected CSP to allow the chart library host, got %q", csp)
	}
}

// --- Max Body Size Middleware ---

func TestMaxBodySizeMiddleware_RejectsLargeBody(t *testing.T) {
	s := newTestServer()

	var readErr error
	handler := s.maxBodySizeMiddleware(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(strings.Repeat("x", 100)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("expected error reading a body over the limit")
	}
}

func TestMaxBodySizeMiddleware_AllowsSmallBody(t *testing.T) {
	s := newTestServer()

	var body []byte
	handler := s.maxBodySizeMiddleware(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader("small"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if string(body) != "small" {
		t.Errorf("expected body to pass through, got %q", body)
	}
}

// --- Rate Limit Middleware ---

func TestRateLimitMiddleware_RejectsBurst(t *testing.T) {
	s := newTestServer()
	s.limiter = newClientLimiter(0.001, 2)

	handler := s.rateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/mainboard-ipos", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") != "1" {
			t.Error("expected Retry-After on 429")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	s := newTestServer()
	s.limiter = newClientLimiter(0.001, 1)

	handler := s.rateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"10.0.0.1:5000", "10.0.0.2:5000"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected first request from %s to pass, got %d", addr, w.Code)
		}
	}
}

func TestRateLimitMiddleware_ExemptPaths(t *testing.T) {
	s := newTestServer()
	s.limiter = newClientLimiter(0.001, 1)

	handler := s.rateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/static/css/portal.css", "/api/health"} {
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", path, nil)
			req.RemoteAddr = "10.0.0.1:5000"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("expected %s to be exempt, got %d", path, w.Code)
			}
		}
	}
}

func TestRateLimitMiddleware_DisabledWithoutLimiter(t *testing.T) {
	s := newTestServer()

	handler := s.rateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected no limiting, got %d on request %d", w.Code, i)
		}
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:43210"
	if got := clientKey(req); got != "192.168.1.5" {
		t.Errorf("expected host only, got %q", got)
	}

	req.RemoteAddr = "192.168.1.5"
	if got := clientKey(req); got != "192.168.1.5" {
		t.Errorf("expected bare address, got %q", got)
	}
}

func TestNewClientLimiter_MinimumBurst(t *testing.T) {
	l := newClientLimiter(1, 0)
	if l.burst != 1 {
		t.Errorf("expected burst floor of 1, got %d", l.burst)
	}
	if !l.allow("a") {
		t.Error("expected first request to be allowed")
	}
}

// --- Full chain ---

func TestMiddlewareChain_CORSPreflight(t *testing.T) {
	s := newTestServer()
	r := chi.NewRouter()
	s.useMiddleware(r)
	r.Post("/mcp", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("OPTIONS", "/mcp", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Mcp-Session-Id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin=*, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("expected POST in allowed methods, got %q", got)
	}
}

func TestMiddlewareChain_PanicStillCorrelated(t *testing.T) {
	s := newTestServer()
	r := chi.NewRouter()
	s.useMiddleware(r)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected correlation ID on error responses")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected security headers on error responses")
	}
}

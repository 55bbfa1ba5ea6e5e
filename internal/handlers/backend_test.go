package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/iposhala-portal/internal/client"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
)

// reply is a canned backend response.
type reply struct {
	status int
	body   string
}

// fakeBackend serves canned JSON by request URI, falling back to the path.
// Unknown routes answer 404 with a message body, like the real backend.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]reply
	hits   map[string]int
}

func newFakeBackend(t *testing.T, routes map[string]string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{routes: make(map[string]reply), hits: make(map[string]int)}
	for k, v := range routes {
		fb.routes[k] = reply{status: http.StatusOK, body: v}
	}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) set(path string, status int, body string) {
	fb.mu.Lock()
	fb.routes[path] = reply{status: status, body: body}
	fb.mu.Unlock()
}

func (fb *fakeBackend) count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[path]
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.hits[r.URL.Path]++
	rep, ok := fb.routes[r.URL.RequestURI()]
	if !ok {
		rep, ok = fb.routes[r.URL.Path]
	}
	fb.mu.Unlock()

	if !ok {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

func newPageHandlerFor(t *testing.T, backendURL string) (*PageHandler, *listings.Service) {
	t.Helper()
	svc, err := listings.NewService(client.New(backendURL, nil), time.Minute, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("failed to create listing service: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return NewPageHandler(nil, false, svc), svc
}

func newDetailRouter(t *testing.T, backendURL string) (http.Handler, *company.Sessions) {
	t.Helper()
	c := client.New(backendURL, nil)
	sessions := company.NewSessions(c, nil, time.Hour, 100)
	h := NewDetailHandler(nil, false, c, sessions)

	r := chi.NewRouter()
	r.Get("/ipo/{symbol}", h.ServeHTTP)
	r.Get("/api/ipo/{symbol}/tab/{tab}", h.ServeTab)
	r.Get("/docs/{symbol}/{doc_type}", h.ServeDocument)
	return r, sessions
}

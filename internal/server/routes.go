package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/iposhala-portal/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()
	s.useMiddleware(r)

	pages := s.app.PageHandler
	detail := s.app.DetailHandler

	// UI page routes (HTML templates)
	r.Get("/", pages.ServeHome)
	for _, page := range handlers.ListingPages {
		r.Get(page.Path, pages.ServeListing(page))
	}
	r.Get("/gmp", pages.ServeGMP)
	r.Get("/gmp-tracker", pages.ServeGMP)
	r.Get("/subscription-status", pages.ServeSubscriptionStatus)
	r.Get("/allotment-status", pages.ServeAllotmentStatus)
	r.Get("/listing-performance", pages.ServeListingPerformance)
	r.Get("/search", pages.ServeSearch)
	r.Get("/ipo/{symbol}", detail.ServeHTTP)
	r.Get("/docs/{symbol}/{doc_type}", detail.ServeDocument)

	// Static files (CSS, JS, images)
	r.Get("/static/*", pages.StaticFileHandler)

	// MCP endpoint (streamable HTTP, stateless)
	if s.app.MCPHandler != nil {
		r.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.app.HealthHandler.ServeHTTP)
		r.Get("/version", s.app.VersionHandler.ServeHTTP)
		r.Get("/server-health", s.app.ServerHealthHandler.ServeHTTP)
		r.Get("/ipo/{symbol}/tab/{tab}", detail.ServeTab)

		// JSON 404 for unmatched API routes
		r.NotFound(s.handleNotFound)
	})

	r.NotFound(pages.ServeNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

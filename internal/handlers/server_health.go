package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/iposhala-portal/internal/common"
)

// ServerHealthHandler checks the upstream IPO backend.
type ServerHealthHandler struct {
	logger *common.Logger
	apiURL string
	client *http.Client
}

// NewServerHealthHandler creates a new server health handler.
func NewServerHealthHandler(logger *common.Logger, apiURL string) *ServerHealthHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &ServerHealthHandler{logger: logger, apiURL: apiURL, client: &http.Client{}}
}

// ServeHTTP handles GET /api/server-health. The backend has no health route
// of its own, so the stats listing doubles as the health check.
func (h *ServerHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, "GET", h.apiURL+"/api/ipos/stats", nil)
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn().Str("api_url", h.apiURL).Str("error", err.Error()).Msg("backend health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"latency_ms": time.Since(start).Milliseconds(),
		})
		return
	}

	h.logger.Warn().Str("api_url", h.apiURL).Int("status", resp.StatusCode).Msg("backend health check failed")
	WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
}

package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Listings is the cached listing source the pages read from.
// *listings.Service satisfies it.
type Listings interface {
	Closed(ctx context.Context, ipoType string) ([]models.IPO, error)
	Live(ctx context.Context) ([]models.IPO, error)
	Upcoming(ctx context.Context) ([]models.IPO, error)
	Stats(ctx context.Context) (*models.Stats, error)
	GMP(ctx context.Context) ([]models.GMPEntry, error)
	Search(query string, limit int) ([]listings.Hit, error)
}

// PageHandler serves the listing pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	devMode   bool
	listings  Listings
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool, source Listings) *PageHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &PageHandler{
		logger:    logger,
		templates: loadTemplates(),
		devMode:   devMode,
		listings:  source,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

func (h *PageHandler) baseData(page, title string) map[string]interface{} {
	return map[string]interface{}{
		"Page":    page,
		"Title":   title,
		"DevMode": h.devMode,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, templateName string, data map[string]interface{}) {
	renderTemplate(w, h.logger, h.templates, status, templateName, data)
}

// renderTemplate executes templateName into a buffer first so a template
// error still produces a clean 500.
func renderTemplate(w http.ResponseWriter, logger *common.Logger, t *template.Template, status int, templateName string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, templateName, data); err != nil {
		logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ServeHome renders the home page: stats, live and upcoming issues.
// Each section fails on its own.
func (h *PageHandler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if r.URL.Path != "/" {
		h.ServeNotFound(w, r)
		return
	}

	var (
		stats             *models.Stats
		live, upcoming    []models.IPO
		statsErr, liveErr error
		upcomingErr       error
		g                 errgroup.Group
		ctx               = r.Context()
	)
	g.Go(func() error {
		stats, statsErr = h.listings.Stats(ctx)
		return nil
	})
	g.Go(func() error {
		live, liveErr = h.listings.Live(ctx)
		return nil
	})
	g.Go(func() error {
		upcoming, upcomingErr = h.listings.Upcoming(ctx)
		return nil
	})
	_ = g.Wait()

	data := h.baseData("home", "IPOshala - Home")
	data["Stats"] = stats
	data["StatsError"] = errText(statsErr)
	data["Live"] = ipoRows(live)
	data["LiveError"] = errText(liveErr)
	data["Upcoming"] = ipoRows(upcoming)
	data["UpcomingError"] = errText(upcomingErr)

	h.render(w, http.StatusOK, "home.html", data)
}

// ServeNotFound renders the 404 page.
func (h *PageHandler) ServeNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "notfound.html", h.baseData("notfound", "Page not found - IPOshala"))
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}

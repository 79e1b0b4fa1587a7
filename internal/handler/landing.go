package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// LandingHandler serves the static landing page.
//
// Templates are parsed once at construction and reused on every request.
// base.html defines the page shell with a {{template "content" .}} slot;
// landing.html fills it.
type LandingHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewLandingHandler parses the landing templates from templateDir.
func NewLandingHandler(templateDir string, logger *slog.Logger) (*LandingHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "landing.html"),
	)
	if err != nil {
		return nil, err
	}

	return &LandingHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleLanding renders the landing page. It is registered both for GET /
// and as the router's NotFound handler: every path that isn't /auth gets
// this page.
func (h *LandingHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Patchwork Auth",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render landing template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Package web serves the demo's single-page UI: a case-study picker, a
// token-budget control, and output areas for the reasoning trace, token
// usage, and final answer.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
)

//go:embed index.html.tmpl
var templates embed.FS

type caseView struct {
	Name        string
	Description string
	Prompt      string
	Budgets     []int
}

type pageData struct {
	Cases         []caseView
	DefaultBudget int
	MaxBudget     int
}

// Handler renders the index page.
type Handler struct {
	tmpl *template.Template
	data pageData
	log  *zap.Logger
}

// NewHandler parses the embedded template and snapshots the catalog.
func NewHandler(catalog *casestudy.Catalog, defaultBudget, maxBudget int, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templates, "index.html.tmpl")
	if err != nil {
		return nil, err
	}

	data := pageData{DefaultBudget: defaultBudget, MaxBudget: maxBudget}
	for _, name := range catalog.Names() {
		c, _ := catalog.Get(name)
		data.Cases = append(data.Cases, caseView{
			Name:        c.Name,
			Description: c.Description,
			Prompt:      c.Prompt,
			Budgets:     c.SuggestedBudgets(),
		})
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{tmpl: tmpl, data: data, log: logger}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, h.data); err != nil {
		h.log.Warn("render index", zap.Error(err))
	}
}

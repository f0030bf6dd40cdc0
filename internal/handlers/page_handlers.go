// File: internal/handlers/page_handlers.go
package handlers

import (
	"html/template"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"github.com/iyunix/go-chatview/internal/services"
)

const pageTemplate = "page.html"

// PageHandler serves the page shell and the raw fragment templates the
// client instantiates.
type PageHandler struct {
	fs     afero.Fs
	title  string
	logger services.Logger

	once    sync.Once
	page    *template.Template
	pageErr error
}

func NewPageHandler(fs afero.Fs, title string, logger services.Logger) *PageHandler {
	return &PageHandler{fs: fs, title: title, logger: logger}
}

// loadPage parses the page shell once.
func (h *PageHandler) loadPage() (*template.Template, error) {
	h.once.Do(func() {
		raw, err := afero.ReadFile(h.fs, pageTemplate)
		if err != nil {
			h.pageErr = err
			return
		}
		h.page, h.pageErr = template.New(pageTemplate).Parse(string(raw))
	})
	return h.page, h.pageErr
}

func (h *PageHandler) ShowIndexPage(w http.ResponseWriter, r *http.Request) {
	addSecurityHeaders(w)

	t, err := h.loadPage()
	if err != nil {
		h.logger.Error("page template unavailable", "error", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, map[string]interface{}{"Title": h.title}); err != nil {
		h.logger.Error("template render error", "template", pageTemplate, "error", err)
	}
}

// ServeTemplate returns a template's raw markup. The name may be given with
// or without the .html suffix.
func (h *PageHandler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		writeError(w, "Template not found", http.StatusNotFound)
		return
	}
	if path.Ext(name) == "" {
		name += ".html"
	}

	raw, err := afero.ReadFile(h.fs, name)
	if err != nil {
		h.logger.Debug("template not found", "name", name, "error", err)
		writeError(w, "Template not found", http.StatusNotFound)
		return
	}

	addSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

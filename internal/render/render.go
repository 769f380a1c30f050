// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render handles HTML template rendering with per-page
// template sets parsed from the embedded filesystem.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	csrf "filippo.io/csrf/gorilla"
	"github.com/shopspring/decimal"

	"github.com/tntware/catalog-admin/internal/model"
	"github.com/tntware/catalog-admin/internal/notify"
)

// Renderer handles template rendering.
type Renderer struct {
	templates    map[string]*template.Template
	flashes      *notify.FlashSink
	assetBaseURL string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS  fs.FS
	Flashes      *notify.FlashSink
	AssetBaseURL string
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:    make(map[string]*template.Template),
		flashes:      cfg.Flashes,
		assetBaseURL: cfg.AssetBaseURL,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates parses all templates from the filesystem. Dashboard
// pages compose base + dashboard layouts; auth pages use the base
// layout only.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	baseLayout := "layouts/base.html"
	dashboardLayout := "layouts/dashboard.html"

	dashboardPages, err := r.templateFiles(templatesFS, "dashboard")
	if err != nil {
		return fmt.Errorf("getting dashboard templates: %w", err)
	}
	for _, tmplPath := range dashboardPages {
		name := "dashboard/" + strings.TrimSuffix(filepath.Base(tmplPath), ".html")

		files := []string{baseLayout, dashboardLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	authPages, err := r.templateFiles(templatesFS, "auth")
	if err != nil {
		return fmt.Errorf("getting auth templates: %w", err)
	}
	for _, tmplPath := range authPages {
		name := "auth/" + strings.TrimSuffix(filepath.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return nil
}

// templateFiles returns all .html files in a directory.
func (r *Renderer) templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist yet, that's ok
		return files, nil
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"money": func(d decimal.Decimal) string {
			return model.FormatPrice(d)
		},
		"imageURL": func(storedPath string) string {
			return model.ResolveImageURL(storedPath, r.assetBaseURL)
		},
		"imageName": func(storedPath string) string {
			return model.ImageDisplayName(storedPath)
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title         string
	Data          any
	Notifications []notify.Notification
	CurrentUser   *model.User
	CurrentYear   int
	CSRFToken     string
}

// Render renders a template with the given data, popping any pending
// toast notifications for this session.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.CSRFToken = csrf.Token(req)
	if r.flashes != nil {
		data.Notifications = append(r.flashes.Pop(req.Context()), data.Notifications...)
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	return nil
}

package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/detail"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/session"
	webembed "github.com/ykchoudhary110/Communtity-Fridge/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statusLabel": func(status string) string {
			switch model.ParseStatus(status) {
			case model.StatusAvailable:
				return "Available"
			case model.StatusLow:
				return "Low"
			case model.StatusNeedsCleaning:
				return "Needs cleaning"
			case model.StatusUnavailable:
				return "Unavailable"
			default:
				return "Unknown"
			}
		},
		"statusClass": func(status string) string {
			switch model.ParseStatus(status) {
			case model.StatusAvailable:
				return "status-available"
			case model.StatusLow:
				return "status-low"
			case model.StatusNeedsCleaning:
				return "status-needs-cleaning"
			case model.StatusUnavailable:
				return "status-unavailable"
			default:
				return "status-unknown"
			}
		},
		"fmtTime": func(t time.Time) string {
			return t.Local().Format("2 Jan 2006 15:04")
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"signup.html",
		"fridges.html",
		"fridge_detail.html",
		"fridge_new.html",
		"fridge_edit.html",
		"not_found.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Identity
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB         *sql.DB
	Templates  *Templates
	Sessions   *session.Store
	Fetcher    *poll.Fetcher
	Controller *detail.Controller
}

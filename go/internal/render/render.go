// Package render turns view state into HTML: full pages with the navigation
// header, and fragments that replace the content of the view container.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/octofit/dashboard/go/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NavLink is one entry of the navigation header.
type NavLink struct {
	Path   string
	Label  string
	Active bool
}

// Page is the data of a full document.
type Page struct {
	Title   string
	Brand   string
	Nav     []NavLink
	View    string
	Live    bool
	SyncURL string
	Content template.HTML
}

type Renderer struct {
	tmpl      *template.Template
	dashboard config.Dashboard
}

func New(dashboard config.Dashboard) (*Renderer, error) {
	tmpl, err := template.New("octofit").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, dashboard: dashboard}, nil
}

// Fragment writes the view container content of f.
func (r *Renderer) Fragment(w io.Writer, f Fragment) error {
	if err := r.tmpl.ExecuteTemplate(w, f.TemplateName(), f); err != nil {
		return fmt.Errorf("failed to render %s: %w", f.TemplateName(), err)
	}
	return nil
}

// FragmentString renders f into a string, as sent over live connections.
func (r *Renderer) FragmentString(f Fragment) (string, error) {
	var buf bytes.Buffer
	if err := r.Fragment(&buf, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Home writes the landing page.
func (r *Renderer) Home(w io.Writer) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "home", r.dashboard); err != nil {
		return fmt.Errorf("failed to render home: %w", err)
	}
	return r.page(w, Page{Title: r.dashboard.Title, Content: template.HTML(buf.String())})
}

// Shell writes the page of a live view. The container starts with the
// loading fragment and is filled over the live connection.
func (r *Renderer) Shell(w io.Writer, view string, loading Fragment) error {
	content, err := r.FragmentString(loading)
	if err != nil {
		return err
	}
	return r.page(w, Page{
		Title:   NavLabel(view) + " | " + r.dashboard.Title,
		View:    view,
		Live:    true,
		SyncURL: "/" + view + "?sync=1",
		Content: template.HTML(content),
	})
}

// Static writes a full page around an already settled fragment.
func (r *Renderer) Static(w io.Writer, view string, f Fragment) error {
	content, err := r.FragmentString(f)
	if err != nil {
		return err
	}
	return r.page(w, Page{
		Title:   NavLabel(view) + " | " + r.dashboard.Title,
		View:    view,
		Content: template.HTML(content),
	})
}

func (r *Renderer) page(w io.Writer, p Page) error {
	p.Brand = r.dashboard.Title
	p.Nav = make([]NavLink, 0, len(NavOrder))
	for _, name := range NavOrder {
		p.Nav = append(p.Nav, NavLink{Path: "/" + name, Label: NavLabel(name), Active: name == p.View})
	}
	if err := r.tmpl.ExecuteTemplate(w, "layout", p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

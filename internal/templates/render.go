// Package templates handles HTML fragment rendering for the viewer's
// Datastar SSE responses.
package templates

import (
	"bytes"
	"html/template"
	"io"
	"path/filepath"
	"sync"
)

// Renderer manages the viewer's HTML fragment templates (legend items,
// species popups, month options).
type Renderer struct {
	templates *template.Template
	mu        sync.RWMutex
}

// New creates a renderer from the fragment templates in fragmentsDir,
// typically web/templates/fragments/.
func New(fragmentsDir string) (*Renderer, error) {
	pattern := filepath.Join(fragmentsDir, "*.html")
	tmpl, err := template.New("").ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToBuffer renders a named template into w. Errors are swallowed;
// a missing fragment produces empty output rather than a broken stream.
func (r *Renderer) RenderToBuffer(w io.Writer, name string, data any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_ = r.templates.ExecuteTemplate(w, name, data)
}

// Reload reloads templates from disk (useful for dev hot-reload).
func (r *Renderer) Reload(fragmentsDir string) error {
	pattern := filepath.Join(fragmentsDir, "*.html")
	tmpl, err := template.New("").ParseGlob(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.templates = tmpl
	r.mu.Unlock()

	return nil
}

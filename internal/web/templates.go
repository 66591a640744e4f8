package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sgx-labs/folio/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home.html", "list.html", "detail.html", "status.html"}

// pageSet holds one template tree per page, each sharing the layout and
// partials.
type pageSet struct {
	pages map[string]*template.Template
}

func parsePages() (*pageSet, error) {
	base, err := template.New("").Funcs(template.FuncMap{
		"typeLabel": catalog.TypeLabel,
	}).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, err
	}
	ps := &pageSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ps.pages[name] = t
	}
	return ps, nil
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (ps *pageSet) render(w http.ResponseWriter, code int, name string, data any) error {
	t, ok := ps.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
	return nil
}

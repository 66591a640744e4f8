package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
)

// Component renders one tag. children is the already rendered body between
// the open and close tags, empty for self-closing tags.
type Component func(p Props, children template.HTML) (template.HTML, error)

// Registry maps component names to renderers.
type Registry struct {
	components map[string]Component
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// DefaultRegistry holds the components content files may use: Callout,
// Figure, Kpi and PhaseGrid.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("Callout", renderCallout)
	r.Register("Figure", renderFigure)
	r.Register("Kpi", renderKpi)
	r.Register("PhaseGrid", renderPhaseGrid)
	return r
}

// Register adds or replaces a component.
func (r *Registry) Register(name string, c Component) {
	r.components[name] = c
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names lists registered components in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for n := range r.components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var componentTemplates = template.Must(template.New("components").Parse(`
{{define "callout"}}<aside class="callout">{{if .Title}}<div class="callout-title">{{.Title}}</div>{{end}}<div class="callout-body">{{.Body}}</div></aside>{{end}}
{{define "figure"}}<figure class="figure"><div class="figure-frame"><img src="{{.Src}}" alt="{{.Alt}}" width="{{.Width}}" height="{{.Height}}" loading="lazy"></div>{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>{{end}}
{{define "kpi"}}<div class="kpi-grid">{{range .}}<div class="kpi"><div class="kpi-label">{{.Label}}</div><div class="kpi-value">{{.Value}}</div></div>{{end}}</div>{{end}}
{{define "phasegrid"}}<section class="phase-grid">{{if .Title}}<h3>{{.Title}}</h3>{{end}}<div class="phase-row">{{range .Items}}<div class="{{.Class}}"><div class="phase-title">{{.Title}}</div>{{if .Description}}<div class="phase-description">{{.Description}}</div>{{end}}</div>{{end}}</div></section>{{end}}
`))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := componentTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func renderCallout(p Props, children template.HTML) (template.HTML, error) {
	return execute("callout", struct {
		Title string
		Body  template.HTML
	}{p.String("title"), children})
}

func renderFigure(p Props, _ template.HTML) (template.HTML, error) {
	if p.String("src") == "" {
		return "", fmt.Errorf("missing required prop src")
	}
	if !p.Has("alt") {
		return "", fmt.Errorf("missing required prop alt")
	}
	return execute("figure", struct {
		Src, Alt, Caption string
		Width, Height     int
	}{
		Src:     p.String("src"),
		Alt:     p.String("alt"),
		Caption: p.String("caption"),
		Width:   p.Int("width", 1400),
		Height:  p.Int("height", 800),
	})
}

type kpiItem struct {
	Label, Value string
}

func renderKpi(p Props, _ template.HTML) (template.HTML, error) {
	if !p.Has("items") {
		return "", fmt.Errorf("missing required prop items")
	}
	var items []kpiItem
	for _, it := range p.List("items") {
		items = append(items, kpiItem{Label: it.String("label"), Value: it.String("value")})
	}
	return execute("kpi", items)
}

type phaseItem struct {
	Title, Description, Class string
}

func renderPhaseGrid(p Props, _ template.HTML) (template.HTML, error) {
	if !p.Has("items") {
		return "", fmt.Errorf("missing required prop items")
	}
	var items []phaseItem
	for _, it := range p.List("items") {
		items = append(items, phaseItem{
			Title:       it.String("title"),
			Description: it.String("description"),
			Class:       toneClass(it.String("tone")),
		})
	}
	return execute("phasegrid", struct {
		Title string
		Items []phaseItem
	}{p.String("title"), items})
}

func toneClass(tone string) string {
	if tone == "" {
		return "tone"
	}
	return "tone tone-" + tone
}

// Package render turns an item body (markdown with embedded component
// tags) into HTML. Component tags are checked against a Registry before
// anything is rendered.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// UnknownComponentError is returned when a body uses a tag that is not in
// the registry.
type UnknownComponentError struct {
	Name string
	Line int
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("line %d: unknown component <%s>", e.Line, e.Name)
}

// ComponentError wraps a failure inside a registered component.
type ComponentError struct {
	Name string
	Line int
	Err  error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("line %d: <%s>: %v", e.Line, e.Name, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }

// Renderer renders bodies. It is safe for concurrent use once built.
type Renderer struct {
	md  goldmark.Markdown
	reg *Registry
}

// New returns a renderer for the components in reg. A nil reg means
// DefaultRegistry.
func New(reg *Registry) *Renderer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, reg: reg}
}

// Validate checks every component tag in body, including nested ones,
// without rendering anything.
func (r *Renderer) Validate(body string) error {
	tags, err := scanTags(body)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if _, ok := r.reg.Lookup(t.name); !ok {
			return &UnknownComponentError{Name: t.name, Line: t.line}
		}
		if t.children != "" {
			if err := r.Validate(t.children); err != nil {
				return offsetLine(err, t.line-1)
			}
		}
	}
	return nil
}

// Render validates body and returns its HTML.
func (r *Renderer) Render(body string) (template.HTML, error) {
	if err := r.Validate(body); err != nil {
		return "", err
	}
	return r.render(body, 0)
}

func (r *Renderer) render(body string, lineOffset int) (template.HTML, error) {
	tags, err := scanTags(body)
	if err != nil {
		return "", offsetLine(err, lineOffset)
	}

	// Each component is swapped for an HTML comment placeholder, the
	// markdown is converted, and then placeholders are replaced with the
	// component output.
	var src strings.Builder
	rendered := make([]template.HTML, len(tags))
	last := 0
	for i, t := range tags {
		comp, _ := r.reg.Lookup(t.name)
		var children template.HTML
		if strings.TrimSpace(t.children) != "" {
			children, err = r.render(t.children, lineOffset+t.line-1)
			if err != nil {
				return "", err
			}
		}
		out, err := comp(t.props, children)
		if err != nil {
			return "", &ComponentError{Name: t.name, Line: lineOffset + t.line, Err: err}
		}
		rendered[i] = out

		src.WriteString(body[last:t.start])
		src.WriteString(placeholder(i))
		last = t.end
	}
	src.WriteString(body[last:])

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	html := buf.String()
	for i, out := range rendered {
		html = strings.Replace(html, placeholder(i), string(out), 1)
	}
	return template.HTML(html), nil
}

func placeholder(i int) string {
	return fmt.Sprintf("<!--folio-component-%d-->", i)
}

func offsetLine(err error, by int) error {
	if by == 0 {
		return err
	}
	switch e := err.(type) {
	case *UnknownComponentError:
		return &UnknownComponentError{Name: e.Name, Line: e.Line + by}
	case *TagError:
		return &TagError{Name: e.Name, Line: e.Line + by, Msg: e.Msg}
	}
	return err
}

package render

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// tag is one component occurrence in a body.
type tag struct {
	name     string
	props    Props
	children string
	start    int // offset of '<'
	end      int // offset just past the closing '>'
	line     int
}

// TagError reports a component tag that could not be parsed.
type TagError struct {
	Name string
	Line int
	Msg  string
}

func (e *TagError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: <%s>: %s", e.Line, e.Name, e.Msg)
}

// scanTags finds the top-level component tags in src. A component tag is
// '<' followed by an upper-case letter. Fenced code blocks and inline code
// spans are skipped. Nested components stay inside the children text.
func scanTags(src string) ([]tag, error) {
	var tags []tag
	inFence := false
	fence := ""
	lineStart := true

	for i := 0; i < len(src); {
		if lineStart {
			lineStart = false
			eol := strings.IndexByte(src[i:], '\n')
			line := src[i:]
			if eol >= 0 {
				line = src[i : i+eol]
			}
			trimmed := strings.TrimSpace(line)
			if inFence {
				if strings.HasPrefix(trimmed, fence) {
					inFence = false
				}
				if eol < 0 {
					break
				}
				i += eol + 1
				lineStart = true
				continue
			}
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				inFence = true
				fence = trimmed[:3]
				if eol < 0 {
					break
				}
				i += eol + 1
				lineStart = true
				continue
			}
		}

		switch c := src[i]; {
		case c == '\n':
			lineStart = true
			i++
		case c == '`':
			n := runLength(src[i:], '`')
			if end := strings.Index(src[i+n:], strings.Repeat("`", n)); end >= 0 {
				i += n + end + n
			} else {
				i += n
			}
		case c == '<' && i+1 < len(src) && isUpper(src[i+1]):
			t, err := parseTag(src, i)
			if err != nil {
				return nil, err
			}
			tags = append(tags, t)
			i = t.end
		default:
			i++
		}
	}
	return tags, nil
}

// parseTag parses the tag opening at src[start] and, unless it is
// self-closing, its children up to the matching close tag.
func parseTag(src string, start int) (tag, error) {
	line := 1 + strings.Count(src[:start], "\n")
	name, props, end, selfClosing, err := parseOpen(src, start, line)
	if err != nil {
		return tag{}, err
	}
	t := tag{name: name, props: props, start: start, end: end, line: line}
	if selfClosing {
		return t, nil
	}

	closeTag := "</" + name + ">"
	depth := 0
	for i := end; i < len(src); {
		next := strings.Index(src[i:], "<"+name)
		cl := strings.Index(src[i:], closeTag)
		if cl < 0 {
			return tag{}, &TagError{Name: name, Line: line, Msg: "missing " + closeTag}
		}
		if next >= 0 && next < cl && boundary(src, i+next+1+len(name)) {
			_, _, innerEnd, innerSelf, err := parseOpen(src, i+next, line)
			if err != nil {
				return tag{}, err
			}
			if !innerSelf {
				depth++
			}
			i = innerEnd
			continue
		}
		if depth == 0 {
			t.children = src[end : i+cl]
			t.end = i + cl + len(closeTag)
			return t, nil
		}
		depth--
		i += cl + len(closeTag)
	}
	return tag{}, &TagError{Name: name, Line: line, Msg: "missing " + closeTag}
}

// parseOpen parses "<Name attr=... >" or "<Name ... />" starting at src[start].
func parseOpen(src string, start, line int) (name string, props Props, end int, selfClosing bool, err error) {
	i := start + 1
	for i < len(src) && isNameByte(src[i]) {
		i++
	}
	name = src[start+1 : i]
	props = Props{}

	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: "unterminated tag"}
		}
		switch {
		case strings.HasPrefix(src[i:], "/>"):
			return name, props, i + 2, true, nil
		case src[i] == '>':
			return name, props, i + 1, false, nil
		}

		attrStart := i
		for i < len(src) && isNameByte(src[i]) {
			i++
		}
		if i == attrStart {
			return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: fmt.Sprintf("unexpected %q", src[i])}
		}
		attr := src[attrStart:i]
		i = skipSpace(src, i)
		if i >= len(src) || src[i] != '=' {
			props[attr] = true
			continue
		}
		i = skipSpace(src, i+1)
		if i >= len(src) {
			return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: "missing value for " + attr}
		}

		switch q := src[i]; q {
		case '"', '\'':
			closeAt := strings.IndexByte(src[i+1:], q)
			if closeAt < 0 {
				return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: "unterminated string for " + attr}
			}
			props[attr] = src[i+1 : i+1+closeAt]
			i += closeAt + 2
		case '{':
			exprEnd, ok := matchBrace(src, i)
			if !ok {
				return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: "unbalanced braces in " + attr}
			}
			v, err := parseExpr(src[i+1 : exprEnd])
			if err != nil {
				return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: fmt.Sprintf("%s: %v", attr, err)}
			}
			props[attr] = v
			i = exprEnd + 1
		default:
			return "", nil, 0, false, &TagError{Name: name, Line: line, Msg: "value of " + attr + " must be quoted or in braces"}
		}
	}
}

// parseExpr decodes a prop expression such as 1400, "text" or
// [{ label: "Users", value: "1.2k" }]. Object keys may be unquoted and
// trailing commas are allowed.
func parseExpr(expr string) (any, error) {
	expr = normalizeExpr(strings.TrimSpace(expr))
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	var v any
	if err := yaml.Unmarshal([]byte(expr), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalizeExpr drops trailing commas before a closing bracket and puts a
// space after each key colon so the text reads as a YAML flow value.
// Quoted strings are copied unchanged.
func normalizeExpr(s string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			b.WriteByte(c)
		case ',':
			j := skipSpace(s, i+1)
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
			b.WriteByte(c)
		case ':':
			b.WriteByte(c)
			if i+1 < len(s) && !unicode.IsSpace(rune(s[i+1])) {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// matchBrace returns the index of the '}' closing the '{' at src[open].
func matchBrace(src string, open int) (int, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func boundary(src string, i int) bool {
	return i >= len(src) || !isNameByte(src[i])
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

package hints

import (
	"fmt"
	"strings"
)

// Template placeholder indexes, in the order the hint marker receives them.
const (
	PlaceholderHint      = 0
	PlaceholderCanonical = 1
	PlaceholderSurface   = 2
)

// DefaultTemplate marks the matched text with the hint as a tooltip.
const DefaultTemplate = `<span class="hint" title="{0}">{2}</span>`

// Template is a parsed hint marker such as
//
//	<span class="hint" data-base="{1}" title="{0}">{2}</span>
//
// {0} is the hint text, {1} the canonical form and {2} the matched text.
// "{{" and "}}" stand for literal braces.
type Template struct {
	raw   string
	parts []templatePart
}

type templatePart struct {
	text string
	arg  int // -1 for literal text
}

// ParseTemplate parses a hint marker template.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{text: lit.String(), arg: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			if i+2 >= len(s) || s[i+2] != '}' || s[i+1] < '0' || s[i+1] > '2' {
				return nil, fmt.Errorf("%w: placeholder at offset %d in %q", ErrBadTemplate, i, s)
			}
			flush()
			t.parts = append(t.parts, templatePart{arg: int(s[i+1] - '0')})
			i += 2
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: single '}' at offset %d in %q", ErrBadTemplate, i, s)
		default:
			lit.WriteByte(s[i])
		}
	}
	flush()
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(s string) *Template {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Render fills the template for one occurrence.
func (t *Template) Render(o Occurrence) string {
	args := [3]string{
		PlaceholderHint:      o.Hint,
		PlaceholderCanonical: o.Canonical,
		PlaceholderSurface:   o.Surface,
	}
	var b strings.Builder
	for _, p := range t.parts {
		if p.arg < 0 {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(args[p.arg])
	}
	return b.String()
}

func (t *Template) String() string {
	return t.raw
}

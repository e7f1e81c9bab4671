package hints

import (
	"sort"
	"unicode/utf8"
)

// Rewrite replaces every occurrence's word span with the rendered template.
// Occurrences are applied from the highest start offset down, so a splice
// never moves an offset that is still to be applied.
//
// Splicing works on character positions. Occurrences of different terms may
// straddle each other; the earlier one then ends inside the marker already
// inserted for the later one and cuts it at a character, never inside one.
func Rewrite(text string, occs []Occurrence, tmpl *Template) string {
	if len(occs) == 0 {
		return text
	}
	ordered := make([]Occurrence, len(occs))
	copy(ordered, occs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	out := []rune(text)
	for _, o := range ordered {
		start, end := runeOffset(text, o.Start), runeOffset(text, o.End)
		out = splice(out, start, end, tmpl.Render(o))
	}
	return string(out)
}

// runeOffset converts a byte offset into text to a character offset.
func runeOffset(text string, off int) int {
	return utf8.RuneCountInString(text[:min(max(off, 0), len(text))])
}

// splice replaces text[start:end], clamping both ends to the text.
func splice(text []rune, start, end int, replacement string) []rune {
	start, end = min(start, len(text)), min(end, len(text))
	repl := []rune(replacement)
	out := make([]rune, 0, len(text)-(end-start)+len(repl))
	out = append(out, text[:start]...)
	out = append(out, repl...)
	return append(out, text[end:]...)
}

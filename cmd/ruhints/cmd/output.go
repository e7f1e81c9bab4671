package cmd

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aden1s/ruphrasehints/internal/app"
	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// paint wraps s in color when color output is on.
func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

// lineCol returns the 1-based line and rune column of byte offset off.
func lineCol(text string, off int) (int, int) {
	if off > len(text) {
		off = len(text)
	}
	head := text[:off]
	line := strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	return line, utf8.RuneCountInString(head) + 1
}

// formatOccurrences lists occurrences with their positions in text.
//
//	  3:14  Рыжую кошку → рыжая кошка  ginger
func formatOccurrences(text string, occs []hints.Occurrence) string {
	var sb strings.Builder
	for _, o := range occs {
		line, col := lineCol(text, o.Start)
		fmt.Fprintf(&sb, "  %s  %s → %s  %s\n",
			paint(colorGray, fmt.Sprintf("%d:%d", line, col)),
			paint(colorBold, o.Surface), o.Canonical, paint(colorGreen, o.Hint))
	}
	return sb.String()
}

// formatReports summarizes a batch run, one line per file.
//
//	⚡ 3 files │ 7 hints │ 2 written
//	  site/index.html → out/index.html  4 hints
func formatReports(reports []app.FileReport, detailed bool) string {
	total, written := 0, 0
	for _, r := range reports {
		total += r.Hints
		if r.Written {
			written++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s │ %d hints │ %d written\n",
		paint(colorBold, fmt.Sprintf("⚡ %d files", len(reports))), total, written)
	if !detailed {
		return sb.String()
	}
	for _, r := range reports {
		dst := r.Dst
		if dst == r.Src {
			dst = "(in place)"
		}
		fmt.Fprintf(&sb, "  %s → %s  %d hints", paint(colorCyan, r.Src), dst, r.Hints)
		if r.Skipped > 0 {
			fmt.Fprintf(&sb, "  %s", paint(colorYellow, fmt.Sprintf("%d terms skipped", r.Skipped)))
		}
		sb.WriteString("\n")
		for _, o := range r.Occurrences {
			fmt.Fprintf(&sb, "    %s  %s → %s  %s\n",
				paint(colorGray, fmt.Sprintf("@%d", o.Start)),
				paint(colorBold, o.Surface), o.Canonical, paint(colorGreen, o.Hint))
		}
	}
	return sb.String()
}

// formatPatterns lists compiled patterns in matching order.
//
//	phrase   рыжая кошка  [рыж]  (?is)(^|...)
func formatPatterns(patterns []hints.CompiledPattern, skipped []error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", paint(colorBold, fmt.Sprintf("⚡ %d patterns", len(patterns))))
	for _, p := range patterns {
		literal := p.Literal
		if literal == "" {
			literal = "-"
		}
		fmt.Fprintf(&sb, "  %-8s %s  %s  %s\n",
			p.Kind, paint(colorCyan, p.Term), paint(colorGray, "["+literal+"]"), p.Matcher.String())
	}
	for _, err := range skipped {
		fmt.Fprintf(&sb, "  %s %v\n", paint(colorYellow, "skipped"), err)
	}
	return sb.String()
}

// formatDictionaries lists stored dictionaries.
func formatDictionaries(dicts []*ports.StoredDictionary) string {
	if len(dicts) == 0 {
		return "no stored dictionaries\n"
	}
	var sb strings.Builder
	for _, d := range dicts {
		updated := time.Unix(d.UpdatedAt, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(&sb, "  %s  %d terms  %s\n",
			paint(colorCyan, d.Name), len(d.Entries), paint(colorGray, updated))
	}
	return sb.String()
}

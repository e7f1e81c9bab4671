package hints

import "strings"

// termEscaper protects the few characters that commonly appear in terms.
// Other regex metacharacters are passed through untouched; a term that
// produces an invalid pattern is reported as an InvalidTermError.
var termEscaper = strings.NewReplacer(
	"(", `\(`,
	")", `\)`,
	"&", "&amp;",
	"+", `\+`,
)

func escapeTerm(s string) string {
	return termEscaper.Replace(s)
}

// regexMeta are the characters that still act as regex syntax after escapeTerm.
const regexMeta = `.*?[]{}|^$\`

// literalPrefix returns the longest prefix of raw whose escaped form matches
// itself literally, lowercased. "&" is expanded the same way escapeTerm does.
func literalPrefix(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if strings.ContainsRune(regexMeta, r) {
			break
		}
		if r == '&' {
			b.WriteString("&amp;")
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

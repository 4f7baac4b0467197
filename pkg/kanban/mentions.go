package kanban

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ParseMentions returns the @handles in body, normalized and in first-seen
// order without duplicates. A handle starts with a letter or digit and may
// contain '_', '-' and '.'; an '@' glued to a preceding handle character, as
// in an e-mail address, is not a mention. Trailing dots are dropped.
func ParseMentions(body string) []string {
	var out []string
	seen := make(map[string]bool)

	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '@' {
			continue
		}
		if i > 0 && isHandleRune(rs[i-1]) {
			continue
		}
		j := i + 1
		if j >= len(rs) || !(unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
			continue
		}
		for j < len(rs) && isHandleRune(rs[j]) {
			j++
		}
		h := NormalizeHandle(strings.TrimRight(string(rs[i+1:j]), "."))
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
		i = j - 1
	}
	return out
}

// NormalizeHandle folds case and compatibility forms so "@Zoë" and "@ZOË"
// name the same person.
func NormalizeHandle(h string) string {
	return cases.Fold().String(norm.NFKC.String(h))
}

func isHandleRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

package tui

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// matches reports whether query hits any of fields, either as a
// case-insensitive substring or as a token within a small edit distance.
func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	budget := typoBudget(q)
	for _, f := range fields {
		f = strings.ToLower(f)
		if strings.Contains(f, q) {
			return true
		}
		if budget == 0 {
			continue
		}
		for _, tok := range tokens(f) {
			if levenshtein.ComputeDistance(q, tok) <= budget {
				return true
			}
		}
	}
	return false
}

// typoBudget allows no typos for very short queries.
func typoBudget(q string) int {
	switch n := len([]rune(q)); {
	case n < 4:
		return 0
	case n < 7:
		return 1
	default:
		return 2
	}
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Package term canonicalizes raw symptom strings into comparable tokens.
// Multi-word symptoms collapse to a single underscore-joined token, so
// "Joint Pain" and "joint  pain" normalize to the same term.
package term

import (
	"strings"
	"unicode"
)

// Term is a normalized symptom token: lower-cased, punctuation-stripped,
// with internal whitespace collapsed to single underscores. Immutable once
// produced.
type Term string

// Separator joins the words of a multi-word symptom inside a Term.
const Separator = "_"

// Normalize converts a raw symptom string into a Term. It is total and
// deterministic; an input with no alphanumeric content yields the empty
// Term, which callers are expected to filter out.
func Normalize(raw string) Term {
	fields := strings.Fields(strings.ToLower(raw))
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		var b strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return Term(strings.Join(parts, Separator))
}

// NormalizeAll normalizes every raw string, dropping empty Terms and
// duplicates. The returned slice preserves first-seen order.
func NormalizeAll(raws []string) []Term {
	seen := make(map[Term]struct{}, len(raws))
	terms := make([]Term, 0, len(raws))
	for _, raw := range raws {
		t := Normalize(raw)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}

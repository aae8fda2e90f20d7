package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Backslash escapes any rune in fields, terms, prefixes and phrases:
//
//	my\ field:a\:b     --> field "my field", term "a:b"
//	f:\-neg            --> term "-neg"
//	f:end\*            --> term "end*", not a prefix
//	f:"say\ \"hi\" x"  --> phrase ["say \"hi\"", "x"]

func isTermSpecial(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`()":\`, r)
}

func escapeTerm(s string) string {
	return escapeValue(s, false)
}

// A prefix is followed by its own star so every star in it is escaped.
func escapePrefix(s string) string {
	return escapeValue(s, true)
}

func escapeValue(s string, allStars bool) string {
	b := strings.Builder{}
	for i, r := range s {
		if isTermSpecial(r) ||
			(i == 0 && strings.ContainsRune("+-#", r)) ||
			(r == '*' && (allStars || i == len(s)-1)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeField(s string) string {
	b := strings.Builder{}
	for i, r := range s {
		plain := r < utf8.RuneSelf &&
			(r == '_' || unicode.IsLetter(r) || (i > 0 && (r == '.' || unicode.IsDigit(r))))
		if !plain {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapePhraseTerm(s string) string {
	b := strings.Builder{}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	b := strings.Builder{}
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// Unescape a raw term, counting stars that were not escaped and
// reporting whether the raw term ended with one.
func unescapeTerm(s string) (value string, stars int, trailingStar bool) {
	b := strings.Builder{}
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
			trailingStar = false
		case r == '\\':
			escaped = true
			continue
		case r == '*':
			stars++
			trailingStar = true
		default:
			trailingStar = false
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
		trailingStar = false
	}
	return b.String(), stars, trailingStar
}

// Split a raw phrase on whitespace which is not escaped.
func splitPhrase(s string) []string {
	var terms []string
	b := strings.Builder{}
	inTerm, escaped := false, false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped, inTerm = true, true
			continue
		case unicode.IsSpace(r):
			if inTerm {
				terms = append(terms, b.String())
				b.Reset()
				inTerm = false
			}
			continue
		}
		inTerm = true
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	if inTerm {
		terms = append(terms, b.String())
	}
	return terms
}

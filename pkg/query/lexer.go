package query

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type queryTokenType int

var LexRegex *regexp.Regexp
var LexRegexPattern string

const (
	TOK_UNKNOWN queryTokenType = iota

	// group tokens
	TOK_GROUP_START
	TOK_GROUP_END

	// modifiers
	TOK_MOD_MUST     // +
	TOK_MOD_MUST_NOT // -
	TOK_MOD_FILTER   // #

	TOK_FIELD

	// values
	TOK_VAL_TERM
	TOK_VAL_PREFIX
	TOK_VAL_PHRASE
)

type Token struct {
	Type  queryTokenType
	Value string
}

func (tokType queryTokenType) String() string {
	switch tokType {
	case TOK_UNKNOWN:
		return "Unknown"
	case TOK_GROUP_START:
		return "Start Group"
	case TOK_GROUP_END:
		return "End Group"
	case TOK_MOD_MUST:
		return "Must"
	case TOK_MOD_MUST_NOT:
		return "Must Not"
	case TOK_MOD_FILTER:
		return "Filter"
	case TOK_FIELD:
		return "Field"
	case TOK_VAL_TERM:
		return "Term Value"
	case TOK_VAL_PREFIX:
		return "Prefix Value"
	case TOK_VAL_PHRASE:
		return "Phrase Value"
	default:
		return "Invalid"
	}
}

func (t Token) String() string {
	return fmt.Sprint(t.Type.String(), ": ", t.Value)
}

func (t Token) Equal(other Token) bool {
	if t.Type.isValue() || t.Type == TOK_FIELD || t.Type == TOK_UNKNOWN {
		return t.Type == other.Type && t.Value == other.Value
	}
	return t.Type == other.Type
}

// if a token type is one of any
func (tokType queryTokenType) Any(expected ...queryTokenType) bool {
	return slices.Contains(expected, tokType)
}

func (t queryTokenType) isModifier() bool {
	return t.Any(TOK_MOD_MUST, TOK_MOD_MUST_NOT, TOK_MOD_FILTER)
}

func (t queryTokenType) isValue() bool {
	return t.Any(TOK_VAL_TERM, TOK_VAL_PREFIX, TOK_VAL_PHRASE)
}

func Lex(query string) []Token {
	const (
		MATCH = iota
		SPACE
		GROUP_START
		GROUP_END
		MODIFIER
		FIELD
		PHRASE
		TERM
		UNKNOWN
	)

	matches := LexRegex.FindAllStringSubmatch(query, -1)
	tokens := make([]Token, 0, len(matches))

	for _, match := range matches {
		switch {
		case match[SPACE] != "":
		case match[GROUP_START] != "":
			tokens = append(tokens, Token{Type: TOK_GROUP_START})
		case match[GROUP_END] != "":
			tokens = append(tokens, Token{Type: TOK_GROUP_END})
		case match[MODIFIER] != "":
			tokens = append(tokens, tokenizeModifier(match[MODIFIER]))
		case match[FIELD] != "":
			tokens = append(tokens, Token{TOK_FIELD, unescape(match[FIELD])})
		case match[PHRASE] != "":
			tokens = append(tokens, Token{TOK_VAL_PHRASE, match[PHRASE][1 : len(match[PHRASE])-1]})
		case match[TERM] != "":
			tokens = append(tokens, tokenizeTerm(match[TERM]))
		case match[UNKNOWN] != "":
			tokens = append(tokens, Token{Value: match[UNKNOWN]})
		}
	}

	return tokens
}

func tokenizeModifier(s string) Token {
	t := Token{Value: s}
	switch s {
	case "+":
		t.Type = TOK_MOD_MUST
	case "-":
		t.Type = TOK_MOD_MUST_NOT
	case "#":
		t.Type = TOK_MOD_FILTER
	}
	return t
}

// A term ending in its only unescaped star is a prefix.
func tokenizeTerm(s string) Token {
	value, stars, trailingStar := unescapeTerm(s)
	if trailingStar && stars == 1 && len(value) > 1 {
		return Token{TOK_VAL_PREFIX, value[:len(value)-1]}
	}
	return Token{TOK_VAL_TERM, value}
}

func TokensStringify(tokens []Token) string {
	b := strings.Builder{}

	indentLvl := 0
	writeToken := func(t Token) {
		b.WriteByte('`')
		b.WriteString(t.String())
		b.WriteByte('`')
	}

	for i, token := range tokens {
		switch token.Type {
		case TOK_GROUP_START:
			if i == 0 || !tokens[i-1].Type.isModifier() {
				writeIndent(&b, indentLvl)
			}
			b.WriteString("(\n")
			indentLvl += 1
		case TOK_GROUP_END:
			indentLvl = max(indentLvl-1, 0)
			writeIndent(&b, indentLvl)
			b.WriteString(")\n")
		case TOK_MOD_MUST, TOK_MOD_MUST_NOT, TOK_MOD_FILTER:
			writeIndent(&b, indentLvl)
			writeToken(token)
		case TOK_FIELD:
			if i == 0 || !tokens[i-1].Type.isModifier() {
				writeIndent(&b, indentLvl)
			}
			writeToken(token)
		case TOK_VAL_TERM, TOK_VAL_PREFIX, TOK_VAL_PHRASE, TOK_UNKNOWN:
			if i == 0 || !tokens[i-1].Type.Any(TOK_FIELD, TOK_MOD_MUST, TOK_MOD_MUST_NOT, TOK_MOD_FILTER) {
				writeIndent(&b, indentLvl)
			}
			writeToken(token)
			b.WriteByte('\n')
		default:
			writeToken(token)
		}
	}

	return b.String()
}

func writeIndent(b *strings.Builder, level int) {
	for range level {
		b.WriteByte('\t')
	}
}

func init() {
	spacePattern := `(?<space>\s+)`
	groupStart := `(?<group_start>\()`
	groupEnd := `(?<group_end>\))`
	modPattern := `(?<modifier>[+\-#])`
	escape := `\\[\s\S]`
	fieldPattern := `(?<field>(?:[A-Za-z_]|` + escape + `)(?:[\w.]|` + escape + `)*):`
	phrasePattern := `(?<phrase>"(?:[^"\\]|` + escape + `)*")`
	termPattern := `(?<term>(?:[^\s()":+\-#\\]|` + escape + `)(?:[^\s()":\\]|` + escape + `)*)`
	unknownPattern := `(?<unknown>\S)`

	// alternation is leftmost first, order matters
	LexRegexPattern = strings.Join([]string{
		spacePattern, groupStart, groupEnd, modPattern,
		fieldPattern, phrasePattern, termPattern, unknownPattern,
	}, "|")
	LexRegex = regexp.MustCompile(LexRegexPattern)
}

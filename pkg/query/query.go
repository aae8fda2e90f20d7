package query

import (
	"slices"
	"strconv"
	"strings"
)

type Occur int

const (
	OCC_UNKNOWN  Occur = iota
	OCC_MUST           // required, scores
	OCC_SHOULD         // optional, scores
	OCC_MUST_NOT       // prohibited
	OCC_FILTER         // required, does not score
)

func (o Occur) String() string {
	switch o {
	case OCC_MUST:
		return "must"
	case OCC_SHOULD:
		return "should"
	case OCC_MUST_NOT:
		return "must_not"
	case OCC_FILTER:
		return "filter"
	default:
		return "unknown"
	}
}

// modifier used when writing a clause in query string form
func (o Occur) prefix() string {
	switch o {
	case OCC_MUST:
		return "+"
	case OCC_MUST_NOT:
		return "-"
	case OCC_FILTER:
		return "#"
	default:
		return ""
	}
}

func ParseOccur(s string) (Occur, error) {
	switch strings.ToLower(s) {
	case "must", "+":
		return OCC_MUST, nil
	case "should", "":
		return OCC_SHOULD, nil
	case "must_not", "mustnot", "-":
		return OCC_MUST_NOT, nil
	case "filter", "#":
		return OCC_FILTER, nil
	}
	return OCC_UNKNOWN, ErrUnknownOccur
}

// Node is a query tree node.
// The unexported method seals the interface so that only the leaf types
// of this package and BooleanQuery can appear in a tree.
type Node interface {
	Equal(other Node) bool
	Clone() Node
	String() string
	writeKey(b *strings.Builder)
}

// TermQuery matches documents containing an exact term.
type TermQuery struct {
	Field string
	Term  string
}

// PhraseQuery matches documents containing Terms in sequence.
type PhraseQuery struct {
	Field string
	Terms []string
}

// PrefixQuery matches documents containing a term starting with Prefix.
type PrefixQuery struct {
	Field  string
	Prefix string
}

// BooleanQuery combines its Clauses according to their Occur.
type BooleanQuery struct {
	Clauses []Clause
}

type Clause struct {
	Query Node
	Occur Occur
}

// compile time interface check
var _ Node = &TermQuery{}
var _ Node = &PhraseQuery{}
var _ Node = &PrefixQuery{}
var _ Node = &BooleanQuery{}

func IsLeaf(n Node) bool {
	_, isBool := n.(*BooleanQuery)
	return n != nil && !isBool
}

func (q *TermQuery) Equal(other Node) bool {
	o, ok := other.(*TermQuery)
	return ok && q.Field == o.Field && q.Term == o.Term
}

func (q *PhraseQuery) Equal(other Node) bool {
	o, ok := other.(*PhraseQuery)
	return ok && q.Field == o.Field && slices.Equal(q.Terms, o.Terms)
}

func (q *PrefixQuery) Equal(other Node) bool {
	o, ok := other.(*PrefixQuery)
	return ok && q.Field == o.Field && q.Prefix == o.Prefix
}

// Clauses are compared in order.
func (q *BooleanQuery) Equal(other Node) bool {
	o, ok := other.(*BooleanQuery)
	if !ok {
		return false
	}
	return slices.EqualFunc(q.Clauses, o.Clauses, Clause.Equal)
}

func (c Clause) Equal(other Clause) bool {
	if c.Occur != other.Occur {
		return false
	}
	if c.Query == nil || other.Query == nil {
		return c.Query == nil && other.Query == nil
	}
	return c.Query.Equal(other.Query)
}

func (q *TermQuery) Clone() Node {
	c := *q
	return &c
}

func (q *PhraseQuery) Clone() Node {
	return &PhraseQuery{Field: q.Field, Terms: slices.Clone(q.Terms)}
}

func (q *PrefixQuery) Clone() Node {
	c := *q
	return &c
}

func (q *BooleanQuery) Clone() Node {
	return q.CloneBoolean()
}

// Deep copy of q
func (q *BooleanQuery) CloneBoolean() *BooleanQuery {
	if q == nil {
		return nil
	}

	clauses := make([]Clause, len(q.Clauses))
	for i, c := range q.Clauses {
		clauses[i].Occur = c.Occur
		if c.Query != nil {
			clauses[i].Query = c.Query.Clone()
		}
	}
	return &BooleanQuery{Clauses: clauses}
}

// Number of boolean levels in the tree, a leaf has depth 0
func Depth(n Node) int {
	q, ok := n.(*BooleanQuery)
	if !ok {
		return 0
	}

	maxDepth := 0
	for _, c := range q.Clauses {
		maxDepth = max(maxDepth, Depth(c.Query))
	}
	return maxDepth + 1
}

// Canonical structural key, equal clauses produce equal keys.
//
// Every variable length part is length prefixed so distinct clauses
// never share a key, whatever bytes their fields and terms hold.
func clauseKey(c Clause) string {
	b := &strings.Builder{}
	writeClauseKey(b, c)
	return b.String()
}

func writeClauseKey(b *strings.Builder, c Clause) {
	writeKeyPart(b, c.Occur.String())
	if c.Query == nil {
		b.WriteByte('n')
		return
	}
	c.Query.writeKey(b)
}

func writeKeyPart(b *strings.Builder, p string) {
	b.WriteString(strconv.Itoa(len(p)))
	b.WriteByte(':')
	b.WriteString(p)
}

func writeKeyParts(b *strings.Builder, kind byte, parts ...string) {
	b.WriteByte(kind)
	b.WriteString(strconv.Itoa(len(parts)))
	b.WriteByte('#')
	for _, p := range parts {
		writeKeyPart(b, p)
	}
}

func (q *TermQuery) writeKey(b *strings.Builder) {
	writeKeyParts(b, 't', q.Field, q.Term)
}

func (q *PhraseQuery) writeKey(b *strings.Builder) {
	writeKeyParts(b, 'p', append([]string{q.Field}, q.Terms...)...)
}

func (q *PrefixQuery) writeKey(b *strings.Builder) {
	writeKeyParts(b, '*', q.Field, q.Prefix)
}

func (q *BooleanQuery) writeKey(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(len(q.Clauses)))
	b.WriteByte('#')
	for _, c := range q.Clauses {
		writeClauseKey(b, c)
	}
}

func writeField(b *strings.Builder, field string) {
	if field != "" {
		b.WriteString(escapeField(field))
		b.WriteByte(':')
	}
}

func (q *TermQuery) String() string {
	b := &strings.Builder{}
	writeField(b, q.Field)
	b.WriteString(escapeTerm(q.Term))
	return b.String()
}

func (q *PhraseQuery) String() string {
	b := &strings.Builder{}
	writeField(b, q.Field)
	b.WriteByte('"')
	for i, t := range q.Terms {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(escapePhraseTerm(t))
	}
	b.WriteByte('"')
	return b.String()
}

func (q *PrefixQuery) String() string {
	b := &strings.Builder{}
	writeField(b, q.Field)
	b.WriteString(escapePrefix(q.Prefix))
	b.WriteByte('*')
	return b.String()
}

// Query string form of q without enclosing parentheses
func (q *BooleanQuery) String() string {
	b := &strings.Builder{}
	q.buildString(b)
	return b.String()
}

func (q *BooleanQuery) buildString(b *strings.Builder) {
	for i, c := range q.Clauses {
		if i != 0 {
			b.WriteByte(' ')
		}
		c.buildString(b)
	}
}

func (c Clause) String() string {
	b := &strings.Builder{}
	c.buildString(b)
	return b.String()
}

func (c Clause) buildString(b *strings.Builder) {
	b.WriteString(c.Occur.prefix())
	switch child := c.Query.(type) {
	case *BooleanQuery:
		b.WriteByte('(')
		child.buildString(b)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString(child.String())
	}
}

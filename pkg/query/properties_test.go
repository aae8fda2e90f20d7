package query_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/jpappel/qsimp/pkg/query"
)

// document is a field to term list mapping
type document map[string][]string

// matches reports whether n matches doc under lucene boolean semantics:
// every must and filter clause matches, no must_not clause matches, and
// when there are no required clauses at least one should clause matches.
func matches(n query.Node, doc document) bool {
	switch q := n.(type) {
	case *query.TermQuery:
		return slices.Contains(doc[q.Field], q.Term)
	case *query.PrefixQuery:
		return slices.ContainsFunc(doc[q.Field], func(t string) bool {
			return strings.HasPrefix(t, q.Prefix)
		})
	case *query.PhraseQuery:
		terms := doc[q.Field]
		for i := 0; i+len(q.Terms) <= len(terms); i++ {
			if slices.Equal(terms[i:i+len(q.Terms)], q.Terms) {
				return true
			}
		}
		return false
	case *query.BooleanQuery:
		required, optional, optionalMatched := 0, 0, false
		for _, c := range q.Clauses {
			m := matches(c.Query, doc)
			switch c.Occur {
			case query.OCC_MUST, query.OCC_FILTER:
				required++
				if !m {
					return false
				}
			case query.OCC_MUST_NOT:
				if m {
					return false
				}
			case query.OCC_SHOULD:
				optional++
				optionalMatched = optionalMatched || m
			}
		}
		if required == 0 {
			return optional > 0 && optionalMatched
		}
		return true
	}
	panic(fmt.Sprintf("unexpected node %T", n))
}

var vocabulary = []string{"a", "b", "c", "d"}

// every document over vocabulary where each term is present or absent
func allDocuments() []document {
	docs := make([]document, 0, 1<<len(vocabulary))
	for mask := range 1 << len(vocabulary) {
		var terms []string
		for i, v := range vocabulary {
			if mask&(1<<i) != 0 {
				terms = append(terms, v)
			}
		}
		docs = append(docs, document{"f": terms})
	}
	return docs
}

var occurs = []query.Occur{query.OCC_MUST, query.OCC_SHOULD, query.OCC_MUST_NOT, query.OCC_FILTER}

func randomTree(r *rand.Rand, depth int) *query.BooleanQuery {
	q := &query.BooleanQuery{}
	for range 1 + r.IntN(4) {
		var child query.Node
		if depth > 0 && r.IntN(3) == 0 {
			child = randomTree(r, depth-1)
		} else if r.IntN(5) == 0 {
			child = &query.PrefixQuery{Field: "f", Prefix: vocabulary[r.IntN(len(vocabulary))]}
		} else {
			child = term(vocabulary[r.IntN(len(vocabulary))])
		}

		// bias toward a single occur so groups are often homogeneous
		occur := occurs[r.IntN(len(occurs))]
		if r.IntN(2) == 0 {
			occur = query.OCC_MUST
		}
		q.Clauses = append(q.Clauses, query.Clause{Query: child, Occur: occur})
	}
	return q
}

func TestSimplify_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	docs := allDocuments()

	for i := range 500 {
		tree := randomTree(r, 4)

		simplified, err := query.NewSimplifier(tree).Simplify()
		if err != nil {
			t.Fatalf("tree %d: unexpected error: %v", i, err)
		}

		for _, doc := range docs {
			if matches(tree, doc) != matches(simplified, doc) {
				t.Fatalf("tree %d: not equivalent for %v\ninput:      %s\nsimplified: %s", i, doc["f"], tree, simplified)
			}
		}

		again, err := query.NewSimplifier(simplified).Simplify()
		if err != nil {
			t.Fatalf("tree %d: unexpected error on second pass: %v", i, err)
		}
		if !again.Equal(simplified) {
			t.Fatalf("tree %d: not idempotent\nonce:  %s\ntwice: %s", i, simplified, again)
		}

		if query.Depth(simplified) > query.Depth(tree) {
			t.Fatalf("tree %d: simplified tree is deeper than input", i)
		}
	}
}

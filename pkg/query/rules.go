package query

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// HomogeneousOccur returns the occur shared by every clause of q,
// or OCC_UNKNOWN when the clauses disagree.
func (q *BooleanQuery) HomogeneousOccur() (Occur, error) {
	if len(q.Clauses) == 0 {
		return OCC_UNKNOWN, ErrEmptyBoolean
	}

	occur := q.Clauses[0].Occur
	for _, c := range q.Clauses[1:] {
		if c.Occur != occur {
			return OCC_UNKNOWN, nil
		}
	}
	return occur, nil
}

// Index of c in clauses, checking hint before scanning.
// Returns -1 when absent.
func locateClause(clauses []Clause, c Clause, hint int) int {
	if hint >= 0 && hint < len(clauses) && clauses[hint].Equal(c) {
		return hint
	}
	return slices.IndexFunc(clauses, c.Equal)
}

// Remove duplicate clauses keeping the first occurrence of each.
// Relative order of the kept clauses is unchanged.
func dedupe(clauses []Clause) ([]Clause, int) {
	seen := set.New[string](len(clauses))
	kept := clauses[:0]
	for _, c := range clauses {
		if seen.Insert(clauseKey(c)) {
			kept = append(kept, c)
		}
	}

	removed := len(clauses) - len(kept)
	clear(clauses[len(kept):])
	return kept, removed
}

// Replace node in parent with its only clause's leaf.
//
// A node whose only clause is prohibited matches nothing, so it is left alone.
func (s *Simplifier) unwrapSingleton(
	node *BooleanQuery, occurInParent Occur, leaf Node,
	parent *BooleanQuery, indexInParent int, depth int,
) bool {
	if len(node.Clauses) != 1 || parent == nil {
		return false
	} else if node.Clauses[0].Occur == OCC_MUST_NOT {
		return false
	}

	idx := locateClause(parent.Clauses, Clause{node, occurInParent}, indexInParent)
	if idx == -1 {
		s.emit(Event{Kind: EVT_CLAUSE_NOT_FOUND, Depth: depth, Index: indexInParent, Node: node})
		return false
	}

	parent.Clauses[idx] = Clause{Query: leaf, Occur: occurInParent}
	s.emit(Event{Kind: EVT_UNWRAP, Depth: depth, Index: idx, Count: 1, Node: node})
	return true
}

// Splice node's clauses into parent in place of node.
// Returns the change in length of parent's clauses.
//
// Prohibited groups are never flattened: (-a -b) matches nothing on its own,
// while -a -b in the parent would exclude both terms.
func (s *Simplifier) flatten(
	childrenOccur Occur, occurInParent Occur,
	node *BooleanQuery, parent *BooleanQuery, indexInParent int, depth int,
) int {
	if childrenOccur == OCC_UNKNOWN || childrenOccur != occurInParent {
		return 0
	} else if childrenOccur == OCC_MUST_NOT || parent == nil || len(node.Clauses) < 2 {
		return 0
	}

	idx := locateClause(parent.Clauses, Clause{node, occurInParent}, indexInParent)
	if idx == -1 {
		s.emit(Event{Kind: EVT_CLAUSE_NOT_FOUND, Depth: depth, Index: indexInParent, Node: node})
		return 0
	}

	parent.Clauses = slices.Replace(parent.Clauses, idx, idx+1, node.Clauses...)
	s.emit(Event{Kind: EVT_FLATTEN, Depth: depth, Index: idx, Count: len(node.Clauses), Node: node})
	return len(node.Clauses) - 1
}

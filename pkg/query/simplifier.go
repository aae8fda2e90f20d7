package query

import (
	"fmt"
	"log/slog"

	"github.com/jpappel/qsimp/pkg/util"
)

// Simplifier rewrites a boolean query tree into an equivalent, flatter tree.
//
// It owns a deep copy of the tree it is given and is not safe for concurrent use.
type Simplifier struct {
	root   *BooleanQuery
	logger *slog.Logger
	hooks  []EventHook
	stats  Stats
}

type Option func(*Simplifier)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simplifier) {
		s.logger = logger
	}
}

// Call hook for every rewrite event, hooks run in the order they were added.
func WithEventHook(hook EventHook) Option {
	return func(s *Simplifier) {
		s.hooks = append(s.hooks, hook)
	}
}

func NewSimplifier(root *BooleanQuery, opts ...Option) *Simplifier {
	s := &Simplifier{
		root:   root.CloneBoolean(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace the current tree with a copy of root
func (s *Simplifier) SetQuery(root *BooleanQuery) {
	s.root = root.CloneBoolean()
	s.stats = Stats{}
}

func (s *Simplifier) Query() *BooleanQuery {
	return s.root
}

// Rewrites applied by the last call to Simplify
func (s *Simplifier) Stats() Stats {
	return s.stats
}

// Simplify the current tree in place and return it.
//
// Rules, applied bottom up to every boolean node:
//
//	(+(+a +b) +c)  --> (+a +b +c)
//	(+(a) +b)      --> (+a +b)
//	(+a +a +b)     --> (+a +b)
//
// The root is never replaced, even when it holds a single clause.
func (s *Simplifier) Simplify() (*BooleanQuery, error) {
	s.stats = Stats{}
	if s.root == nil {
		return nil, ErrEmptyBoolean
	}

	if _, err := s.visit(s.root, nil, OCC_SHOULD, -1, 0); err != nil {
		return nil, err
	}
	return s.root, nil
}

// Simplify node and report how far the caller's cursor over parent's
// clauses must advance to skip clauses spliced in from node.
func (s *Simplifier) visit(node *BooleanQuery, parent *BooleanQuery, occurInParent Occur, indexInParent int, depth int) (int, error) {
	// cannot range, node.Clauses is modified in loop
	for i := 0; i < len(node.Clauses); i++ {
		c := node.Clauses[i]
		child, ok := c.Query.(*BooleanQuery)
		if !ok {
			continue
		}

		delta, err := s.visit(child, node, c.Occur, i, depth+1)
		if err != nil {
			return 0, fmt.Errorf("clause %d: %w", i, err)
		}
		i += delta
	}

	var removed int
	node.Clauses, removed = dedupe(node.Clauses)
	if removed > 0 {
		s.emit(Event{Kind: EVT_DEDUPE, Depth: depth, Index: indexInParent, Count: removed, Node: node})
	}

	for _, c := range util.FilterIter(node.Clauses, isLeafClause) {
		if s.unwrapSingleton(node, occurInParent, c.Query, parent, indexInParent, depth) {
			return 0, nil
		}
	}

	childrenOccur, err := node.HomogeneousOccur()
	if err != nil {
		return 0, err
	}
	return s.flatten(childrenOccur, occurInParent, node, parent, indexInParent, depth), nil
}

func isLeafClause(c Clause) bool {
	return IsLeaf(c.Query)
}

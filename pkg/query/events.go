package query

import (
	"fmt"
	"log/slog"
)

type EventKind int

const (
	EVT_UNKNOWN          EventKind = iota
	EVT_UNWRAP                     // single clause wrapper replaced by its leaf
	EVT_FLATTEN                    // homogeneous group spliced into its parent
	EVT_DEDUPE                     // duplicate clauses removed
	EVT_CLAUSE_NOT_FOUND           // a rewrite could not locate its clause in the parent
)

// Event describes a rewrite applied, or skipped, while simplifying.
type Event struct {
	Kind  EventKind
	Depth int // depth of Node, the root is 0
	Index int // index of Node in its parent, -1 for the root
	Count int // clauses spliced or removed
	Node  *BooleanQuery
}

type EventHook func(Event)

type Stats struct {
	Unwrapped     int
	Flattened     int
	Deduplicated  int
	ClauseMissing int
}

func (k EventKind) String() string {
	switch k {
	case EVT_UNWRAP:
		return "Unwrap"
	case EVT_FLATTEN:
		return "Flatten"
	case EVT_DEDUPE:
		return "Dedupe"
	case EVT_CLAUSE_NOT_FOUND:
		return "Clause Not Found"
	default:
		return "Invalid"
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s depth=%d index=%d count=%d", e.Kind, e.Depth, e.Index, e.Count)
}

func (s Stats) String() string {
	return fmt.Sprintf("unwrapped:%d flattened:%d deduplicated:%d missing:%d",
		s.Unwrapped, s.Flattened, s.Deduplicated, s.ClauseMissing)
}

func (s *Stats) record(e Event) {
	switch e.Kind {
	case EVT_UNWRAP:
		s.Unwrapped++
	case EVT_FLATTEN:
		s.Flattened++
	case EVT_DEDUPE:
		s.Deduplicated += e.Count
	case EVT_CLAUSE_NOT_FOUND:
		s.ClauseMissing++
	}
}

func (s *Simplifier) emit(e Event) {
	s.stats.record(e)

	attrs := []any{
		slog.String("kind", e.Kind.String()),
		slog.Int("depth", e.Depth),
		slog.Int("index", e.Index),
		slog.Int("count", e.Count),
	}
	if e.Kind == EVT_CLAUSE_NOT_FOUND {
		s.logger.Warn("Could not locate clause in parent, skipping rewrite", attrs...)
	} else {
		s.logger.Debug("Rewrote query", attrs...)
	}

	for _, hook := range s.hooks {
		hook(e)
	}
}

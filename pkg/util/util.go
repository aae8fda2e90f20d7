package util

import (
	"iter"
)

// Create an iterator of index and element for all values in a slice which satisfy cond.
func FilterIter[E any](s []E, cond func(e E) bool) iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, e := range s {
			if cond(e) {
				if !yield(i, e) {
					return
				}
			}
		}
	}
}

// Create a copy of a slice with all values that satisfy cond
func Filter[E any](s []E, cond func(e E) bool) []E {
	filtered := make([]E, 0, len(s))
	for _, e := range s {
		if cond(e) {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

package query

import (
	"errors"
	"fmt"
)

// simplifier errors
var ErrEmptyBoolean = errors.New("Boolean query has no clauses")

// parser errors
var ErrUnbalancedGroup = errors.New("Unbalanced parentheses in query")
var ErrEmptyGroup = errors.New("Empty group in query")
var ErrEmptyQuery = errors.New("Query has no clauses")

// tree errors
var ErrUnknownOccur = errors.New("Unrecognized occur")
var ErrUnknownNode = errors.New("Unrecognized node type")

type TokenError struct {
	got      Token
	gotPrev  Token
	wantPrev string
}

// DecodeError reports where in an encoded tree decoding failed.
type DecodeError struct {
	Path string
	Err  error
}

func (e *TokenError) Error() string {
	if e.wantPrev != "" {
		return fmt.Sprintf("Unexpected token: got %s, got previous %s want previous %s", e.got, e.gotPrev, e.wantPrev)
	}

	return fmt.Sprintf("Unexpected token: got %s, got previous %s", e.got, e.gotPrev)
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Decode error at %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

package query

import "fmt"

// Lex, parse and simplify a user query
func Compile(userQuery string, opts ParseOptions, simplifierOpts ...Option) (*BooleanQuery, error) {
	root, err := Parse(Lex(userQuery), opts)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse query: %w", err)
	}

	simplified, err := NewSimplifier(root, simplifierOpts...).Simplify()
	if err != nil {
		return nil, fmt.Errorf("Failed to simplify query: %w", err)
	}
	return simplified, nil
}

package query

const DefaultField = "text"

type ParseOptions struct {
	DefaultField string // field for values without an explicit field
	DefaultOccur Occur  // occur for clauses without a modifier
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{DefaultField: DefaultField, DefaultOccur: OCC_SHOULD}
}

type parseFrame struct {
	query *BooleanQuery
	occur Occur // occur of query in its parent
}

func tokToOccur(t queryTokenType) Occur {
	switch t {
	case TOK_MOD_MUST:
		return OCC_MUST
	case TOK_MOD_MUST_NOT:
		return OCC_MUST_NOT
	case TOK_MOD_FILTER:
		return OCC_FILTER
	default:
		return OCC_UNKNOWN
	}
}

// Parse tokens into a tree whose root holds every top level clause.
//
// Examples, with the default options:
//
//	+a b        --> (+text:a text:b)
//	-(a +f:b)   --> (-(text:a +f:b))
//	#f:"x y" z* --> (#f:"x y" text:z*)
func Parse(tokens []Token, opts ParseOptions) (*BooleanQuery, error) {
	if opts.DefaultField == "" {
		opts.DefaultField = DefaultField
	}
	if opts.DefaultOccur == OCC_UNKNOWN {
		opts.DefaultOccur = OCC_SHOULD
	}

	stack := make([]parseFrame, 0, 8)
	stack = append(stack, parseFrame{query: &BooleanQuery{}})

	occur := OCC_UNKNOWN
	field := ""
	takeOccur := func() Occur {
		o := occur
		occur = OCC_UNKNOWN
		if o == OCC_UNKNOWN {
			return opts.DefaultOccur
		}
		return o
	}
	takeField := func() string {
		f := field
		field = ""
		if f == "" {
			return opts.DefaultField
		}
		return f
	}

	var prevToken Token
	for i, token := range tokens {
		frame := &stack[len(stack)-1]
		if i != 0 {
			prevToken = tokens[i-1]
		}

		switch token.Type {
		case TOK_GROUP_START:
			if prevToken.Type == TOK_FIELD {
				return nil, &TokenError{
					got:      token,
					gotPrev:  prevToken,
					wantPrev: "modifier, value or group",
				}
			}
			stack = append(stack, parseFrame{query: &BooleanQuery{}, occur: takeOccur()})
		case TOK_GROUP_END:
			if len(stack) == 1 {
				return nil, ErrUnbalancedGroup
			} else if prevToken.Type.isModifier() || prevToken.Type == TOK_FIELD {
				return nil, &TokenError{
					got:      token,
					gotPrev:  prevToken,
					wantPrev: "value or group end",
				}
			} else if len(frame.query.Clauses) == 0 {
				return nil, ErrEmptyGroup
			}

			group := *frame
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1].query
			parent.Clauses = append(parent.Clauses, Clause{group.query, group.occur})
		case TOK_MOD_MUST, TOK_MOD_MUST_NOT, TOK_MOD_FILTER:
			if prevToken.Type.isModifier() || prevToken.Type == TOK_FIELD {
				return nil, &TokenError{
					got:      token,
					gotPrev:  prevToken,
					wantPrev: "value, group start or group end",
				}
			}
			occur = tokToOccur(token.Type)
		case TOK_FIELD:
			if prevToken.Type == TOK_FIELD {
				return nil, &TokenError{
					got:      token,
					gotPrev:  prevToken,
					wantPrev: "modifier, value or group",
				}
			}
			field = token.Value
		case TOK_VAL_TERM, TOK_VAL_PREFIX, TOK_VAL_PHRASE:
			leaf, ok := tokenToLeaf(token, takeField())
			if !ok {
				return nil, &TokenError{got: token, gotPrev: prevToken}
			}
			frame.query.Clauses = append(frame.query.Clauses, Clause{leaf, takeOccur()})
		default:
			return nil, &TokenError{
				got:     token,
				gotPrev: prevToken,
			}
		}
	}

	if len(stack) != 1 {
		return nil, ErrUnbalancedGroup
	} else if occur != OCC_UNKNOWN || field != "" {
		return nil, &TokenError{got: tokens[len(tokens)-1], gotPrev: prevToken, wantPrev: "value"}
	}

	root := stack[0].query
	if len(root.Clauses) == 0 {
		return nil, ErrEmptyQuery
	}
	return root, nil
}

func tokenToLeaf(token Token, field string) (Node, bool) {
	switch token.Type {
	case TOK_VAL_TERM:
		return &TermQuery{Field: field, Term: token.Value}, true
	case TOK_VAL_PREFIX:
		return &PrefixQuery{Field: field, Prefix: token.Value}, true
	case TOK_VAL_PHRASE:
		terms := splitPhrase(token.Value)
		if len(terms) == 0 {
			return nil, false
		}
		return &PhraseQuery{Field: field, Terms: terms}, true
	}
	return nil, false
}

package shell

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jpappel/qsimp/pkg/query"
)

type ValueType int

const (
	VAL_INVALID ValueType = iota
	VAL_INT
	VAL_STRING
	VAL_TOKENS
	VAL_QUERY
)

type Value struct {
	Type ValueType
	Val  any
}

type State map[string]Value

func (t ValueType) String() string {
	switch t {
	case VAL_INVALID:
		return "Invalid"
	case VAL_INT:
		return "Integer"
	case VAL_STRING:
		return "String"
	case VAL_TOKENS:
		return "Tokens"
	case VAL_QUERY:
		return "Query"
	default:
		return "Unknown"
	}
}

func (v Value) String() string {
	switch v.Type {
	case VAL_INT:
		i, ok := v.Val.(int)
		if !ok {
			return "Corrupted Type (expected int)"
		}
		return fmt.Sprint(i)
	case VAL_STRING:
		s, ok := v.Val.(string)
		if !ok {
			return "Corrupted Type (expected string)"
		}
		return s
	case VAL_TOKENS:
		ts, ok := v.Val.([]query.Token)
		if !ok {
			return "Corrupted Type (expected []query.Token)"
		}
		return query.TokensStringify(ts)
	case VAL_QUERY:
		root, ok := v.Val.(*query.BooleanQuery)
		if !ok {
			return "Corrupted Type (expected *query.BooleanQuery)"
		}
		s, _ := query.TreeOutput{}.Output(root)
		return s
	case VAL_INVALID:
		return "Invalid"
	}
	return fmt.Sprintf("Unknown @ %p", v.Val)
}

func (s State) String() string {
	b := strings.Builder{}

	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	slices.Sort(names)

	for _, k := range names {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s[k].Type.String())
		b.WriteByte('\n')
	}

	return b.String()
}

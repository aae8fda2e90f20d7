package query

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/valyala/fastjson"
)

var errMissingField = errors.New("missing field")

// Decode a json encoded tree, the root must be a bool node
func DecodeJSON(data []byte) (*BooleanQuery, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, &DecodeError{Path: "$", Err: err}
	}

	n, err := decodeJSONNode(v, "$")
	if err != nil {
		return nil, err
	}
	return asRoot(n)
}

// Decode a yaml encoded tree, the root must be a bool node
func DecodeYAML(data []byte) (*BooleanQuery, error) {
	var e encodedNode
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, &DecodeError{Path: "$", Err: err}
	}

	n, err := decodeNode(&e, "$")
	if err != nil {
		return nil, err
	}
	return asRoot(n)
}

func asRoot(n Node) (*BooleanQuery, error) {
	root, ok := n.(*BooleanQuery)
	if !ok {
		return nil, &DecodeError{Path: "$", Err: fmt.Errorf("root must be a %s node", nodeTypeBool)}
	}
	return root, nil
}

func jsonString(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}

func decodeJSONNode(v *fastjson.Value, path string) (Node, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("expected object, got %s", v.Type())}
	}

	e := &encodedNode{
		Type:   jsonString(v, "type"),
		Field:  jsonString(v, "field"),
		Term:   jsonString(v, "term"),
		Prefix: jsonString(v, "prefix"),
	}
	for _, t := range v.GetArray("terms") {
		term, err := t.StringBytes()
		if err != nil {
			return nil, &DecodeError{Path: path + ".terms", Err: err}
		}
		e.Terms = append(e.Terms, string(term))
	}

	if e.Type != nodeTypeBool {
		return decodeNode(e, path)
	}

	clauses := v.GetArray("clauses")
	q := &BooleanQuery{Clauses: make([]Clause, 0, len(clauses))}
	for i, c := range clauses {
		clausePath := fmt.Sprintf("%s.clauses[%d]", path, i)
		occur, err := ParseOccur(jsonString(c, "occur"))
		if err != nil {
			return nil, &DecodeError{Path: clausePath + ".occur", Err: err}
		}

		child := c.Get("query")
		if child == nil {
			return nil, &DecodeError{Path: clausePath + ".query", Err: errMissingField}
		}
		n, err := decodeJSONNode(child, clausePath+".query")
		if err != nil {
			return nil, err
		}
		q.Clauses = append(q.Clauses, Clause{n, occur})
	}
	return q, nil
}

func decodeNode(e *encodedNode, path string) (Node, error) {
	switch e.Type {
	case nodeTypeTerm:
		if e.Term == "" {
			return nil, &DecodeError{Path: path + ".term", Err: errMissingField}
		}
		return &TermQuery{Field: e.Field, Term: e.Term}, nil
	case nodeTypePhrase:
		if len(e.Terms) == 0 {
			return nil, &DecodeError{Path: path + ".terms", Err: errMissingField}
		}
		for i, t := range e.Terms {
			if t == "" {
				return nil, &DecodeError{Path: fmt.Sprintf("%s.terms[%d]", path, i), Err: errMissingField}
			}
		}
		return &PhraseQuery{Field: e.Field, Terms: e.Terms}, nil
	case nodeTypePrefix:
		if e.Prefix == "" {
			return nil, &DecodeError{Path: path + ".prefix", Err: errMissingField}
		}
		return &PrefixQuery{Field: e.Field, Prefix: e.Prefix}, nil
	case nodeTypeBool:
		q := &BooleanQuery{Clauses: make([]Clause, 0, len(e.Clauses))}
		for i, c := range e.Clauses {
			clausePath := fmt.Sprintf("%s.clauses[%d]", path, i)
			occur, err := ParseOccur(c.Occur)
			if err != nil {
				return nil, &DecodeError{Path: clausePath + ".occur", Err: err}
			} else if c.Query == nil {
				return nil, &DecodeError{Path: clausePath + ".query", Err: errMissingField}
			}

			n, err := decodeNode(c.Query, clausePath+".query")
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, Clause{n, occur})
		}
		return q, nil
	}
	return nil, &DecodeError{Path: path + ".type", Err: ErrUnknownNode}
}

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

type Outputer interface {
	Output(q *BooleanQuery) (string, error)
	OutputTo(w io.Writer, q *BooleanQuery) (int, error)
}

// query string form
type DefaultOutput struct{}

// indented tree with one clause per line
type TreeOutput struct{}
type JsonOutput struct{}
type YamlOutput struct{}

// compile time interface check
var _ Outputer = &DefaultOutput{}
var _ Outputer = &TreeOutput{}
var _ Outputer = &JsonOutput{}
var _ Outputer = &YamlOutput{}

func NewOutputer(format string) (Outputer, error) {
	switch format {
	case "default", "":
		return DefaultOutput{}, nil
	case "tree":
		return TreeOutput{}, nil
	case "json":
		return JsonOutput{}, nil
	case "yaml":
		return YamlOutput{}, nil
	}
	return nil, fmt.Errorf("Unrecognized output format: %s", format)
}

// shape shared by the json and yaml encodings of a tree
type encodedNode struct {
	Type    string          `json:"type" yaml:"type"`
	Field   string          `json:"field,omitempty" yaml:"field,omitempty"`
	Term    string          `json:"term,omitempty" yaml:"term,omitempty"`
	Terms   []string        `json:"terms,omitempty" yaml:"terms,omitempty"`
	Prefix  string          `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Clauses []encodedClause `json:"clauses,omitempty" yaml:"clauses,omitempty"`
}

type encodedClause struct {
	Occur string       `json:"occur" yaml:"occur"`
	Query *encodedNode `json:"query" yaml:"query"`
}

const (
	nodeTypeBool   = "bool"
	nodeTypeTerm   = "term"
	nodeTypePhrase = "phrase"
	nodeTypePrefix = "prefix"
)

func encodeNode(n Node) (*encodedNode, error) {
	switch q := n.(type) {
	case *TermQuery:
		return &encodedNode{Type: nodeTypeTerm, Field: q.Field, Term: q.Term}, nil
	case *PhraseQuery:
		return &encodedNode{Type: nodeTypePhrase, Field: q.Field, Terms: q.Terms}, nil
	case *PrefixQuery:
		return &encodedNode{Type: nodeTypePrefix, Field: q.Field, Prefix: q.Prefix}, nil
	case *BooleanQuery:
		e := &encodedNode{Type: nodeTypeBool, Clauses: make([]encodedClause, 0, len(q.Clauses))}
		for _, c := range q.Clauses {
			child, err := encodeNode(c.Query)
			if err != nil {
				return nil, err
			}
			e.Clauses = append(e.Clauses, encodedClause{Occur: c.Occur.String(), Query: child})
		}
		return e, nil
	}
	return nil, ErrUnknownNode
}

func (o DefaultOutput) Output(q *BooleanQuery) (string, error) {
	return q.String(), nil
}

func (o DefaultOutput) OutputTo(w io.Writer, q *BooleanQuery) (int, error) {
	return io.WriteString(w, q.String()+"\n")
}

func (o TreeOutput) Output(q *BooleanQuery) (string, error) {
	b := &strings.Builder{}
	o.writeNode(b, q, 0)
	return b.String(), nil
}

func (o TreeOutput) OutputTo(w io.Writer, q *BooleanQuery) (int, error) {
	s, _ := o.Output(q)
	return io.WriteString(w, s)
}

func (o TreeOutput) writeNode(b *strings.Builder, n Node, level int) {
	q, ok := n.(*BooleanQuery)
	if !ok {
		b.WriteString(n.String())
		b.WriteByte('\n')
		return
	}

	b.WriteString("bool\n")
	for _, c := range q.Clauses {
		writeIndent(b, level+1)
		b.WriteString(c.Occur.String())
		b.WriteByte(' ')
		o.writeNode(b, c.Query, level+1)
	}
}

func (o JsonOutput) Output(q *BooleanQuery) (string, error) {
	b := &bytes.Buffer{}
	if _, err := o.OutputTo(b, q); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (o JsonOutput) OutputTo(w io.Writer, q *BooleanQuery) (int, error) {
	e, err := encodeNode(q)
	if err != nil {
		return 0, err
	}

	buf, err := json.Marshal(e)
	if err != nil {
		return 0, err
	}
	buf = append(buf, '\n')
	return w.Write(buf)
}

func (o YamlOutput) Output(q *BooleanQuery) (string, error) {
	e, err := encodeNode(q)
	if err != nil {
		return "", err
	}

	buf, err := yaml.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (o YamlOutput) OutputTo(w io.Writer, q *BooleanQuery) (int, error) {
	s, err := o.Output(q)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w, s)
}

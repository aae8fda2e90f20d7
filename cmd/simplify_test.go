package cmd_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpappel/qsimp/cmd"
	"github.com/jpappel/qsimp/pkg/query"
)

func defaultGlobalFlags() cmd.GlobalFlags {
	return cmd.GlobalFlags{DefaultField: query.DefaultField, DefaultOccur: "should"}
}

func TestRunSimplify_QueryString(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		sFlags cmd.SimplifyFlags
		want   string
	}{
		{"flatten", "+(+a +b) +c", cmd.SimplifyFlags{}, "+text:a +text:b +text:c\n"},
		{"unwrap and dedupe", "(a) b a", cmd.SimplifyFlags{}, "text:a text:b\n"},
		{
			"stats",
			"+(+a +b) +c",
			cmd.SimplifyFlags{Stats: true},
			"+text:a +text:b +text:c\nunwrapped:0 flattened:1 deduplicated:0 missing:0\n",
		},
		{
			"tree output",
			"+a -b",
			cmd.SimplifyFlags{Outputer: query.TreeOutput{}},
			"bool\n\tmust text:a\n\tmust_not text:b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &strings.Builder{}
			code := cmd.RunSimplify(defaultGlobalFlags(), tt.sFlags, tt.query, strings.NewReader(""), out)
			if code != 0 {
				t.Fatalf("RunSimplify() exit code %d", code)
			}
			if out.String() != tt.want {
				t.Errorf("RunSimplify() wrote %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunSimplify_TreeInput(t *testing.T) {
	jsonTree := `{"type":"bool","clauses":[{"occur":"filter","query":{"type":"bool","clauses":[
		{"occur":"filter","query":{"type":"term","field":"f","term":"a"}},
		{"occur":"filter","query":{"type":"term","field":"f","term":"b"}}]}}]}`

	t.Run("stdin", func(t *testing.T) {
		out := &strings.Builder{}
		sFlags := cmd.SimplifyFlags{InFormat: "json", File: "-"}
		code := cmd.RunSimplify(defaultGlobalFlags(), sFlags, "", strings.NewReader(jsonTree), out)
		if code != 0 {
			t.Fatalf("RunSimplify() exit code %d", code)
		}
		if want := "#f:a #f:b\n"; out.String() != want {
			t.Errorf("RunSimplify() wrote %q, want %q", out.String(), want)
		}
	})

	t.Run("inferred from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tree.json")
		if err := os.WriteFile(path, []byte(jsonTree), 0644); err != nil {
			t.Fatal(err)
		}

		out := &strings.Builder{}
		sFlags := cmd.SimplifyFlags{File: path}
		code := cmd.RunSimplify(defaultGlobalFlags(), sFlags, "", strings.NewReader(""), out)
		if code != 0 {
			t.Fatalf("RunSimplify() exit code %d", code)
		}
		if want := "#f:a #f:b\n"; out.String() != want {
			t.Errorf("RunSimplify() wrote %q, want %q", out.String(), want)
		}
	})
}

func TestRunSimplify_Errors(t *testing.T) {
	tests := []struct {
		name   string
		gFlags cmd.GlobalFlags
		sFlags cmd.SimplifyFlags
		query  string
	}{
		{"empty query", defaultGlobalFlags(), cmd.SimplifyFlags{}, "  "},
		{"parse error", defaultGlobalFlags(), cmd.SimplifyFlags{}, "(a"},
		{"bad occur", cmd.GlobalFlags{DefaultOccur: "maybe"}, cmd.SimplifyFlags{}, "a"},
		{"unknown extension", defaultGlobalFlags(), cmd.SimplifyFlags{File: "tree.txt"}, ""},
		{"missing file", defaultGlobalFlags(), cmd.SimplifyFlags{InFormat: "yaml", File: "/nonexistent/tree.yaml"}, ""},
		{"bad format", defaultGlobalFlags(), cmd.SimplifyFlags{InFormat: "toml"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &strings.Builder{}
			code := cmd.RunSimplify(tt.gFlags, tt.sFlags, tt.query, strings.NewReader(""), out)
			if code == 0 {
				t.Errorf("Expected non-zero exit code, output %q", out.String())
			}
		})
	}
}

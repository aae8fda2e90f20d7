package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpappel/qsimp/pkg/query"
)

type SimplifyFlags struct {
	Outputer query.Outputer
	InFormat string
	File     string
	Stats    bool
}

func SetupSimplifyFlags(args []string, fs *flag.FlagSet, flags *SimplifyFlags) {
	fs.Func("outFormat", "output `format` for the simplified query (default, tree, json, yaml)",
		func(arg string) error {
			o, err := query.NewOutputer(arg)
			if err != nil {
				return err
			}
			flags.Outputer = o
			return nil
		})
	fs.StringVar(&flags.InFormat, "in", "", "read a query tree in `format` (json, yaml) instead of a query string")
	fs.StringVar(&flags.File, "file", "", "`path` of a query tree, use '-' for stdin")
	fs.BoolVar(&flags.Stats, "stats", false, "print rewrite counts after the query")

	fs.Usage = func() {
		f := fs.Output()
		fmt.Fprintf(f, "Usage of %s %s\n", os.Args[0], fs.Name())
		fmt.Fprintf(f, "  %s [global-flags] %s [simplify-flags] [query]\n\n",
			os.Args[0], fs.Name())
		fmt.Fprintln(f, "Simplify Flags:")
		fs.PrintDefaults()
		fmt.Fprintln(f, "\nInput:")
		help := `Without -in or -file the remaining arguments are joined into a query string.

  Query String Syntax:
    +clause   - must match
    -clause   - must not match
    #clause   - must match, not scored
    clause    - should match (see -defaultOccur)
    f:term f:"a phrase" f:pre*
    (nested clauses)

  Examples:
    "+(+a +b) +c"  -> '+text:a +text:b +text:c'
    "(a) b a"      -> 'text:a text:b'

`
		fmt.Fprint(f, help)
		fmt.Fprintln(f, "Global Flags:")
		flag.PrintDefaults()
	}

	fs.Parse(args)
}

// Infer the tree format from a file extension, empty when unknown.
func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

func readTree(format string, r io.Reader) (*query.BooleanQuery, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch format {
	case "json":
		return query.DecodeJSON(data)
	case "yaml":
		return query.DecodeYAML(data)
	}
	return nil, fmt.Errorf("Unrecognized input format: %s", format)
}

func loadInput(gFlags GlobalFlags, sFlags SimplifyFlags, searchQuery string, stdin io.Reader) (*query.BooleanQuery, error) {
	format := sFlags.InFormat
	if format == "" && sFlags.File != "" {
		if format = inferFormat(sFlags.File); format == "" {
			return nil, fmt.Errorf("Cannot infer format of `%s`, set -in", sFlags.File)
		}
	}

	if format == "" {
		if strings.TrimSpace(searchQuery) == "" {
			return nil, errors.New("No query provided")
		}
		opts, err := gFlags.ParseOptions()
		if err != nil {
			return nil, err
		}
		return query.Parse(query.Lex(searchQuery), opts)
	}

	switch sFlags.File {
	case "", "-":
		return readTree(format, stdin)
	default:
		f, err := os.Open(sFlags.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readTree(format, f)
	}
}

func RunSimplify(gFlags GlobalFlags, sFlags SimplifyFlags, searchQuery string, stdin io.Reader, stdout io.Writer) byte {
	root, err := loadInput(gFlags, sFlags, searchQuery, stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read query:", err)
		return 1
	}

	s := query.NewSimplifier(root, query.WithLogger(slog.Default()))
	simplified, err := s.Simplify()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to simplify query:", err)
		return 1
	}

	outputer := sFlags.Outputer
	if outputer == nil {
		outputer = query.DefaultOutput{}
	}
	if _, err := outputer.OutputTo(stdout, simplified); err != nil {
		fmt.Fprintln(os.Stderr, "Error while outputting query:", err)
		return 1
	}

	if sFlags.Stats {
		fmt.Fprintln(stdout, s.Stats())
	}
	return 0
}

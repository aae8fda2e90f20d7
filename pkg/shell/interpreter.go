package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/jpappel/qsimp/pkg/query"
	"github.com/jpappel/qsimp/pkg/util"
	"golang.org/x/term"
)

type Interpreter struct {
	State   State
	Options query.ParseOptions
	logger  *slog.Logger
	term    *term.Terminal
}

type ITokType int

const (
	ITOK_INVALID ITokType = iota

	ITOK_VAR_NAME

	// values
	ITOK_VAL_INT
	ITOK_VAL_STR

	// commands
	ITOK_CMD_HELP
	ITOK_CMD_CLEAR
	ITOK_CMD_LET
	ITOK_CMD_DEL
	ITOK_CMD_PRINT
	ITOK_CMD_LEN
	ITOK_CMD_REMATCH
	ITOK_CMD_REPATTERN
	ITOK_CMD_TOKENIZE
	ITOK_CMD_PARSE
	ITOK_CMD_SIMPLIFY
	ITOK_CMD_OUTPUT
)

type IToken struct {
	Type ITokType
	Text string
}

func NewInterpreter(initialState State, opts query.ParseOptions, logger *slog.Logger) *Interpreter {
	if initialState == nil {
		initialState = make(State)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{
		State:   initialState,
		Options: opts,
		logger:  logger,
	}
}

func (interpreter *Interpreter) Reset() {
	interpreter.State = make(State)
}

// Evaluate a line of tokens right to left, writing results to w.
//
// A true return means the interpreter is in an unrecoverable state.
func (interpreter *Interpreter) Eval(w io.Writer, tokens []IToken) (bool, error) {
	if len(tokens) == 0 {
		return false, nil
	}

	if invalid := util.Filter(tokens, func(t IToken) bool { return t.Type == ITOK_INVALID }); len(invalid) > 0 {
		words := make([]string, len(invalid))
		for i, t := range invalid {
			words[i] = t.Text
		}
		return false, fmt.Errorf("Unexpected token(s): %s", strings.Join(words, ", "))
	}

	var variableName string
	var carryValue Value
	var ok bool
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		switch t.Type {
		case ITOK_CMD_HELP:
			printHelp(w)
		case ITOK_CMD_CLEAR:
			fmt.Fprint(w, "\033[H\033[J")
		case ITOK_CMD_LET:
			if variableName == "" {
				return false, errors.New("let requires a variable name")
			}
			if carryValue.Type == VAL_INVALID {
				return false, fmt.Errorf("No value to assign to %s", variableName)
			}
			interpreter.State[variableName] = carryValue
			carryValue.Type = VAL_INVALID
		case ITOK_CMD_DEL:
			if i+1 < len(tokens) {
				delete(interpreter.State, tokens[i+1].Text)
			} else {
				fmt.Fprintln(w, "Deleting all variables")
				interpreter.Reset()
			}
			carryValue.Type = VAL_INVALID
		case ITOK_CMD_PRINT:
			if len(tokens) == 1 {
				fmt.Fprintln(w, "Variables:")
				fmt.Fprint(w, interpreter.State)
			}
		case ITOK_CMD_REMATCH:
			if carryValue.Type != VAL_STRING {
				return false, fmt.Errorf("Unable to match against argument of type: %s", carryValue.Type)
			}

			body, ok := carryValue.Val.(string)
			if !ok {
				return true, errors.New("Type corruption during rematch, expected string")
			}

			b := strings.Builder{}
			matchGroupNames := query.LexRegex.SubexpNames()
			for _, match := range query.LexRegex.FindAllStringSubmatch(body, -1) {
				for i, part := range match {
					if part == "" {
						continue
					}
					b.WriteString(matchGroupNames[i])
					fmt.Fprintf(&b, "[%d]", len(part))
					b.WriteByte(':')
					b.WriteString(part)
					b.WriteByte('\n')
				}
				b.WriteByte('\n')
			}
			carryValue.Val = b.String()
		case ITOK_CMD_REPATTERN:
			fmt.Fprintln(w, query.LexRegexPattern)
		case ITOK_CMD_TOKENIZE:
			if carryValue.Type != VAL_STRING {
				return false, fmt.Errorf("Unable to tokenize argument of type: %s", carryValue.Type)
			}

			rawQuery, ok := carryValue.Val.(string)
			if !ok {
				return true, errors.New("Type corruption during tokenize, expected string")
			}
			carryValue.Type = VAL_TOKENS
			carryValue.Val = query.Lex(rawQuery)
		case ITOK_CMD_PARSE:
			if carryValue.Type != VAL_TOKENS {
				return false, fmt.Errorf("Unable to parse argument of type: %s", carryValue.Type)
			}

			queryTokens, ok := carryValue.Val.([]query.Token)
			if !ok {
				return true, errors.New("Type corruption during parse, expected []query.Token")
			}

			root, err := query.Parse(queryTokens, interpreter.Options)
			if err != nil {
				return false, err
			}
			carryValue.Type = VAL_QUERY
			carryValue.Val = root
		case ITOK_CMD_SIMPLIFY:
			if carryValue.Type != VAL_QUERY {
				return false, fmt.Errorf("Unable to simplify argument of type: %s", carryValue.Type)
			}

			root, ok := carryValue.Val.(*query.BooleanQuery)
			if !ok {
				return true, errors.New("Type corruption during simplify, expected *query.BooleanQuery")
			}

			s := query.NewSimplifier(root,
				query.WithLogger(interpreter.logger),
				query.WithEventHook(func(e query.Event) {
					fmt.Fprintln(w, e)
				}),
			)
			simplified, err := s.Simplify()
			if err != nil {
				return false, err
			}
			fmt.Fprintln(w, s.Stats())

			carryValue.Val = simplified
		case ITOK_CMD_OUTPUT:
			if carryValue.Type != VAL_QUERY {
				return false, fmt.Errorf("Unable to output argument of type: %s", carryValue.Type)
			}

			root, ok := carryValue.Val.(*query.BooleanQuery)
			if !ok {
				return true, errors.New("Type corruption during output, expected *query.BooleanQuery")
			}

			outputer, err := query.NewOutputer(t.Text)
			if err != nil {
				return false, err
			}
			s, err := outputer.Output(root)
			if err != nil {
				return false, err
			}
			carryValue.Type = VAL_STRING
			carryValue.Val = s
		case ITOK_VAR_NAME:
			if i > 0 && tokens[i-1].Type == ITOK_CMD_DEL {
				continue
			}
			// NOTE: only a trailing variable is expanded
			if i == len(tokens)-1 {
				carryValue, ok = interpreter.State[t.Text]
				if !ok {
					return false, fmt.Errorf("No variable: %s", t.Text)
				}
			} else {
				variableName = t.Text
			}
		case ITOK_VAL_STR:
			carryValue.Type = VAL_STRING
			carryValue.Val = t.Text
		case ITOK_VAL_INT:
			val, err := strconv.Atoi(t.Text)
			if err != nil {
				return false, fmt.Errorf("Unable to parse as integer: %v", err)
			}
			carryValue.Type = VAL_INT
			carryValue.Val = val
		case ITOK_CMD_LEN:
			var length int
			switch carryValue.Type {
			case VAL_STRING:
				s, ok := carryValue.Val.(string)
				if !ok {
					return true, errors.New("Type corruption during len, expected string")
				}
				length = len(s)
			case VAL_TOKENS:
				toks, ok := carryValue.Val.([]query.Token)
				if !ok {
					return true, errors.New("Type corruption during len, expected []query.Token")
				}
				length = len(toks)
			case VAL_QUERY:
				root, ok := carryValue.Val.(*query.BooleanQuery)
				if !ok {
					return true, errors.New("Type corruption during len, expected *query.BooleanQuery")
				}
				length = len(root.Clauses)
			default:
				return false, fmt.Errorf("Unable to get length of argument with type: %s", carryValue.Type)
			}
			carryValue.Type = VAL_INT
			carryValue.Val = length
		}
	}

	if carryValue.Type != VAL_INVALID {
		fmt.Fprintln(w, carryValue)
		interpreter.State["_"] = carryValue
	}

	return false, nil
}

func stringLiteral(word string) IToken {
	_, strLiteral, _ := strings.Cut(word, "`")
	return IToken{ITOK_VAL_STR, strLiteral}
}

// argument of a command taking a value, either a literal or a variable
func valueToken(word string) IToken {
	if word[0] == '`' {
		return stringLiteral(word)
	}
	return IToken{ITOK_VAR_NAME, word}
}

func (interpreter Interpreter) Tokenize(line string) []IToken {
	var prevType ITokType
	tokens := make([]IToken, 0, 3)
	for word := range strings.SplitSeq(line, " ") {
		trimmedWord := strings.TrimSpace(word)
		if trimmedWord == "" {
			continue
		}

		if len(tokens) != 0 {
			prevType = tokens[len(tokens)-1].Type
		}

		// string literals run to the end of the line
		if prevType == ITOK_VAL_STR {
			tokens[len(tokens)-1].Text += " " + word
			continue
		}

		switch trimmedWord {
		case "help":
			tokens = append(tokens, IToken{Type: ITOK_CMD_HELP})
			continue
		case "clear":
			tokens = append(tokens, IToken{Type: ITOK_CMD_CLEAR})
			continue
		case "let":
			tokens = append(tokens, IToken{Type: ITOK_CMD_LET})
			continue
		case "del":
			tokens = append(tokens, IToken{Type: ITOK_CMD_DEL})
			continue
		case "print":
			tokens = append(tokens, IToken{Type: ITOK_CMD_PRINT})
			continue
		case "len":
			tokens = append(tokens, IToken{Type: ITOK_CMD_LEN})
			continue
		case "rematch":
			tokens = append(tokens, IToken{Type: ITOK_CMD_REMATCH})
			continue
		case "repattern":
			tokens = append(tokens, IToken{Type: ITOK_CMD_REPATTERN})
			continue
		case "tokenize":
			tokens = append(tokens, IToken{Type: ITOK_CMD_TOKENIZE})
			continue
		case "parse":
			tokens = append(tokens, IToken{Type: ITOK_CMD_PARSE})
			continue
		case "simplify":
			tokens = append(tokens, IToken{Type: ITOK_CMD_SIMPLIFY})
			continue
		}

		if l := len("out_"); len(trimmedWord) > l && trimmedWord[:l] == "out_" {
			tokens = append(tokens, IToken{ITOK_CMD_OUTPUT, trimmedWord[l:]})
			continue
		}

		switch prevType {
		case ITOK_CMD_LET, ITOK_CMD_DEL, ITOK_CMD_PRINT:
			tokens = append(tokens, IToken{ITOK_VAR_NAME, trimmedWord})
		case ITOK_CMD_LEN, ITOK_CMD_REMATCH, ITOK_CMD_TOKENIZE:
			tokens = append(tokens, valueToken(word))
		case ITOK_CMD_PARSE, ITOK_CMD_SIMPLIFY, ITOK_CMD_OUTPUT:
			tokens = append(tokens, IToken{ITOK_VAR_NAME, trimmedWord})
		case ITOK_VAR_NAME:
			if trimmedWord[0] == '`' {
				tokens = append(tokens, stringLiteral(word))
			} else if unicode.IsDigit(rune(trimmedWord[0])) {
				tokens = append(tokens, IToken{ITOK_VAL_INT, trimmedWord})
			} else {
				tokens = append(tokens, IToken{ITOK_INVALID, trimmedWord})
			}
		default:
			tokens = append(tokens, IToken{ITOK_INVALID, trimmedWord})
		}
	}

	return tokens
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Debug shell for qsimp")
	fmt.Fprintln(w, "help                              - print this help")
	fmt.Fprintln(w, "clear                             - clear the screen")
	fmt.Fprintln(w, "let name (string|tokens|query)    - save value to a variable")
	fmt.Fprintln(w, "del [name]                        - delete a variable or all variables")
	fmt.Fprintln(w, "print [name]                      - print a variable or all variables")
	fmt.Fprintln(w, "len (string|tokens|query|name)    - length of a string, token slice, or root clause list")
	fmt.Fprintln(w, "rematch (string|name)             - match against regex for the query language")
	fmt.Fprintln(w, "repattern                         - print regex for the query language")
	fmt.Fprintln(w, "tokenize (string|name)            - tokenize a string")
	fmt.Fprintln(w, "        ex. tokenize `+title:go -(a b)")
	fmt.Fprintln(w, "parse (tokens|name)               - parse tokens into a query")
	fmt.Fprintln(w, "simplify (query|name)             - simplify a query, printing each rewrite")
	fmt.Fprintln(w, "out_<format> (query|name)         - render a query as a string")
	fmt.Fprintln(w, "    default, tree, json, yaml")
	fmt.Fprintln(w, "\nBare commands which return a value assign to an implicit variable _")
}

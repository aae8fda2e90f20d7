package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

func (inter *Interpreter) Run() error {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("Unable to enter raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	inter.term = term.NewTerminal(os.Stdin, "qsimp> ")
	inter.term.SetPrompt(
		string(inter.term.Escape.Yellow) + "qsimp> " +
			string(inter.term.Escape.Reset),
	)

	for {
		line, err := inter.term.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		tokens := inter.Tokenize(line)
		fatal, err := inter.Eval(inter.term, tokens)
		if fatal {
			return err
		} else if err != nil {
			fmt.Fprintln(inter.term, string(inter.term.Escape.Red)+"Error:"+
				string(inter.term.Escape.Reset), err)
		}
	}
}

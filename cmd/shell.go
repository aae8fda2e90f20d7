package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpappel/qsimp/pkg/shell"
)

func RunShell(gFlags GlobalFlags) byte {
	opts, err := gFlags.ParseOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	interpreter := shell.NewInterpreter(make(shell.State), opts, slog.Default())
	if err := interpreter.Run(); err != nil {
		slog.Error("Fatal error occured", slog.String("err", err.Error()))
		return 1
	}

	return 0
}

package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
)

var CommandHelp map[string]string

func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "qsimp simplifies boolean search query trees")
	fmt.Fprintf(w, "\nUsage:\n  %s [global-flags] <command>\n\n", os.Args[0])
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  simplify     - simplify a query string or query tree")
	fmt.Fprintln(w, "  shell        - start a debug shell")
	fmt.Fprintln(w, "  server       - start an http or unix socket simplify server")
	fmt.Fprintln(w, "  help         - print this help then exit")
}

func PrintGlobalFlags(w io.Writer) {
	fmt.Fprintln(w, "\nGlobal Flags:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

// Print help for a command, or general help when command is empty.
func Help(command string, w io.Writer) {
	if command == "" {
		PrintHelp(w)
		PrintGlobalFlags(w)
		return
	}

	help, ok := CommandHelp[command]
	if !ok {
		fmt.Fprintf(w, "Unrecognized command `%s`\n\n", command)
		PrintHelp(w)
		return
	}
	fmt.Fprintf(w, "%s - %s\n", command, help)
	fmt.Fprintf(w, "Run `%s %s -h` for its flags\n", os.Args[0], command)
}

func init() {
	CommandHelp = make(map[string]string)
	CommandHelp["simplify"] = "simplify a query string, or a json or yaml query tree, and print the result"
	CommandHelp["s"] = CommandHelp["simplify"]
	CommandHelp["shell"] = "interactive shell for tokenizing, parsing, and simplifying queries"
	CommandHelp["server"] = "serve POST /simplify over http, or query strings over a unix datagram socket"
	CommandHelp["help"] = "print help for a command"
}

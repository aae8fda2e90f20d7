package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jpappel/qsimp/cmd"
	"github.com/jpappel/qsimp/pkg/query"
	"github.com/lmittmann/tint"
)

const VERSION = "0.1.0"
const ExitCommand = 2 // exit because of a command parsing error

func addGlobalFlagUsage(fs *flag.FlagSet) func() {
	return func() {
		f := fs.Output()
		fmt.Fprintln(f, "Usage of", fs.Name())
		fs.PrintDefaults()
		fmt.Fprintln(f, "\nGlobal Flags:")
		flag.PrintDefaults()
	}
}

func newLogger(globalFlags cmd.GlobalFlags) (*slog.Logger, func(), error) {
	var level slog.Level
	addSource := false
	switch globalFlags.LogLevel {
	case "debug":
		level = slog.LevelDebug
		addSource = true
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("Unrecognized log level: %s", globalFlags.LogLevel)
	}

	logFile := os.Stderr
	closer := func() {}
	switch globalFlags.LogFile {
	case "":
	case "-":
		logFile = os.Stdout
	default:
		f, err := os.Create(globalFlags.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("Cannot use log file `%s`: %w", globalFlags.LogFile, err)
		}
		logFile = f
		closer = func() { f.Close() }
	}

	var logHandler slog.Handler
	if globalFlags.LogJson {
		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level, AddSource: addSource})
	} else if globalFlags.LogColor {
		logHandler = tint.NewHandler(logFile, &tint.Options{
			Level:      level,
			AddSource:  addSource,
			TimeFormat: time.Kitchen,
		})
	} else {
		// strip time
		logHandler = slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level:     level,
			AddSource: addSource,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		})
	}

	return slog.New(logHandler), closer, nil
}

func main() {
	globalFlags := cmd.GlobalFlags{}
	cmd.SetupGlobalFlags(flag.CommandLine, &globalFlags)

	simplifyFs := flag.NewFlagSet("simplify", flag.ExitOnError)
	shellFs := flag.NewFlagSet("shell", flag.ExitOnError)
	serverFs := flag.NewFlagSet("server", flag.ExitOnError)

	// set default usage for flagsets without subcommands
	shellFs.Usage = addGlobalFlagUsage(shellFs)
	serverFs.Usage = addGlobalFlagUsage(serverFs)

	flag.Parse()
	args := flag.Args()

	cfg, err := cmd.LoadConfigFlag(flag.CommandLine, globalFlags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCommand)
	}
	cfg.Apply(flag.CommandLine, &globalFlags)

	simplifyFlags := cmd.SimplifyFlags{Outputer: query.DefaultOutput{}}
	if cfg.Output != "" {
		simplifyFlags.Outputer, err = query.NewOutputer(cfg.Output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid output in config `%s`: %s\n", globalFlags.ConfigPath, err)
			os.Exit(ExitCommand)
		}
	}
	serverFlags := cmd.ServerFlags{Port: 8080}

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "No Command provided")
		cmd.PrintHelp(os.Stderr)
		cmd.PrintGlobalFlags(os.Stderr)
		os.Exit(ExitCommand)
	}
	command := args[0]

	switch command {
	case "simplify", "s":
		cmd.SetupSimplifyFlags(args[1:], simplifyFs, &simplifyFlags)
	case "server":
		cmd.SetupServerFlags(args[1:], serverFs, &serverFlags)
	case "shell":
		shellFs.Parse(args[1:])
	case "help":
		cmd.Help(strings.Join(args[1:], " "), os.Stdout)
		return
	case "version":
		fmt.Println(VERSION)
		return
	default:
		cmd.Help(command, os.Stderr)
		os.Exit(ExitCommand)
	}

	logger, closeLog, err := newLogger(globalFlags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCommand)
	}
	slog.SetDefault(logger)
	logger.Debug("Loaded config", slog.String("path", globalFlags.ConfigPath))

	// command specific
	var exitCode int
	switch command {
	case "simplify", "s":
		searchQuery := strings.Join(simplifyFs.Args(), " ")
		exitCode = int(cmd.RunSimplify(globalFlags, simplifyFlags, searchQuery, os.Stdin, os.Stdout))
	case "server":
		exitCode = int(cmd.RunServer(globalFlags, serverFlags))
	case "shell":
		exitCode = int(cmd.RunShell(globalFlags))
	}

	closeLog()
	os.Exit(exitCode)
}

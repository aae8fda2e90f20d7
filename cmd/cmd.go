package cmd

import (
	"flag"
	"fmt"

	"github.com/jpappel/qsimp/pkg/query"
)

type GlobalFlags struct {
	ConfigPath   string
	LogLevel     string
	LogJson      bool
	LogColor     bool
	LogFile      string
	DefaultField string
	DefaultOccur string
}

func SetupGlobalFlags(fs *flag.FlagSet, flags *GlobalFlags) {
	fs.StringVar(&flags.ConfigPath, "config", DefaultConfigPath(), "`path` to yaml config file")
	fs.StringVar(&flags.LogLevel, "logLevel", "error", "set log `level` (debug, info, warn, error)")
	fs.BoolVar(&flags.LogJson, "logJson", false, "log to json")
	fs.BoolVar(&flags.LogColor, "logColor", false, "log colored text, ignored with -logJson")
	fs.StringVar(&flags.LogFile, "logFile", "", "`file` to log errors to, use '-' for stdout and empty for stderr")
	fs.StringVar(&flags.DefaultField, "defaultField", query.DefaultField, "`field` for query terms without one")
	fs.StringVar(&flags.DefaultOccur, "defaultOccur", "should", "`occur` for clauses without a modifier (must, should, must_not, filter)")
}

func (flags GlobalFlags) ParseOptions() (query.ParseOptions, error) {
	occur, err := query.ParseOccur(flags.DefaultOccur)
	if err != nil {
		return query.ParseOptions{}, fmt.Errorf("Invalid default occur: %w", err)
	}
	return query.ParseOptions{DefaultField: flags.DefaultField, DefaultOccur: occur}, nil
}

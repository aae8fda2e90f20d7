package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
)

const configRelPath = "qsimp/config.yaml"

// Config mirrors the global flags, values set on the command line win.
type Config struct {
	DefaultField string    `yaml:"default_field"`
	DefaultOccur string    `yaml:"default_occur"`
	Output       string    `yaml:"output"`
	Log          LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Json  bool   `yaml:"json"`
	Color bool   `yaml:"color"`
	File  string `yaml:"file"`
}

// Path of the first config file found in the xdg config dirs, or empty
func DefaultConfigPath() string {
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return ""
	}
	return path
}

func ParseConfig(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load a config from path, an empty path yields an empty config.
// A missing file is only an error when required is set.
func LoadConfig(path string, required bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return Config{}, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("Cannot read config `%s`: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("Cannot parse config `%s`: %w", path, err)
	}
	return cfg, nil
}

// Copy config values into flags which were not set on the command line.
func (cfg Config) Apply(fs *flag.FlagSet, flags *GlobalFlags) {
	set := setFlags(fs)

	setString := func(name string, dst *string, val string) {
		if !set[name] && val != "" {
			*dst = val
		}
	}
	setBool := func(name string, dst *bool, val bool) {
		if !set[name] && val {
			*dst = val
		}
	}

	setString("defaultField", &flags.DefaultField, cfg.DefaultField)
	setString("defaultOccur", &flags.DefaultOccur, cfg.DefaultOccur)
	setString("logLevel", &flags.LogLevel, cfg.Log.Level)
	setBool("logJson", &flags.LogJson, cfg.Log.Json)
	setBool("logColor", &flags.LogColor, cfg.Log.Color)
	setString("logFile", &flags.LogFile, cfg.Log.File)
}

// Names of the flags set on the command line
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// Load the config named by -config, which must exist when given explicitly.
func LoadConfigFlag(fs *flag.FlagSet, flags GlobalFlags) (Config, error) {
	return LoadConfig(flags.ConfigPath, setFlags(fs)["config"])
}

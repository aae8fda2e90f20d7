package cmd_test

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpappel/qsimp/cmd"
	"github.com/jpappel/qsimp/pkg/query"
)

const sampleConfig = `
default_field: body
default_occur: must
output: tree
log:
  level: debug
  color: true
`

func TestParseConfig(t *testing.T) {
	got, err := cmd.ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}

	want := cmd.Config{
		DefaultField: "body",
		DefaultOccur: "must",
		Output:       "tree",
		Log:          cmd.LogConfig{Level: "debug", Color: true},
	}
	if got != want {
		t.Errorf("ParseConfig() = %+v, want %+v", got, want)
	}
}

func TestParseConfig_UnknownKey(t *testing.T) {
	if _, err := cmd.ParseConfig([]byte("default_feild: body\n")); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := cmd.LoadConfig(filepath.Join(dir, "missing.yaml"), false)
	if err != nil {
		t.Fatal("Unexpected error for missing file:", err)
	}
	if cfg != (cmd.Config{}) {
		t.Errorf("Expected empty config, got %+v", cfg)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = cmd.LoadConfig(path, true)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}
	if cfg.DefaultField != "body" {
		t.Errorf("DefaultField = %s, want body", cfg.DefaultField)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.LoadConfig(bad, false); err == nil {
		t.Error("Expected error for malformed config")
	}
}

func TestLoadConfigFlag(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name    string
		args    []string
		path    string
		wantErr bool
	}{
		{"explicit missing file", []string{"-config", missing}, missing, true},
		{"discovered missing file", []string{}, missing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := cmd.GlobalFlags{}
			cmd.SetupGlobalFlags(flagSet, &flags)
			if err := flagSet.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			flags.ConfigPath = tt.path

			_, err := cmd.LoadConfigFlag(flagSet, flags)
			if tt.wantErr && !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("LoadConfigFlag() error = %v, want fs.ErrNotExist", err)
			} else if !tt.wantErr && err != nil {
				t.Errorf("LoadConfigFlag() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Apply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := cmd.GlobalFlags{}
	cmd.SetupGlobalFlags(fs, &flags)
	if err := fs.Parse([]string{"-defaultField", "title", "-logLevel", "warn"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := cmd.ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Apply(fs, &flags)

	if flags.DefaultField != "title" {
		t.Errorf("DefaultField = %s, command line value should win", flags.DefaultField)
	}
	if flags.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, command line value should win", flags.LogLevel)
	}
	if flags.DefaultOccur != "must" {
		t.Errorf("DefaultOccur = %s, want must from config", flags.DefaultOccur)
	}
	if !flags.LogColor {
		t.Error("LogColor should be set from config")
	}

	opts, err := flags.ParseOptions()
	if err != nil {
		t.Fatal(err)
	}
	want := query.ParseOptions{DefaultField: "title", DefaultOccur: query.OCC_MUST}
	if opts != want {
		t.Errorf("ParseOptions() = %+v, want %+v", opts, want)
	}
}

func TestGlobalFlags_ParseOptions_Invalid(t *testing.T) {
	flags := cmd.GlobalFlags{DefaultOccur: "sometimes"}
	if _, err := flags.ParseOptions(); err == nil {
		t.Error("Expected error for unknown occur")
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix selects the LDIFFMT_* environment overrides.
const envPrefix = "ldiffmt"

var errBadParam = errors.New("ldiffmt: parameter must have the form name=value")

// Config holds the settings of one ldiffmt run.
type Config struct {
	In          string
	Out         string
	Sort        bool
	SkipErrors  bool
	Check       bool
	UUIDParam   bool
	VersionLine bool
	Params      map[string]string
	LogFormat   string
	LogLevel    slog.Level
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		In:        "-",
		Out:       "-",
		LogFormat: "text",
		LogLevel:  slog.LevelInfo,
	}
}

func newFlagSet(def Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ldiffmt", pflag.ContinueOnError)
	fs.StringP("in", "i", def.In, "LDIF input file, - for stdin")
	fs.StringP("out", "o", def.Out, "LDIF output file, - for stdout")
	fs.BoolP("sort", "s", def.Sort, "Sort records root first")
	fs.Bool("skip-errors", def.SkipErrors, "Log and drop invalid records instead of failing")
	fs.BoolP("check", "c", def.Check, "Parse only and fail if any record is invalid")
	fs.StringArrayP("param", "p", nil, "Template parameter name=value, may be repeated")
	fs.Bool("uuid-param", def.UUIDParam, "Provide {{ uuid4 }} as a random UUID generator")
	fs.Bool("version-line", def.VersionLine, "Start the output with a version: 1 line")
	fs.String("config", "", "Configuration file (yaml, toml or json)")
	fs.String("log-format", def.LogFormat, "Log format: text or json")
	fs.String("log-level", def.LogLevel.String(), "Log level: debug, info, warn or error")
	return fs
}

// loadConfig merges defaults, the optional configuration file, LDIFFMT_*
// environment variables and command line flags, the last one winning.
func loadConfig(args []string, stderr io.Writer) (Config, error) {
	cfg := DefaultConfig()
	fs := newFlagSet(cfg)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return cfg, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg.In = v.GetString("in")
	cfg.Out = v.GetString("out")
	cfg.Sort = v.GetBool("sort")
	cfg.SkipErrors = v.GetBool("skip-errors")
	cfg.Check = v.GetBool("check")
	cfg.UUIDParam = v.GetBool("uuid-param")
	cfg.VersionLine = v.GetBool("version-line")
	cfg.LogFormat = strings.ToLower(v.GetString("log-format"))

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return cfg, fmt.Errorf("log-level: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return cfg, fmt.Errorf("log-format: unknown format %q", cfg.LogFormat)
	}

	// the file's params table is the base, flags override single entries
	cfg.Params = v.GetStringMapString("params")
	if cfg.Params == nil {
		cfg.Params = make(map[string]string)
	}
	flagParams, err := fs.GetStringArray("param")
	if err != nil {
		return cfg, err
	}
	for _, p := range flagParams {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return cfg, fmt.Errorf("%w: %q", errBadParam, p)
		}
		cfg.Params[name] = value
	}
	return cfg, nil
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

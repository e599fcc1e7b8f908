package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "IMGSEL"

type Config struct {
	SourceDir   string
	TargetDir   string
	Only        []string
	Workers     int
	ScanWorkers int
	Verbose     bool
	JSON        bool
	Yes         bool
	TUI         bool
	Listen      string
	LogFormat   string
}

// RegisterGlobalFlags adds the flags shared by every command.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (yaml, json or toml)")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("json", false, "Print results as JSON")
	fs.String("log-format", "console", "Log format: console or json")
	fs.Int("scan-workers", runtime.NumCPU(), "Concurrent stat workers while scanning")
	fs.Int("workers", 1, "Concurrent copy/move operations")
}

// RegisterBatchFlags adds the flags of the copy and move commands.
func RegisterBatchFlags(fs *pflag.FlagSet) {
	fs.StringP("source", "s", "", "Source directory to scan")
	fs.StringP("target", "t", "", "Target directory")
	fs.StringSlice("only", nil, "Only process images with these file names (repeatable)")
	fs.BoolP("yes", "y", false, "Overwrite existing files without asking")
	fs.Bool("tui", false, "Run the interactive terminal UI")
}

func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String("listen", "127.0.0.1:8080", "Address to listen on")
}

// Load resolves settings with precedence flag > IMGSEL_* env > config file > default.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		SourceDir:   strings.TrimSpace(v.GetString("source")),
		TargetDir:   strings.TrimSpace(v.GetString("target")),
		Only:        v.GetStringSlice("only"),
		Workers:     v.GetInt("workers"),
		ScanWorkers: v.GetInt("scan-workers"),
		Verbose:     v.GetBool("verbose"),
		JSON:        v.GetBool("json"),
		Yes:         v.GetBool("yes"),
		TUI:         v.GetBool("tui"),
		Listen:      v.GetString("listen"),
		LogFormat:   strings.ToLower(v.GetString("log-format")),
	}

	if cfg.Workers < 1 {
		return Config{}, errors.New("workers must be at least 1")
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return cfg, nil
}

func (c Config) ValidateBatch() error {
	if c.SourceDir == "" || c.TargetDir == "" {
		return errors.New("source and target are required")
	}
	return nil
}

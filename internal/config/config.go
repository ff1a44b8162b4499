package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "imagegen.yaml"

const envPrefix = "IMAGEGEN_"

// Config controls where the spec document goes and how builds run. It never
// changes the document's content.
type Config struct {
	Output         string      `yaml:"output"`
	Context        string      `yaml:"context"`
	Engine         string      `yaml:"engine"`
	Builder        string      `yaml:"builder"` // "cli" or "api"
	Compare        string      `yaml:"compare"` // "argument" or "literal"
	RevisionLabels bool        `yaml:"revision_labels"`
	LogLevel       string      `yaml:"log_level"`
	Serve          ServeConfig `yaml:"serve"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Output:         "Dockerfile",
		Context:        ".",
		Engine:         "docker",
		Builder:        "cli",
		Compare:        "argument",
		RevisionLabels: true,
		LogLevel:       "info",
		Serve:          ServeConfig{Addr: ":3000"},
	}
}

// Load reads .env files, then path, then IMAGEGEN_* overrides.
func Load(path string) (Config, error) {
	loadEnvFiles(".env", ".env.local")

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("configuration file not found: %s", path)
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can act on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("config: output path is empty")
	}
	if strings.TrimSpace(c.Engine) == "" {
		return fmt.Errorf("config: engine is empty")
	}
	if c.Builder != "cli" && c.Builder != "api" {
		return fmt.Errorf("config: builder must be cli or api, got %q", c.Builder)
	}
	if c.Compare != "argument" && c.Compare != "literal" {
		return fmt.Errorf("config: compare must be argument or literal, got %q", c.Compare)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return level, nil
}

func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"OUTPUT":     &c.Output,
		"CONTEXT":    &c.Context,
		"ENGINE":     &c.Engine,
		"BUILDER":    &c.Builder,
		"COMPARE":    &c.Compare,
		"LOG_LEVEL":  &c.LogLevel,
		"SERVE_ADDR": &c.Serve.Addr,
	}
	for key, dst := range str {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(envPrefix + "REVISION_LABELS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sREVISION_LABELS: %w", envPrefix, err)
		}
		c.RevisionLabels = b
	}
	return nil
}

// loadEnvFiles loads the first .env style file that exists. Variables
// already in the environment win.
func loadEnvFiles(names ...string) {
	for _, name := range names {
		err := godotenv.Load(name)
		if err == nil {
			slog.Debug("loaded environment file", "path", name)
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to load environment file", "path", name, "error", err)
		}
	}
}

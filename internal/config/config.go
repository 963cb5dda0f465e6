package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samsaffron/prqldoc/internal/ansihtml"
	"github.com/samsaffron/prqldoc/internal/results"
	"github.com/samsaffron/prqldoc/internal/site"
	"github.com/spf13/viper"
)

// FileName is the config file name searched in the config directory and the
// working directory.
const FileName = "prqldoc.yaml"

// EnvPrefix prefixes environment overrides, e.g. PRQLDOC_COMPILER_TARGET.
const EnvPrefix = "PRQLDOC"

type Config struct {
	Tag          string         `mapstructure:"tag" yaml:"tag"`
	DisplayTitle string         `mapstructure:"display_title" yaml:"display_title"`
	StrictModes  bool           `mapstructure:"strict_modes" yaml:"strict_modes"`
	Compiler     CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Errors       ErrorsConfig   `mapstructure:"errors" yaml:"errors"`
	Results      ResultsConfig  `mapstructure:"results" yaml:"results"`
	Build        BuildConfig    `mapstructure:"build" yaml:"build"`
}

// CompilerConfig configures the PRQL compiler invocation
type CompilerConfig struct {
	Command   string        `mapstructure:"command" yaml:"command"`
	Target    string        `mapstructure:"target" yaml:"target"`       // e.g. sql.postgres; empty uses prqlc's default
	Signature bool          `mapstructure:"signature" yaml:"signature"` // keep the "Generated by" comment
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ErrorsConfig controls how compile diagnostics are embedded
type ErrorsConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // strip or html
}

// ResultsConfig configures how table blocks are executed
type ResultsConfig struct {
	Engine  string        `mapstructure:"engine" yaml:"engine"` // command or sqlite
	Command []string      `mapstructure:"command" yaml:"command"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite" yaml:"sqlite"`
}

// SQLiteConfig configures the embedded database engine
type SQLiteConfig struct {
	DSN  string `mapstructure:"dsn" yaml:"dsn"`   // empty for an in-memory database
	Seed string `mapstructure:"seed" yaml:"seed"` // SQL script run once at startup
}

// BuildConfig selects the pages rewritten by "prqldoc build"
type BuildConfig struct {
	Include string   `mapstructure:"include" yaml:"include"` // doublestar pattern, e.g. **/*.md
	Exclude []string `mapstructure:"exclude" yaml:"exclude"` // glob patterns, * stops at "/"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tag", "prql")
	v.SetDefault("display_title", `prql title="PRQL"`)
	v.SetDefault("strict_modes", false)
	v.SetDefault("compiler.command", "prqlc")
	v.SetDefault("compiler.target", "")
	v.SetDefault("compiler.signature", false)
	v.SetDefault("compiler.timeout", 10*time.Second)
	v.SetDefault("errors.format", "strip")
	v.SetDefault("results.engine", string(results.EngineCommand))
	v.SetDefault("results.command", []string{"duckdb", "-c", results.Placeholder})
	v.SetDefault("results.timeout", 30*time.Second)
	v.SetDefault("results.sqlite.dsn", "")
	v.SetDefault("results.sqlite.seed", "")
	v.SetDefault("build.include", site.DefaultInclude)
	v.SetDefault("build.exclude", []string{})
}

// Load reads the configuration. An explicit path must exist; otherwise
// prqldoc.yaml is looked up in the config directory and the working
// directory, and a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		configPath, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(configPath)
		v.AddConfigPath(".")
	}

	// Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Compiler.Command = expandEnv(cfg.Compiler.Command)
	cfg.Results.SQLite.DSN = expandEnv(cfg.Results.SQLite.DSN)
	cfg.Results.SQLite.Seed = expandEnv(cfg.Results.SQLite.Seed)
	for i, arg := range cfg.Results.Command {
		cfg.Results.Command[i] = expandEnv(arg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late, mid-document.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tag) == "" || strings.ContainsAny(c.Tag, " \t") {
		return fmt.Errorf("tag must be a single non-empty word, got %q", c.Tag)
	}
	if _, err := ansihtml.ParseMode(c.Errors.Format); err != nil {
		return fmt.Errorf("errors.format: %w", err)
	}
	if !slices.Contains(results.Engines, results.Engine(c.Results.Engine)) {
		return fmt.Errorf("results.engine must be one of %v, got %q", results.Engines, c.Results.Engine)
	}
	if results.Engine(c.Results.Engine) == results.EngineCommand && len(c.Results.Command) == 0 {
		return fmt.Errorf("results.command is empty")
	}
	if err := site.ValidatePatterns(c.Build.Include, c.Build.Exclude); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if c.Compiler.Timeout < 0 || c.Results.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ApplyOverrides applies command line overrides to the config.
// If tag is non-empty, it replaces the fence tag; strict only ever enables
// strict mode.
func (c *Config) ApplyOverrides(tag string, strict bool) {
	if tag != "" {
		c.Tag = tag
	}
	if strict {
		c.StrictModes = true
	}
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for prqldoc.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "prqldoc"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "prqldoc"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// Exists reports whether a config file exists at path. An empty path means
// GetConfigPath.
func Exists(path string) bool {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return false
		}
		path = p
	}
	_, err := os.Stat(path)
	return err == nil
}

// Save writes cfg to path as a commented config file. An empty path means
// GetConfigPath.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# Fence language of PRQL samples
tag: %s
display_title: %q
# Reject unknown suffixes such as "prql erorr" instead of evaluating them
strict_modes: %t

compiler:
  command: %q
  # target: sql.postgres
  target: %q
  signature: %t
  timeout: %s

errors:
  # strip or html (keep compiler colors as styled spans)
  format: %s

results:
  # command or sqlite
  engine: %s
  command: [%s]
  timeout: %s
  sqlite:
    dsn: %q
    # seed: ~/prql/seed.sql
    seed: %q

build:
  include: %q
  # exclude: ["drafts/**"]
  exclude: [%s]
`, cfg.Tag, cfg.DisplayTitle, cfg.StrictModes,
		cfg.Compiler.Command, cfg.Compiler.Target, cfg.Compiler.Signature, cfg.Compiler.Timeout,
		cfg.Errors.Format,
		cfg.Results.Engine, quoteList(cfg.Results.Command), cfg.Results.Timeout,
		cfg.Results.SQLite.DSN, cfg.Results.SQLite.Seed,
		cfg.Build.Include, quoteList(cfg.Build.Exclude))

	return os.WriteFile(path, []byte(content), 0644)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

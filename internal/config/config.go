// Package config loads the TOML configuration of the patternscan service.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"PatternScan/internal/analysis"
	"PatternScan/internal/automaton"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultAddress is the default HTTP listen address.
	DefaultAddress = ":8080"

	// DefaultSetsDir is where pattern-set definitions live by default.
	DefaultSetsDir = "sets"
)

// Environment overrides, applied after the file is loaded.
const (
	EnvAddress  = "PATTERNSCAN_ADDR"
	EnvLogLevel = "PATTERNSCAN_LOG_LEVEL"
	EnvSetsDir  = "PATTERNSCAN_SETS_DIR"
)

// ErrNilConfig is returned by LoadFromBytes for an empty buffer.
var ErrNilConfig = errors.New("no nil buffer as config file")

// Config is the top-level patternscan configuration.
type Config struct {
	Server  Server
	Logging Logging
	Sets    Sets
}

// Server configures the HTTP API.
type Server struct {
	// Address is the listen address, host:port.
	Address string

	// ReadTimeout bounds reading a request, including its body.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive connections.
	IdleTimeout time.Duration

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Logging configures the slog handler.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is json (default) or text.
	Format string
}

// Sets configures where pattern sets come from and how they are built.
type Sets struct {
	// Dir holds one TOML definition per pattern set. Relative paths are
	// resolved against the config file's directory.
	Dir string

	// LinkMode is chain-walk (default) or single-hop.
	LinkMode string

	// DefaultAnalyzer is used by sets that do not name one.
	DefaultAnalyzer string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Address:      DefaultAddress,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: "json",
		},
		Sets: Sets{
			Dir:             DefaultSetsDir,
			LinkMode:        automaton.ChainWalk.String(),
			DefaultAnalyzer: "rune",
		},
	}
}

// LoadFromBytes parses b as TOML over the defaults and validates the result.
func LoadFromBytes(b []byte) (*Config, error) {
	if b == nil {
		return nil, ErrNilConfig
	}
	cfg := DefaultConfig()
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown keys: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and validates the config file at path. An empty path yields
// the defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		c := DefaultConfig()
		cfg = &c
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if cfg, err = LoadFromBytes(b); err != nil {
			return nil, err
		}
		if !filepath.IsAbs(cfg.Sets.Dir) {
			cfg.Sets.Dir = filepath.Join(filepath.Dir(path), cfg.Sets.Dir)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddress); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvSetsDir); v != "" {
		c.Sets.Dir = v
	}
}

// Validate checks every section, normalizing case where it is lenient.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("config: Server: Address is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: Server: MaxBodyBytes %d must be positive", c.Server.MaxBodyBytes)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Sets.Dir == "" {
		return errors.New("config: Sets: Dir is required")
	}
	if _, err := automaton.ParseLinkMode(c.Sets.LinkMode); err != nil {
		return fmt.Errorf("config: Sets: %w", err)
	}
	// Every set without its own analyzer builds with this one.
	reg := analysis.NewRegistry()
	if _, err := reg.Get(c.Sets.DefaultAnalyzer); err != nil {
		return fmt.Errorf("config: Sets: DefaultAnalyzer: %w (known: %s)",
			err, strings.Join(reg.Names(), ", "))
	}
	return nil
}

// Validate validates the logging configuration.
func (l *Logging) Validate() error {
	lvl := strings.ToLower(l.Level)
	switch lvl {
	case "debug", "info", "warn", "error":
	case "":
		lvl = DefaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", l.Level)
	}
	l.Level = lvl

	switch strings.ToLower(l.Format) {
	case "", "json":
		l.Format = "json"
	case "text":
		l.Format = "text"
	default:
		return fmt.Errorf("config: Logging: Format '%v' is invalid", l.Format)
	}
	return nil
}

// SlogLevel maps Level onto a slog.Level, defaulting to Info.
func (l Logging) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Mode returns the parsed failure-link mode.
func (s Sets) Mode() automaton.LinkMode {
	m, _ := automaton.ParseLinkMode(s.LinkMode)
	return m
}

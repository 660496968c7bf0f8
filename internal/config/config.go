package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/kestrel-lang/bakergc/internal/gc"
)

// Config represents the ~/.bakergc/config.toml file: the runtime-tunable
// knobs a from-scratch collector would otherwise bake in as build-time
// constants. Here they're just a Heap's constructor arguments, so the
// CLI and TUI can change them without a rebuild.
type Config struct {
	SpaceSizeBytes int  `toml:"space_size_bytes,omitempty" json:"space_size_bytes"`
	MaxRootDepth   int  `toml:"max_root_depth,omitempty" json:"max_root_depth"`
	DebugTrace     bool `toml:"debug_trace,omitempty" json:"debug_trace"`
}

// Defaults returns the configuration a freshly created Config should
// carry before any user override, matching gc's own package defaults.
func Defaults() Config {
	return Config{
		SpaceSizeBytes: gc.DefaultSpaceSize,
		MaxRootDepth:   gc.DefaultRootDepth,
		DebugTrace:     false,
	}
}

// NewHeap constructs a *gc.Heap sized per cfg, wiring a trace logger
// into it whenever cfg.DebugTrace is set. Every call site that builds a
// heap from a loaded Config should go through this helper instead of
// calling gc.NewHeap directly, so debug_trace behaves the same way
// everywhere (CLI subcommands, the TUI, the REPL console) rather than
// being read and displayed but only honored by one of them. logOutput
// is where trace entries land when tracing is enabled; nil leaves
// logrus's own default (stderr).
func NewHeap(cfg *Config, logOutput io.Writer) (*gc.Heap, error) {
	heap, err := gc.NewHeap(cfg.SpaceSizeBytes, cfg.MaxRootDepth)
	if err != nil {
		return nil, err
	}
	if cfg.DebugTrace {
		logger := logrus.New()
		logger.SetLevel(logrus.TraceLevel)
		if logOutput != nil {
			logger.SetOutput(logOutput)
		}
		heap.SetLogger(logger)
	}
	return heap, nil
}

// configDirOverride is set by the --config-dir flag or BAKERGC_HOME env var.
var configDirOverride string

// SetConfigDir allows the CLI to pass in the --config-dir / BAKERGC_HOME value.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Home returns the config directory path.
// Precedence: --config-dir flag / SetConfigDir > BAKERGC_HOME env > ~/.bakergc
func Home() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	if v := os.Getenv("BAKERGC_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bakergc")
	}
	return filepath.Join(home, ".bakergc")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// EnsureDir creates the config home directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Home(), 0o755)
}

// Load reads config.toml and returns a Config struct. If the file does
// not exist, it returns Defaults().
func Load() (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	if cfg.SpaceSizeBytes <= 0 {
		cfg.SpaceSizeBytes = gc.DefaultSpaceSize
	}
	if cfg.MaxRootDepth <= 0 {
		cfg.MaxRootDepth = gc.DefaultRootDepth
	}
	return &cfg, nil
}

// Save writes the Config struct back to config.toml.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o644)
}

// validKeys lists the keys that can be used with Get/Set.
var validKeys = map[string]bool{
	"space_size_bytes": true,
	"max_root_depth":   true,
	"debug_trace":      true,
}

// Get retrieves a single config value by key.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return getField(cfg, key)
}

// Set sets a single config value by key.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := setField(cfg, key, value); err != nil {
		return err
	}
	return Save(cfg)
}

func getField(cfg *Config, key string) (string, error) {
	switch key {
	case "space_size_bytes":
		return strconv.Itoa(cfg.SpaceSizeBytes), nil
	case "max_root_depth":
		return strconv.Itoa(cfg.MaxRootDepth), nil
	case "debug_trace":
		return strconv.FormatBool(cfg.DebugTrace), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setField(cfg *Config, key, value string) error {
	switch key {
	case "space_size_bytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("space_size_bytes must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("space_size_bytes must be positive")
		}
		cfg.SpaceSizeBytes = n
	case "max_root_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_root_depth must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("max_root_depth must be positive")
		}
		cfg.MaxRootDepth = n
	case "debug_trace":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug_trace must be a boolean: %w", err)
		}
		cfg.DebugTrace = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

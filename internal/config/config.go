package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nesting levels: NAVHUB_SYNC__DEBOUNCE=5s sets sync.debounce.
const EnvPrefix = "NAVHUB_"

const appName = "navhub"

// Config is the resolved runtime configuration
type Config struct {
	// DataDir overrides the embedded built-in catalogs with files on disk
	DataDir string `koanf:"data_dir"`
	// DataURL fetches built-in catalogs over HTTP(S) instead
	DataURL   string `koanf:"data_url"`
	StatePath string `koanf:"state_path"`
	LogFile   string `koanf:"log_file"`
	Verbosity int    `koanf:"verbosity"`
	Sync      Sync   `koanf:"sync"`
}

// Sync configures the remote backend
type Sync struct {
	Debounce   time.Duration `koanf:"debounce"`
	File       string        `koanf:"file"`
	Repository string        `koanf:"repository"`
	Branch     string        `koanf:"branch"`
	APIURL     string        `koanf:"api_url"`
}

// Defaults returns the built-in configuration values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":        "",
		"data_url":        "",
		"state_path":      filepath.Join(xdg.DataHome, appName, "state.db"),
		"log_file":        filepath.Join(xdg.StateHome, appName, appName+".log"),
		"verbosity":       0,
		"sync.debounce":   "2s",
		"sync.file":       "navhub-data.json",
		"sync.repository": "navhub-data",
		"sync.branch":     "main",
		"sync.api_url":    "https://api.github.com/",
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load layers defaults, the TOML file at path (if present) and NAVHUB_
// environment overrides. An empty path means DefaultPath().
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Sync.Debounce <= 0 {
		return nil, fmt.Errorf("sync.debounce must be positive, got %s", cfg.Sync.Debounce)
	}
	if !strings.HasSuffix(cfg.Sync.APIURL, "/") {
		cfg.Sync.APIURL += "/"
	}

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

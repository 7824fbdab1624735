package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ============================================================================
// CONFIGURATION — layered settings for the tiller commands
// ============================================================================
// Precedence, lowest to highest: built-in defaults → tiller.yaml → TILLER_*
// environment variables → command-line flags. Every layer is optional; a
// bare `tiller query` with GEMINI_API_KEY exported works out of the box.
// ============================================================================

// ConfigFileName is the config file looked up in the working directory.
const ConfigFileName = "tiller.yaml"

// ConfigFileNameAlt is the alternate spelling.
const ConfigFileNameAlt = "tiller.yml"

// Config holds every tunable the commands share.
type Config struct {
	// DatasetPath points at the listings file, JSON or CSV.
	DatasetPath string `koanf:"dataset"`
	// AliasesPath optionally overlays the built-in column alias table.
	AliasesPath string `koanf:"aliases"`

	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`

	MaxRetries  int           `koanf:"max_retries"`
	ExecTimeout time.Duration `koanf:"exec_timeout"`
	SampleRows  int           `koanf:"sample_rows"`

	HTTPAddr string `koanf:"http_addr"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"dataset":      "boats.json",
		"model":        "gemini-2.0-flash",
		"max_retries":  2,
		"exec_timeout": 5 * time.Second,
		"sample_rows":  5,
		"http_addr":    ":8080",
	}
}

// Load builds the Config from all layers. cfgFile names an explicit config
// file — required to exist when given; otherwise tiller.yaml/.yml in the
// working directory is used when present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// TILLER_MAX_RETRIES -> max_retries
	if err := k.Load(env.Provider("TILLER_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TILLER_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// flag names stay short; config keys say what they bound
			switch key {
			case "retries":
				key = "max_retries"
			case "timeout":
				key = "exec_timeout"
			case "addr":
				key = "http_addr"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile resolves which config file to read. An explicit path must
// exist; the conventional names are optional.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate rejects values no command could run with.
func (c *Config) Validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.ExecTimeout <= 0 {
		return fmt.Errorf("exec_timeout must be positive, got %s", c.ExecTimeout)
	}
	if c.SampleRows <= 0 {
		return fmt.Errorf("sample_rows must be positive, got %d", c.SampleRows)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearTillerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TILLER_DATASET", "TILLER_MODEL", "TILLER_API_KEY",
		"TILLER_MAX_RETRIES", "TILLER_EXEC_TIMEOUT", "TILLER_SAMPLE_ROWS",
		"TILLER_HTTP_ADDR", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearTillerEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "boats.json", cfg.DatasetPath)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.ExecTimeout)
	assert.Equal(t, 5, cfg.SampleRows)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfigFile(t *testing.T) {
	clearTillerEnv(t)
	path := writeConfig(t, `
dataset: fleet.csv
model: gemini-1.5-pro
max_retries: 4
exec_timeout: 10s
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "fleet.csv", cfg.DatasetPath)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.ExecTimeout)
	assert.Equal(t, 5, cfg.SampleRows, "unset keys keep their defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearTillerEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearTillerEnv(t)
	path := writeConfig(t, "model: from-file\n")
	t.Setenv("TILLER_MODEL", "from-env")
	t.Setenv("TILLER_MAX_RETRIES", "7")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, 7, cfg.MaxRetries)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearTillerEnv(t)
	t.Setenv("TILLER_MODEL", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.Int("retries", 0, "")
	flags.Duration("timeout", 0, "")
	flags.String("addr", "", "")
	require.NoError(t, flags.Parse([]string{
		"--model", "from-flag",
		"--retries", "1",
		"--timeout", "30s",
		"--addr", ":9999",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Model)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.ExecTimeout)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadUnchangedFlagsDoNotOverride(t *testing.T) {
	clearTillerEnv(t)
	t.Setenv("TILLER_MODEL", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "flag-default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model, "an unchanged flag must not mask lower layers")
}

func TestLoadGeminiKeyFallback(t *testing.T) {
	clearTillerEnv(t)
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.APIKey)

	t.Setenv("TILLER_API_KEY", "tiller-key")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "tiller-key", cfg.APIKey, "the TILLER_ spelling wins when both are set")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{
			name:      "empty dataset",
			mutate:    func(c *Config) { c.DatasetPath = "" },
			errSubstr: "dataset path is required",
		},
		{
			name:      "empty model",
			mutate:    func(c *Config) { c.Model = "" },
			errSubstr: "model is required",
		},
		{
			name:      "negative retries",
			mutate:    func(c *Config) { c.MaxRetries = -1 },
			errSubstr: "max_retries",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.ExecTimeout = 0 },
			errSubstr: "exec_timeout",
		},
		{
			name:      "zero sample rows",
			mutate:    func(c *Config) { c.SampleRows = 0 },
			errSubstr: "sample_rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				DatasetPath: "boats.json",
				Model:       "gemini-2.0-flash",
				MaxRetries:  2,
				ExecTimeout: 5 * time.Second,
				SampleRows:  5,
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides, e.g. OPENLAUNCH_SIM_HOST.
const EnvPrefix = "OPENLAUNCH_"

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low to high):
//  1. defaults (New())
//  2. YAML file at path, if path is non-empty
//  3. environment variables with the OPENLAUNCH_ prefix
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
		}
	}

	// OPENLAUNCH_SHOT_TIMEOUT_SEC -> shot_timeout_sec; underscores are kept
	// to match the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadDefault loads configuration honoring the OPENLAUNCH_CONFIG file path
// variable, falling back to pure defaults plus env overrides.
func LoadDefault() (*Config, error) {
	return Load(os.Getenv(EnvPrefix + "CONFIG"))
}

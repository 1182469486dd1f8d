package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults applied by [Load] when the file and environment leave a field
// empty.
const (
	DefaultListenAddr = ":8080"
	DefaultUsername   = "admin"
	DefaultPassword   = "admin"
)

// ValidModelProviders lists known model provider names. Used by [Validate] to
// warn about unrecognised provider names.
var ValidModelProviders = []string{
	"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path, applies LOREKEEPER_*
// environment overrides, fills defaults, and returns a validated [Config].
// An empty path skips the file and builds the config from environment and
// defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()

		cfg, err = decode(f)
		if err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills defaults, and validates
// the result. Environment overrides are not applied. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Server.Auth.Username == "" {
		cfg.Server.Auth.Username = DefaultUsername
	}
	if cfg.Server.Auth.Password == "" {
		cfg.Server.Auth.Password = DefaultPassword
	}
	if cfg.Extractor.Strategy == "" {
		cfg.Extractor.Strategy = StrategyPattern
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if !cfg.Extractor.Strategy.IsValid() {
		errs = append(errs, fmt.Errorf("extractor.strategy %q is invalid; valid values: pattern, model", cfg.Extractor.Strategy))
	}

	if t := cfg.Extractor.SimilarityThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("extractor.similarity_threshold %.2f is out of range [0, 1]", t))
	}

	if cfg.Extractor.Strategy == StrategyModel {
		if cfg.Extractor.Model.Provider == "" {
			errs = append(errs, errors.New("extractor.model.provider is required when extractor.strategy is model"))
		}
		if cfg.Extractor.Model.Model == "" {
			errs = append(errs, errors.New("extractor.model.model is required when extractor.strategy is model"))
		}
	}
	if p := cfg.Extractor.Model.Provider; p != "" && !slices.Contains(ValidModelProviders, p) {
		slog.Warn("unknown model provider name, may be a typo",
			"provider", p,
			"known", ValidModelProviders,
		)
	}

	if cfg.Server.Auth.Username == DefaultUsername && cfg.Server.Auth.Password == DefaultPassword {
		slog.Warn("API is protected by the default admin credentials; set server.auth in production")
	}

	if cfg.Storage.PostgresDSN == "" {
		slog.Warn("storage.postgres_dsn is empty; sessions and NPCs are kept in memory and lost on restart")
	}

	return errors.Join(errs...)
}

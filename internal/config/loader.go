package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied. `${VAR}` references in the file are
// expanded from the environment before parsing, so secrets can stay out of
// the file itself.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, expands environment
// references, applies defaults, and validates the result. Useful in tests
// where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token must not be empty"))
	}
	if cfg.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("openai.api_key must not be empty"))
	}
	if s := cfg.OpenAI.TTS.Speed; s < 0.25 || s > 4.0 {
		errs = append(errs, fmt.Errorf("openai.tts.speed %v is out of range [0.25, 4.0]", s))
	}
	if cfg.OpenAI.PollInterval <= 0 {
		errs = append(errs, errors.New("openai.poll_interval must be positive"))
	}
	if cfg.OpenAI.RunTimeout <= 0 {
		errs = append(errs, errors.New("openai.run_timeout must be positive"))
	}
	if cfg.Scratch.MaxAge <= 0 {
		errs = append(errs, errors.New("scratch.max_age must be positive"))
	}
	if cfg.Scratch.SweepInterval <= 0 {
		errs = append(errs, errors.New("scratch.sweep_interval must be positive"))
	}

	return errors.Join(errs...)
}

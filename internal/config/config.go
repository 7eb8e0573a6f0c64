// Package config provides the configuration schema and loader for the
// voicegram bot. Configuration is read once at startup from a YAML file;
// there is no runtime reconfiguration.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration is a time.Duration that unmarshals from YAML strings like "60s"
// or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"60s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the root configuration structure, typically loaded from a YAML
// file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Scratch  ScratchConfig  `yaml:"scratch"`
}

// ServerConfig holds the operational endpoint and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address for the /metrics, /healthz and /readyz
	// endpoints (e.g., ":9090"). Empty disables the listener.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Default: info.
	LogLevel LogLevel `yaml:"log_level"`
}

// TelegramConfig holds the messaging transport settings.
type TelegramConfig struct {
	// Token is the Telegram bot API token.
	Token string `yaml:"token"`
}

// OpenAIConfig holds the assistant provider settings.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string `yaml:"api_key"`

	// AssistantName is the name the bot looks up (and creates if missing)
	// at startup. Default: "voicegram-assistant".
	AssistantName string `yaml:"assistant_name"`

	// Model is the model designation for a newly created assistant.
	// Default: "gpt-4o".
	Model string `yaml:"model"`

	// Instructions is the system prompt given to a newly created assistant.
	Instructions string `yaml:"instructions"`

	// TranscribeModel is the speech-to-text model. Default: "whisper-1".
	TranscribeModel string `yaml:"transcribe_model"`

	// TTS configures speech synthesis.
	TTS TTSConfig `yaml:"tts"`

	// PollInterval is the fixed interval between run status checks.
	// Default: 1s.
	PollInterval Duration `yaml:"poll_interval"`

	// RunTimeout is the wall-clock deadline for a run to complete.
	// Default: 60s.
	RunTimeout Duration `yaml:"run_timeout"`
}

// TTSConfig holds the speech synthesis parameters.
type TTSConfig struct {
	// Model is the synthesis model. Default: "tts-1".
	Model string `yaml:"model"`

	// Voice selects the synthesis voice. Default: "echo".
	Voice string `yaml:"voice"`

	// Speed is the playback speed multiplier in [0.25, 4.0]. Default: 1.0.
	Speed float64 `yaml:"speed"`
}

// ScratchConfig holds the temporary-file settings.
type ScratchConfig struct {
	// Dir is the scratch directory for transient audio files.
	// Default: "./tmp".
	Dir string `yaml:"dir"`

	// MaxAge is how old a scratch file may grow before the sweep removes
	// it. Default: 600s.
	MaxAge Duration `yaml:"max_age"`

	// SweepInterval is how often the background sweep runs. Default: 1h.
	SweepInterval Duration `yaml:"sweep_interval"`
}

// applyDefaults fills in zero values with their documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.OpenAI.AssistantName == "" {
		cfg.OpenAI.AssistantName = "voicegram-assistant"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.TranscribeModel == "" {
		cfg.OpenAI.TranscribeModel = "whisper-1"
	}
	if cfg.OpenAI.TTS.Model == "" {
		cfg.OpenAI.TTS.Model = "tts-1"
	}
	if cfg.OpenAI.TTS.Voice == "" {
		cfg.OpenAI.TTS.Voice = "echo"
	}
	if cfg.OpenAI.TTS.Speed == 0 {
		cfg.OpenAI.TTS.Speed = 1.0
	}
	if cfg.OpenAI.PollInterval == 0 {
		cfg.OpenAI.PollInterval = Duration(time.Second)
	}
	if cfg.OpenAI.RunTimeout == 0 {
		cfg.OpenAI.RunTimeout = Duration(60 * time.Second)
	}
	if cfg.Scratch.Dir == "" {
		cfg.Scratch.Dir = "./tmp"
	}
	if cfg.Scratch.MaxAge == 0 {
		cfg.Scratch.MaxAge = Duration(600 * time.Second)
	}
	if cfg.Scratch.SweepInterval == 0 {
		cfg.Scratch.SweepInterval = Duration(time.Hour)
	}
}

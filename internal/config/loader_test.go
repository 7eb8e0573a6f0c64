package config_test

import (
	"strings"
	"testing"
	"time"

	"voicegram/internal/config"
)

const minimalYAML = `
telegram:
  token: "123:abc"
openai:
  api_key: "sk-test"
`

func TestLoadFromReader_MinimalWithDefaults(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(minimalYAML))
	if err != nil {
		t.Fatalf("LoadFromReader() error: %v", err)
	}

	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("LogLevel = %q, want %q", cfg.Server.LogLevel, config.LogInfo)
	}
	if cfg.OpenAI.AssistantName != "voicegram-assistant" {
		t.Errorf("AssistantName = %q, want default", cfg.OpenAI.AssistantName)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.TranscribeModel != "whisper-1" {
		t.Errorf("TranscribeModel = %q, want whisper-1", cfg.OpenAI.TranscribeModel)
	}
	if cfg.OpenAI.TTS.Voice != "echo" || cfg.OpenAI.TTS.Model != "tts-1" {
		t.Errorf("TTS = %+v, want tts-1/echo defaults", cfg.OpenAI.TTS)
	}
	if cfg.OpenAI.TTS.Speed != 1.0 {
		t.Errorf("TTS.Speed = %v, want 1.0", cfg.OpenAI.TTS.Speed)
	}
	if got := time.Duration(cfg.OpenAI.PollInterval); got != time.Second {
		t.Errorf("PollInterval = %s, want 1s", got)
	}
	if got := time.Duration(cfg.OpenAI.RunTimeout); got != 60*time.Second {
		t.Errorf("RunTimeout = %s, want 60s", got)
	}
	if got := time.Duration(cfg.Scratch.MaxAge); got != 600*time.Second {
		t.Errorf("Scratch.MaxAge = %s, want 600s", got)
	}
	if got := time.Duration(cfg.Scratch.SweepInterval); got != time.Hour {
		t.Errorf("Scratch.SweepInterval = %s, want 1h", got)
	}
	if cfg.Scratch.Dir != "./tmp" {
		t.Errorf("Scratch.Dir = %q, want ./tmp", cfg.Scratch.Dir)
	}
}

func TestLoadFromReader_FullConfig(t *testing.T) {
	yaml := `
server:
  listen_addr: ":9090"
  log_level: debug
telegram:
  token: "123:abc"
openai:
  api_key: "sk-test"
  assistant_name: "my-bot"
  model: "gpt-4o-mini"
  instructions: "Be brief."
  transcribe_model: "whisper-1"
  tts:
    model: "tts-1-hd"
    voice: "alloy"
    speed: 1.25
  poll_interval: "500ms"
  run_timeout: "90s"
scratch:
  dir: "/var/tmp/voicegram"
  max_age: "10m"
  sweep_interval: "30m"
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader() error: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.Server.ListenAddr)
	}
	if cfg.OpenAI.AssistantName != "my-bot" {
		t.Errorf("AssistantName = %q, want my-bot", cfg.OpenAI.AssistantName)
	}
	if got := time.Duration(cfg.OpenAI.PollInterval); got != 500*time.Millisecond {
		t.Errorf("PollInterval = %s, want 500ms", got)
	}
	if got := time.Duration(cfg.Scratch.MaxAge); got != 10*time.Minute {
		t.Errorf("MaxAge = %s, want 10m", got)
	}
	if cfg.OpenAI.TTS.Speed != 1.25 {
		t.Errorf("TTS.Speed = %v, want 1.25", cfg.OpenAI.TTS.Speed)
	}
}

func TestLoadFromReader_ExpandsEnv(t *testing.T) {
	t.Setenv("VOICEGRAM_TEST_TOKEN", "999:env")
	t.Setenv("VOICEGRAM_TEST_KEY", "sk-env")

	yaml := `
telegram:
  token: "${VOICEGRAM_TEST_TOKEN}"
openai:
  api_key: "${VOICEGRAM_TEST_KEY}"
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader() error: %v", err)
	}
	if cfg.Telegram.Token != "999:env" {
		t.Errorf("Token = %q, want env-expanded value", cfg.Telegram.Token)
	}
	if cfg.OpenAI.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want env-expanded value", cfg.OpenAI.APIKey)
	}
}

func TestLoadFromReader_MissingRequiredFields(t *testing.T) {
	_, err := config.LoadFromReader(strings.NewReader(`{}`))
	if err == nil {
		t.Fatal("LoadFromReader() should fail without token and api key")
	}
	for _, want := range []string{"telegram.token", "openai.api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	yaml := minimalYAML + `
mystery:
  knob: true
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("LoadFromReader() should reject unknown top-level fields")
	}
}

func TestLoadFromReader_BadDuration(t *testing.T) {
	yaml := minimalYAML + `
scratch:
  max_age: "ten minutes"
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("LoadFromReader() should reject unparseable durations")
	}
}

func TestLoadFromReader_BadLogLevel(t *testing.T) {
	yaml := minimalYAML + `
server:
  log_level: loud
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("LoadFromReader() should reject invalid log levels")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error %q should mention log_level", err)
	}
}

func TestLoadFromReader_SpeedOutOfRange(t *testing.T) {
	yaml := `
telegram:
  token: "123:abc"
openai:
  api_key: "sk-test"
  tts:
    speed: 9.5
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("LoadFromReader() should reject out-of-range tts speed")
	}
	if !strings.Contains(err.Error(), "speed") {
		t.Errorf("error %q should mention speed", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
}

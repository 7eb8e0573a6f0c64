package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	defaultTranscribeModel = "whisper-1"
	defaultSpeechModel     = "tts-1"
	defaultVoice           = "echo"
	defaultSpeed           = 1.0
)

// OpenAIConfig holds the audio-endpoint parameters for [OpenAI]. Zero values
// fall back to whisper-1 / tts-1 / echo at speed 1.
type OpenAIConfig struct {
	// TranscribeModel is the speech-to-text model (e.g., "whisper-1").
	TranscribeModel string

	// SpeechModel is the text-to-speech model (e.g., "tts-1").
	SpeechModel string

	// Voice selects the synthesis voice (e.g., "echo", "alloy").
	Voice string

	// Speed is the synthesis speed multiplier in [0.25, 4.0].
	Speed float64
}

// OpenAI implements [API] against the OpenAI Assistants and Audio endpoints.
type OpenAI struct {
	client          openai.Client
	transcribeModel string
	speechModel     string
	voice           string
	speed           float64
}

// NewOpenAI creates the production [API] implementation. apiKey must be
// non-empty.
func NewOpenAI(apiKey string, cfg OpenAIConfig) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("assistant: openai api key must not be empty")
	}
	o := &OpenAI{
		client:          openai.NewClient(option.WithAPIKey(apiKey)),
		transcribeModel: cfg.TranscribeModel,
		speechModel:     cfg.SpeechModel,
		voice:           cfg.Voice,
		speed:           cfg.Speed,
	}
	if o.transcribeModel == "" {
		o.transcribeModel = defaultTranscribeModel
	}
	if o.speechModel == "" {
		o.speechModel = defaultSpeechModel
	}
	if o.voice == "" {
		o.voice = defaultVoice
	}
	if o.speed == 0 {
		o.speed = defaultSpeed
	}
	return o, nil
}

// ListAssistants implements [API].
func (o *OpenAI) ListAssistants(ctx context.Context, limit int) ([]Assistant, error) {
	page, err := o.client.Beta.Assistants.List(ctx, openai.BetaAssistantListParams{
		Limit: openai.Int(int64(limit)),
	})
	if err != nil {
		return nil, err
	}
	out := make([]Assistant, 0, len(page.Data))
	for _, a := range page.Data {
		out = append(out, Assistant{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// CreateAssistant implements [API].
func (o *OpenAI) CreateAssistant(ctx context.Context, name, instructions, model string) (Assistant, error) {
	created, err := o.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        shared.ChatModel(model),
		Name:         openai.String(name),
		Instructions: openai.String(instructions),
	})
	if err != nil {
		return Assistant{}, err
	}
	return Assistant{ID: created.ID, Name: created.Name}, nil
}

// CreateThread implements [API].
func (o *OpenAI) CreateThread(ctx context.Context) (string, error) {
	thread, err := o.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

// AddUserMessage implements [API].
func (o *OpenAI) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := o.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	return err
}

// StartRun implements [API].
func (o *OpenAI) StartRun(ctx context.Context, threadID, assistantID string) (string, error) {
	run, err := o.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// RunStatus implements [API].
func (o *OpenAI) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	run, err := o.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return "", err
	}
	return string(run.Status), nil
}

// ListMessages implements [API]. Only text segments are carried over; image
// and refusal content has no place in a voice reply.
func (o *OpenAI) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	page, err := o.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{})
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		msg := Message{Role: string(m.Role)}
		for _, c := range m.Content {
			if c.Type == "text" {
				msg.Parts = append(msg.Parts, c.Text.Value)
			}
		}
		out = append(out, msg)
	}
	return out, nil
}

// Transcribe implements [API].
func (o *OpenAI) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(o.transcribeModel),
		File:  openai.File(audio, filename, "audio/ogg"),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Synthesize implements [API].
func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(o.speechModel),
		Voice: openai.AudioSpeechNewParamsVoice(o.voice),
		Input: text,
		Speed: openai.Float(o.speed),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return audio, nil
}

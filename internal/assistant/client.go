package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voicegram/internal/scratch"
)

// FallbackReply is returned by [Client.Respond] when a completed run left no
// assistant-authored message in the thread. Users get this string instead of
// an error.
const FallbackReply = "Sorry, I have no answer for you right now."

// Run status values the provider reports. Completed is the single success
// state; the other three are terminal failures.
const (
	runStatusCompleted = "completed"
	runStatusFailed    = "failed"
	runStatusCancelled = "cancelled"
	runStatusExpired   = "expired"
)

const (
	defaultName         = "voicegram-assistant"
	defaultModel        = "gpt-4o"
	defaultPollInterval = time.Second
	defaultRunTimeout   = 60 * time.Second
)

// Client drives conversations against a provider through [API]. It holds the
// assistant identity resolved by [Client.Bootstrap] and is safe for
// concurrent use afterwards — all mutable state lives in the provider.
type Client struct {
	api   API
	store *scratch.Store

	name         string
	instructions string
	model        string

	assistantID string
	poll        poller
}

// Option configures a [Client].
type Option func(*Client)

// WithName sets the assistant name looked up and created at bootstrap.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithInstructions sets the system instructions for a newly created assistant.
func WithInstructions(instructions string) Option {
	return func(c *Client) { c.instructions = instructions }
}

// WithModel sets the model designation for a newly created assistant.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithPollInterval sets the fixed interval between run status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.poll.interval = d }
}

// WithRunTimeout sets the wall-clock deadline for a run to complete.
func WithRunTimeout(d time.Duration) Option {
	return func(c *Client) { c.poll.deadline = d }
}

// New creates a Client. Call [Client.Bootstrap] before anything else.
func New(api API, store *scratch.Store, opts ...Option) *Client {
	c := &Client{
		api:   api,
		store: store,
		name:  defaultName,
		model: defaultModel,
		poll:  newPoller(defaultPollInterval, defaultRunTimeout),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Bootstrap resolves the assistant identity: it reuses the most recent
// assistant if it carries the configured name, and creates a new one
// otherwise. Run this once at startup; an error here is fatal because
// nothing works without an assistant ID.
func (c *Client) Bootstrap(ctx context.Context) error {
	existing, err := c.api.ListAssistants(ctx, 1)
	if err != nil {
		return fmt.Errorf("assistant: list assistants: %w", err)
	}

	if len(existing) > 0 && existing[0].Name == c.name {
		c.assistantID = existing[0].ID
		slog.Info("reusing existing assistant", "name", c.name, "id", c.assistantID)
		return nil
	}

	created, err := c.api.CreateAssistant(ctx, c.name, c.instructions, c.model)
	if err != nil {
		return fmt.Errorf("assistant: create assistant: %w", err)
	}
	c.assistantID = created.ID
	slog.Info("created new assistant", "name", c.name, "id", c.assistantID, "model", c.model)
	return nil
}

// AssistantID returns the identity resolved by Bootstrap, or "" before it ran.
func (c *Client) AssistantID() string {
	return c.assistantID
}

// Respond submits userText to the user's thread and returns the assistant's
// reply together with the thread ID. When threadID is empty a new thread is
// created; the returned ID must be persisted by the caller so the next call
// continues the same conversation.
//
// The run is polled at a fixed interval until it completes, ends in a
// terminal failure (service fault naming the status), or outlives the run
// timeout (timeout fault).
func (c *Client) Respond(ctx context.Context, userText, threadID string) (string, string, error) {
	if threadID == "" {
		id, err := c.api.CreateThread(ctx)
		if err != nil {
			return "", "", classify(fmt.Errorf("create thread: %w", err))
		}
		threadID = id
		slog.Info("created new thread", "thread_id", threadID)
	} else {
		slog.Debug("reusing thread", "thread_id", threadID)
	}

	if err := c.api.AddUserMessage(ctx, threadID, userText); err != nil {
		return "", threadID, classify(fmt.Errorf("add message to thread %s: %w", threadID, err))
	}

	runID, err := c.api.StartRun(ctx, threadID, c.assistantID)
	if err != nil {
		return "", threadID, classify(fmt.Errorf("start run on thread %s: %w", threadID, err))
	}

	if err := c.waitForRun(ctx, threadID, runID); err != nil {
		return "", threadID, err
	}

	messages, err := c.api.ListMessages(ctx, threadID)
	if err != nil {
		return "", threadID, classify(fmt.Errorf("list messages of thread %s: %w", threadID, err))
	}

	return extractReply(messages), threadID, nil
}

// Transcribe converts the audio file at path to text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", classify(fmt.Errorf("open audio file: %w", err))
	}
	defer f.Close()

	text, err := c.api.Transcribe(ctx, f, filepath.Base(path))
	if err != nil {
		return "", classify(fmt.Errorf("transcribe audio: %w", err))
	}
	slog.Debug("transcribed audio", "path", path, "chars", len(text))
	return text, nil
}

// Synthesize converts text to speech, writes the audio to a fresh timestamped
// file in the scratch directory, and returns its path. The caller owns the
// file and is responsible for deleting it.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	audio, err := c.api.Synthesize(ctx, text)
	if err != nil {
		return "", classify(fmt.Errorf("synthesize speech: %w", err))
	}

	path := c.store.ResponsePath()
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", classify(fmt.Errorf("write speech file %s: %w", path, err))
	}
	slog.Debug("synthesized speech", "path", path, "bytes", len(audio))
	return path, nil
}

// waitForRun polls the run status until a terminal state or the deadline.
func (c *Client) waitForRun(ctx context.Context, threadID, runID string) error {
	return c.poll.wait(ctx, func(ctx context.Context) (bool, error) {
		status, err := c.api.RunStatus(ctx, threadID, runID)
		if err != nil {
			return false, classify(fmt.Errorf("run %s status: %w", runID, err))
		}
		switch status {
		case runStatusCompleted:
			return true, nil
		case runStatusFailed, runStatusCancelled, runStatusExpired:
			return false, &Fault{
				Kind: KindService,
				Err:  fmt.Errorf("run %s ended with status %q", runID, status),
			}
		default:
			return false, nil
		}
	})
}

// extractReply returns the text of the most recent assistant-authored
// message (messages arrive newest first), space-joining its segments. A
// thread with no assistant message yields [FallbackReply].
func extractReply(messages []Message) string {
	for _, m := range messages {
		if m.Role == "assistant" {
			return strings.Join(m.Parts, " ")
		}
	}
	slog.Warn("no assistant message in thread, using fallback reply")
	return FallbackReply
}

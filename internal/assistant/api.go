// Package assistant implements the conversation client: it owns the OpenAI
// assistant identity, exchanges messages within per-user threads, and
// converts between speech and text. Provider failures are translated into
// the three fault kinds the bot layer knows how to apologise for.
package assistant

import (
	"context"
	"io"
)

// Assistant identifies a named assistant registered with the provider.
type Assistant struct {
	ID   string
	Name string
}

// Message is one entry in a thread, newest first as returned by the
// provider. Parts holds the text segments of the message body.
type Message struct {
	Role  string
	Parts []string
}

// API is the slice of the provider surface the client needs. The production
// implementation is [OpenAI]; tests substitute a scripted one from the mock
// package.
type API interface {
	// ListAssistants returns up to limit assistants, most recent first.
	ListAssistants(ctx context.Context, limit int) ([]Assistant, error)

	// CreateAssistant registers a new named assistant and returns it.
	CreateAssistant(ctx context.Context, name, instructions, model string) (Assistant, error)

	// CreateThread starts an empty conversation and returns its ID.
	CreateThread(ctx context.Context) (string, error)

	// AddUserMessage appends a user-authored text message to the thread.
	AddUserMessage(ctx context.Context, threadID, text string) error

	// StartRun begins an assistant pass over the thread and returns the run ID.
	StartRun(ctx context.Context, threadID, assistantID string) (string, error)

	// RunStatus returns the current status string of a run.
	RunStatus(ctx context.Context, threadID, runID string) (string, error)

	// ListMessages returns the thread's messages, newest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)

	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)

	// Synthesize converts text to audio and returns the raw bytes.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

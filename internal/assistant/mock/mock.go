// Package mock provides a test double for the assistant.API interface.
//
// Use API to script provider behaviour without network access and to verify
// which operations were invoked. Responses are configured through exported
// fields; every call is recorded.
//
// Example:
//
//	api := &mock.API{
//	    ThreadID:    "thread_1",
//	    RunID:       "run_1",
//	    RunStatuses: []string{"queued", "in_progress", "completed"},
//	    Messages: []assistant.Message{
//	        {Role: "assistant", Parts: []string{"Hi there"}},
//	    },
//	}
package mock

import (
	"context"
	"io"
	"sync"

	"voicegram/internal/assistant"
)

// AddMessageCall records a single invocation of AddUserMessage.
type AddMessageCall struct {
	ThreadID string
	Text     string
}

// StartRunCall records a single invocation of StartRun.
type StartRunCall struct {
	ThreadID    string
	AssistantID string
}

// API is a mock implementation of assistant.API.
type API struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// Assistants is returned by ListAssistants (truncated to the limit).
	Assistants []assistant.Assistant

	// ListAssistantsErr, if non-nil, is returned from ListAssistants.
	ListAssistantsErr error

	// CreatedAssistant is returned by CreateAssistant. If its ID is empty,
	// "asst_mock" is used.
	CreatedAssistant assistant.Assistant

	// CreateAssistantErr, if non-nil, is returned from CreateAssistant.
	CreateAssistantErr error

	// ThreadID is returned by CreateThread. Defaults to "thread_mock".
	ThreadID string

	// CreateThreadErr, if non-nil, is returned from CreateThread.
	CreateThreadErr error

	// AddMessageErr, if non-nil, is returned from AddUserMessage.
	AddMessageErr error

	// RunID is returned by StartRun. Defaults to "run_mock".
	RunID string

	// StartRunErr, if non-nil, is returned from StartRun.
	StartRunErr error

	// RunStatuses is consumed one value per RunStatus call; once exhausted
	// the last value repeats. An empty slice means "completed".
	RunStatuses []string

	// RunStatusErr, if non-nil, is returned from RunStatus.
	RunStatusErr error

	// Messages is returned by ListMessages.
	Messages []assistant.Message

	// ListMessagesErr, if non-nil, is returned from ListMessages.
	ListMessagesErr error

	// TranscribedText is returned by Transcribe.
	TranscribedText string

	// TranscribeErr, if non-nil, is returned from Transcribe.
	TranscribeErr error

	// Audio is returned by Synthesize. If nil, a short placeholder is used.
	Audio []byte

	// SynthesizeErr, if non-nil, is returned from Synthesize.
	SynthesizeErr error

	// --- Call records ---

	ListAssistantsCalls  int
	CreateAssistantCalls int
	CreateThreadCalls    int
	AddMessageCalls      []AddMessageCall
	StartRunCalls        []StartRunCall
	RunStatusCalls       int
	ListMessagesCalls    int
	TranscribeCalls      int
	SynthesizeInputs     []string
}

var _ assistant.API = (*API)(nil)

// ListAssistants records the call and returns Assistants, ListAssistantsErr.
func (a *API) ListAssistants(_ context.Context, limit int) ([]assistant.Assistant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ListAssistantsCalls++
	if a.ListAssistantsErr != nil {
		return nil, a.ListAssistantsErr
	}
	out := a.Assistants
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateAssistant records the call and returns CreatedAssistant, CreateAssistantErr.
func (a *API) CreateAssistant(_ context.Context, name, _, _ string) (assistant.Assistant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.CreateAssistantCalls++
	if a.CreateAssistantErr != nil {
		return assistant.Assistant{}, a.CreateAssistantErr
	}
	created := a.CreatedAssistant
	if created.ID == "" {
		created.ID = "asst_mock"
	}
	if created.Name == "" {
		created.Name = name
	}
	return created, nil
}

// CreateThread records the call and returns ThreadID, CreateThreadErr.
func (a *API) CreateThread(_ context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.CreateThreadCalls++
	if a.CreateThreadErr != nil {
		return "", a.CreateThreadErr
	}
	if a.ThreadID == "" {
		return "thread_mock", nil
	}
	return a.ThreadID, nil
}

// AddUserMessage records the call and returns AddMessageErr.
func (a *API) AddUserMessage(_ context.Context, threadID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.AddMessageCalls = append(a.AddMessageCalls, AddMessageCall{ThreadID: threadID, Text: text})
	return a.AddMessageErr
}

// StartRun records the call and returns RunID, StartRunErr.
func (a *API) StartRun(_ context.Context, threadID, assistantID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.StartRunCalls = append(a.StartRunCalls, StartRunCall{ThreadID: threadID, AssistantID: assistantID})
	if a.StartRunErr != nil {
		return "", a.StartRunErr
	}
	if a.RunID == "" {
		return "run_mock", nil
	}
	return a.RunID, nil
}

// RunStatus records the call and returns the next scripted status.
func (a *API) RunStatus(_ context.Context, _, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.RunStatusCalls
	a.RunStatusCalls++
	if a.RunStatusErr != nil {
		return "", a.RunStatusErr
	}
	if len(a.RunStatuses) == 0 {
		return "completed", nil
	}
	if idx >= len(a.RunStatuses) {
		idx = len(a.RunStatuses) - 1
	}
	return a.RunStatuses[idx], nil
}

// ListMessages records the call and returns Messages, ListMessagesErr.
func (a *API) ListMessages(_ context.Context, _ string) ([]assistant.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ListMessagesCalls++
	if a.ListMessagesErr != nil {
		return nil, a.ListMessagesErr
	}
	return a.Messages, nil
}

// Transcribe records the call and returns TranscribedText, TranscribeErr.
func (a *API) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.TranscribeCalls++
	if audio != nil {
		_, _ = io.Copy(io.Discard, audio)
	}
	if a.TranscribeErr != nil {
		return "", a.TranscribeErr
	}
	return a.TranscribedText, nil
}

// Synthesize records the input text and returns Audio, SynthesizeErr.
func (a *API) Synthesize(_ context.Context, text string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.SynthesizeInputs = append(a.SynthesizeInputs, text)
	if a.SynthesizeErr != nil {
		return nil, a.SynthesizeErr
	}
	if a.Audio == nil {
		return []byte("mock-audio"), nil
	}
	return a.Audio, nil
}

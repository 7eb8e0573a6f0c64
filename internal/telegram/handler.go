package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voicegram/internal/assistant"
	"voicegram/internal/observe"
	"voicegram/internal/scratch"
	"voicegram/internal/session"
)

// Messenger is the slice of the Telegram API the request handler needs.
// [Bot] provides the production implementation; tests substitute fakes.
type Messenger interface {
	// SendText sends a text message and returns its message ID.
	SendText(chatID int64, text string) (int, error)

	// SendVoice sends the audio file at path as a voice message.
	SendVoice(chatID int64, path string) error

	// DeleteMessage removes a previously sent message. Best effort:
	// failures are logged, not returned.
	DeleteMessage(chatID int64, messageID int)

	// Download fetches the Telegram file with the given ID to dest.
	Download(ctx context.Context, fileID, dest string) error
}

// Responder is the assistant surface the request handler needs, implemented
// by [assistant.Client].
type Responder interface {
	Transcribe(ctx context.Context, path string) (string, error)
	Respond(ctx context.Context, userText, threadID string) (string, string, error)
	Synthesize(ctx context.Context, text string) (string, error)
}

// Handler orchestrates one incoming message end to end: artifact download,
// transcription, thread exchange, synthesis, and reply — with guaranteed
// cleanup of every scratch file it created and a per-kind apology on
// failure. Safe for concurrent use; each message is independent.
type Handler struct {
	msgr     Messenger
	client   Responder
	store    *scratch.Store
	sessions *session.Registry
	metrics  *observe.Metrics
}

// NewHandler creates a Handler with the given collaborators.
func NewHandler(msgr Messenger, client Responder, store *scratch.Store, sessions *session.Registry, metrics *observe.Metrics) *Handler {
	if metrics == nil {
		metrics = observe.NewNop()
	}
	return &Handler{
		msgr:     msgr,
		client:   client,
		store:    store,
		sessions: sessions,
		metrics:  metrics,
	}
}

// HandleStart answers /start and /help with the welcome text.
func (h *Handler) HandleStart(userID, chatID int64) {
	slog.Info("start command", "user_id", userID)
	if _, err := h.msgr.SendText(chatID, textStart); err != nil {
		slog.Warn("failed to send start message", "chat_id", chatID, "err", err)
	}
}

// HandleVoice processes one voice message: download, transcribe, echo the
// transcription, obtain the assistant reply, synthesize it, and send it
// back as a voice message.
func (h *Handler) HandleVoice(ctx context.Context, userID, chatID int64, fileID string) {
	slog.Info("voice message received", "user_id", userID)
	h.metrics.ActiveRequests.Add(ctx, 1)
	defer h.metrics.ActiveRequests.Add(ctx, -1)

	placeholder := h.sendPlaceholder(chatID, textProcessingVoice)
	placeholderGone := placeholder == 0

	var voicePath, replyPath string
	status := "error"
	defer func() {
		if !placeholderGone {
			h.msgr.DeleteMessage(chatID, placeholder)
		}
		if voicePath != "" {
			h.store.Delete(voicePath)
		}
		if replyPath != "" {
			h.store.Delete(replyPath)
		}
		h.metrics.RecordMessage(ctx, "voice", status)
	}()

	voicePath = h.store.VoicePath(userID, fileID)
	if err := h.msgr.Download(ctx, fileID, voicePath); err != nil {
		h.apologize(ctx, chatID, fmt.Errorf("download voice message: %w", err))
		return
	}

	start := time.Now()
	text, err := h.client.Transcribe(ctx, voicePath)
	if err != nil {
		h.apologize(ctx, chatID, err)
		return
	}
	h.metrics.STTDuration.Record(ctx, time.Since(start).Seconds())
	slog.Info("voice message transcribed", "user_id", userID, "chars", len(text))

	// Show the user what was understood, then retire the placeholder.
	if _, err := h.msgr.SendText(chatID, fmt.Sprintf(textHeard, text)); err != nil {
		slog.Warn("failed to echo transcription", "chat_id", chatID, "err", err)
	}
	if !placeholderGone {
		h.msgr.DeleteMessage(chatID, placeholder)
		placeholderGone = true
	}

	replyPath, err = h.respondWithVoice(ctx, userID, chatID, text)
	if err != nil {
		h.apologize(ctx, chatID, err)
		return
	}
	status = "ok"
	slog.Info("voice reply sent", "user_id", userID)
}

// HandleText processes one text message; same pipeline minus download and
// transcription.
func (h *Handler) HandleText(ctx context.Context, userID, chatID int64, text string) {
	slog.Info("text message received", "user_id", userID)
	h.metrics.ActiveRequests.Add(ctx, 1)
	defer h.metrics.ActiveRequests.Add(ctx, -1)

	placeholder := h.sendPlaceholder(chatID, textProcessingText)

	var replyPath string
	status := "error"
	defer func() {
		if placeholder != 0 {
			h.msgr.DeleteMessage(chatID, placeholder)
		}
		if replyPath != "" {
			h.store.Delete(replyPath)
		}
		h.metrics.RecordMessage(ctx, "text", status)
	}()

	replyPath, err := h.respondWithVoice(ctx, userID, chatID, text)
	if err != nil {
		h.apologize(ctx, chatID, err)
		return
	}
	status = "ok"
	slog.Info("voice reply sent", "user_id", userID)
}

// respondWithVoice runs the shared tail of both pipelines: thread exchange,
// synthesis, and the voice reply. It returns the synthesized file's path as
// soon as the file exists so the caller can clean it up even when the send
// step fails.
func (h *Handler) respondWithVoice(ctx context.Context, userID, chatID int64, text string) (replyPath string, err error) {
	threadID, _ := h.sessions.Get(userID)

	start := time.Now()
	reply, threadID, err := h.client.Respond(ctx, text, threadID)
	if err != nil {
		return "", err
	}
	h.metrics.AssistantDuration.Record(ctx, time.Since(start).Seconds())
	h.sessions.Set(userID, threadID)

	start = time.Now()
	replyPath, err = h.client.Synthesize(ctx, reply)
	if err != nil {
		return "", err
	}
	h.metrics.TTSDuration.Record(ctx, time.Since(start).Seconds())

	if err := h.msgr.SendVoice(chatID, replyPath); err != nil {
		return replyPath, fmt.Errorf("send voice reply: %w", err)
	}
	return replyPath, nil
}

// sendPlaceholder posts the "processing" notice and returns its message ID,
// or 0 when sending failed — the pipeline continues either way.
func (h *Handler) sendPlaceholder(chatID int64, text string) int {
	id, err := h.msgr.SendText(chatID, text)
	if err != nil {
		slog.Warn("failed to send processing notice", "chat_id", chatID, "err", err)
		return 0
	}
	return id
}

// apologize reports a failed request to the user with a message matching
// the fault kind. Faults never propagate past this point: one failing
// request must not take the bot down.
func (h *Handler) apologize(ctx context.Context, chatID int64, err error) {
	kind := assistant.KindOf(err)
	h.metrics.RecordFault(ctx, string(kind))
	slog.Error("request failed", "chat_id", chatID, "kind", kind, "err", err)

	var text string
	switch kind {
	case assistant.KindRateLimit:
		text = textErrRateLimit
	case assistant.KindTimeout:
		text = textErrTimeout
	default:
		text = textErrGeneric
	}
	if _, err := h.msgr.SendText(chatID, text); err != nil {
		slog.Warn("failed to send apology", "chat_id", chatID, "err", err)
	}
}

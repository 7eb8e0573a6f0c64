// Package telegram connects the voice assistant to Telegram. [Bot] owns the
// API session and long-poll update loop; [Handler] orchestrates each
// incoming message through transcription, the assistant exchange, and
// speech synthesis.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voicegram/internal/observe"
	"voicegram/internal/scratch"
	"voicegram/internal/session"
)

const (
	// updateTimeout is the long-poll timeout in seconds for GetUpdates.
	updateTimeout = 30

	// downloadTimeout bounds a single voice file download.
	downloadTimeout = 60 * time.Second
)

// Bot is the Telegram front end. It receives updates, dispatches each
// message to the [Handler] in its own goroutine, and implements [Messenger]
// for the outbound direction.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	http    *http.Client
}

// New authorizes with Telegram and wires up the request handler.
func New(token string, client Responder, store *scratch.Store, sessions *session.Registry, metrics *observe.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize bot: %w", err)
	}
	b := &Bot{
		api:  api,
		http: &http.Client{Timeout: downloadTimeout},
	}
	b.handler = NewHandler(b, client, store, sessions, metrics)
	slog.Info("telegram bot authorized", "username", api.Self.UserName)
	return b, nil
}

// Run receives updates until ctx is cancelled, then waits for in-flight
// message handlers to finish before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(u)

	slog.Info("listening for telegram updates")

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			wg.Wait()
			slog.Info("telegram update loop stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			msg := update.Message
			if msg == nil || msg.From == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.dispatch(ctx, msg)
			}()
		}
	}
}

// dispatch routes one message to the matching handler. Commands other than
// /start and /help are treated as plain text.
func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start", "help":
			b.handler.HandleStart(userID, chatID)
		default:
			b.handler.HandleText(ctx, userID, chatID, msg.Text)
		}
	case msg.Voice != nil:
		b.handler.HandleVoice(ctx, userID, chatID, msg.Voice.FileID)
	case msg.Text != "":
		b.handler.HandleText(ctx, userID, chatID, msg.Text)
	}
}

// SendText implements [Messenger].
func (b *Bot) SendText(chatID int64, text string) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("telegram: send text: %w", err)
	}
	return sent.MessageID, nil
}

// SendVoice implements [Messenger]. The file at path is uploaded as a
// Telegram voice message.
func (b *Bot) SendVoice(chatID int64, path string) error {
	if _, err := b.api.Send(tgbotapi.NewVoice(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("telegram: send voice: %w", err)
	}
	return nil
}

// DeleteMessage implements [Messenger]. Deletion is best effort; the
// message may already be gone or too old to delete.
func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		slog.Warn("failed to delete message", "chat_id", chatID, "message_id", messageID, "err", err)
	}
}

// Download implements [Messenger]: it resolves the file ID to a download
// URL via getFile and streams the content to dest.
func (b *Bot) Download(ctx context.Context, fileID, dest string) error {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return fmt.Errorf("telegram: resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return fmt.Errorf("telegram: build download request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: download file %s: unexpected status %s", fileID, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("telegram: create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("telegram: write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("telegram: close %s: %w", dest, err)
	}
	return nil
}

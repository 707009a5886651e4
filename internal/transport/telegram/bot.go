// Package telegram adapts the Telegram Bot API to the flow driver's
// transport ports: long-polled updates become flow events, outbound
// messages become chat replies with reply keyboards.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docbot/internal/common/logger"
	"docbot/internal/flow"
)

// Handler consumes one inbound event. The driver's Handle method
// satisfies it.
type Handler func(ctx context.Context, ev flow.Event) error

// Bot wraps the Telegram client behind the flow.Messenger port.
type Bot struct {
	api         *tgbotapi.BotAPI
	log         logger.Logger
	pollTimeout int
	http        *http.Client
}

// Config carries the transport settings.
type Config struct {
	Token       string
	PollTimeout int
}

func New(cfg Config, log logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization: %w", err)
	}

	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Bot{
		api:         api,
		log:         log.WithFields(map[string]interface{}{"component": "telegram"}),
		pollTimeout: timeout,
		http:        &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Username reports the authorized bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendText delivers a plain message; a non-empty keyboard becomes a
// one-button-per-row reply keyboard.
func (b *Bot) SendText(_ context.Context, chatID int64, text string, keyboard []string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
		for _, label := range keyboard {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.OneTimeKeyboard = true
		markup.ResizeKeyboard = true
		msg.ReplyMarkup = markup
	} else {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendDocument delivers generated file bytes as a named attachment.
func (b *Bot) SendDocument(_ context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send document to chat %d: %w", chatID, err)
	}
	return nil
}

// Run long-polls updates and feeds them to handle until ctx is
// cancelled. Handler errors are logged; the poll loop never stops on a
// single bad update.
func (b *Bot) Run(ctx context.Context, handle Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("long polling started", map[string]interface{}{
		"username": b.Username(),
		"timeout":  b.pollTimeout,
	})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			ev := b.toEvent(ctx, update.Message)
			if err := handle(ctx, ev); err != nil {
				b.log.WithError(err).Error("update handling failed", map[string]interface{}{
					"chatId": ev.ChatID,
				})
			}
		}
	}
}

// toEvent maps a Telegram message onto a flow event. Attached files are
// downloaded eagerly so the driver sees bytes, not API handles.
func (b *Bot) toEvent(ctx context.Context, m *tgbotapi.Message) flow.Event {
	ev := flow.Event{ChatID: m.Chat.ID, Text: m.Text}
	if m.IsCommand() {
		ev.Command = m.Command()
		ev.Text = ""
		return ev
	}

	fileID, kind := attachedFile(m)
	if fileID == "" {
		return ev
	}

	data, err := b.download(ctx, fileID)
	if err != nil {
		b.log.WithError(err).Warn("attachment download failed", map[string]interface{}{
			"chatId": m.Chat.ID,
			"fileId": fileID,
		})
		ev.FileError = true
		return ev
	}

	ev.FileData = data
	ev.FileKind = kind
	return ev
}

// attachedFile picks the file id and kind from a document or photo
// message. Photos have no filename; they carry an empty kind and are
// rejected by the plain-text extractor downstream.
func attachedFile(m *tgbotapi.Message) (fileID, kind string) {
	if m.Document != nil {
		ext := strings.TrimPrefix(filepath.Ext(m.Document.FileName), ".")
		return m.Document.FileID, strings.ToLower(ext)
	}
	if len(m.Photo) > 0 {
		return m.Photo[len(m.Photo)-1].FileID, ""
	}
	return "", ""
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build file request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch file: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

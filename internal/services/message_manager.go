package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type MessageManager struct {
	bot      *bot.Bot
	notifier *OperatorNotifier
	maxRetry int
}

func NewMessageManager(b *bot.Bot, notifier *OperatorNotifier) *MessageManager {
	return &MessageManager{
		bot:      b,
		notifier: notifier,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	if chatID, ok := params.ChatID.(int64); ok {
		m.notifier.NotifySendFailure(ctx, chatID, lastErr)
	}
	return nil, lastErr
}

func (m *MessageManager) SendAudioWithRetry(ctx context.Context, params *bot.SendAudioParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendAudio(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	if chatID, ok := params.ChatID.(int64); ok {
		m.notifier.NotifySendFailure(ctx, chatID, lastErr)
	}
	return nil, lastErr
}

// SendLesson renders one tutorial lesson: the audio file when the item is
// file-backed, inline text otherwise, followed by the note request.
func (m *MessageManager) SendLesson(ctx context.Context, userID int64, idx, total int, item *content.Item) error {
	header := fmt.Sprintf("🎧 Lesson %d/%d — %s", idx, total, item.Title)

	if item.File != "" {
		f, err := os.Open(item.File)
		if err != nil {
			return err
		}
		defer f.Close()

		caption := header
		if item.Caption != "" {
			caption += "\n\n" + item.Caption
		}
		if _, err := m.SendAudioWithRetry(ctx, &bot.SendAudioParams{
			ChatID:  userID,
			Audio:   &tgmodels.InputFileUpload{Filename: filepath.Base(item.File), Data: f},
			Caption: caption,
		}); err != nil {
			return err
		}
	} else {
		text := header
		if item.Text != "" {
			text += "\n\n" + item.Text
		}
		if _, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID: userID,
			Text:   text,
		}); err != nil {
			return err
		}
	}

	_, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   "✍️ When you are done, write a short note about this lesson.",
	})
	return err
}

// SendPrompt renders a collection-stage prompt, attaching the stage's short
// audio when one is declared.
func (m *MessageManager) SendPrompt(ctx context.Context, userID int64, text string, item *content.Item) error {
	if item != nil && item.File != "" {
		f, err := os.Open(item.File)
		if err == nil {
			defer f.Close()
			_, err = m.SendAudioWithRetry(ctx, &bot.SendAudioParams{
				ChatID:  userID,
				Audio:   &tgmodels.InputFileUpload{Filename: filepath.Base(item.File), Data: f},
				Caption: text,
			})
			return err
		}
	}

	_, err := m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
	return err
}

package services

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// OperatorNotifier is the fire-and-forget operator broadcast channel:
// registration milestones, follow-up questions, missing content, panics.
type OperatorNotifier struct {
	bot         *bot.Bot
	operatorIDs []int64
}

func NewOperatorNotifier(b *bot.Bot, operatorIDs []int64) *OperatorNotifier {
	return &OperatorNotifier{bot: b, operatorIDs: operatorIDs}
}

func (n *OperatorNotifier) Notify(ctx context.Context, text string) {
	for _, id := range n.operatorIDs {
		if _, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: id,
			Text:   text,
		}); err != nil {
			log.Printf("[NOTIFIER] failed to notify operator %d: %v", id, err)
		}
	}
}

func (n *OperatorNotifier) NotifyContentMissing(ctx context.Context, nf *content.NotFoundError) {
	n.Notify(ctx, fmt.Sprintf(
		"🚫 Missing content\nStage: %s\nItem: %d\nExpected: %s",
		nf.Stage, nf.Index, nf.Locator))
}

func (n *OperatorNotifier) NotifySendFailure(ctx context.Context, chatID int64, err error) {
	n.Notify(ctx, fmt.Sprintf("❌ Failed to send message\nUser: [%d]\nError: %v", chatID, err))
}

func (n *OperatorNotifier) NotifyPanic(ctx context.Context, panicValue interface{}, update *tgmodels.Update) {
	userInfo := "unknown"
	if update != nil {
		if update.Message != nil && update.Message.From != nil {
			userInfo = fmt.Sprintf("[%d]", update.Message.From.ID)
		} else if update.CallbackQuery != nil && update.CallbackQuery.From.ID != 0 {
			userInfo = fmt.Sprintf("[%d]", update.CallbackQuery.From.ID)
		}
	}

	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nError: %v\n\nStack trace:\n%s",
		userInfo, panicValue, string(debug.Stack()))
	if len(msg) > 4000 {
		msg = msg[:4000] + "\n... (truncated)"
	}
	n.Notify(ctx, msg)
}

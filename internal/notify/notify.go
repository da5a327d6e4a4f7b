// Package notify delivers human-readable league announcements to the group
// chat. The core produces the semantic outcome; delivery failures are logged
// and never fail the triggering operation.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

type Notifier interface {
	MatchCreated(ctx context.Context, match *models.Match, stadiumName string)
	MatchCancelled(ctx context.Context, match *models.Match, stadiumName string)
}

// Noop is used when no Telegram credentials are configured.
type Noop struct{}

func (Noop) MatchCreated(context.Context, *models.Match, string)   {}
func (Noop) MatchCancelled(context.Context, *models.Match, string) {}

// Telegram posts announcements to the league group chat. Send-only: the bot
// never polls for updates.
type Telegram struct {
	bot  telebot.API
	chat *telebot.Chat
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	return &Telegram{bot: bot, chat: &telebot.Chat{ID: chatID}}, nil
}

func (t *Telegram) MatchCreated(_ context.Context, match *models.Match, stadiumName string) {
	text := fmt.Sprintf(
		"New match: %s %s at %s, %d spots. See you on the pitch!",
		match.DayOfWeek,
		match.Date.Format(time.DateOnly),
		stadiumName,
		match.MaxPlayers,
	)
	t.send(text)
}

func (t *Telegram) MatchCancelled(_ context.Context, match *models.Match, stadiumName string) {
	text := fmt.Sprintf(
		"Match cancelled: %s %s at %s.",
		match.DayOfWeek,
		match.Date.Format(time.DateOnly),
		stadiumName,
	)
	t.send(text)
}

func (t *Telegram) send(text string) {
	if _, err := t.bot.Send(t.chat, text); err != nil {
		logrus.Errorf("failed to send chat announcement: %v", err)
	}
}

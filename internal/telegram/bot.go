// Package telegram adapts the command router to the Telegram long-poll
// transport. It owns update delivery, the user allowlist and reply sending;
// the router owns everything else.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"fireshot/internal/bot"
	"fireshot/internal/log"
)

const pollTimeoutSeconds = 60

type Bot struct {
	api         *tgbotapi.BotAPI
	router      *bot.Router
	allowUserID int64
	logger      *log.Logger
}

func New(token string, allowUserID int64, router *bot.Router, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to Telegram: %w", err)
	}
	return &Bot{
		api:         api,
		router:      router,
		allowUserID: allowUserID,
		logger:      logger,
	}, nil
}

// Run polls for updates until ctx is cancelled. Each message is handled in
// its own goroutine: requests are independent and may overlap.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(cfg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
		return ctx.Err()
	})
	g.Go(func() error {
		for update := range updates {
			msg := update.Message
			if msg == nil {
				continue
			}
			go b.handle(ctx, msg)
		}
		return nil
	})
	return g.Wait()
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.allowUserID {
		b.logger.Warn("rejected message from unauthorized user",
			log.FieldUserID, userID(msg),
			log.FieldChatID, msg.Chat.ID)
		b.reply(msg.Chat.ID, "Access denied")
		return
	}

	var text string
	if msg.IsCommand() {
		text = b.router.Dispatch(ctx, msg.Command(), msg.CommandArguments())
	} else {
		text = b.router.Dispatch(ctx, "", msg.Text)
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	if text == "" {
		text = "(no reply)"
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send reply",
			log.FieldChatID, chatID,
			log.FieldError, err)
	}
}

func userID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

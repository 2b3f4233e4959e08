package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fireshot/internal/bot"
	"fireshot/internal/cache"
	"fireshot/internal/config"
	"fireshot/internal/core"
	"fireshot/internal/firefly"
	"fireshot/internal/log"
	"fireshot/internal/resolver"
	"fireshot/internal/services"
	"fireshot/internal/telegram"
)

func main() {
	// Load .env if present (does not override real env vars)
	_ = godotenv.Load()

	logger := log.Default().WithComponent(log.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := firefly.New(cfg.FireflyURL, cfg.FireflyToken, cfg.HTTPTimeout,
		logger.WithComponent(log.ComponentFirefly))

	// The source account name is resolved once; the id is immutable for the
	// process lifetime.
	sourceID, err := client.FindAccountID(ctx, cfg.SourceAccount)
	if err != nil {
		logger.Error("Failed to resolve source account", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Resolved source account",
		"account", cfg.SourceAccount, log.FieldEntityID, sourceID)

	entityCache := cache.New(client.ListEntities, logger.WithComponent(log.ComponentCache))
	res := resolver.New(entityCache, client, resolver.Options{
		Threshold: cfg.MatchThreshold,
		Defaults: map[core.EntityKind]string{
			core.KindAccount: cfg.DefaultDestination,
		},
	}, logger.WithComponent(log.ComponentResolver))

	svc := services.NewTransactionService(client, res, sourceID,
		logger.WithComponent(log.ComponentService))
	router := bot.NewRouter(svc, logger.WithComponent(log.ComponentBot))

	tg, err := telegram.New(cfg.TelegramToken, cfg.AllowUserID, router,
		logger.WithComponent(log.ComponentTelegram))
	if err != nil {
		logger.Error("Failed to start Telegram bot", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Bot started", log.FieldUserID, cfg.AllowUserID)
	if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Bot stopped gracefully")
}

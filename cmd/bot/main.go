package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/internal/app"
	"flashdeck/internal/config"
	"flashdeck/internal/handler"
	"flashdeck/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireBot(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting flashdeck bot", zap.String("storage", cfg.StorageDriver))

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer a.Close()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	bot.Use(middleware.AuthMiddleware(a.Auth, logger))

	// Initialize handler
	h := handler.NewHandler(bot, handler.Services{
		Auth:    a.Auth,
		Decks:   a.Decks,
		Cards:   a.Cards,
		History: a.History,
		Reviews: a.Reviews,
		Stats:   a.Stats,
	}, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()

	if err := a.Catalog.Health(); err != nil {
		logger.Warn("Storage reported a problem before shutdown", zap.Error(err))
	}
	logger.Info("Bot stopped gracefully")
}

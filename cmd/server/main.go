package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mymmrac/telego"

	"spendtrack/internal/bot"
	"spendtrack/internal/config"
	"spendtrack/internal/notify"
	"spendtrack/internal/server"
	"spendtrack/internal/service"
	"spendtrack/internal/storage/sqlite"
	"spendtrack/internal/worker"
	"spendtrack/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// The bot instance is shared between the interactive front end and the
	// management notifier. Without a token, notifications go to the log and
	// the front end stays off.
	var notifier notify.Notifier = notify.Log{}
	var tgBot *telego.Bot
	if cfg.BotToken != "" {
		tgBot, err = telego.NewBot(cfg.BotToken)
		if err != nil {
			slog.Error("Failed to create telegram bot", "error", err)
			os.Exit(1)
		}
		if cfg.NotifyChatID != 0 {
			notifier = notify.NewTelegram(tgBot, cfg.NotifyChatID)
		}
	}

	ledger := service.NewLedgerService(store)
	reward := service.NewRewardService(store, notifier)

	go worker.New(ledger, notifier, cfg.RecomputeInterval).Start(ctx)

	if tgBot != nil {
		go func() {
			if err := bot.New(tgBot, ledger).Start(ctx); err != nil {
				slog.Error("Telegram bot stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(ledger, reward).Handler(),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	slog.Info("Server starting", "address", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

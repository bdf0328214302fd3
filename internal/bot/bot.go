// Package bot is the Telegram front end for the spending tracker. It serves
// the same queries as the HTTP API directly from the service layer.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"spendtrack/internal/calculator"
	"spendtrack/internal/service"
)

const helpText = "Available commands:\n" +
	"/start - show the welcome message\n" +
	"/user <user_id> - get details of a specific user\n" +
	"/average_spending - view average spending by age group\n" +
	"/top - view the top spenders leaderboard\n" +
	"/high_spenders - list loyalty-program members\n" +
	"/help - display this help message"

// Bot answers spending queries over Telegram.
type Bot struct {
	instance *telego.Bot
	ledger   *service.LedgerService
}

// New wraps an existing telego bot instance.
func New(instance *telego.Bot, ledger *service.LedgerService) *Bot {
	return &Bot{instance: instance, ledger: ledger}
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.instance.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.instance, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	handler.Handle(b.handleStart, th.CommandEqual("start"))
	handler.Handle(b.handleHelp, th.CommandEqual("help"))
	handler.Handle(b.handleUser, th.CommandEqual("user"))
	handler.Handle(b.handleAverageSpending, th.CommandEqual("average_spending"))
	handler.Handle(b.handleTop, th.CommandEqual("top"))
	handler.Handle(b.handleHighSpenders, th.CommandEqual("high_spenders"))

	slog.Info("Telegram bot started")
	handler.Start()
	return nil
}

func (b *Bot) reply(ctx *th.Context, update telego.Update, text string) error {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(update.Message.Chat.ID), text))
	if err != nil {
		slog.Warn("Failed to send bot reply", "chat_id", update.Message.Chat.ID, "error", err)
	}
	return nil
}

func (b *Bot) handleStart(ctx *th.Context, update telego.Update) error {
	return b.reply(ctx, update, "Welcome to the spending analysis bot!\n\n"+helpText)
}

func (b *Bot) handleHelp(ctx *th.Context, update telego.Update) error {
	return b.reply(ctx, update, helpText)
}

func (b *Bot) handleUser(ctx *th.Context, update telego.Update) error {
	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		return b.reply(ctx, update, "Please provide a user ID.\nUsage: /user <user_id>")
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return b.reply(ctx, update, "User ID must be an integer.\nUsage: /user <user_id>")
	}

	view, err := b.ledger.GetUser(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, update, fmt.Sprintf("User %d not found.", id))
		}
		slog.Error("Bot user lookup failed", "user_id", id, "error", err)
		return b.reply(ctx, update, "Something went wrong, try again later.")
	}

	return b.reply(ctx, update, fmt.Sprintf(
		"User data:\nID: %d\nName: %s\nE-mail: %s\nAge: %d\nTotal spending: $%s",
		view.ID, view.Name, view.Email, view.Age, view.TotalSpending.StringFixed(2),
	))
}

func (b *Bot) handleAverageSpending(ctx *th.Context, update telego.Update) error {
	averages, err := b.ledger.AverageSpendingByAge(ctx.Context())
	if err != nil {
		slog.Error("Bot average spending failed", "error", err)
		return b.reply(ctx, update, "Something went wrong, try again later.")
	}

	var sb strings.Builder
	sb.WriteString("Average spending by age group:\n")
	for _, bucket := range calculator.BucketLabels {
		if mean, ok := averages[bucket]; ok {
			fmt.Fprintf(&sb, "%s: $%s\n", bucket, mean.StringFixed(2))
		}
	}
	return b.reply(ctx, update, sb.String())
}

func (b *Bot) handleTop(ctx *th.Context, update telego.Update) error {
	board, err := b.ledger.ListLeaderboard(ctx.Context())
	if err != nil {
		slog.Error("Bot leaderboard failed", "error", err)
		return b.reply(ctx, update, "Something went wrong, try again later.")
	}
	if len(board) == 0 {
		return b.reply(ctx, update, "The leaderboard is empty.")
	}

	var sb strings.Builder
	sb.WriteString("Top spenders:\n")
	// Telegram messages get unwieldy beyond a screenful.
	limit := 10
	if len(board) < limit {
		limit = len(board)
	}
	for _, entry := range board[:limit] {
		fmt.Fprintf(&sb, "%d. %s - $%s\n", entry.Rank, entry.Name, entry.TotalSpending.StringFixed(2))
	}
	return b.reply(ctx, update, sb.String())
}

func (b *Bot) handleHighSpenders(ctx *th.Context, update telego.Update) error {
	spenders, err := b.ledger.ListHighSpenders(ctx.Context())
	if err != nil {
		slog.Error("Bot high spenders failed", "error", err)
		return b.reply(ctx, update, "Something went wrong, try again later.")
	}
	if len(spenders) == 0 {
		return b.reply(ctx, update, "No high spenders recorded yet.")
	}

	var sb strings.Builder
	sb.WriteString("High-spending users:\n")
	for _, hs := range spenders {
		fmt.Fprintf(&sb, "User %d - $%s (%d points)\n", hs.UserID, hs.TotalSpending.StringFixed(2), hs.BonusPoints)
	}
	return b.reply(ctx, update, sb.String())
}

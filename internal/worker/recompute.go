// Package worker periodically refreshes the leaderboard snapshot and sends
// the age-bucket statistics digest to management.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spendtrack/internal/calculator"
	"spendtrack/internal/notify"
	"spendtrack/internal/service"
)

// Recomputer drives scheduled leaderboard recomputation.
type Recomputer struct {
	ledger   *service.LedgerService
	notifier notify.Notifier
	interval time.Duration
}

// New creates a Recomputer ticking at the given interval.
func New(ledger *service.LedgerService, notifier notify.Notifier, interval time.Duration) *Recomputer {
	return &Recomputer{ledger: ledger, notifier: notifier, interval: interval}
}

// Start runs one cycle immediately, then on every tick until ctx is
// cancelled.
func (r *Recomputer) Start(ctx context.Context) {
	slog.Info("Background recompute worker started", "interval", r.interval)

	r.run(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Background recompute worker stopped")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

func (r *Recomputer) run(ctx context.Context) {
	if err := r.ledger.RecomputeLeaderboard(ctx); err != nil {
		slog.Error("Scheduled leaderboard recompute failed", "error", err)
		return
	}
	r.sendDigest(ctx)
}

// sendDigest reports the age-bucket averages to management. Best-effort:
// failures are logged and the next cycle tries again.
func (r *Recomputer) sendDigest(ctx context.Context) {
	averages, err := r.ledger.AverageSpendingByAge(ctx)
	if err != nil {
		slog.Error("Failed to compute stats digest", "error", err)
		return
	}
	if len(averages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("Spending statistics by age group:\n")
	for _, bucket := range calculator.BucketLabels {
		if mean, ok := averages[bucket]; ok {
			fmt.Fprintf(&sb, "Age group %s: $%s\n", bucket, mean.StringFixed(2))
		}
	}

	notifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := r.notifier.Notify(notifyCtx, sb.String()); err != nil {
		slog.Warn("Failed to send stats digest", "error", err)
	}
}

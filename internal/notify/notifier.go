// Package notify delivers outbound text notifications to management.
// Delivery is best-effort: callers fire and forget, and failures are logged
// rather than propagated.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a formatted text message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Log is a Notifier that only writes to the log. It is the fallback when no
// Telegram credentials are configured.
type Log struct{}

func (Log) Notify(_ context.Context, text string) error {
	slog.Info("Notification (no delivery channel configured)", "text", text)
	return nil
}

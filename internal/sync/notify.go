package sync

import (
	"context"
	"log/slog"
	"time"
)

// Notification is the completion (or failure) summary emitted after an event
// is processed.
type Notification struct {
	OwnerID     string    `json:"ownerId"`
	Kind        EventKind `json:"kind"`
	FileName    string    `json:"fileName"`
	CompletedAt time.Time `json:"completedAt"`
	Failed      bool      `json:"failed,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Notifier delivers completion notices. Delivery is best effort: failures
// are the caller's to log, never to propagate.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// MultiNotifier fans a notification out to several sinks. Errors from
// individual sinks are logged and swallowed.
type MultiNotifier []Notifier

// Notify implements Notifier.
func (m MultiNotifier) Notify(ctx context.Context, n *Notification) error {
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			slog.Warn("notification sink failed", "owner", n.OwnerID, "file", n.FileName, "error", err)
		}
	}
	return nil
}

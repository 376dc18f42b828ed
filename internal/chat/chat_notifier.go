package chat

import (
	"context"
	"fmt"

	"github.com/drivelinehq/driveline/internal/sync"
)

// Notifier delivers sync completion notices as chat messages.
type Notifier struct {
	client *Client
}

// NewNotifier wraps the chat client as a sync notifier.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// Notify implements sync.Notifier. Delivery failure is returned for the
// caller to log; it never affects sync correctness.
func (n *Notifier) Notify(ctx context.Context, note *sync.Notification) error {
	return n.client.SendMessage(ctx, note.OwnerID, formatNotification(note))
}

func formatNotification(n *sync.Notification) string {
	if n.Failed {
		return fmt.Sprintf("sync failed: %s %s (%s)", n.Kind, n.FileName, n.Error)
	}
	return fmt.Sprintf("sync complete: %s %s at %s", n.Kind, n.FileName, n.CompletedAt.Format("15:04:05"))
}

var _ sync.Notifier = (*Notifier)(nil)

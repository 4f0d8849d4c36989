package cli

import (
	"context"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
)

// TerminalChannel delivers reminder alerts to the chat console.
type TerminalChannel struct {
	console *Console
	now     func() time.Time
}

// NewTerminalChannel creates a channel printing to console.
func NewTerminalChannel(console *Console) *TerminalChannel {
	return &TerminalChannel{console: console, now: time.Now}
}

// Type implements notification.Channel.
func (t *TerminalChannel) Type() notification.ChannelType {
	return notification.ChannelTerminal
}

// Send implements notification.Channel.
func (t *TerminalChannel) Send(ctx context.Context, alert notification.Alert) notification.DeliveryResult {
	if err := ctx.Err(); err != nil {
		return notification.NewFailureResult(notification.ChannelTerminal, t.now(), err)
	}
	t.console.Alert(alert)
	return notification.NewSuccessResult(notification.ChannelTerminal, t.now())
}

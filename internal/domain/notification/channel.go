package notification

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL TYPE
// ══════════════════════════════════════════════════════════════════════════════

// ChannelType identifies where an alert is delivered.
type ChannelType string

const (
	// ChannelTerminal prints the alert to the chat terminal.
	ChannelTerminal ChannelType = "terminal"

	// ChannelRedis publishes the alert on a Redis pub/sub channel.
	ChannelRedis ChannelType = "redis"

	// ChannelPostgres appends the alert to the reminder_alerts table.
	ChannelPostgres ChannelType = "postgres"

	// ChannelLog writes the alert to the structured log.
	ChannelLog ChannelType = "log"
)

// String returns the channel type.
func (ct ChannelType) String() string {
	return string(ct)
}

// ══════════════════════════════════════════════════════════════════════════════
// DELIVERY RESULT
// ══════════════════════════════════════════════════════════════════════════════

// DeliveryResult is the outcome of sending one alert through one channel.
type DeliveryResult struct {
	Channel     ChannelType
	Success     bool
	DeliveredAt time.Time
	Error       error
}

// NewSuccessResult creates a successful delivery result.
func NewSuccessResult(channel ChannelType, at time.Time) DeliveryResult {
	return DeliveryResult{Channel: channel, Success: true, DeliveredAt: at}
}

// NewFailureResult creates a failed delivery result.
func NewFailureResult(channel ChannelType, at time.Time, err error) DeliveryResult {
	return DeliveryResult{Channel: channel, Success: false, DeliveredAt: at, Error: err}
}

// ErrNoChannels is returned when an alert could not be delivered anywhere.
var ErrNoChannels = errors.New("notification: no channel delivered the alert")

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Channel delivers alerts to one destination. Send must not block on the
// student record lock; the poller calls it after the lock is released.
type Channel interface {
	Type() ChannelType
	Send(ctx context.Context, alert Alert) DeliveryResult
}

// Sender fans an alert out to every registered channel.
type Sender interface {
	Send(ctx context.Context, alert Alert) []DeliveryResult
}

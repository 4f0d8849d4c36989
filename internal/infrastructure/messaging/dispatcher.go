// Package messaging fans reminder alerts out to every configured delivery
// channel and keeps failed deliveries for inspection.
package messaging

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISPATCHER
// ══════════════════════════════════════════════════════════════════════════════

// Dispatcher sends each alert to all registered channels concurrently. A
// slow or panicking channel cannot hold up the others.
type Dispatcher struct {
	mu          sync.RWMutex
	channels    []notification.Channel
	timeout     time.Duration
	deadLetterQ *DeadLetterQueue
	log         *logger.Logger
	observer    Observer
}

// Observer is told about every delivery attempt.
type Observer interface {
	ObserveDelivery(channel string, success bool)
}

// Config contains configuration for the Dispatcher.
type Config struct {
	// Timeout bounds each channel's Send. Default: 5s.
	Timeout time.Duration

	// DeadLetterQueueSize caps the failed-delivery history. Default: 100.
	DeadLetterQueueSize int

	Logger   *logger.Logger
	Observer Observer
}

// NewDispatcher creates an alert dispatcher with no channels.
func NewDispatcher(config Config) *Dispatcher {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	return &Dispatcher{
		timeout:     config.Timeout,
		deadLetterQ: NewDeadLetterQueue(config.DeadLetterQueueSize),
		log:         config.Logger.With(logger.Component("alert_dispatcher")),
		observer:    config.Observer,
	}
}

// Register adds a delivery channel.
func (d *Dispatcher) Register(ch notification.Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels = append(d.channels, ch)
	d.log.Info("alert channel registered", logger.String("channel", ch.Type().String()))
}

// Channels returns the registered channel types in registration order.
func (d *Dispatcher) Channels() []notification.ChannelType {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]notification.ChannelType, 0, len(d.channels))
	for _, ch := range d.channels {
		out = append(out, ch.Type())
	}
	return out
}

// Send implements notification.Sender. Results come back in registration
// order.
func (d *Dispatcher) Send(ctx context.Context, alert notification.Alert) []notification.DeliveryResult {
	d.mu.RLock()
	channels := append([]notification.Channel(nil), d.channels...)
	d.mu.RUnlock()

	results := make([]notification.DeliveryResult, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.deliver(ctx, ch, alert)
		}()
	}
	wg.Wait()

	for _, res := range results {
		if d.observer != nil {
			d.observer.ObserveDelivery(res.Channel.String(), res.Success)
		}
		if res.Success {
			continue
		}
		d.deadLetterQ.Add(DeadLetterEntry{
			Alert:    alert,
			Channel:  res.Channel,
			Error:    res.Error,
			FailedAt: res.DeliveredAt,
		})
		d.log.Warn("alert delivery failed",
			logger.String("channel", res.Channel.String()),
			logger.ReminderID(alert.ReminderID),
			logger.Err(res.Error),
		)
	}
	return results
}

// deliver runs one channel with panic recovery and a timeout.
func (d *Dispatcher) deliver(ctx context.Context, ch notification.Channel, alert notification.Alert) (res notification.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("alert channel panic recovered",
				logger.String("channel", ch.Type().String()),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			res = notification.NewFailureResult(ch.Type(), time.Now(), fmt.Errorf("channel panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return ch.Send(ctx, alert)
}

// DeadLetterQueue returns the failed-delivery history.
func (d *Dispatcher) DeadLetterQueue() *DeadLetterQueue {
	return d.deadLetterQ
}

// ══════════════════════════════════════════════════════════════════════════════
// DEAD LETTER QUEUE
// ══════════════════════════════════════════════════════════════════════════════

// DeadLetterEntry is one failed delivery.
type DeadLetterEntry struct {
	Alert    notification.Alert       `json:"alert"`
	Channel  notification.ChannelType `json:"channel"`
	Error    error                    `json:"-"`
	FailedAt time.Time                `json:"failed_at"`
}

// DeadLetterQueue keeps the most recent failed deliveries.
type DeadLetterQueue struct {
	mu      sync.RWMutex
	entries []DeadLetterEntry
	maxSize int
}

// NewDeadLetterQueue creates a new dead letter queue.
func NewDeadLetterQueue(maxSize int) *DeadLetterQueue {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &DeadLetterQueue{
		entries: make([]DeadLetterEntry, 0),
		maxSize: maxSize,
	}
}

// Add adds an entry, dropping the oldest when full.
func (q *DeadLetterQueue) Add(entry DeadLetterEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) >= q.maxSize {
		q.entries = q.entries[1:]
	}
	q.entries = append(q.entries, entry)
}

// Entries returns all entries, oldest first.
func (q *DeadLetterQueue) Entries() []DeadLetterEntry {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]DeadLetterEntry, len(q.entries))
	copy(result, q.entries)
	return result
}

// Size returns the current queue size.
func (q *DeadLetterQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

// ══════════════════════════════════════════════════════════════════════════════
// LOG CHANNEL
// ══════════════════════════════════════════════════════════════════════════════

// LogChannel writes alerts to the structured log. It is always registered
// so headless runs still leave a trace of every alert.
type LogChannel struct {
	log *logger.Logger
}

// NewLogChannel creates a log channel.
func NewLogChannel(log *logger.Logger) *LogChannel {
	if log == nil {
		log = logger.Nop()
	}
	return &LogChannel{log: log}
}

// Type implements notification.Channel.
func (c *LogChannel) Type() notification.ChannelType { return notification.ChannelLog }

// Send implements notification.Channel.
func (c *LogChannel) Send(_ context.Context, alert notification.Alert) notification.DeliveryResult {
	c.log.Info("reminder alert",
		logger.ReminderID(alert.ReminderID),
		logger.String("task", alert.Task),
		logger.String("time", alert.Time),
	)
	return notification.NewSuccessResult(c.Type(), time.Now())
}

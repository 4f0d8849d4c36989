package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT STORE
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotStore keeps the serialised record under one key without expiry.
type SnapshotStore struct {
	client *Client
	key    string
}

// NewSnapshotStore creates a snapshot store for the named snapshot.
func NewSnapshotStore(client *Client, name string) *SnapshotStore {
	return &SnapshotStore{client: client, key: SnapshotKey(name)}
}

// Name identifies the backend in logs and metrics.
func (s *SnapshotStore) Name() string { return "redis" }

// Key returns the Redis key in use.
func (s *SnapshotStore) Key() string { return s.key }

// Load returns the stored document.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "no snapshot at "+s.key)
	}
	if err != nil {
		return nil, shared.WrapError("store", "Load", shared.ErrIO, "failed to read snapshot", err)
	}
	return data, nil
}

// Save overwrites the stored document.
func (s *SnapshotStore) Save(ctx context.Context, data []byte) error {
	if s.key == "" {
		return ErrKeyEmpty
	}
	if err := s.client.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "failed to write snapshot", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ALERT PUB/SUB
// ══════════════════════════════════════════════════════════════════════════════

// AlertPublisher publishes reminder alerts as JSON on AlertChannel.
type AlertPublisher struct {
	client  *Client
	channel string
}

// NewAlertPublisher creates a publisher on the default alert channel.
func NewAlertPublisher(client *Client) *AlertPublisher {
	return &AlertPublisher{client: client, channel: AlertChannel}
}

// Type implements notification.Channel.
func (p *AlertPublisher) Type() notification.ChannelType { return notification.ChannelRedis }

// Send publishes the alert.
func (p *AlertPublisher) Send(ctx context.Context, alert notification.Alert) notification.DeliveryResult {
	data, err := json.Marshal(alert)
	if err != nil {
		return notification.NewFailureResult(p.Type(), time.Now(), err)
	}
	if err := p.client.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return notification.NewFailureResult(p.Type(), time.Now(), err)
	}
	return notification.NewSuccessResult(p.Type(), time.Now())
}

// SubscribeAlerts delivers alerts published on AlertChannel to fn until ctx
// is done. Messages that are not valid alerts are skipped.
func (c *Client) SubscribeAlerts(ctx context.Context, fn func(notification.Alert)) error {
	sub := c.rdb.Subscribe(ctx, AlertChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var alert notification.Alert
			if err := json.Unmarshal([]byte(msg.Payload), &alert); err != nil {
				continue
			}
			fn(alert)
		}
	}
}

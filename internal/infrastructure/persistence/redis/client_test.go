package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 4, opts.PoolSize)

	cfg.URL = "redis://:secret@cache.internal:6380/2"
	opts, err = cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	cfg.URL = "http://nope"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "studybot:snapshot:default", SnapshotKey(""))
	assert.Equal(t, "studybot:snapshot:alice", SnapshotKey("alice"))
}

// unreachable returns a client pointed at a closed port with short timeouts.
func unreachable() *Client {
	return NewClientFrom(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestSnapshotStore_UnreachableIsIOError(t *testing.T) {
	c := unreachable()
	defer c.Close()

	s := NewSnapshotStore(c, "t")
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrIO)
	assert.False(t, shared.IsNotFound(err))

	err = s.Save(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, shared.ErrIO)
}

func TestAlertPublisher_Failure(t *testing.T) {
	c := unreachable()
	defer c.Close()

	res := NewAlertPublisher(c).Send(context.Background(), notification.Alert{Task: "study"})
	assert.False(t, res.Success)
	assert.Equal(t, notification.ChannelRedis, res.Channel)
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

func TestBackend_LoadMissing(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "student_data.json"))
	_, err := b.Load(context.Background())
	assert.True(t, shared.IsNotFound(err))
}

func TestBackend_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	b := New(filepath.Join(dir, "nested", "student_data.json"))

	require.NoError(t, b.Save(context.Background(), []byte(`{"subjects":{}}`)))
	data, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"subjects":{}}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestBackend_IsOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student_data.json")
	b := New(path)

	assert.False(t, b.IsOwnWrite())

	require.NoError(t, b.Save(context.Background(), []byte(`{"a":1}`)))
	assert.True(t, b.IsOwnWrite())

	require.NoError(t, os.WriteFile(path, []byte(`{"a":2}`), 0o644))
	assert.False(t, b.IsOwnWrite())
}

func TestBackend_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Path())
}

func TestWatcher_ReloadsOnExternalEdit(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "student_data.json")
	b := New(path)
	require.NoError(t, b.Save(context.Background(), []byte(`{}`)))

	changed := make(chan struct{}, 4)
	w := NewWatcher(b, func(context.Context) error {
		changed <- struct{}{}
		return nil
	}, nil)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Own write: ignored.
	require.NoError(t, b.Save(context.Background(), []byte(`{"own":true}`)))
	select {
	case <-changed:
		t.Fatal("own write must not trigger a reload")
	case <-time.After(200 * time.Millisecond):
	}

	// External write: reloaded.
	require.NoError(t, os.WriteFile(path, []byte(`{"external":true}`), 0o644))
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("external edit was not noticed")
	}

	cancel()
	assert.NoError(t, <-done)
}

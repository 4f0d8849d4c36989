// Package jsonfile stores the student snapshot as a JSON file on local disk
// and watches it for edits made outside the process.
package jsonfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

// DefaultPath is the data file used when none is configured.
const DefaultPath = "student_data.json"

// Backend reads and writes one JSON file. Writes go to a temp file in the
// same directory and are renamed into place, so a crash mid-write never
// leaves a truncated document behind.
type Backend struct {
	path string

	mu        sync.Mutex
	lastWrite [blake2b.Size256]byte
	written   bool
}

// New creates a backend for path.
func New(path string) *Backend {
	if path == "" {
		path = DefaultPath
	}
	return &Backend{path: path}
}

// Name identifies the backend in logs and metrics.
func (b *Backend) Name() string { return "file" }

// Path returns the data file location.
func (b *Backend) Path() string { return b.path }

// Load reads the whole file.
func (b *Backend) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.WrapError("store", "Load", shared.ErrNotFound, "no data file at "+b.path, err)
	}
	if err != nil {
		return nil, shared.WrapError("store", "Load", shared.ErrIO, "cannot read "+b.path, err)
	}
	return data, nil
}

// Save replaces the file contents atomically.
func (b *Backend) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "cannot create "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "cannot create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return shared.WrapError("store", "Save", shared.ErrIO, "cannot write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "cannot close temp file", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Rename(tmpName, b.path); err != nil {
		return shared.WrapError("store", "Save", shared.ErrIO, "cannot replace "+b.path, err)
	}
	b.lastWrite = blake2b.Sum256(data)
	b.written = true
	return nil
}

// IsOwnWrite reports whether the file still holds exactly what this process
// last wrote. The watcher uses it to ignore its own saves.
func (b *Backend) IsOwnWrite() bool {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return false
	}
	sum := blake2b.Sum256(data)

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written && sum == b.lastWrite
}

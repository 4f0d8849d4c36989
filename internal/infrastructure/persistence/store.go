package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BACKEND
// ══════════════════════════════════════════════════════════════════════════════

// Backend stores one serialised snapshot of the record.
//
// Load returns an error of kind shared.ErrNotFound when nothing has been
// saved yet and shared.ErrIO when the medium fails.
type Backend interface {
	Name() string
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Observer is told about every snapshot load and save.
type Observer interface {
	ObserveSnapshot(op, backend string, duration time.Duration, err error)
}

// ErrUnchanged may be returned by a Mutate callback to skip the save.
var ErrUnchanged = errors.New("record unchanged")

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the single owner of the student record. Every read and write goes
// through its lock, and each mutation is saved before the lock is released,
// so the chat and the reminder poller never interleave saves.
type Store struct {
	mu       sync.Mutex
	record   *student.Record
	backend  Backend
	log      *logger.Logger
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver sets the snapshot observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// NewStore creates a store holding an empty record. Call Load to read the
// persisted snapshot.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		record:  student.NewRecord(),
		backend: backend,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("store"), logger.Backend(backend.Name()))
	return s
}

// Load replaces the in-memory record with the persisted snapshot. Any failure
// leaves the empty default in place; the process keeps running. A missing
// snapshot is normal on first start and is not reported as an error.
func (s *Store) Load(ctx context.Context) error {
	rec, err := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.record = rec
		s.log.Info("student data loaded",
			logger.Int("subjects", len(rec.Subjects)),
			logger.Int("reminders", len(rec.Reminders)),
			logger.Int("goals", len(rec.Goals)),
		)
		return nil
	case shared.IsNotFound(err):
		s.record = student.NewRecord()
		s.log.Info("no saved student data, starting fresh")
		return nil
	case shared.IsCorrupt(err):
		s.record = student.NewRecord()
		s.log.Warn("saved student data is corrupt, starting fresh", logger.Err(err))
		return err
	default:
		s.record = student.NewRecord()
		s.log.Error("cannot read student data, starting fresh", logger.Err(err))
		return err
	}
}

// Reload re-reads the snapshot after an external change. Unlike Load, a
// failed read keeps the current record.
func (s *Store) Reload(ctx context.Context) error {
	rec, err := s.read(ctx)
	if err != nil {
		s.log.Warn("reload skipped, keeping current data", logger.Err(err))
		return err
	}

	s.mu.Lock()
	s.record = rec
	s.mu.Unlock()

	s.log.Info("student data reloaded")
	return nil
}

func (s *Store) read(ctx context.Context) (*student.Record, error) {
	start := time.Now()
	data, err := s.backend.Load(ctx)
	s.observe("load", start, err)
	if err != nil {
		if !errors.As(err, new(*shared.DomainError)) {
			err = shared.WrapError("store", "Load", shared.ErrIO, "snapshot read failed", err)
		}
		return nil, err
	}
	return Decode(data)
}

// Get calls fn with the current record while holding the lock. fn must not
// modify the record or keep references to it.
func (s *Store) Get(fn func(rec *student.Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.record)
}

// Snapshot returns a deep copy of the current record.
func (s *Store) Snapshot() *student.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Mutate applies fn to the record and saves the result. If fn returns an
// error nothing is saved and the error is returned; fn must validate before
// changing anything. ErrUnchanged skips the save and is not returned.
//
// A failed save is logged and the in-memory change is kept; the next
// successful save writes it out.
func (s *Store) Mutate(ctx context.Context, fn func(rec *student.Record) error) error {
	_, err := s.Apply(ctx, fn)
	return err
}

// Apply is Mutate that also reports whether the change reached the backend.
// saved is false when fn returned ErrUnchanged or the save failed; a failed
// save is still not an error.
func (s *Store) Apply(ctx context.Context, fn func(rec *student.Record) error) (saved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.record); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return false, nil
		}
		return false, err
	}

	return s.saveLocked(ctx) == nil, nil
}

// SaveSnapshot writes the current record to the backend.
func (s *Store) SaveSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := Encode(s.record)
	if err != nil {
		s.log.Error("cannot encode student data", logger.Err(err))
		return err
	}

	start := time.Now()
	err = s.backend.Save(ctx, data)
	s.observe("save", start, err)
	if err != nil {
		if !errors.As(err, new(*shared.DomainError)) {
			err = shared.WrapError("store", "Save", shared.ErrIO, "snapshot write failed", err)
		}
		s.log.Error("failed to save student data", logger.Err(err))
		return err
	}

	s.log.Debug("student data saved", logger.Int("bytes", len(data)))
	return nil
}

func (s *Store) observe(op string, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveSnapshot(op, s.backend.Name(), time.Since(start), err)
	}
}

// BackendName returns the configured backend's name.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

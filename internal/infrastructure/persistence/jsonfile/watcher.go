package jsonfile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// Watcher calls onChange when the data file is edited by something other
// than this process. Bursts of events are collapsed into one call.
type Watcher struct {
	backend  *Backend
	onChange func(ctx context.Context) error
	debounce time.Duration
	log      *logger.Logger
}

// NewWatcher creates a watcher for the backend's file.
func NewWatcher(backend *Backend, onChange func(ctx context.Context) error, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		backend:  backend,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		log:      log.With(logger.Component("file_watcher"), logger.Path(backend.Path())),
	}
}

// Run watches until ctx is done. The parent directory is watched rather
// than the file so atomic replacements keep being seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.backend.Path())
	if err := fw.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(w.backend.Path())

	w.log.Info("watching data file for external edits")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", logger.Err(err))

		case <-pending:
			pending = nil
			if w.backend.IsOwnWrite() {
				continue
			}
			w.log.Info("data file changed on disk, reloading")
			if err := w.onChange(ctx); err != nil {
				w.log.Warn("reload after external edit failed", logger.Err(err))
			}
		}
	}
}

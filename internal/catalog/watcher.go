package catalog

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Watcher keeps a Store in sync with a catalog file. It reloads when the file
// changes on disk and, when a schedule is set, on that cron schedule as well
// (useful on filesystems that do not deliver change notifications).
type Watcher struct {
	logger   *zap.Logger
	path     string
	store    *Store
	schedule string
	noEvents bool
}

// NewWatcher creates a watcher for the catalog at path. An empty schedule
// disables periodic reloads.
func NewWatcher(logger *zap.Logger, path string, store *Store, schedule string) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		logger:   logger,
		path:     filepath.Clean(path),
		store:    store,
		schedule: schedule,
	}
}

// DisableFileEvents makes Run rely on the schedule alone.
func (w *Watcher) DisableFileEvents() *Watcher {
	w.noEvents = true
	return w
}

// Reload loads the catalog file and installs it. A catalog that fails to load
// or validate leaves the current one in place.
func (w *Watcher) Reload() error {
	c, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	w.store.Replace(c)
	w.logger.Info("lender catalog loaded",
		zap.String("op", "catalog.Reload"),
		zap.String("path", w.path),
		zap.Int("lenders", c.Len()),
	)
	return nil
}

func (w *Watcher) reloadAndLog(trigger string) {
	if err := w.Reload(); err != nil {
		w.logger.Error("lender catalog reload failed, keeping previous catalog",
			zap.String("op", "catalog.Watcher"),
			zap.String("trigger", trigger),
			zap.String("path", w.path),
			zap.Error(err),
		)
	}
}

// Run watches for changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if !w.noEvents {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return eris.Wrap(err, "catalog: create file watcher")
		}
		defer func() {
			_ = fw.Close()
		}()

		// Watch the directory so editors that replace the file via rename are seen.
		if err := fw.Add(filepath.Dir(w.path)); err != nil {
			return eris.Wrapf(err, "catalog: watch %s", w.path)
		}
		events, errs = fw.Events, fw.Errors
	}

	if w.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.schedule, func() { w.reloadAndLog("schedule") }); err != nil {
			return eris.Wrapf(err, "catalog: invalid refresh schedule %q", w.schedule)
		}
		c.Start()
		defer c.Stop()
	}

	w.logger.Debug("watching lender catalog",
		zap.String("op", "catalog.Watcher"),
		zap.String("path", w.path),
		zap.String("schedule", w.schedule),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reloadAndLog("file")
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("lender catalog watch error",
				zap.String("op", "catalog.Watcher"),
				zap.Error(err),
			)
		}
	}
}

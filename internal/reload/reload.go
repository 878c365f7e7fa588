// Package reload rebuilds the recommendation engine when the dataset file changes.
package reload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/dataset"
	"github.com/hyperjump/kuliner/internal/recommend"
)

const defaultDebounce = 500 * time.Millisecond

// ErrNotFile is returned when the watched dataset path is a directory.
var ErrNotFile = errors.New("dataset path is not a file")

// Watcher watches one dataset file and swaps a freshly built engine into the holder
// after each burst of writes. A failed rebuild keeps the engine already being served.
type Watcher struct {
	src      dataset.Source
	holder   *recommend.Holder
	opts     []recommend.Option
	debounce time.Duration
	onSwap   func(*recommend.Engine)
	logger   *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	ctx      context.Context
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets the quiet period after the last write before rebuilding.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithEngineOptions passes opts to every engine build.
func WithEngineOptions(opts ...recommend.Option) Option {
	return func(w *Watcher) { w.opts = append(w.opts, opts...) }
}

// OnSwap registers fn to run after a new engine is installed.
func OnSwap(fn func(*recommend.Engine)) Option {
	return func(w *Watcher) { w.onSwap = fn }
}

// NewWatcher creates a watcher for src that publishes into holder.
func NewWatcher(src dataset.Source, holder *recommend.Holder, opts ...Option) *Watcher {
	w := &Watcher{
		src:      src,
		holder:   holder,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reload rebuilds the engine from the dataset and swaps it in.
func (w *Watcher) Reload(ctx context.Context) error {
	start := time.Now()
	e, err := recommend.Load(ctx, w.src, w.opts...)
	if err != nil {
		w.logger.Warn("Dataset reload failed, keeping current engine",
			zap.String("path", w.src.Path), zap.Error(err))
		return fmt.Errorf("reload %s: %w", w.src.Path, err)
	}
	w.holder.Swap(e)
	w.logger.Info("Dataset reloaded",
		zap.String("path", w.src.Path),
		zap.Int("records", e.Len()),
		zap.Duration("duration", time.Since(start)))
	if w.onSwap != nil {
		w.onSwap(e)
	}
	return nil
}

// Start begins watching. It runs until ctx is cancelled or Stop is called. The parent
// directory is watched so that editors replacing the file by rename are seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	info, err := os.Stat(w.src.Path)
	if err != nil {
		return fmt.Errorf("watch dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, w.src.Path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.src.Path)); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	w.ctx = ctx
	w.started = true
	w.logger.Debug("dataset watcher starting",
		zap.String("path", w.src.Path), zap.Duration("debounce", w.debounce))
	go w.run(ctx, fw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("dataset watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != filepath.Clean(w.src.Path) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("dataset event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	w.schedule()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	ctx := w.ctx
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		_ = w.Reload(ctx)
	})
}

// Stop stops watching and cancels a pending rebuild.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}

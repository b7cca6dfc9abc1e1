package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Trigger regenerates documentation for a batch of changed files.
type Trigger func(ctx context.Context, changed []string) error

// Options configures a Watcher.
type Options struct {
	Root       string
	Delay      time.Duration // quiet period before a batch fires
	Ignore     []string      // substrings of root-relative directory paths
	Extensions []string      // defaults to .py
	Logger     *zap.Logger
	Trigger    Trigger
}

// Watcher turns file system events under a root into debounced trigger runs.
type Watcher struct {
	root       string
	ignore     []string
	extensions []string
	logger     *zap.Logger
	trigger    Trigger
	fsw        *fsnotify.Watcher
	batcher    *Batcher
	tick       time.Duration
	closeOnce  sync.Once
	closeErr   error
}

// New creates a watcher and registers every non-ignored directory under root.
func New(opts Options) (*Watcher, error) {
	if opts.Trigger == nil {
		return nil, errors.New("watcher: trigger is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve root: %w", err)
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".py"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tick := opts.Delay / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		root:       root,
		ignore:     opts.Ignore,
		extensions: exts,
		logger:     logger,
		trigger:    opts.Trigger,
		fsw:        fsw,
		batcher:    NewBatcher(opts.Delay),
		tick:       tick,
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run pumps events and fires batches until ctx is cancelled. The underlying
// fsnotify watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return w.pump(gctx) })
	g.Go(func() error { return w.loop(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return w.Close()
	})

	w.logger.Info("watching for changes", zap.String("root", w.root), zap.Duration("delay", w.batcher.delay))
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	w.logger.Info("watcher stopped")
	return err
}

// Close releases the fsnotify watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

func (w *Watcher) pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) loop(ctx context.Context) error {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			paths, ok := w.batcher.Ready()
			if !ok {
				continue
			}
			w.fire(ctx, paths)
		}
	}
}

func (w *Watcher) fire(ctx context.Context, paths []string) {
	defer w.batcher.Done()

	rel := make([]string, len(paths))
	for i, p := range paths {
		rel[i] = w.relative(p)
	}
	w.logger.Info("files changed, regenerating", zap.Strings("files", rel))

	if err := w.trigger(ctx, paths); err != nil {
		w.logger.Error("regeneration failed", zap.Error(err))
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("dir", w.relative(event.Name)), zap.Error(err))
			}
			return
		}
	}

	if !w.accepts(event.Name) {
		return
	}
	w.logger.Debug("change queued", zap.String("file", w.relative(event.Name)), zap.String("op", event.Op.String()))
	w.batcher.Add(event.Name)
}

func (w *Watcher) accepts(path string) bool {
	ext := filepath.Ext(path)
	matched := false
	for _, e := range w.extensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return !w.isIgnored(filepath.Dir(path))
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) isIgnored(dir string) bool {
	rel := w.relative(dir)
	if rel == "." {
		return false
	}
	for _, ign := range w.ignore {
		if ign != "" && strings.Contains(rel, ign) {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

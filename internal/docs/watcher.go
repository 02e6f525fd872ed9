// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docs watches the local documents folder so the session can flag
// the ingested corpus as stale when files change after an ingestion.
package docs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// FOLDER WATCHER
// =============================================================================

// Watcher observes one documents folder recursively. Editor save storms
// produce event bursts; the change callback is rate-limited so subscribers
// see at most a few notifications per second while staleness itself is
// recorded on every event.
type Watcher struct {
	folder  string
	watcher *fsnotify.Watcher
	limiter *rate.Limiter

	mu         sync.Mutex
	stale      bool
	lastChange time.Time

	// onChange fires (rate-limited) when the corpus changes.
	onChange func()

	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given folder. onChange may be nil.
func NewWatcher(folder string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Watcher{
		folder:   folder,
		watcher:  fsw,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		onChange: onChange,
	}, nil
}

// Start begins watching the folder and all its subdirectories.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.folder); err != nil {
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.processEvents(ctx)
	return nil
}

// addRecursive adds a directory and all its subdirectories to the watch list.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if name := filepath.Base(path); len(name) > 1 && name[0] == '.' {
			return filepath.SkipDir
		}
		// Non-fatal: an unwatchable subdirectory just goes unobserved.
		w.watcher.Add(path)
		return nil
	})
}

// processEvents folds filesystem events into the stale flag.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.markStale()
			}

			// New directories join the watch list.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(event.Name)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// markStale records the change and fires the rate-limited callback.
func (w *Watcher) markStale() {
	w.mu.Lock()
	w.stale = true
	w.lastChange = time.Now()
	w.mu.Unlock()

	if w.limiter.Allow() {
		w.onChange()
	}
}

// Stale reports whether the folder changed since the last MarkIngested.
func (w *Watcher) Stale() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stale
}

// LastChange returns the time of the most recent change.
func (w *Watcher) LastChange() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastChange
}

// MarkIngested clears the stale flag after a successful ingestion.
func (w *Watcher) MarkIngested() {
	w.mu.Lock()
	w.stale = false
	w.mu.Unlock()
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}

// Package watcher monitors content directories and reports changed content
// files in debounced batches.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 250 * time.Millisecond

// Options configure Watch.
type Options struct {
	// Extension selects content files, e.g. ".mdx". Empty means every file.
	Extension string
	Debounce  time.Duration
	Logger    *zap.Logger
}

// skipDirs are never watched.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".folio":       true,
}

// Watch watches roots and every directory below them. Changed, created,
// removed or renamed content files are collected until no event has
// arrived for the debounce window, then onChange receives the batch in
// sorted order. Watch blocks until ctx is done.
func Watch(ctx context.Context, roots []string, opts Options, onChange func(paths []string)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, root := range roots {
		for _, d := range walkDirs(root) {
			if err := w.Add(d); err != nil {
				log.Warn("could not watch directory", zap.String("dir", d), zap.Error(err))
				continue
			}
			watched++
		}
	}
	log.Info("watching content", zap.Int("dirs", watched), zap.Strings("roots", roots))

	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
		flushes sync.WaitGroup
	)

	flush := func() {
		defer flushes.Done()
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(paths) == 0 || ctx.Err() != nil {
			return
		}
		sort.Strings(paths)
		log.Debug("content changed", zap.Strings("paths", paths))
		onChange(paths)
	}

	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			flushes.Done()
		}
		mu.Unlock()
		flushes.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipDirs[filepath.Base(event.Name)] {
						for _, d := range walkDirs(event.Name) {
							if err := w.Add(d); err != nil {
								log.Warn("could not watch directory", zap.String("dir", d), zap.Error(err))
							}
						}
					}
					continue
				}
			}

			if !isContent(event.Name, opts.Extension) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			mu.Lock()
			pending[event.Name] = true
			if timer != nil && timer.Stop() {
				flushes.Done()
			}
			flushes.Add(1)
			timer = time.AfterFunc(opts.Debounce, flush)
			mu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

func isContent(path, ext string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return ext == "" || strings.HasSuffix(base, ext)
}

func walkDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
)

// watchDebounce coalesces bursts of events (editors often write, rename and
// chmod in quick succession) into one notification
const watchDebounce = 250 * time.Millisecond

// Watch reports changes to prompt files below the prompts directory. Each
// value on the returned channel means "the library changed, rescan". The
// channel is closed when ctx is done.
func (s *Storage) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := s.InitLibrary(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.IOError("create file watcher", err)
	}
	if err := addWatchTree(watcher, s.PromptsPath()); err != nil {
		watcher.Close()
		return nil, apperrors.IOError("watch prompts directory", err)
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		var closed bool
		var mu sync.Mutex

		defer func() {
			mu.Lock()
			closed = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			close(changes)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addWatchTree(watcher, event.Name)
					}
				}
				if !relevantEvent(event.Name) {
					continue
				}

				logger.Logger.Debugw("library change",
					logger.FieldPath, event.Name,
					logger.FieldOperation, event.Op.String(),
				)

				mu.Lock()
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					defer mu.Unlock()
					if closed {
						return
					}
					select {
					case changes <- struct{}{}:
					default:
					}
				})
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Logger.Warnw("file watcher error", logger.FieldError, err)
			}
		}
	}()

	return changes, nil
}

// relevantEvent filters out temp files and anything that is not markdown
func relevantEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	// Removed directories have no extension but still change the library
	return isMarkdown(base) || filepath.Ext(base) == ""
}

func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}

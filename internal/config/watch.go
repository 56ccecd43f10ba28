package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"Poolside/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the preset at path whenever it changes and delivers each
// successfully parsed version on the returned channel. Files that fail to
// parse are logged and skipped. The channel holds at most one pending
// preset; a newer one replaces an undelivered older one. The channel is
// closed when ctx is done.
func Watch(ctx context.Context, path string) (<-chan Preset, error) {
	return watch(ctx, path, DefaultDebounce)
}

func watch(ctx context.Context, path string, debounce time.Duration) (<-chan Preset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	out := make(chan Preset, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Log.Debug("Preset change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				timer.Reset(debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Error("Preset watcher error", zap.Error(err))

			case <-timer.C:
				p, err := Load(abs)
				if err != nil {
					logger.Log.Warn("Preset reload failed", zap.String("file", abs), zap.Error(err))
					continue
				}
				deliver(out, p)
				logger.Log.Info("Preset reloaded", zap.String("file", abs))

			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// deliver replaces any undelivered preset with p. Only this goroutine
// sends, so the drain and the send cannot race with another writer.
func deliver(out chan Preset, p Preset) {
	select {
	case <-out:
	default:
	}
	out <- p
}

package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path for changes and calls onChange with the freshly loaded
// Config each time the file is written. It runs until ctx is cancelled.
//
// A failed reload keeps the previous configuration active; onChange is only
// called with configs that parsed cleanly.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.Info("watching config", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so catch Create as well.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Info("config changed, reloading", "path", path)
			onChange(LoadFile(path))

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher error", "error", watchErr)
		}
	}
}

// Package filewatch runs the fsnotify loop shared by the config and dataset
// watchers.
package filewatch

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Run calls onWrite each time the file at path is written or recreated, until
// ctx is cancelled. component prefixes log messages ("config", "dataset").
func Run(ctx context.Context, component, path string, onWrite func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	slog.Info(component+": watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so Create counts as a write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Debug(component+": file changed", "path", path, "op", event.Op.String())
			onWrite()

			// An atomic save replaces the inode; watch the new one.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error(component+": watcher error", "err", err)
		}
	}
}

package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the freshly loaded Config
// after every write to the file. It blocks until ctx is cancelled.
//
// An edit that fails to parse or validate is logged and otherwise ignored;
// the running service keeps the config it started with.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return err
	}

	slog.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if reload(path, ev, onChange) {
				// Atomic saves replace the inode; track the new one.
				_ = w.Add(path)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config file watcher error", "err", err)
		}
	}
}

// reload handles one fsnotify event. Returns true when the event touched
// the file's content, whether or not the file loaded cleanly.
func reload(path string, ev fsnotify.Event, onChange func(*Config)) bool {
	// Editors often save through a rename, which arrives as Create.
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}

	cfg, err := Load(path)
	if err != nil {
		slog.Error("ignoring config edit that failed to load",
			"path", path, "err", err)
		return true
	}

	slog.Info("config file reloaded", "path", path)
	onChange(cfg)
	return true
}

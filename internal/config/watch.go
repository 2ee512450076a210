package config

import (
	"context"
	"log/slog"

	"github.com/hirelens/hirelens/internal/filewatch"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file is written. It runs until ctx is cancelled.
//
// A reload that fails to parse or validate is logged and skipped, so the
// previous config stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return filewatch.Run(ctx, "config", path, func() {
		cfg, err := Load(path)
		if err != nil {
			slog.Error("config: reload failed, keeping previous config",
				"path", path, "err", err)
			return
		}
		slog.Info("config: reloaded", "path", path)
		onChange(cfg)
	})
}

package dataset

import (
	"context"

	"github.com/hirelens/hirelens/internal/filewatch"
)

// Watch calls onChange each time the snapshot file at path is written. It
// runs until ctx is cancelled. The callback decides whether to reload; Watch
// does not parse the file itself.
func Watch(ctx context.Context, path string, onChange func()) error {
	return filewatch.Run(ctx, "dataset", path, onChange)
}

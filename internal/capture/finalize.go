package capture

import (
	"context"
	"fmt"
	"os"
)

// RenameFinalizer moves the temp file over the destination. Both live in
// the same directory, so the replacement is atomic.
type RenameFinalizer struct{}

// Finalize implements Finalizer.
func (RenameFinalizer) Finalize(_ context.Context, tmp, dst string) error {
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("publish %s: %w", dst, err)
	}
	return nil
}

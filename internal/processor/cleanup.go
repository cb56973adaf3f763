package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// publish moves the muxed video out of the workspace into its final place.
// A cross-device rename falls back to a copy.
func (p *implProcessor) publish(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p.logger.Debug(ctx, "Moving to output folder: %s -> %s", src, dst)

	if err := os.Rename(src, dst); err != nil {
		// If rename fails, copy instead
		if err := copyFile(src, dst); err != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("move output to final location: %w", err)
		}
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

package ffmpeg

import (
	"context"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

// Apply runs the configured audio filter chain over input and writes output.
func (t *Tools) Apply(ctx context.Context, input, output string) error {
	args := []string{
		"-y",
		"-i", input,
		"-af", t.cfg.VoiceFilter,
		output,
	}

	t.logger.Debug(ctx, "Applying voice effect: %s -> %s", input, output)

	if _, err := t.executor.Execute(ctx, t.cfg.Binary, args...); err != nil {
		return faults.Detail(faults.ErrToolInit, "voice effect", err)
	}
	return nil
}

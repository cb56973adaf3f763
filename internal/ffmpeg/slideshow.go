package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

// ComposeImages renders a concat list into a portrait video. The list refers
// to pictures by base name, so ffmpeg runs inside the list's directory.
func (t *Tools) ComposeImages(ctx context.Context, listPath, output string) error {
	workDir := filepath.Dir(listPath)
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return faults.Detail(faults.ErrIO, "resolve output path", err)
	}

	t.logger.Info(ctx, "Rendering slideshow with %s: %s", t.cfg.Encoder, absOutput)

	args := t.slideshowArgs(filepath.Base(listPath), absOutput, t.cfg.Encoder)
	if _, err := t.executor.ExecuteInDir(ctx, workDir, t.cfg.Binary, args...); err != nil {
		if t.cfg.Encoder == softwareEncoder {
			return faults.Detail(faults.ErrIO, "render slideshow", err)
		}
		// If hardware encoder fails, try software encoder
		t.logger.Warn(ctx, "Encoder %s failed, trying %s: %v", t.cfg.Encoder, softwareEncoder, err)
		args = t.slideshowArgs(filepath.Base(listPath), absOutput, softwareEncoder)
		if _, err := t.executor.ExecuteInDir(ctx, workDir, t.cfg.Binary, args...); err != nil {
			return faults.Detail(faults.ErrIO, "render slideshow with both encoders", err)
		}
	}
	return nil
}

func (t *Tools) slideshowArgs(list, output, encoder string) []string {
	w, h := t.cfg.Width, t.cfg.Height
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black", w, h, w, h),
	}
	args = append(args, t.videoCodecArgs(encoder)...)
	return append(args,
		"-r", fmt.Sprint(t.cfg.FPS),
		"-pix_fmt", "yuv420p",
		output,
	)
}

// videoCodecArgs uses the bitrate for the configured encoder and constant
// quality for the software fallback.
func (t *Tools) videoCodecArgs(encoder string) []string {
	args := []string{"-c:v", encoder}
	if encoder == softwareEncoder {
		if t.cfg.Preset != "" {
			args = append(args, "-preset", t.cfg.Preset)
		}
		return append(args, "-crf", "23")
	}
	if t.cfg.VideoBitrate != "" {
		args = append(args, "-b:v", t.cfg.VideoBitrate)
	}
	return args
}

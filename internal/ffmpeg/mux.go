package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

// Mux combines video and audio into output, burning subtitle in when it is
// not empty. The subtitles filter gets a relative name and ffmpeg runs in
// the subtitle's directory to avoid filter path escaping.
func (t *Tools) Mux(ctx context.Context, video, audio, subtitle, output string) error {
	abs := make([]string, 0, 3)
	for _, p := range []string{video, audio, output} {
		a, err := filepath.Abs(p)
		if err != nil {
			return faults.Detail(faults.ErrMuxFailed, "resolve "+p, err)
		}
		abs = append(abs, a)
	}
	absVideo, absAudio, absOutput := abs[0], abs[1], abs[2]

	workDir := ""
	subFilename := ""
	if subtitle != "" {
		workDir = filepath.Dir(subtitle)
		subFilename = filepath.Base(subtitle)
	}

	t.logger.Info(ctx, "Muxing final video: %s", absOutput)

	args := t.muxArgs(absVideo, absAudio, subFilename, absOutput, t.cfg.Encoder)
	if _, err := t.executor.ExecuteInDir(ctx, workDir, t.cfg.Binary, args...); err != nil {
		if t.cfg.Encoder == softwareEncoder {
			return faults.Detail(faults.ErrMuxFailed, "", err)
		}
		t.logger.Warn(ctx, "Encoder %s failed, trying %s: %v", t.cfg.Encoder, softwareEncoder, err)
		args = t.muxArgs(absVideo, absAudio, subFilename, absOutput, softwareEncoder)
		if _, err := t.executor.ExecuteInDir(ctx, workDir, t.cfg.Binary, args...); err != nil {
			return faults.Detail(faults.ErrMuxFailed, "both encoders failed", err)
		}
	}

	t.logger.Info(ctx, "Final video written: %s", absOutput)
	return nil
}

func (t *Tools) muxArgs(video, audio, subFilename, output, encoder string) []string {
	args := []string{
		"-y",
		"-i", video,
		"-i", audio,
	}
	if subFilename != "" {
		args = append(args, "-vf", fmt.Sprintf("subtitles=%s", subFilename))
	}
	args = append(args, t.videoCodecArgs(encoder)...)
	return append(args,
		"-c:a", t.cfg.AudioCodec,
		"-b:a", t.cfg.AudioBitrate,
		"-shortest",
		output,
	)
}

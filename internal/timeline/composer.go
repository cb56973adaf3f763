package timeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
)

// SegmentGap is the silence rendered after every segment.
const SegmentGap = 300 * time.Millisecond

// Compose concatenates the segment files into one WAV at dst, inserting
// SegmentGap of silence after each one, and returns the dubbing with one cue
// per segment. Cue durations are the segments' own durations; the silence is
// only rendered. All segments must share sample rate, channel count and bit depth.
func Compose(ctx context.Context, dst string, segments []models.Segment) (models.Dubbing, error) {
	if len(segments) == 0 {
		return models.Dubbing{}, faults.Detail(faults.ErrEmptyInput, "no speech segments to compose", nil)
	}

	var (
		format  Format
		silence []int
		samples []int
		cues    = make([]models.Cue, 0, len(segments))
	)

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return models.Dubbing{}, err
		}

		buf, segFormat, err := decode(seg.Path)
		if err != nil {
			return models.Dubbing{}, fmt.Errorf("segment %d: %w", i+1, err)
		}
		if i == 0 {
			format = segFormat
			silence = make([]int, silenceFrames(format.SampleRate)*format.Channels)
			samples = make([]int, 0, len(buf.Data)*len(segments))
		} else if segFormat != format {
			return models.Dubbing{}, faults.Detail(faults.ErrAudioFormat,
				fmt.Sprintf("segment %d is %s, expected %s", i+1, segFormat, format), nil)
		}

		samples = append(samples, buf.Data...)
		samples = append(samples, silence...)

		duration := seg.Duration
		if duration <= 0 {
			duration = frameDuration(len(buf.Data)/format.Channels, format.SampleRate)
		}
		cues = append(cues, models.Cue{Text: seg.Text, Duration: duration})
	}

	if err := Write(dst, format, samples); err != nil {
		_ = os.Remove(dst)
		return models.Dubbing{}, err
	}

	return models.Dubbing{Path: dst, Cues: cues}, nil
}

func silenceFrames(sampleRate int) int {
	return int(int64(sampleRate) * int64(SegmentGap) / int64(time.Second))
}

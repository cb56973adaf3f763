package timeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
)

var mono8k = Format{SampleRate: 8000, Channels: 1, BitDepth: 16}

func writeTone(t *testing.T, dir, name string, format Format, d time.Duration) string {
	t.Helper()
	frames := int(int64(format.SampleRate) * int64(d) / int64(time.Second))
	samples := make([]int, frames*format.Channels)
	for i := range samples {
		samples[i] = (i % 200) - 100
	}
	path := filepath.Join(dir, name)
	if err := Write(path, format, samples); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestMeasure(t *testing.T) {
	dir := t.TempDir()
	path := writeTone(t, dir, "a.wav", mono8k, 1500*time.Millisecond)

	got, err := Measure(path)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if got != 1500*time.Millisecond {
		t.Fatalf("Measure() = %v, want 1.5s", got)
	}
}

func TestComposeReportsSegmentDurations(t *testing.T) {
	dir := t.TempDir()
	segments := []models.Segment{
		{Path: writeTone(t, dir, "a.wav", mono8k, time.Second), Text: "first", Duration: time.Second},
		{Path: writeTone(t, dir, "b.wav", mono8k, 1500*time.Millisecond), Text: "second", Duration: 1500 * time.Millisecond},
		{Path: writeTone(t, dir, "c.wav", mono8k, 250*time.Millisecond), Text: "third"},
	}
	dst := filepath.Join(dir, "dubbing.wav")

	dub, err := Compose(context.Background(), dst, segments)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got, want := dub.Duration(), 2750*time.Millisecond; got != want {
		t.Errorf("reported duration = %v, want %v", got, want)
	}
	wantCues := []models.Cue{
		{Text: "first", Duration: time.Second},
		{Text: "second", Duration: 1500 * time.Millisecond},
		{Text: "third", Duration: 250 * time.Millisecond},
	}
	if len(dub.Cues) != len(wantCues) {
		t.Fatalf("got %d cues, want %d", len(dub.Cues), len(wantCues))
	}
	for i := range wantCues {
		if dub.Cues[i] != wantCues[i] {
			t.Errorf("cue %d = %+v, want %+v", i, dub.Cues[i], wantCues[i])
		}
	}

	rendered, err := Measure(dub.Path)
	if err != nil {
		t.Fatalf("Measure(dubbing) error = %v", err)
	}
	if want := dub.Duration() + 3*SegmentGap; rendered != want {
		t.Errorf("rendered duration = %v, want %v (speech plus silence)", rendered, want)
	}
}

func TestComposeEmpty(t *testing.T) {
	_, err := Compose(context.Background(), filepath.Join(t.TempDir(), "x.wav"), nil)
	if !errors.Is(err, faults.ErrEmptyInput) {
		t.Fatalf("Compose(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestComposeRejectsMixedFormats(t *testing.T) {
	dir := t.TempDir()
	stereo := Format{SampleRate: 8000, Channels: 2, BitDepth: 16}
	resampled := Format{SampleRate: 16000, Channels: 1, BitDepth: 16}

	tests := []struct {
		name   string
		second Format
	}{
		{"channel count", stereo},
		{"sample rate", resampled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := []models.Segment{
				{Path: writeTone(t, dir, tt.name+"-a.wav", mono8k, time.Second), Text: "a"},
				{Path: writeTone(t, dir, tt.name+"-b.wav", tt.second, time.Second), Text: "b"},
			}
			_, err := Compose(context.Background(), filepath.Join(dir, tt.name+"-out.wav"), segments)
			if !errors.Is(err, faults.ErrAudioFormat) {
				t.Fatalf("error = %v, want ErrAudioFormat", err)
			}
		})
	}
}

func TestComposeRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("definitely not riff data"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Compose(context.Background(), filepath.Join(dir, "out.wav"), []models.Segment{{Path: bad, Text: "x"}})
	if !errors.Is(err, faults.ErrAudioFormat) {
		t.Fatalf("error = %v, want ErrAudioFormat", err)
	}
}

func TestComposeHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compose(ctx, filepath.Join(dir, "out.wav"), []models.Segment{
		{Path: writeTone(t, dir, "a.wav", mono8k, time.Second), Text: "a"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

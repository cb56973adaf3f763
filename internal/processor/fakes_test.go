package processor

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/history"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/subtitle"
	"github.com/nguyentantai21042004/newsreel/internal/timeline"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

var mono8k = timeline.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}

func writeTone(path string, d time.Duration) error {
	frames := int(int64(mono8k.SampleRate) * int64(d) / int64(time.Second))
	return timeline.Write(path, mono8k, make([]int, frames))
}

type fakeCrawler struct {
	refs []models.ContentReference
	err  error
}

func (f *fakeCrawler) ListTop(context.Context) ([]models.ContentReference, error) {
	return f.refs, f.err
}

type fakeExtractor struct {
	material models.Material
	err      error
	calls    atomic.Int32
}

func (f *fakeExtractor) Extract(context.Context, models.ContentReference) (models.Material, error) {
	f.calls.Add(1)
	return f.material, f.err
}

// fakeSynthesizer writes one real WAV per text with the configured durations.
type fakeSynthesizer struct {
	durations []time.Duration
	err       error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, files workspace.Allocator, texts []string) ([]models.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	segments := make([]models.Segment, 0, len(texts))
	for i, text := range texts {
		path, err := files.NewFile("wav")
		if err != nil {
			return nil, err
		}
		if err := writeTone(path, f.durations[i]); err != nil {
			return nil, err
		}
		segments = append(segments, models.Segment{Path: path, Text: text, Duration: f.durations[i]})
	}
	return segments, nil
}

// fakeEffect replaces every segment with a tone of fixed length.
type fakeEffect struct {
	length   time.Duration
	failOn   int32
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeEffect) Apply(_ context.Context, input, output string) error {
	n := f.calls.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if cur <= p || f.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if f.failOn > 0 && n == f.failOn {
		return faults.Detail(faults.ErrToolInit, "voice effect", errors.New("ffmpeg exited 1"))
	}
	if _, err := os.Stat(input); err != nil {
		return err
	}
	return writeTone(output, f.length)
}

// recordingWriter wraps the real SRT writer and keeps what it rendered.
type recordingWriter struct {
	inner   *subtitle.Writer
	calls   int
	content string
}

func (w *recordingWriter) Write(ctx context.Context, files workspace.Allocator, cues []models.Cue) (string, error) {
	w.calls++
	path, err := w.inner.Write(ctx, files, cues)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	w.content = string(data)
	return path, nil
}

type fakeVisual struct {
	err    error
	target time.Duration
	calls  int
}

func (f *fakeVisual) Compose(_ context.Context, files workspace.Allocator, _ models.Material, target time.Duration) (string, error) {
	f.calls++
	f.target = target
	if f.err != nil {
		return "", f.err
	}
	path, err := files.NewFile("mp4")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte("silent video"), 0644)
}

type fakeMuxer struct {
	err      error
	video    string
	audio    string
	subtitle string
}

func (f *fakeMuxer) Mux(_ context.Context, video, audio, subtitle, output string) error {
	f.video, f.audio, f.subtitle = video, audio, subtitle
	for _, p := range []string{video, audio, subtitle} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return faults.Detail(faults.ErrMuxFailed, "missing input", err)
		}
	}
	if f.err != nil {
		// leave a partial file behind like a crashed encoder would
		_ = os.WriteFile(output, []byte("partial"), 0644)
		return f.err
	}
	return os.WriteFile(output, []byte("final video"), 0644)
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []history.Run
}

func (f *fakeRecorder) Record(_ context.Context, run history.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

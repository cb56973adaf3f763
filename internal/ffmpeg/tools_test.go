package ffmpeg

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/newsreel/internal/config"
	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

type call struct {
	dir  string
	name string
	args []string
}

// fakeExecutor records invocations and fails any whose args contain failOn.
type fakeExecutor struct {
	calls  []call
	failOn string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(_ context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	if f.failOn != "" && slices.Contains(args, f.failOn) {
		return "", errors.New("encoder unavailable")
	}
	return "", nil
}

func testConfig(encoder string) config.FFmpegConfig {
	return config.FFmpegConfig{
		Binary:       "ffmpeg",
		Encoder:      encoder,
		Preset:       "fast",
		VideoBitrate: "5M",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		VoiceFilter:  "asetrate=30000, aresample=22050, atempo=1",
		Width:        720,
		Height:       1280,
		FPS:          30,
	}
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestApply(t *testing.T) {
	exec := &fakeExecutor{}
	tools := New(testConfig("libx264"), exec, nil)

	if err := tools.Apply(context.Background(), "in.wav", "out.wav"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := exec.calls[0]
	if got.name != "ffmpeg" {
		t.Errorf("binary = %q", got.name)
	}
	if argAfter(got.args, "-af") != "asetrate=30000, aresample=22050, atempo=1" {
		t.Errorf("filter = %q", argAfter(got.args, "-af"))
	}
	if got.args[len(got.args)-1] != "out.wav" {
		t.Errorf("output = %q", got.args[len(got.args)-1])
	}
}

func TestApplyFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "-af"}
	err := New(testConfig("libx264"), exec, nil).Apply(context.Background(), "in.wav", "out.wav")
	if !errors.Is(err, faults.ErrToolInit) {
		t.Fatalf("Apply() error = %v, want ErrToolInit", err)
	}
}

func TestComposeImages(t *testing.T) {
	exec := &fakeExecutor{}
	tools := New(testConfig("libx264"), exec, nil)
	list := filepath.Join("run", "abc001.txt")

	if err := tools.ComposeImages(context.Background(), list, filepath.Join("run", "abc002.mp4")); err != nil {
		t.Fatalf("ComposeImages() error = %v", err)
	}
	got := exec.calls[0]
	if got.dir != "run" {
		t.Errorf("dir = %q, want run", got.dir)
	}
	if argAfter(got.args, "-i") != "abc001.txt" {
		t.Errorf("input = %q", argAfter(got.args, "-i"))
	}
	if !strings.HasPrefix(argAfter(got.args, "-vf"), "scale=720:1280:force_original_aspect_ratio=decrease,pad=720:1280") {
		t.Errorf("vf = %q", argAfter(got.args, "-vf"))
	}
	if argAfter(got.args, "-r") != "30" || argAfter(got.args, "-pix_fmt") != "yuv420p" {
		t.Errorf("args = %v", got.args)
	}
	if !filepath.IsAbs(got.args[len(got.args)-1]) {
		t.Errorf("output %q is not absolute", got.args[len(got.args)-1])
	}
}

func TestComposeImagesFallsBackToSoftware(t *testing.T) {
	exec := &fakeExecutor{failOn: "h264_videotoolbox"}
	tools := New(testConfig("h264_videotoolbox"), exec, nil)

	if err := tools.ComposeImages(context.Background(), "run/list.txt", "run/out.mp4"); err != nil {
		t.Fatalf("ComposeImages() error = %v", err)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(exec.calls))
	}
	second := exec.calls[1].args
	if argAfter(second, "-c:v") != "libx264" || argAfter(second, "-crf") != "23" || argAfter(second, "-preset") != "fast" {
		t.Errorf("fallback args = %v", second)
	}
}

func TestComposeImagesSoftwareFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "libx264"}
	err := New(testConfig("libx264"), exec, nil).ComposeImages(context.Background(), "run/list.txt", "run/out.mp4")
	if !errors.Is(err, faults.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
	if len(exec.calls) != 1 {
		t.Errorf("calls = %d, want no fallback", len(exec.calls))
	}
}

func TestMux(t *testing.T) {
	tests := []struct {
		name     string
		subtitle string
		wantDir  string
		wantVF   string
	}{
		{"with subtitle", filepath.Join("run", "abc003.srt"), "run", "subtitles=abc003.srt"},
		{"without subtitle", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			tools := New(testConfig("libx264"), exec, nil)
			if err := tools.Mux(context.Background(), "v.mp4", "a.wav", tt.subtitle, "out.mp4"); err != nil {
				t.Fatalf("Mux() error = %v", err)
			}
			got := exec.calls[0]
			if got.dir != tt.wantDir {
				t.Errorf("dir = %q, want %q", got.dir, tt.wantDir)
			}
			if argAfter(got.args, "-vf") != tt.wantVF {
				t.Errorf("vf = %q, want %q", argAfter(got.args, "-vf"), tt.wantVF)
			}
			if !slices.Contains(got.args, "-shortest") || argAfter(got.args, "-b:a") != "192k" || argAfter(got.args, "-c:a") != "aac" {
				t.Errorf("args = %v", got.args)
			}
		})
	}
}

func TestMuxFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "-shortest"}
	err := New(testConfig("hevc_nvenc"), exec, nil).Mux(context.Background(), "v.mp4", "a.wav", "", "out.mp4")
	if !errors.Is(err, faults.ErrMuxFailed) {
		t.Fatalf("Mux() error = %v, want ErrMuxFailed", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("calls = %d, want hardware then software", len(exec.calls))
	}
}

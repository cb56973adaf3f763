package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/history"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

// Processor produces one video per content reference.
type Processor interface {
	// ListTopContent never fails: an unknown source or a crawler error
	// yields an empty list.
	ListTopContent(ctx context.Context, source string) []models.ContentReference
	Produce(ctx context.Context, ref models.ContentReference) (models.Production, error)
}

// Crawler lists the current top content of one source.
type Crawler interface {
	ListTop(ctx context.Context) ([]models.ContentReference, error)
}

// Extractor turns a reference into narration and pictures.
type Extractor interface {
	Extract(ctx context.Context, ref models.ContentReference) (models.Material, error)
}

// SpeechSynthesizer renders each text into its own audio segment inside the
// run workspace. It must tolerate concurrent calls from independent runs.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, files workspace.Allocator, texts []string) ([]models.Segment, error)
}

// VoiceEffectTool transforms one audio file into another.
type VoiceEffectTool interface {
	Apply(ctx context.Context, input, output string) error
}

// SubtitleWriter writes timed captions into the workspace.
type SubtitleWriter interface {
	Write(ctx context.Context, files workspace.Allocator, cues []models.Cue) (string, error)
}

// VisualComposer renders a silent video of roughly target length.
type VisualComposer interface {
	Compose(ctx context.Context, files workspace.Allocator, material models.Material, target time.Duration) (string, error)
}

// FinalMuxer combines video, audio and an optional subtitle file.
type FinalMuxer interface {
	Mux(ctx context.Context, video, audio, subtitle, output string) error
}

// RunRecorder keeps the ledger of finished runs.
type RunRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

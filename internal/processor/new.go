package processor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/subtitle"
)

// Source is a named content origin. The extractor is mandatory; a source
// without a crawler can still produce references it is handed.
type Source struct {
	Crawler   Crawler
	Extractor Extractor
}

// Options wires the stages of a Processor. Nil stages are skipped.
type Options struct {
	WorkspaceRoot string
	OutputDir     string
	Sources       map[string]Source

	Synthesizer SpeechSynthesizer
	VoiceEffect VoiceEffectTool
	Subtitles   SubtitleWriter
	Visual      VisualComposer
	Muxer       FinalMuxer

	// Script exports the narration as a .docx next to the video.
	Script bool
	// EffectWorkers bounds concurrent voice effect invocations within a run.
	EffectWorkers int
	History       RunRecorder
	OnTransition  func(ctx context.Context, s State)
	Logger        logger.Logger
}

type implProcessor struct {
	workspaceRoot string
	outputDir     string
	sources       map[string]Source

	synthesizer SpeechSynthesizer
	voiceEffect VoiceEffectTool
	subtitles   SubtitleWriter
	visual      VisualComposer
	muxer       FinalMuxer

	plan          Plan
	script        bool
	captionGap    time.Duration
	effectWorkers int
	history       RunRecorder
	onTransition  func(ctx context.Context, s State)
	logger        logger.Logger
}

// New creates a new Processor instance
func New(o Options) (Processor, error) {
	if strings.TrimSpace(o.WorkspaceRoot) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "processor", "new", "workspace root is required", nil)
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "processor", "new", "output dir is required", nil)
	}

	sources := make(map[string]Source, len(o.Sources))
	for name, src := range o.Sources {
		if src.Extractor == nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "processor", "new",
				fmt.Sprintf("source %q has no extractor", name), nil)
		}
		sources[name] = src
	}

	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.EffectWorkers <= 0 {
		o.EffectWorkers = 1
	}

	return &implProcessor{
		workspaceRoot: o.WorkspaceRoot,
		outputDir:     o.OutputDir,
		sources:       sources,
		synthesizer:   o.Synthesizer,
		voiceEffect:   o.VoiceEffect,
		subtitles:     o.Subtitles,
		visual:        o.Visual,
		muxer:         o.Muxer,
		plan:          resolvePlan(o),
		script:        o.Script,
		captionGap:    subtitle.CaptionGap,
		effectWorkers: o.EffectWorkers,
		history:       o.History,
		onTransition:  o.OnTransition,
		logger:        o.Logger,
	}, nil
}

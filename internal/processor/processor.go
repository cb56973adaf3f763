package processor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/history"
	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/scriptdoc"
	"github.com/nguyentantai21042004/newsreel/internal/visual"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

// Produce runs the whole pipeline for ref. Every intermediate lives in a
// fresh workspace that is removed before Produce returns; on success the
// final video is moved to the output directory and belongs to the caller.
func (p *implProcessor) Produce(ctx context.Context, ref models.ContentReference) (prod models.Production, err error) {
	startTime := time.Now()
	ctx = logger.WithSource(ctx, ref.Source)
	r := newRun(p.logger, p.onTransition)

	var runID string
	defer func() {
		if err != nil {
			r.transition(ctx, StateFailed)
			p.logger.Error(ctx, "Production failed after %s: %v", time.Since(startTime).Round(time.Millisecond), err)
		}
		p.recordRun(ctx, runID, ref, prod, err, time.Since(startTime))
	}()

	src, ok := p.sources[ref.Source]
	if !ok {
		return models.Production{}, faults.Wrap(faults.ErrSourceNotFound, "material", "lookup", ref.Source, nil)
	}
	if err := p.plan.validate(); err != nil {
		return models.Production{}, err
	}

	ws, err := workspace.New(p.workspaceRoot, p.logger)
	if err != nil {
		return models.Production{}, faults.Wrap(faults.ErrConfiguration, "workspace", "create", "", faults.Detail(faults.ErrIO, "", err))
	}
	runID = ws.ID()
	ctx = logger.WithRunID(ctx, runID)
	defer ws.Close(ctx)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting production: %s", ref.Title)
	p.logger.Info(ctx, "Plan: %s", p.plan)
	p.logger.Info(ctx, "========================================")

	// Material
	material, err := src.Extractor.Extract(logger.WithStage(ctx, "material"), ref)
	if err != nil {
		return models.Production{}, faults.Wrap(faults.ErrExtraction, "material", "extract", ref.URL, err)
	}
	if material.Title == "" {
		material.Title = ref.Title
	}
	r.transition(ctx, StateMaterialReady)
	p.logger.Info(ctx, "Material ready: %d sentences, %d pictures", len(material.Summary), len(material.Images))

	// Dubbing
	var dubbing *models.Dubbing
	if p.plan.Has(RoleSpeech) {
		d, err := p.dub(logger.WithStage(ctx, "dubbing"), ws, material.Summary)
		if err != nil {
			return models.Production{}, err
		}
		defer ws.Remove(ctx, d.Path)
		dubbing = &d
		r.transition(ctx, StateDubbingReady)
	} else {
		r.transition(ctx, StateNoSpeech)
	}

	// Subtitles
	var subtitlePath string
	if p.plan.Has(RoleSubtitle) && dubbing != nil {
		subtitlePath, err = p.subtitles.Write(logger.WithStage(ctx, "subtitle"), ws, dubbing.Cues)
		if err != nil {
			return models.Production{}, faults.Wrap(faults.ErrSubtitle, "subtitle", "write", "", err)
		}
		defer ws.Remove(ctx, subtitlePath)
		r.transition(ctx, StateSubtitleReady)
	} else {
		r.transition(ctx, StateNoSubtitle)
	}

	// Visual
	target, err := targetDuration(dubbing, material)
	if err != nil {
		return models.Production{}, err
	}
	p.logger.Info(ctx, "Visual target duration: %s", target)
	videoPath, err := p.visual.Compose(logger.WithStage(ctx, "visual"), ws, material, target)
	if err != nil {
		return models.Production{}, faults.Wrap(faults.ErrVisual, "visual", "compose", "", err)
	}
	defer ws.Remove(ctx, videoPath)
	r.transition(ctx, StateVisualReady)

	// Mux
	if dubbing == nil {
		return models.Production{}, faults.Wrap(faults.ErrMux, "mux", "precondition", "no dubbing was produced", faults.ErrPrecondition)
	}
	muxed, err := ws.NewFile("mp4")
	if err != nil {
		return models.Production{}, faults.Wrap(faults.ErrMux, "mux", "allocate", "", faults.Detail(faults.ErrIO, "", err))
	}
	defer ws.Remove(ctx, muxed)
	if err := p.muxer.Mux(logger.WithStage(ctx, "mux"), videoPath, dubbing.Path, subtitlePath, muxed); err != nil {
		return models.Production{}, faults.Wrap(faults.ErrMux, "mux", "run", "", err)
	}

	outputPath := filepath.Join(p.outputDir, runID+"-final.mp4")
	if err := p.publish(ctx, muxed, outputPath); err != nil {
		return models.Production{}, faults.Wrap(faults.ErrMux, "mux", "publish", "", faults.Detail(faults.ErrIO, "", err))
	}
	r.transition(ctx, StateComposed)

	prod = models.Production{
		RunID: runID,
		Title: material.Title,
		Path:  outputPath,
	}
	if p.script {
		prod.ScriptPath = p.exportScript(ctx, outputPath, material.Title, dubbing.Cues)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Production completed successfully!")
	p.logger.Info(ctx, "Output video: %s", prod.Path)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return prod, nil
}

// targetDuration is the dubbing length, or two seconds per picture without one.
func targetDuration(dubbing *models.Dubbing, material models.Material) (time.Duration, error) {
	if dubbing != nil {
		if d := dubbing.Duration(); d > 0 {
			return d, nil
		}
	}
	if n := len(material.Images); n > 0 {
		return time.Duration(n) * visual.SlideDuration, nil
	}
	return 0, faults.Wrap(faults.ErrVisual, "visual", "target", "no dubbing and no pictures", faults.ErrDurationUnavailable)
}

// exportScript writes the narration document. Failures are logged, not fatal.
func (p *implProcessor) exportScript(ctx context.Context, videoPath, title string, cues []models.Cue) string {
	scriptPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".docx"
	if err := scriptdoc.Write(scriptPath, title, cues, p.captionGap); err != nil {
		p.logger.Warn(ctx, "Failed to export script: %v", err)
		return ""
	}
	p.logger.Info(ctx, "Output script: %s", scriptPath)
	return scriptPath
}

func (p *implProcessor) recordRun(ctx context.Context, runID string, ref models.ContentReference, prod models.Production, err error, elapsed time.Duration) {
	if p.history == nil {
		return
	}
	entry := history.Run{
		RunID:      runID,
		Source:     ref.Source,
		Reference:  ref.URL,
		Title:      ref.Title,
		Status:     history.StatusComposed,
		OutputPath: prod.Path,
		Elapsed:    elapsed,
		FinishedAt: time.Now(),
	}
	if prod.Title != "" {
		entry.Title = prod.Title
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Error = err.Error()
	}
	// the caller's ctx may already be cancelled
	if recErr := p.history.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		p.logger.Warn(ctx, "Failed to record run: %v", recErr)
	}
}

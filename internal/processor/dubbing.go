package processor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/timeline"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

// dub synthesizes the sentences, applies the voice effect and folds the
// segments into one dubbing file. Segment files never outlive this call.
func (p *implProcessor) dub(ctx context.Context, ws *workspace.Workspace, sentences []string) (models.Dubbing, error) {
	segments, err := p.synthesizer.Synthesize(ctx, ws, sentences)
	if err != nil {
		return models.Dubbing{}, speechError("synthesize", err)
	}
	defer func() {
		for _, seg := range segments {
			ws.Remove(ctx, seg.Path)
		}
	}()
	p.logger.Info(ctx, "Synthesized %d segments", len(segments))

	if p.plan.Has(RoleVoiceEffect) {
		effected, err := p.applyVoiceEffect(ctx, ws, segments)
		if err != nil {
			return models.Dubbing{}, err
		}
		segments = effected
	}

	dst, err := ws.NewFile("wav")
	if err != nil {
		return models.Dubbing{}, faults.Wrap(faults.ErrSpeech, "dubbing", "allocate", "", faults.Detail(faults.ErrIO, "", err))
	}
	dubbing, err := timeline.Compose(ctx, dst, segments)
	if err != nil {
		ws.Remove(ctx, dst)
		return models.Dubbing{}, speechError("compose", err)
	}

	p.logger.Info(ctx, "Dubbing ready: %s (%s)", dubbing.Path, dubbing.Duration())
	return dubbing, nil
}

// speechError tags err as a speech failure unless it already reports
// malformed audio, which keeps its own kind.
func speechError(operation string, err error) error {
	if faults.Kind(err) == faults.ErrAudioFormat {
		return faults.Wrap(nil, "dubbing", operation, "", err)
	}
	return faults.Wrap(faults.ErrSpeech, "dubbing", operation, "", err)
}

// applyVoiceEffect runs the effect over every segment with at most
// effectWorkers invocations in flight. Output order matches input order and
// durations are re-measured. Source segments are removed as they are
// replaced; on failure every effect output is removed too.
func (p *implProcessor) applyVoiceEffect(ctx context.Context, ws *workspace.Workspace, segments []models.Segment) (out []models.Segment, err error) {
	outputs := make([]string, len(segments))
	for i := range segments {
		path, err := ws.NewFile("wav")
		if err != nil {
			return nil, faults.Wrap(faults.ErrEffectTool, "dubbing", "allocate", "", faults.Detail(faults.ErrIO, "", err))
		}
		outputs[i] = path
	}
	defer func() {
		if err != nil {
			for _, path := range outputs {
				ws.Remove(ctx, path)
			}
		}
	}()

	out = make([]models.Segment, len(segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.effectWorkers)
	for i, seg := range segments {
		g.Go(func() error {
			if err := p.voiceEffect.Apply(gctx, seg.Path, outputs[i]); err != nil {
				return fmt.Errorf("segment %d: %w", i+1, err)
			}
			d, err := timeline.Measure(outputs[i])
			if err != nil {
				return fmt.Errorf("measure segment %d: %w", i+1, err)
			}
			out[i] = models.Segment{Path: outputs[i], Text: seg.Text, Duration: d}
			ws.Remove(ctx, seg.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, faults.Wrap(faults.ErrEffectTool, "dubbing", "voice effect", "", err)
	}

	p.logger.Debug(ctx, "Voice effect applied to %d segments", len(out))
	return out, nil
}

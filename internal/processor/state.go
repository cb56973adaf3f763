package processor

import (
	"context"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
)

// State is the position of a run in the production state machine.
type State int

const (
	StateStart State = iota
	StateMaterialReady
	StateDubbingReady
	StateNoSpeech
	StateSubtitleReady
	StateNoSubtitle
	StateVisualReady
	StateComposed
	StateFailed
)

var stateNames = [...]string{
	StateStart:         "start",
	StateMaterialReady: "material_ready",
	StateDubbingReady:  "dubbing_ready",
	StateNoSpeech:      "no_speech",
	StateSubtitleReady: "subtitle_ready",
	StateNoSubtitle:    "no_subtitle",
	StateVisualReady:   "visual_ready",
	StateComposed:      "composed",
	StateFailed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// run tracks one Produce call.
type run struct {
	state    State
	logger   logger.Logger
	observer func(ctx context.Context, s State)
}

func newRun(log logger.Logger, observer func(context.Context, State)) *run {
	return &run{state: StateStart, logger: log, observer: observer}
}

func (r *run) transition(ctx context.Context, to State) {
	r.logger.Debug(ctx, "State %s -> %s", r.state, to)
	r.state = to
	if r.observer != nil {
		r.observer(ctx, to)
	}
}

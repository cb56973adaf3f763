package ffmpeg

import (
	"github.com/nguyentantai21042004/newsreel/internal/config"
	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/pkg/executor"
)

// softwareEncoder is the fallback when the configured encoder fails.
const softwareEncoder = "libx264"

// Tools drives the ffmpeg binary for every media transformation of a run:
// voice effects, slideshow rendering and the final mux.
type Tools struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Tools instance
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) *Tools {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.Encoder == "" {
		cfg.Encoder = softwareEncoder
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tools{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

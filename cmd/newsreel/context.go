package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/config"
	"github.com/nguyentantai21042004/newsreel/internal/ffmpeg"
	"github.com/nguyentantai21042004/newsreel/internal/history"
	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/processor"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
	"github.com/nguyentantai21042004/newsreel/internal/source"
	"github.com/nguyentantai21042004/newsreel/internal/speech"
	"github.com/nguyentantai21042004/newsreel/internal/subtitle"
	"github.com/nguyentantai21042004/newsreel/internal/summarizer"
	"github.com/nguyentantai21042004/newsreel/internal/visual"
	"github.com/nguyentantai21042004/newsreel/pkg/executor"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     logger.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config.yaml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := ensureDirectories(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	})
	return c.config, c.configErr
}

// openHistory opens the run ledger configured in paths.history_db.
func (c *commandContext) openHistory(ctx context.Context) (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(ctx, cfg.Paths.HistoryDB)
}

// newProcessor wires every configured stage. The returned func releases
// what the processor holds open.
func (c *commandContext) newProcessor(ctx context.Context) (processor.Processor, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	log := c.logger

	policy := retry.Default()
	policy.Attempts = cfg.Network.RetryAttempts
	httpClient := &http.Client{Timeout: time.Duration(cfg.Network.TimeoutSeconds) * time.Second}

	sum, err := summarizer.New(summarizer.Config{
		Provider: cfg.Summarizer.Provider,
		Model:    cfg.Summarizer.Model,
		BaseURL:  cfg.Summarizer.BaseURL,
		APIKeys:  summarizerKeys(cfg),
		Retry:    policy,
	}, log)
	if err != nil {
		// listing still works; extraction reports the missing provider
		log.Warn(ctx, "Summarizer unavailable: %v", err)
	}

	sourceOpts := []source.Option{
		source.WithHTTPClient(httpClient),
		source.WithRetryPolicy(policy),
		source.WithLogger(log),
	}
	sources := map[string]processor.Source{
		source.Pengpai: {
			Crawler:   source.NewPengpaiCrawler(sourceOpts...),
			Extractor: source.NewArticleExtractor(sum, sourceOpts...),
		},
	}

	exec := executor.New(executor.WithTimeout(time.Duration(cfg.FFmpeg.TimeoutSeconds) * time.Second))
	tools := ffmpeg.New(cfg.FFmpeg, exec, log)

	opts := processor.Options{
		WorkspaceRoot: cfg.Paths.Workspace,
		OutputDir:     cfg.Paths.Output,
		Sources:       sources,
		Visual: visual.NewComposer(tools,
			visual.WithHTTPClient(httpClient),
			visual.WithRetryPolicy(policy),
			visual.WithLogger(log),
		),
		Muxer:         tools,
		Script:        cfg.Stages.Script,
		EffectWorkers: cfg.Performance.EffectWorkers,
		Logger:        log,
	}
	if cfg.Stages.Speech {
		opts.Synthesizer = speech.New(speech.Config{
			URL:    cfg.Speech.URL,
			APIKey: cfg.Secrets.DashScopeAPIKey,
			Model:  cfg.Speech.Model,
			Voice:  cfg.Speech.Voice,
		}, speech.WithHTTPClient(httpClient), speech.WithRetryPolicy(policy), speech.WithLogger(log))
	}
	if cfg.Stages.VoiceEffect {
		opts.VoiceEffect = tools
	}
	if cfg.Stages.Subtitles {
		opts.Subtitles = subtitle.NewWriter()
	}

	store, err := history.Open(ctx, cfg.Paths.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	opts.History = store

	proc, err := processor.New(opts)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return proc, func() { _ = store.Close() }, nil
}

func summarizerKeys(cfg *config.Config) []string {
	if cfg.Summarizer.Provider == "gemini" {
		return cfg.Secrets.GeminiAPIKeys
	}
	if cfg.Secrets.DeepSeekAPIKey == "" {
		return nil
	}
	return []string{cfg.Secrets.DeepSeekAPIKey}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Workspace,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/newsreel/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Produce videos for request files dropped into the inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger
			runCtx := cmd.Context()

			proc, closeFn, err := ctx.newProcessor(runCtx)
			if err != nil {
				return err
			}
			defer closeFn()

			w, err := watcher.New(cfg.Paths.Inbox, watcher.RequestHandler(proc, log), log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer func() {
				if stopErr := w.Stop(); stopErr != nil {
					log.Warn(runCtx, "Failed to stop watcher: %v", stopErr)
				}
			}()

			log.Info(runCtx, "========================================")
			log.Info(runCtx, "Newsreel is ready!")
			log.Info(runCtx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			log.Info(runCtx, "Inbox: %s", cfg.Paths.Inbox)
			log.Info(runCtx, "Output: %s", cfg.Paths.Output)
			log.Info(runCtx, "FFmpeg: %s encoder, %d concurrent runs", cfg.FFmpeg.Encoder, cfg.Performance.MaxConcurrent)
			log.Info(runCtx, "Press Ctrl+C to stop")
			log.Info(runCtx, "========================================")

			err = w.Start(runCtx)
			if errors.Is(err, context.Canceled) {
				log.Info(context.WithoutCancel(runCtx), "Newsreel stopped")
				return nil
			}
			return err
		},
	}
}

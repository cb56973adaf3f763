package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/newsreel/internal/models"
)

func newProduceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "produce <source> <index|url>",
		Short: "Produce a video from one piece of content",
		Long: "Produce a narrated video. The second argument is either the 1-based\n" +
			"position shown by `newsreel list` or the URL of an article.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, closeFn, err := ctx.newProcessor(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sourceName, target := args[0], strings.TrimSpace(args[1])
			var refs []models.ContentReference
			if _, convErr := strconv.Atoi(target); convErr == nil {
				refs = proc.ListTopContent(cmd.Context(), sourceName)
			}
			ref, err := resolveReference(sourceName, target, refs)
			if err != nil {
				return err
			}

			production, err := proc.Produce(cmd.Context(), ref)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished: %s\n", production.RunID, production.Path)
			if production.ScriptPath != "" {
				fmt.Fprintf(out, "Script: %s\n", production.ScriptPath)
			}
			return nil
		},
	}
}

// resolveReference turns the produce target into a reference. A number
// selects from refs, anything else must be an absolute http(s) URL.
func resolveReference(sourceName, target string, refs []models.ContentReference) (models.ContentReference, error) {
	if n, err := strconv.Atoi(target); err == nil {
		if len(refs) == 0 {
			return models.ContentReference{}, fmt.Errorf("no content listed for %s", sourceName)
		}
		if n < 1 || n > len(refs) {
			return models.ContentReference{}, fmt.Errorf("index %d out of range (1-%d)", n, len(refs))
		}
		ref := refs[n-1]
		if ref.Source == "" {
			ref.Source = sourceName
		}
		return ref, nil
	}

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.ContentReference{}, fmt.Errorf("invalid target %q: expected an index or an http(s) URL", target)
	}
	return models.ContentReference{
		Source: sourceName,
		URL:    target,
		Images: []string{},
		Videos: []string{},
	}, nil
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/newsreel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent production runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			}
			fmt.Fprint(out, renderPlain(runRows(runs)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func runRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		result := run.OutputPath
		if run.Status != history.StatusComposed {
			result = run.Error
		}
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.FinishedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			string(run.Status),
			run.Elapsed.Round(time.Second).String(),
			run.Title,
			result,
		})
	}
	return rows
}

func renderRuns(runs []history.Run) string {
	return renderTable(
		[]string{"ID", "Finished", "Source", "Status", "Elapsed", "Title", "Output / Error"},
		runRows(runs),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/newsreel/internal/models"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <source>",
		Short: "List the top content of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, closeFn, err := ctx.newProcessor(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			refs := proc.ListTopContent(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintf(out, "No content found for %s\n", args[0])
				return nil
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderReferences(refs))
				return nil
			}
			fmt.Fprint(out, renderPlain(referenceRows(refs)))
			return nil
		},
	}
}

func referenceRows(refs []models.ContentReference) [][]string {
	rows := make([][]string, 0, len(refs))
	for i, ref := range refs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ref.ID,
			ref.Title,
			strconv.Itoa(len(ref.Images)),
			strconv.Itoa(len(ref.Videos)),
		})
	}
	return rows
}

func renderReferences(refs []models.ContentReference) string {
	return renderTable(
		[]string{"#", "ID", "Title", "Pics", "Videos"},
		referenceRows(refs),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	)
}

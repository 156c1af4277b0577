package main

import (
	"context"

	"github.com/spf13/cobra"

	"dogwatch/internal/pipeline"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var movie string
	var libraries []string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove content-warning blocks from movie summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Libraries: libraries,
				Movie:     movie,
				DryRun:    dryRun,
			}
			return runPipeline(cmd, ctx, opts, func(runCtx context.Context, proc *pipeline.Processor) (*pipeline.Summary, error) {
				return proc.Clear(runCtx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without writing to Plex")
	cmd.Flags().StringVarP(&movie, "movie", "m", "", "Process only the movie with this exact title")
	cmd.Flags().StringSliceVarP(&libraries, "library", "l", nil, "Restrict to the named library (repeatable)")
	return cmd
}

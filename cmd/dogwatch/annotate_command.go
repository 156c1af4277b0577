package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dogwatch/internal/pipeline"
)

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var movie string
	var libraries []string

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Look up content warnings and write them into movie summaries",
		Long: "Walks the configured Plex movie libraries, looks each title up on\n" +
			"DoesTheDogDie.com, and appends a content-warning block to its summary.\n" +
			"Existing blocks are replaced, so re-running is safe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Libraries: libraries,
				Movie:     movie,
				DryRun:    dryRun,
			}
			return runPipeline(cmd, ctx, opts, func(runCtx context.Context, proc *pipeline.Processor) (*pipeline.Summary, error) {
				return proc.Annotate(runCtx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without writing to Plex")
	cmd.Flags().StringVarP(&movie, "movie", "m", "", "Process only the movie with this exact title")
	cmd.Flags().StringSliceVarP(&libraries, "library", "l", nil, "Restrict to the named library (repeatable)")
	return cmd
}

func runPipeline(cmd *cobra.Command, ctx *commandContext, opts pipeline.Options, run func(context.Context, *pipeline.Processor) (*pipeline.Summary, error)) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return err
	}

	release, err := pipeline.AcquireLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer release()

	processor, cleanup, err := ctx.buildProcessor(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := run(runCtx, processor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.DryRun {
		fmt.Fprintln(out, "Dry run: no summaries were written")
	}
	printSummary(out, summary)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lookupgen/internal/config"
	"lookupgen/internal/generate"
	"lookupgen/internal/glyph"
	"lookupgen/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchCheck bool

// batchCmd regenerates every table listed in a manifest.
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Generate every lookup table listed in a manifest",
	Long: `Reads a YAML manifest of jobs and generates each table into its output
file. Jobs run concurrently, up to batch.concurrency at a time. The first
failure stops jobs that have not started yet; every failure is reported.

Manifest format:

  jobs:
    - source: font.c
      start: "Glyph glyphs[]"
      end: "};"
      default: QUESTION_MARK
      decl: "const __flash uint8_t lookup[256]"
      output: lookup.h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchCheck, "check", false, "Report stale outputs instead of writing them")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest, err := config.LoadManifest(args[0])
	if err != nil {
		return err
	}
	for i, job := range manifest.Jobs {
		if err := generate.Validate(job); err != nil {
			return glyph.Errorf(glyph.ErrUsage, &glyph.Location{Source: args[0]}, "job %d: %v", i+1, err)
		}
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if batchCheck {
		return checkJobs(ctx, cmd.ErrOrStderr(), manifest.Jobs)
	}
	return runJobs(ctx, cmd.ErrOrStderr(), manifest.Jobs, cfg.Batch.Concurrency)
}

// runJobs generates jobs with at most limit running at once and reports each
// failure in manifest order.
func runJobs(ctx context.Context, stderr io.Writer, jobs []config.Job, limit int) error {
	log := logging.Get(logging.CategoryBatch)

	errs := make([]error, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := generate.Run(gctx, job); err != nil {
				errs[i] = err
				return err
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		// Jobs cancelled by an earlier failure are not failures of their own.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			log.Debug("job skipped", zap.String("source", jobs[i].Source))
			continue
		}
		failed++
		printError(stderr, err)
	}

	log.Info("batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Command lookupgen generates lookup tables for arrays of Glyphs.
//
// A simple line-by-line parser reads the array from a C file. Each line of
// the array must be of the form
//
//	{ code, width, name } [,] [comment]
//
// where code is an integer like 123 or 0x45. The output maps each of the 256
// possible codes to the index of its glyph, or of a default glyph.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"lookupgen/internal/config"
	"lookupgen/internal/diff"
	"lookupgen/internal/generate"
	"lookupgen/internal/glyph"
	"lookupgen/internal/logging"
	"lookupgen/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Root command flags
	outputPath string
	checkMode  bool
	watchMode  bool

	cfg    *config.Config
	logger *zap.Logger
)

// errStale is returned when --check finds generated files that are out of date.
var errStale = errors.New("generated tables are out of date")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lookupgen <filename> <start> <end> <default> <decl>",
	Short: "Generate a 256-entry lookup table for an array of Glyphs",
	Long: `A simple line-by-line parser that generates lookup tables for arrays
of Glyphs. Each line of the Glyph array must be of the form

    { code, width, name } [,] [comment]

where 'code' is some integer like '123' or '0x45'. The output is a lookup
table printed to stdout, or written to --output.

Arguments:
  <filename>  C file that contains the array, like "font.c"
  <start>     string that matches (part of) the start of the array
              definition, like 'Glyph glyphs[]'
  <end>       string that matches the end of the array definition, like '};'
  <default>   name of the glyph used for codes without an entry, like
              'QUESTION_MARK'; only needed when the array has fewer than
              256 distinct codes
  <decl>      declarator of the generated table, like
              'const __flash uint8_t lookup[256]'`,
	Example: `  lookupgen font.c 'Glyph glyphs[]' '};' QUESTION_MARK 'const __flash uint8_t lookup[256]' > lookup.h
  lookupgen -o lookup.h --check font.c 'Glyph glyphs[]' '};' QUESTION_MARK 'const uint8_t lookup[256]'`,
	Args:          cobra.MatchAll(cobra.ExactArgs(5), validateJobArgs),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.Initialize(cfg.Logging, verbose, zapcore.Lock(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runGenerate,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Configuration file")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the table to this file instead of stdout")
	rootCmd.Flags().BoolVar(&checkMode, "check", false, "Report whether --output is up to date instead of writing it")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Regenerate --output whenever <filename> changes")
	rootCmd.MarkFlagsMutuallyExclusive("check", "watch")

	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports err on the error stream, separated from earlier output.
func printError(w io.Writer, err error) {
	if errors.Is(err, errStale) {
		fmt.Fprintf(w, "\n%s: %v\n", glyph.Program, err)
		return
	}
	fmt.Fprint(w, "\n"+glyph.Diagnostic(err))
}

// validateJobArgs rejects blank patterns before any file is read.
func validateJobArgs(cmd *cobra.Command, args []string) error {
	return generate.Validate(jobFromArgs(args))
}

func jobFromArgs(args []string) config.Job {
	return config.Job{
		Source:  args[0],
		Start:   args[1],
		End:     args[2],
		Default: args[3],
		Decl:    args[4],
	}
}

// commandContext returns the command's context, cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// runGenerate handles the root command.
func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	job := jobFromArgs(args)
	job.Output = outputPath

	if (checkMode || watchMode) && job.Output == "" {
		return glyph.Errorf(glyph.ErrUsage, nil, "--check and --watch need --output")
	}

	logger.Debug("Generating lookup table",
		zap.String("source", job.Source),
		zap.String("start", job.Start),
		zap.String("end", job.End),
		zap.String("default", job.Default))

	switch {
	case checkMode:
		return checkJobs(ctx, cmd.ErrOrStderr(), []config.Job{job})
	case watchMode:
		return watchJob(ctx, cmd.ErrOrStderr(), job)
	case job.Output != "":
		return generate.Run(ctx, job)
	}

	data, err := generate.Generate(ctx, job)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// checkJobs compares each job's output with a fresh generation and writes a
// drift report for every stale one.
func checkJobs(ctx context.Context, stderr io.Writer, jobs []config.Job) error {
	styles := diff.NewStyles(stderr, diff.ColorMode(cfg.Output.Color))

	stale := 0
	for _, job := range jobs {
		d, err := generate.Check(ctx, job, cfg.Output.ContextLines)
		if err != nil {
			return err
		}
		if !d.Stale() {
			continue
		}
		stale++
		if err := diff.Report(stderr, d, styles); err != nil {
			return err
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d of %d: %w", stale, len(jobs), errStale)
	}
	return nil
}

// watchJob regenerates job.Output now and after every change to job.Source
// until ctx is cancelled. Generation errors are reported and watching goes on.
func watchJob(ctx context.Context, stderr io.Writer, job config.Job) error {
	regenerate := func(ctx context.Context, _ string) {
		if err := generate.Run(ctx, job); err != nil {
			printError(stderr, err)
			return
		}
		logger.Info("Regenerated lookup table", zap.String("output", job.Output))
	}

	w, err := watch.New([]string{job.Source}, cfg.GetDebounce(), regenerate)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	regenerate(ctx, job.Source)
	fmt.Fprintf(stderr, "%s: watching %s, press Ctrl+C to stop\n", glyph.Program, job.Source)

	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}

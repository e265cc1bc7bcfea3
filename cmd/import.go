package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/tasks"
	"github.com/urfave/cli/v3"
)

type importFunc func(*tasks.ImportEngine, context.Context, chan<- tasks.ProgressUpdate, io.Reader, tasks.ImportOpts) (*tasks.ImportResult, error)

// ImportBooks loads books from a CSV file.
func (r *Runner) ImportBooks(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	return r.runImport(ctx, cmd, lib, (*tasks.ImportEngine).ImportBooks)
}

// ImportStudents loads students from a CSV file.
func (r *Runner) ImportStudents(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	return r.runImport(ctx, cmd, lib, (*tasks.ImportEngine).ImportStudents)
}

func (r *Runner) runImport(ctx context.Context, cmd *cli.Command, lib *library.Store, run importFunc) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	opts := tasks.ImportOpts{RateLimit: cmd.Float("rate"), DryRun: cmd.Bool("dry-run")}
	if d := cmd.String("delimiter"); d != "" {
		if utf8.RuneCountInString(d) != 1 {
			return fmt.Errorf("%w: --delimiter must be a single character", shared.ErrInvalidFlag)
		}
		opts.Comma, _ = utf8.DecodeRuneInString(d)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	progress := make(chan tasks.ProgressUpdate, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result, err := run(tasks.NewImportEngine(lib), ctx, progress, f, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		if result != nil {
			r.logger.Warn("import stopped early", "imported", result.Imported, "skipped", result.Skipped)
		}
		return err
	}

	verb := "Imported"
	if opts.DryRun {
		verb = "Validated"
	}
	r.writePlain("✓ %s %d of %d row(s)\n", verb, result.Imported, result.Total)
	for _, row := range result.Failures() {
		r.writePlain("  ✗ line %d (%s): %s\n", row.Line, row.Key, row.Outcome.Message)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/desertthunder/libratech/internal/storage"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v3"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer

	mu    sync.Mutex
	kv    storage.Store
	store *library.Store
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	KV     storage.Store // KV is opened from Config.Database on first use when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		kv:     opts.KV,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, booksCommand, studentsCommand, loansCommand, importCommand,
		resetCommand, loginCommand, logoutCommand, whoamiCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Library opens the configured storage on first call and returns the shared store.
func (r *Runner) Library() (*library.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		return r.store, nil
	}

	if r.kv == nil {
		kv, err := storage.Open(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		r.kv = kv
		r.logger.Debug("storage opened", "path", r.config.Database.Path)
	}

	r.store = library.NewStore(library.Options{
		KV:       r.kv,
		Seed:     r.config.Library.Seed,
		LoanDays: r.config.Library.LoanDays,
		Logger:   r.logger,
	})
	return r.store, nil
}

// SetLogger replaces the runner's logger, including the store's if it is open.
func (r *Runner) SetLogger(l *log.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
	if r.store != nil {
		r.store.SetLogger(l)
	}
}

// Close releases the storage backend.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kv == nil {
		return nil
	}
	err := r.kv.Close()
	r.kv, r.store = nil, nil
	return err
}

// report prints a mutation outcome and converts a failure into an error for the exit status.
func (r *Runner) report(out models.Outcome, asJSON bool) error {
	if asJSON {
		if err := r.writeJSON(out, true); err != nil {
			return err
		}
		return out.Err()
	}

	if !out.Success {
		return out.Err()
	}
	if err := r.writePlain("✓ %s\n", out.Message); err != nil {
		return err
	}
	if out.Warning != "" {
		return r.writePlain("! %s\n", out.Warning)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = codec.MarshalIndent(data, "", "  ")
	} else {
		output, err = codec.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// withLibrary adapts a store-aware action to the cli action signature.
func (r *Runner) withLibrary(fn func(context.Context, *cli.Command, *library.Store) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		lib, err := r.Library()
		if err != nil {
			return err
		}
		return fn(ctx, cmd, lib)
	}
}

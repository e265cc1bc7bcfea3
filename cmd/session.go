package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login starts a desk session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	session, err := lib.Login(ctx, cmd.String("provider"), cmd.String("name"), cmd.String("email"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s (%s via %s)\n", session.Name, session.Role, session.Provider)
}

// Logout ends the desk session.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	if err := lib.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// Whoami prints the current session.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	session, err := lib.CurrentSession(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("Not signed in. Run 'libratech login'.\n")
	}
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(session, true)
	}
	return r.writePlain("%s <%s>\nrole: %s\nprovider: %s\nsince: %s\n",
		session.Name, session.Email, session.Role, session.Provider, shared.FormatDate(session.StartedAt))
}

// Reset deletes all library data.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete all library data", shared.ErrMissingArgument)
	}
	if err := lib.ResetAll(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Library data reset\n")
}

package main

import (
	"context"
	"fmt"

	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account and signs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")

	r.logger.Info("registering", "email", email)

	sess, err := r.svc.Register(ctx, name, email, cmd.String("password"))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.writePlain("✓ Registered and signed in as %s (%s)\n", sess.FirstName, sess.Role)
	return nil
}

// AuthLogin exchanges credentials for a session and stores the issued
// credential for later runs.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	sess, err := r.svc.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.writePlain("✓ Signed in as %s (%s)\n", sess.FirstName, sess.Role)
	return nil
}

// AuthLogout invalidates the stored credential. Local state is cleared even
// when the backend cannot be reached.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.svc.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.writePlain("✓ Signed out\n")
	return nil
}

// AuthWhoami runs the startup session check against the stored credential
// and reports the resolved account.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	verifier := auth.NewVerifier(r.state, r.svc, r.logger)
	verifier.Run(ctx)

	snap := r.state.Snapshot()
	if snap.Session == nil {
		r.writePlain("✗ Not signed in\n")
		return nil
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Name: %s\n", snap.Session.FirstName)
	r.writePlain("User ID: %s\n", snap.Session.UserID)
	r.writePlain("Role: %s\n", snap.Session.Role)
	return nil
}

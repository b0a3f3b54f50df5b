package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in as a listener or contributor and saves the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	role, err := shared.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}

	creds := models.Credentials{Email: cmd.String("email"), Password: cmd.String("password")}

	r.logger.Info("logging in", "role", role, "email", creds.Email)
	session, err := r.authClient().Login(ctx, role, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return r.saveSession(role, session)
}

// AuthRegister creates an account and saves the session token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	role, err := shared.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}

	reg := models.Registration{
		Name:                 cmd.String("name"),
		Email:                cmd.String("email"),
		Password:             cmd.String("password"),
		PasswordConfirmation: cmd.String("confirm"),
	}

	r.logger.Info("registering", "role", role, "email", reg.Email)
	session, err := r.authClient().Register(ctx, role, reg)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	return r.saveSession(role, session)
}

func (r *Runner) saveSession(role string, session *models.Session) error {
	repo, err := r.tokens()
	if err != nil {
		return err
	}

	token, err := repo.Save(role, *session)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.logger.Info("session saved", "role", role, "id", token.ID())
	return r.writePlain("✓ Signed in as %s (%s)\n", session.Account.Name, role)
}

// AuthLogout revokes the saved token for a role and removes it locally.
//
// The local token is removed even when the server rejects the logout.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	role, err := shared.ParseRole(cmd.String("role"))
	if err != nil {
		return err
	}

	repo, err := r.tokens()
	if err != nil {
		return err
	}

	token, err := repo.GetByRole(role)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("Not signed in as %s\n", role)
	} else if err != nil {
		return err
	}

	if err := r.authClient().Logout(ctx, token.Value()); err != nil {
		r.logger.Warn("server logout failed, removing local token anyway", "role", role, "error", err)
	}

	if err := repo.DeleteByRole(role); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	return r.writePlain("✓ Signed out of %s\n", role)
}

type sessionStatus struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	UpdatedAt string `json:"updated_at"`
}

// AuthStatus lists the saved sessions.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.tokens()
	if err != nil {
		return err
	}

	tokens, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	statuses := make([]sessionStatus, 0, len(tokens))
	for _, t := range tokens {
		statuses = append(statuses, sessionStatus{
			Role:      t.Role(),
			Name:      t.AccountName(),
			Email:     t.AccountEmail(),
			Token:     t.Masked(),
			UpdatedAt: t.UpdatedAt().Format("2006-01-02 15:04"),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(statuses, cmd.Bool("pretty"))
	}

	if len(statuses) == 0 {
		return r.writePlain("Not signed in. Run 'sonata auth login' to start a session.\n")
	}

	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		rows[i] = []string{s.Role, s.Name, s.Email, s.Token, s.UpdatedAt}
	}
	return r.writePlain("%s\n", renderTable([]string{"Role", "Name", "Email", "Token", "Updated"}, rows))
}

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/desertthunder/sonata/internal/tasks"
	"github.com/desertthunder/sonata/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	lock, err := shared.AcquireLock(r.config.Player.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	// Redirect logs to file to avoid interfering with TUI rendering
	if err := r.useFileLogger(cmd.String("log")); err != nil {
		return err
	}

	var favorites ui.Favorites
	if repo, err := r.favorites(); err != nil {
		r.logger.Warn("favorites disabled", "error", err)
	} else {
		favorites = repo
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl := player.NewController(ctx, player.NewState(r.config.Player.Volume), r.newEngine(), r.logger)
	defer ctrl.Reset()

	catalog := r.catalogClient()
	model := ui.NewModel(ctx, ui.Options{
		Catalog:    catalog,
		Feed:       r.feedEngine(catalog),
		Load:       tasks.LoadOpts{RateLimit: r.config.API.RateLimit},
		Controller: ctrl,
		Favorites:  favorites,
		OpenURL:    shared.OpenURL,
		Logger:     r.logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

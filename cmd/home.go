package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sonata/internal/formatter"
	"github.com/desertthunder/sonata/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Home loads the home feed and prints it, or exports it with --export.
func (r *Runner) Home(ctx context.Context, cmd *cli.Command) error {
	exportDir := cmd.String("export")

	var format formatter.Format
	if exportDir != "" {
		f, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		format = f
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	engine := r.feedEngine(r.catalogClient())
	feed, err := engine.Load(ctx, progress, tasks.LoadOpts{
		Page:      cmd.Int("page"),
		RateLimit: r.config.API.RateLimit,
	})
	if err != nil {
		close(progress)
		<-done
		return fmt.Errorf("failed to load feed: %w", err)
	}

	for _, section := range []string{tasks.SectionRecommended, tasks.SectionPopular, tasks.SectionTop} {
		if err := r.markFavorites(feed.Section(section)); err != nil {
			r.logger.Debug("favorites unavailable", "error", err)
			break
		}
	}

	if exportDir == "" {
		close(progress)
		<-done
		return r.printFeed(cmd, feed)
	}

	result, err := engine.Export(ctx, progress, feed, tasks.ExportOpts{
		Format:    format,
		OutputDir: exportDir,
		Cover:     cmd.Bool("cover"),
	})
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("failed to export feed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Feed Export")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Format:    %s\n", result.Format)
	r.writePlain("Sections:  %d exported, %d failed\n", result.Successful, result.Failed)
	for _, s := range result.Results {
		if s.Success {
			r.writePlain("  ✓ %s (%d songs, %d files)\n", s.Section, s.Songs, len(s.Files))
		} else {
			r.writePlain("  ✗ %s: %s\n", s.Section, s.Message)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d sections failed to export", result.Failed, len(result.Results))
	}
	return nil
}

func (r *Runner) printFeed(cmd *cli.Command, feed *tasks.Feed) error {
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			tasks.SectionRecommended: feed.Recommended,
			tasks.SectionPopular:     feed.Popular,
			tasks.SectionTop:         feed.Top,
			"fetched_at":             feed.FetchedAt,
		}, cmd.Bool("pretty"))
	}

	sections := feed.Sections()
	if len(sections) == 0 {
		return r.writePlain("Nothing to show right now.\n")
	}
	for _, s := range sections {
		r.writePlainln("%s", s.Title)
		r.writePlain("%s\n", renderSongs(s.Songs))
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/desertthunder/sonata/internal/audio"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/desertthunder/sonata/internal/tasks"
	"github.com/urfave/cli/v3"
)

const playTick = 500 * time.Millisecond

// resolveSongs turns a play source and its argument into a song list.
func (r *Runner) resolveSongs(ctx context.Context, source, arg string) ([]models.Song, error) {
	catalog := r.catalogClient()
	switch strings.ToLower(source) {
	case tasks.SectionRecommended:
		return catalog.Recommended(ctx, 1), nil
	case tasks.SectionPopular:
		return catalog.Popular(ctx, 1), nil
	case tasks.SectionTop, "":
		return catalog.Top(ctx, 1), nil
	case "search", "songs":
		if arg == "" {
			return nil, fmt.Errorf("%w: search needs a query", shared.ErrMissingArgument)
		}
		return catalog.SearchSongs(ctx, arg, 1), nil
	case "album":
		if arg == "" {
			return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
		}
		return catalog.AlbumSongs(ctx, arg), nil
	case "artist":
		if arg == "" {
			return nil, fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
		}
		return catalog.ArtistSongs(ctx, arg), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", shared.ErrInvalidArgument, source)
	}
}

// newEngine returns the injected engine or the speaker-backed audio engine.
func (r *Runner) newEngine() player.Engine {
	if r.engine != nil {
		return r.engine
	}
	return audio.NewEngine(audio.Options{
		BufferSize: r.config.Player.BufferSize(),
		Logger:     r.logger,
	})
}

// Play streams a song list through the speaker until it ends or the user interrupts.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.resolveSongs(ctx, cmd.StringArg("source"), cmd.StringArg("query"))
	if err != nil {
		return err
	}
	if err := r.markFavorites(songs); err != nil {
		r.logger.Debug("favorites unavailable", "error", err)
	}

	start := max(cmd.Int("start"), 1) - 1
	tracks, index := player.TracksAt(songs, start)
	if len(tracks) == 0 {
		return fmt.Errorf("%w: nothing playable found", shared.ErrNoTrack)
	}
	if index < 0 {
		r.logger.Warn("selected song has no audio, starting from the first playable one", "position", start+1)
		index = 0
	}

	lock, err := shared.AcquireLock(r.config.Player.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	volume := cmd.Float("volume")
	if volume < 0 {
		volume = r.config.Player.Volume
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ctrl := player.NewController(ctx, player.NewState(volume), r.newEngine(), r.logger)
	defer ctrl.Reset()

	ctrl.Load(tracks, index)
	return r.follow(ctx, ctrl)
}

// follow prints a progress line until playback stops or ctx is done.
func (r *Runner) follow(ctx context.Context, ctrl *player.Controller) error {
	ticker := time.NewTicker(playTick)
	defer ticker.Stop()

	var last string
	for {
		snap := ctrl.Snapshot()
		if cur := snap.Current; cur != nil && cur.ID != last {
			last = cur.ID
			r.writePlain("\n♪ %s · %s  (%d/%d)\n", cur.Title, cur.Artist, snap.Index+1, snap.Total)
		}
		r.writePlain("\r%s", progressLine(snap))

		if !snap.Playing {
			r.writePlain("\n")
			return nil
		}

		select {
		case <-ctx.Done():
			r.writePlain("\n")
			r.logger.Info("playback interrupted")
			return nil
		case <-ticker.C:
		}
	}
}

func progressLine(snap player.Snapshot) string {
	const width = 24
	filled := int(snap.Progress() * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s / %s  vol %d%%",
		bar, shared.FormatClock(snap.Position), shared.FormatClock(snap.Duration), int(snap.Volume*100+0.5))
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/urfave/cli/v3"
)

// catalogKinds maps accepted search kinds, singular or plural, to their canonical name.
var catalogKinds = map[string]string{
	"artist": "artists", "artists": "artists",
	"album": "albums", "albums": "albums",
	"genre": "genres", "genres": "genres",
	"category": "categories", "categories": "categories",
	"period": "periods", "periods": "periods",
	"orchestra": "orchestras", "orchestras": "orchestras",
	"song": "songs", "songs": "songs",
}

func parseKind(s string) (string, error) {
	kind, ok := catalogKinds[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q (expected artists, albums, genres, categories, periods, orchestras or songs)", shared.ErrInvalidArgument, s)
	}
	return kind, nil
}

// CatalogSearch searches one kind of catalog entity.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd.StringArg("kind"))
	if err != nil {
		return err
	}
	query := cmd.StringArg("query")
	page := cmd.Int("page")
	catalog := r.catalogClient()

	r.logger.Debug("catalog search", "kind", kind, "query", query, "page", page)

	var (
		data    any
		headers []string
		rows    [][]string
		count   int
	)

	switch kind {
	case "artists":
		items := catalog.SearchArtists(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Name"}
		for _, a := range items {
			rows = append(rows, []string{a.ID, a.Name})
		}
	case "albums":
		items := catalog.SearchAlbums(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Title", "Artist", "Year"}
		for _, a := range items {
			rows = append(rows, []string{a.ID, a.Title, a.ArtistName, year(a.ReleaseYear)})
		}
	case "genres":
		items := catalog.SearchGenres(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Name", "Description"}
		for _, g := range items {
			rows = append(rows, []string{g.ID, g.Name, g.Description})
		}
	case "categories":
		items := catalog.SearchCategories(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Name", "Description"}
		for _, c := range items {
			rows = append(rows, []string{c.ID, c.Name, c.Description})
		}
	case "periods":
		items := catalog.SearchPeriods(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Name", "From", "To"}
		for _, p := range items {
			rows = append(rows, []string{p.ID, p.Name, year(p.StartYear), year(p.EndYear)})
		}
	case "orchestras":
		items := catalog.SearchOrchestras(ctx, query, page)
		data, count, headers = items, len(items), []string{"ID", "Name", "Country"}
		for _, o := range items {
			rows = append(rows, []string{o.ID, o.Name, o.Country})
		}
	default:
		songs := catalog.SearchSongs(ctx, query, page)
		return r.writeSongs(cmd, songs, fmt.Sprintf("Songs matching %q", query))
	}

	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}
	if count == 0 {
		return r.writePlain("No %s found.\n", kind)
	}
	return r.writePlain("%s\n", renderTable(headers, rows))
}

// CatalogSongs lists the songs of one album or artist.
func (r *Runner) CatalogSongs(ctx context.Context, cmd *cli.Command) error {
	kind := strings.ToLower(cmd.StringArg("kind"))
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id is required", shared.ErrMissingArgument)
	}

	catalog := r.catalogClient()
	var songs []models.Song
	switch kind {
	case "album", "albums":
		songs = catalog.AlbumSongs(ctx, id)
	case "artist", "artists":
		songs = catalog.ArtistSongs(ctx, id)
	default:
		return fmt.Errorf("%w: expected album or artist, got %q", shared.ErrInvalidArgument, kind)
	}

	return r.writeSongs(cmd, songs, fmt.Sprintf("Songs for %s %s", strings.TrimSuffix(kind, "s"), id))
}

func (r *Runner) writeSongs(cmd *cli.Command, songs []models.Song, title string) error {
	if err := r.markFavorites(songs); err != nil {
		r.logger.Debug("favorites unavailable", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}
	if len(songs) == 0 {
		return r.writePlain("No songs found.\n")
	}
	r.writePlain("%s\n", title)
	return r.writePlain("%s\n", renderSongs(songs))
}

// markFavorites flags songs the listener starred locally.
func (r *Runner) markFavorites(songs []models.Song) error {
	repo, err := r.favorites()
	if err != nil {
		return err
	}
	ids, err := repo.IDs()
	if err != nil {
		return err
	}
	for i := range songs {
		if ids[songs[i].ID] {
			songs[i].Favorite = true
		}
	}
	return nil
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

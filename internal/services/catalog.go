package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

var _ Catalog = (*CatalogService)(nil)

// CatalogService is the read-only client for catalog and feed endpoints.
//
// Every method returns an empty, non-nil slice when the request or decoding
// fails, after logging a warning.
type CatalogService struct {
	api     *APIService
	perPage int
	logger  *log.Logger
}

// NewCatalogService creates a catalog client. perPage <= 0 lets the server pick the page size.
func NewCatalogService(api *APIService, perPage int, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogService{api: api, perPage: perPage, logger: logger}
}

func (c *CatalogService) SearchArtists(ctx context.Context, query string, page int) []models.Artist {
	return fetchList[models.Artist](ctx, c, "/artists", c.params(query, page))
}

func (c *CatalogService) SearchAlbums(ctx context.Context, query string, page int) []models.Album {
	return fetchList[models.Album](ctx, c, "/albums", c.params(query, page))
}

func (c *CatalogService) SearchGenres(ctx context.Context, query string, page int) []models.Genre {
	return fetchList[models.Genre](ctx, c, "/genres", c.params(query, page))
}

func (c *CatalogService) SearchCategories(ctx context.Context, query string, page int) []models.Category {
	return fetchList[models.Category](ctx, c, "/categories", c.params(query, page))
}

func (c *CatalogService) SearchPeriods(ctx context.Context, query string, page int) []models.Period {
	return fetchList[models.Period](ctx, c, "/periods", c.params(query, page))
}

func (c *CatalogService) SearchOrchestras(ctx context.Context, query string, page int) []models.Orchestra {
	return fetchList[models.Orchestra](ctx, c, "/orchestras", c.params(query, page))
}

func (c *CatalogService) SearchSongs(ctx context.Context, query string, page int) []models.Song {
	return fetchList[models.Song](ctx, c, "/songs", c.params(query, page))
}

// Recommended returns the recommended feed.
func (c *CatalogService) Recommended(ctx context.Context, page int) []models.Song {
	return fetchList[models.Song](ctx, c, "/songs/recommended", c.params("", page))
}

// Popular returns the most played songs.
func (c *CatalogService) Popular(ctx context.Context, page int) []models.Song {
	return fetchList[models.Song](ctx, c, "/songs/popular", c.params("", page))
}

// Top returns the top charted songs.
func (c *CatalogService) Top(ctx context.Context, page int) []models.Song {
	return fetchList[models.Song](ctx, c, "/songs/top", c.params("", page))
}

// AlbumSongs returns the track list of an album.
func (c *CatalogService) AlbumSongs(ctx context.Context, albumID string) []models.Song {
	return fetchList[models.Song](ctx, c, "/albums/"+url.PathEscape(albumID)+"/songs", nil)
}

// ArtistSongs returns every song by an artist.
func (c *CatalogService) ArtistSongs(ctx context.Context, artistID string) []models.Song {
	return fetchList[models.Song](ctx, c, "/artists/"+url.PathEscape(artistID)+"/songs", nil)
}

func (c *CatalogService) params(query string, page int) url.Values {
	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if c.perPage > 0 {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	return q
}

func fetchList[T any](ctx context.Context, c *CatalogService, path string, q url.Values) []T {
	items, err := getList[T](ctx, c.api, path, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("catalog request canceled", "path", path)
		} else {
			c.logger.Warn("catalog request failed", "path", path, "error", err)
		}
		return []T{}
	}
	return items
}

func getList[T any](ctx context.Context, api *APIService, path string, q url.Values) ([]T, error) {
	resp, err := api.Get(ctx, path, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", sentinelFor(resp.StatusCode), path, resp.StatusCode)
	}
	return decodeList[T](resp)
}

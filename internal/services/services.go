package services

import (
	"context"

	"github.com/desertthunder/sonata/internal/models"
)

// Catalog defines the read side of the API used by the TUI, the CLI and the feed engine.
//
// Implementations never return nil slices and never fail; a failed request yields an empty list.
type Catalog interface {
	SearchArtists(ctx context.Context, query string, page int) []models.Artist
	SearchAlbums(ctx context.Context, query string, page int) []models.Album
	SearchGenres(ctx context.Context, query string, page int) []models.Genre
	SearchCategories(ctx context.Context, query string, page int) []models.Category
	SearchPeriods(ctx context.Context, query string, page int) []models.Period
	SearchOrchestras(ctx context.Context, query string, page int) []models.Orchestra
	SearchSongs(ctx context.Context, query string, page int) []models.Song

	// Feed lists shown on the home screen.
	Recommended(ctx context.Context, page int) []models.Song
	Popular(ctx context.Context, page int) []models.Song
	Top(ctx context.Context, page int) []models.Song

	AlbumSongs(ctx context.Context, albumID string) []models.Song
	ArtistSongs(ctx context.Context, artistID string) []models.Song
}

// Authenticator issues and revokes session tokens.
type Authenticator interface {
	Login(ctx context.Context, role string, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, role string, reg models.Registration) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// CategoryAdmin is the admin CRUD surface for categories.
type CategoryAdmin interface {
	List(ctx context.Context, page int) ([]models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ Authenticator = (*AuthService)(nil)
	_ CategoryAdmin = (*CategoryService)(nil)
)

package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

// FavoriteRepository persists the songs starred from the player.
type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a song as favorite. Re-adding refreshes its title and artist but keeps the original timestamp.
func (r *FavoriteRepository) Add(fav models.Favorite) error {
	if strings.TrimSpace(fav.SongID) == "" {
		return fmt.Errorf("%w: song id is required", shared.ErrInvalidInput)
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO favorites (song_id, title, artist, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET title = excluded.title, artist = excluded.artist
	`
	if _, err := r.db.Exec(query, fav.SongID, fav.Title, fav.Artist, fav.CreatedAt); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// Remove unmarks a song. Removing a song that is not a favorite is a no-op.
func (r *FavoriteRepository) Remove(songID string) error {
	if _, err := r.db.Exec(`DELETE FROM favorites WHERE song_id = ?`, songID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Set adds or removes fav depending on on.
func (r *FavoriteRepository) Set(fav models.Favorite, on bool) error {
	if on {
		return r.Add(fav)
	}
	return r.Remove(fav.SongID)
}

// IsFavorite reports whether songID is starred.
func (r *FavoriteRepository) IsFavorite(songID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM favorites WHERE song_id = ?)`, songID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query favorite: %w", err)
	}
	return exists, nil
}

// List returns every favorite, newest first.
func (r *FavoriteRepository) List() ([]models.Favorite, error) {
	rows, err := r.db.Query(`SELECT song_id, title, artist, created_at FROM favorites ORDER BY created_at DESC, song_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.SongID, &f.Title, &f.Artist, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return favorites, nil
}

// IDs returns the set of starred song IDs.
func (r *FavoriteRepository) IDs() (map[string]bool, error) {
	favorites, err := r.List()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		ids[f.SongID] = true
	}
	return ids, nil
}

package models

import "time"

// Favorite is a song the listener starred from the player.
type Favorite struct {
	SongID    string    `json:"song_id" yaml:"song_id"`
	Title     string    `json:"title" yaml:"title"`
	Artist    string    `json:"artist" yaml:"artist"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

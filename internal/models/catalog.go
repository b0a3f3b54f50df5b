package models

// Song is a playable catalog entry as returned by the API.
type Song struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	ArtistName string `json:"artist_name" yaml:"artist"`
	AlbumTitle string `json:"album_title,omitempty" yaml:"album,omitempty"`
	CoverURL   string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	AudioURL   string `json:"audio_url" yaml:"audio_url"`
	Duration   int    `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	Favorite   bool   `json:"is_favorite,omitempty" yaml:"favorite,omitempty"`
	PlayCount  int    `json:"play_count,omitempty" yaml:"play_count,omitempty"`
}

// Artist is a performer or composer.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Album groups songs by a single artist.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ArtistName  string `json:"artist_name"`
	CoverURL    string `json:"cover_url,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
}

// Genre is a musical genre.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Category is an admin-managed grouping shown on the home page.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Period is a historical era such as Baroque or Romantic.
type Period struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartYear int    `json:"start_year,omitempty"`
	EndYear   int    `json:"end_year,omitempty"`
}

// Orchestra is a performing ensemble.
type Orchestra struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// Account is the profile returned alongside an auth token.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the payload of a successful login or registration.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"user"`
}

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is submitted by the register form.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// CategoryInput is the create/update body for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

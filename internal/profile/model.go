package profile

import "time"

type ClientProfile struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	State    string    `json:"state,omitempty"`
	Country  string    `json:"country,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Created  time.Time `json:"created_at"`
}

type ArtistProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	State           string    `json:"state,omitempty"`
	Country         string    `json:"country,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	Specialties     []string  `json:"specialties"`
	CustomSpecialty string    `json:"custom_specialty,omitempty"`
	Languages       string    `json:"languages,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Availability    string    `json:"availability"`
	Created         time.Time `json:"created_at"`
}

type Rate struct {
	Specialty string  `json:"specialty"`
	RateType  string  `json:"rate_type"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}

type PortfolioItem struct {
	ID          string    `json:"id"`
	ArtistID    string    `json:"artist_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Year        int       `json:"year,omitempty"`
	Created     time.Time `json:"created_at"`
}

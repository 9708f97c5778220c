package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

// GET /profile - returns the caller's role profile
func GetMyProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	ctx := context.Background()
	switch role {
	case "client":
		var p ClientProfile
		err := db.Conn.QueryRow(ctx, `
			SELECT id, user_id, full_name, email, COALESCE(state,''), COALESCE(country,''), COALESCE(phone,''), created_at
			FROM client_profiles WHERE user_id = $1`, userID).
			Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.State, &p.Country, &p.Phone, &p.Created)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusOK, p)
	case "artist":
		var p ArtistProfile
		err := db.Conn.QueryRow(ctx, `
			SELECT id, user_id, full_name, email, COALESCE(state,''), COALESCE(country,''),
			       COALESCE(experience,''), specialties, COALESCE(custom_specialty,''),
			       COALESCE(languages,''), COALESCE(phone,''), COALESCE(availability,'available'), created_at
			FROM artist_profiles WHERE user_id = $1`, userID).
			Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.State, &p.Country,
				&p.Experience, &p.Specialties, &p.CustomSpecialty,
				&p.Languages, &p.Phone, &p.Availability, &p.Created)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusOK, p)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "no profile for role"})
}

type UpdateProfileRequest struct {
	FullName     string   `json:"full_name"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	Phone        string   `json:"phone"`
	Experience   string   `json:"experience"`
	Specialties  []string `json:"specialties"`
	Languages    string   `json:"languages"`
	Availability string   `json:"availability"`
}

// PATCH /profile
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}
	role, _ := c.Get("role").(string)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	var err error
	switch role {
	case "client":
		_, err = db.Conn.Exec(ctx, `
			UPDATE client_profiles
			SET full_name = COALESCE(NULLIF($1, ''), full_name),
			    state = COALESCE(NULLIF($2, ''), state),
			    country = COALESCE(NULLIF($3, ''), country),
			    phone = COALESCE(NULLIF($4, ''), phone)
			WHERE user_id = $5`,
			req.FullName, req.State, req.Country, req.Phone, userID)
	case "artist":
		if req.Availability != "" && req.Availability != "available" && req.Availability != "busy" && req.Availability != "unavailable" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability"})
		}
		_, err = db.Conn.Exec(ctx, `
			UPDATE artist_profiles
			SET full_name = COALESCE(NULLIF($1, ''), full_name),
			    state = COALESCE(NULLIF($2, ''), state),
			    country = COALESCE(NULLIF($3, ''), country),
			    phone = COALESCE(NULLIF($4, ''), phone),
			    experience = COALESCE(NULLIF($5, ''), experience),
			    specialties = CASE WHEN $6::text[] IS NULL OR cardinality($6::text[]) = 0 THEN specialties ELSE $6::text[] END,
			    languages = COALESCE(NULLIF($7, ''), languages),
			    availability = COALESCE(NULLIF($8, ''), availability)
			WHERE user_id = $9`,
			req.FullName, req.State, req.Country, req.Phone, req.Experience, req.Specialties, req.Languages, req.Availability, userID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no profile for role"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully"})
}

// ClientIDForUser resolves the client_profiles row for a user account.
func ClientIDForUser(ctx context.Context, userID string) (string, error) {
	var id string
	err := db.Conn.QueryRow(ctx, `SELECT id FROM client_profiles WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errors.New("client profile not found")
	}
	return id, err
}

// ArtistIDForUser resolves the artist_profiles row for a user account.
func ArtistIDForUser(ctx context.Context, userID string) (string, error) {
	var id string
	err := db.Conn.QueryRow(ctx, `SELECT id FROM artist_profiles WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errors.New("artist profile not found")
	}
	return id, err
}

// Contact identifies where a notification for a profile should go.
type Contact struct {
	UserID string
	Email  string
	Phone  string
}

// ArtistContact resolves the notify identity for an artist profile id.
// Returns pgx.ErrNoRows when the profile does not exist.
func ArtistContact(ctx context.Context, artistProfileID string) (Contact, error) {
	var ct Contact
	err := db.Conn.QueryRow(ctx, `
		SELECT user_id, email, COALESCE(phone,'') FROM artist_profiles WHERE id = $1`, artistProfileID).
		Scan(&ct.UserID, &ct.Email, &ct.Phone)
	return ct, err
}

// ClientContact resolves the notify identity for a client profile id.
func ClientContact(ctx context.Context, clientProfileID string) (Contact, error) {
	var ct Contact
	err := db.Conn.QueryRow(ctx, `
		SELECT user_id, email, COALESCE(phone,'') FROM client_profiles WHERE id = $1`, clientProfileID).
		Scan(&ct.UserID, &ct.Email, &ct.Phone)
	return ct, err
}

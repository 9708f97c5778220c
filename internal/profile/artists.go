package profile

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

// GET /artists - public artist directory
func ListArtists(c echo.Context) error {
	ctx := context.Background()

	q := `
		SELECT id, user_id, full_name, email, COALESCE(state,''), COALESCE(country,''),
		       COALESCE(experience,''), specialties, COALESCE(custom_specialty,''),
		       COALESCE(languages,''), COALESCE(phone,''), COALESCE(availability,'available'), created_at
		FROM artist_profiles
		ORDER BY created_at DESC`

	args := []interface{}{}
	if specialty := c.QueryParam("specialty"); specialty != "" {
		q = `
		SELECT id, user_id, full_name, email, COALESCE(state,''), COALESCE(country,''),
		       COALESCE(experience,''), specialties, COALESCE(custom_specialty,''),
		       COALESCE(languages,''), COALESCE(phone,''), COALESCE(availability,'available'), created_at
		FROM artist_profiles
		WHERE $1 = ANY(specialties)
		ORDER BY created_at DESC`
		args = append(args, specialty)
	}

	rows, err := db.Conn.Query(ctx, q, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artists"})
	}
	defer rows.Close()

	var artists []ArtistProfile
	for rows.Next() {
		var p ArtistProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.State, &p.Country,
			&p.Experience, &p.Specialties, &p.CustomSpecialty,
			&p.Languages, &p.Phone, &p.Availability, &p.Created); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		artists = append(artists, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"artists": artists})
}

// GET /artists/:id - public artist detail with portfolio and rates
func GetArtist(c echo.Context) error {
	artistID := c.Param("id")
	if artistID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing artist id"})
	}

	ctx := context.Background()

	var p ArtistProfile
	err := db.Conn.QueryRow(ctx, `
		SELECT id, user_id, full_name, email, COALESCE(state,''), COALESCE(country,''),
		       COALESCE(experience,''), specialties, COALESCE(custom_specialty,''),
		       COALESCE(languages,''), COALESCE(phone,''), COALESCE(availability,'available'), created_at
		FROM artist_profiles WHERE id = $1`, artistID).
		Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.State, &p.Country,
			&p.Experience, &p.Specialties, &p.CustomSpecialty,
			&p.Languages, &p.Phone, &p.Availability, &p.Created)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artist"})
	}

	portfolio := []PortfolioItem{}
	rows, err := db.Conn.Query(ctx, `
		SELECT id, artist_id, title, COALESCE(description,''), COALESCE(image_url,''), COALESCE(category,''), COALESCE(year,0), created_at
		FROM artist_portfolio WHERE artist_id = $1 ORDER BY created_at DESC`, artistID)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var item PortfolioItem
			if err := rows.Scan(&item.ID, &item.ArtistID, &item.Title, &item.Description, &item.ImageURL, &item.Category, &item.Year, &item.Created); err == nil {
				portfolio = append(portfolio, item)
			}
		}
	}

	rates := []Rate{}
	rateRows, err := db.Conn.Query(ctx, `
		SELECT specialty, rate_type, min_price, max_price
		FROM artist_rates WHERE artist_id = $1 ORDER BY specialty`, artistID)
	if err == nil {
		defer rateRows.Close()
		for rateRows.Next() {
			var r Rate
			if err := rateRows.Scan(&r.Specialty, &r.RateType, &r.MinPrice, &r.MaxPrice); err == nil {
				rates = append(rates, r)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"artist":    p,
		"portfolio": portfolio,
		"rates":     rates,
	})
}

package profile

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

type RateUpsert struct {
	Specialty string  `json:"specialty"`
	RateType  string  `json:"rate_type"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}

// PUT /artist/rates - artist replaces per-specialty pricing
func UpsertRates(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Rates []RateUpsert `json:"rates"`
	}
	if err := c.Bind(&req); err != nil || len(req.Rates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rates payload"})
	}
	for _, r := range req.Rates {
		if r.Specialty == "" || r.RateType == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "specialty and rate_type are required"})
		}
		if r.MinPrice < 0 || r.MaxPrice < 0 || (r.MaxPrice > 0 && r.MaxPrice < r.MinPrice) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price range"})
		}
	}

	ctx := context.Background()
	artistID, err := ArtistIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your artist profile first"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	for _, r := range req.Rates {
		_, err = tx.Exec(ctx, `
			INSERT INTO artist_rates (artist_id, specialty, rate_type, min_price, max_price)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (artist_id, specialty, rate_type)
			DO UPDATE SET min_price = EXCLUDED.min_price, max_price = EXCLUDED.max_price`,
			artistID, r.Specialty, r.RateType, r.MinPrice, r.MaxPrice)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save rates"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "rates updated successfully"})
}

// GET /artist/rates - artist's own rates
func GetMyRates(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	artistID, err := ArtistIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your artist profile first"})
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT specialty, rate_type, min_price, max_price
		FROM artist_rates WHERE artist_id = $1 ORDER BY specialty`, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rates"})
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		var r Rate
		if err := rows.Scan(&r.Specialty, &r.RateType, &r.MinPrice, &r.MaxPrice); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		rates = append(rates, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"rates": rates})
}

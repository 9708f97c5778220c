package profile

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

type PortfolioRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
}

// POST /artist/portfolio
func AddPortfolioItem(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req PortfolioRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx := context.Background()
	artistID, err := ArtistIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your artist profile first"})
	}

	itemID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO artist_portfolio (id, artist_id, title, description, image_url, category, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		itemID, artistID, req.Title, req.Description, req.ImageURL, req.Category, req.Year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save portfolio item"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": itemID})
}

// GET /artist/portfolio - artist's own portfolio
func GetMyPortfolio(c echo.Context) error {
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
		SELECT id, artist_id, title, COALESCE(description,''), COALESCE(image_url,''), COALESCE(category,''), COALESCE(year,0), created_at
		FROM artist_portfolio WHERE artist_id = $1 ORDER BY created_at DESC`, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch portfolio"})
	}
	defer rows.Close()

	var items []PortfolioItem
	for rows.Next() {
		var item PortfolioItem
		if err := rows.Scan(&item.ID, &item.ArtistID, &item.Title, &item.Description, &item.ImageURL, &item.Category, &item.Year, &item.Created); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, echo.Map{"portfolio": items})
}

// DELETE /artist/portfolio/:id
func DeletePortfolioItem(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	itemID := c.Param("id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing item id"})
	}

	ctx := context.Background()
	artistID, err := ArtistIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your artist profile first"})
	}

	res, err := db.Conn.Exec(ctx, `
		DELETE FROM artist_portfolio WHERE id = $1 AND artist_id = $2`, itemID, artistID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete portfolio item"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

package project

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

// =========================
// SelectQuote - Client assigns the project to a quoting artist
// =========================
// The project row flips open -> assigned in a single conditional UPDATE,
// so a second selection (or a stale retry) finds zero rows and is rejected.
func SelectQuote(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	quoteID := c.Param("quoteId")
	if projectID == "" || quoteID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project or quote id in URL"})
	}

	ctx := context.Background()
	clientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your client profile first"})
	}

	// The quote must belong to this project
	var artistID string
	err = db.Conn.QueryRow(ctx, `
		SELECT artist_id FROM project_quotes WHERE id = $1 AND project_id = $2`,
		quoteID, projectID).Scan(&artistID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "quote not found for this project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch quote"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		UPDATE projects
		SET selected_artist_id = $1, selected_quote_id = $2, status = 'assigned', updated_at = NOW()
		WHERE id = $3 AND client_id = $4 AND status = 'open'`,
		artistID, quoteID, projectID, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update project"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "project not open or not yours"})
	}

	_, err = tx.Exec(ctx, `
		UPDATE project_quotes SET status = 'selected' WHERE id = $1`, quoteID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark quote selected"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Notify the selected artist (best-effort). Selection stands even when
	// the contact identity cannot be resolved.
	if ct, err := profile.ArtistContact(ctx, artistID); err == nil && ct.UserID != "" {
		_ = alerts.EnqueueArtistSelected(projectID, ct.UserID, ct.Email, ct.Phone)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Artist selected. Please review the agreement next.",
	})
}

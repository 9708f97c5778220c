package project

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

// =========================
// GetAgreement - Lazily materialize the agreement for an assigned project
// =========================
// Either party viewing the agreement screen creates the record the first
// time, once a quote has been selected. Creation is idempotent: the
// project_id unique constraint absorbs a concurrent first view.
func GetAgreement(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id in URL"})
	}

	ctx := context.Background()
	p, err := fetchProject(ctx, projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	if !isParticipant(ctx, p, userID, role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this project"})
	}
	if p.SelectedArtistID == nil || p.SelectedQuoteID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "select an artist quote first"})
	}

	a, err := loadAgreement(ctx, projectID)
	if err == nil {
		return c.JSON(http.StatusOK, a)
	}
	if err != pgx.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch agreement"})
	}

	// First view: build terms from the selected quote and insert
	var amount float64
	var timelineDays int
	err = db.Conn.QueryRow(ctx, `
		SELECT amount, timeline_days FROM project_quotes WHERE id = $1`, *p.SelectedQuoteID).
		Scan(&amount, &timelineDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch selected quote"})
	}

	terms := BuildAgreementTerms(p.Title, amount, timelineDays)
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO project_agreements (project_id, client_id, artist_id, terms_text, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (project_id) DO NOTHING`,
		projectID, p.ClientID, *p.SelectedArtistID, terms)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create agreement"})
	}

	a, err = loadAgreement(ctx, projectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch agreement"})
	}
	return c.JSON(http.StatusOK, a)
}

// =========================
// AcceptAgreement - One party signs; both signatures make it signed
// =========================
// The counterparty's timestamp is read under FOR UPDATE in the same
// transaction as the write, so two near-simultaneous accepts serialize and
// the second one always observes the first. Re-accepting is a no-op that
// keeps the original timestamp.
func AcceptAgreement(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	if role != "client" && role != "artist" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the client or artist can accept"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id in URL"})
	}

	ctx := context.Background()

	var callerProfileID string
	var err error
	if role == "client" {
		callerProfileID, err = profile.ClientIDForUser(ctx, userID)
	} else {
		callerProfileID, err = profile.ArtistIDForUser(ctx, userID)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "profile not found"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	var (
		agreementID, clientID, artistID, status string
		clientAt, artistAt                      *time.Time
	)
	err = tx.QueryRow(ctx, `
		SELECT id, client_id, artist_id, status, client_accepted_at, artist_accepted_at
		FROM project_agreements WHERE project_id = $1 FOR UPDATE`, projectID).
		Scan(&agreementID, &clientID, &artistID, &status, &clientAt, &artistAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "agreement not found; view it first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch agreement"})
	}

	if role == "client" && callerProfileID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this agreement"})
	}
	if role == "artist" && callerProfileID != artistID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this agreement"})
	}

	nextStatus, err := NextAgreementStatus(role, clientAt != nil, artistAt != nil)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Re-accepting keeps the original timestamp
	if role == "client" {
		_, err = tx.Exec(ctx, `
			UPDATE project_agreements
			SET status = $1, client_accepted_at = COALESCE(client_accepted_at, NOW()), updated_at = NOW()
			WHERE id = $2`, nextStatus, agreementID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE project_agreements
			SET status = $1, artist_accepted_at = COALESCE(artist_accepted_at, NOW()), updated_at = NOW()
			WHERE id = $2`, nextStatus, agreementID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update agreement"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Notify the counterparty (best-effort)
	if role == "client" {
		if ct, err := profile.ArtistContact(ctx, artistID); err == nil && ct.UserID != "" {
			_ = alerts.EnqueueAgreementAccepted(projectID, ct.UserID, ct.Email, ct.Phone, "client", nextStatus)
		}
	} else {
		if ct, err := profile.ClientContact(ctx, clientID); err == nil && ct.UserID != "" {
			_ = alerts.EnqueueAgreementAccepted(projectID, ct.UserID, ct.Email, ct.Phone, "artist", nextStatus)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"status": nextStatus})
}

func loadAgreement(ctx context.Context, projectID string) (Agreement, error) {
	var a Agreement
	err := db.Conn.QueryRow(ctx, `
		SELECT id, project_id, client_id, artist_id, terms_text, status, client_accepted_at, artist_accepted_at
		FROM project_agreements WHERE project_id = $1`, projectID).
		Scan(&a.ID, &a.ProjectID, &a.ClientID, &a.ArtistID, &a.TermsText, &a.Status, &a.ClientAcceptedAt, &a.ArtistAcceptedAt)
	return a, err
}

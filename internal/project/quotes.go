package project

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

type SubmitQuoteRequest struct {
	Amount       float64        `json:"amount"`
	TimelineDays int            `json:"timeline_days"`
	Notes        string         `json:"notes"`
	Services     []QuoteService `json:"services"`
	PDFURL       string         `json:"pdf_url"`
}

// =========================
// SubmitQuote - Artist quotes against an open brief
// =========================
func SubmitQuote(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id in URL"})
	}

	var req SubmitQuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := ValidateServices(req.Services); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.Amount == 0 {
		req.Amount = ServicesTotal(req.Services)
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quote amount must be positive"})
	}
	if req.TimelineDays <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timeline_days must be positive"})
	}

	ctx := context.Background()
	artistID, err := profile.ArtistIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your artist profile before quoting"})
	}

	// Quotes are only accepted while the brief is open
	var status string
	err = db.Conn.QueryRow(ctx, `SELECT status FROM projects WHERE id = $1`, projectID).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	if status != StatusOpen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "project is no longer accepting quotes"})
	}

	services := req.Services
	if services == nil {
		services = []QuoteService{}
	}
	servicesJSON, _ := json.Marshal(services)

	quoteID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO project_quotes (id, project_id, artist_id, amount, timeline_days, notes, services, pdf_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'submitted')`,
		quoteID, projectID, artistID, req.Amount, req.TimelineDays, req.Notes, servicesJSON, req.PDFURL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quote already submitted for this project"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"quote_id": quoteID,
		"message":  "Quote submitted. The client will be able to review it.",
	})
}

// =========================
// ListProjectQuotes - Client reviews quotes with artist identity
// =========================
func ListProjectQuotes(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id in URL"})
	}

	ctx := context.Background()
	clientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your client profile first"})
	}

	var ownerID string
	err = db.Conn.QueryRow(ctx, `SELECT client_id FROM projects WHERE id = $1`, projectID).Scan(&ownerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
	}
	if ownerID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT q.id, q.project_id, q.artist_id, q.amount, q.timeline_days, COALESCE(q.notes,''),
		       q.services, COALESCE(q.pdf_url,''), q.status, q.created_at,
		       a.full_name, COALESCE(a.country,'')
		FROM project_quotes q
		JOIN artist_profiles a ON a.id = q.artist_id
		WHERE q.project_id = $1 ORDER BY q.created_at DESC`, projectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch quotes"})
	}
	defer rows.Close()

	var quotes []echo.Map
	for rows.Next() {
		var q Quote
		var servicesJSON []byte
		var artistName, artistCountry string
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.ArtistID, &q.Amount, &q.TimelineDays, &q.Notes,
			&servicesJSON, &q.PDFURL, &q.Status, &q.CreatedAt, &artistName, &artistCountry); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		if err := json.Unmarshal(servicesJSON, &q.Services); err != nil {
			q.Services = []QuoteService{}
		}
		quotes = append(quotes, echo.Map{
			"quote":          q,
			"artist_name":    artistName,
			"artist_country": artistCountry,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"quotes": quotes})
}

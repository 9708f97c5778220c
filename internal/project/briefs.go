package project

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

type CreateProjectRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	BudgetMin      float64  `json:"budget_min"`
	BudgetMax      float64  `json:"budget_max"`
	Deadline       string   `json:"deadline"`
	ReferenceLinks []string `json:"reference_links"`
}

// =========================
// CreateProject - Client posts a brief
// =========================
func CreateProject(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.BudgetMax < 0 || req.BudgetMin < 0 || (req.BudgetMax > 0 && req.BudgetMax < req.BudgetMin) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid budget range"})
	}

	ctx := context.Background()
	clientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your client profile before posting a project"})
	}

	var deadline *string
	if req.Deadline != "" {
		if _, err := time.Parse("2006-01-02", req.Deadline); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "deadline must be YYYY-MM-DD"})
		}
		deadline = &req.Deadline
	}

	links := req.ReferenceLinks
	if links == nil {
		links = []string{}
	}

	projectID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO projects (id, client_id, title, description, category, budget_min, budget_max, deadline, status, reference_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'open', $9)`,
		projectID, clientID, req.Title, req.Description, req.Category, req.BudgetMin, req.BudgetMax, deadline, links)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create project"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"project_id": projectID,
		"message":    "Project posted. Artists can now submit quotes.",
	})
}

// =========================
// GetMyProjects - Client lists own briefs
// =========================
func GetMyProjects(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := context.Background()
	clientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your client profile first"})
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''),
		       COALESCE(budget_min,0), COALESCE(budget_max,0),
		       to_char(deadline, 'YYYY-MM-DD'), status,
		       selected_artist_id::text, selected_quote_id::text, reference_links, created_at
		FROM projects WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch projects"})
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
	}

	return c.JSON(http.StatusOK, echo.Map{"projects": projects})
}

// =========================
// GetProject - Detail view for a participant
// =========================
func GetProject(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id"})
	}

	ctx := context.Background()
	p, err := fetchProject(ctx, projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}

	role, _ := c.Get("role").(string)
	if !isParticipant(ctx, p, userID, role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this project"})
	}

	return c.JSON(http.StatusOK, p)
}

// =========================
// ListOpenJobs - Artists browse open briefs
// =========================
func ListOpenJobs(c echo.Context) error {
	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
		SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''),
		       COALESCE(budget_min,0), COALESCE(budget_max,0),
		       to_char(deadline, 'YYYY-MM-DD'), status,
		       selected_artist_id::text, selected_quote_id::text, reference_links, created_at
		FROM projects WHERE status = 'open' ORDER BY created_at DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch jobs"})
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
	}

	return c.JSON(http.StatusOK, echo.Map{"jobs": projects})
}

// =========================
// GetJob - Brief detail for artists
// =========================
func GetJob(c echo.Context) error {
	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id"})
	}

	ctx := context.Background()
	p, err := fetchProject(ctx, projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch job"})
	}

	return c.JSON(http.StatusOK, p)
}

func fetchProject(ctx context.Context, projectID string) (Project, error) {
	var p Project
	err := db.Conn.QueryRow(ctx, `
		SELECT id, client_id, title, COALESCE(description,''), COALESCE(category,''),
		       COALESCE(budget_min,0), COALESCE(budget_max,0),
		       to_char(deadline, 'YYYY-MM-DD'), status,
		       selected_artist_id::text, selected_quote_id::text, reference_links, created_at
		FROM projects WHERE id = $1`, projectID).
		Scan(&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category,
			&p.BudgetMin, &p.BudgetMax, &p.Deadline, &p.Status,
			&p.SelectedArtistID, &p.SelectedQuoteID, &p.ReferenceLinks, &p.CreatedAt)
	return p, err
}

func scanProjects(rows pgx.Rows) ([]Project, error) {
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Category,
			&p.BudgetMin, &p.BudgetMax, &p.Deadline, &p.Status,
			&p.SelectedArtistID, &p.SelectedQuoteID, &p.ReferenceLinks, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// isParticipant reports whether the user owns the project as client or is
// the selected artist. Admins can always view.
func isParticipant(ctx context.Context, p Project, userID, role string) bool {
	switch role {
	case "admin":
		return true
	case "client":
		clientID, err := profile.ClientIDForUser(ctx, userID)
		return err == nil && clientID == p.ClientID
	case "artist":
		artistID, err := profile.ArtistIDForUser(ctx, userID)
		if err != nil {
			return false
		}
		return p.SelectedArtistID != nil && *p.SelectedArtistID == artistID
	}
	return false
}

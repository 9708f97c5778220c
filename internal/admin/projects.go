package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

type AdminProject struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Status    string    `json:"status"`
	ArtistID  string    `json:"artist_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/projects
func ListProjects(c echo.Context) error {
	status := c.QueryParam("status")
	query := `SELECT id::text, client_id::text, title, COALESCE(category, ''), status,
                     COALESCE(selected_artist_id::text, ''), created_at
              FROM projects ORDER BY created_at DESC`
	args := []interface{}{}
	if status != "" {
		query = `SELECT id::text, client_id::text, title, COALESCE(category, ''), status,
                        COALESCE(selected_artist_id::text, ''), created_at
                 FROM projects WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch projects"})
	}
	defer rows.Close()

	var projects []AdminProject
	for rows.Next() {
		var p AdminProject
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Title, &p.Category, &p.Status, &p.ArtistID, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read project record"})
		}
		projects = append(projects, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"projects": projects})
}

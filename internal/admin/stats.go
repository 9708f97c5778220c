package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, clients, artists, projects, quotes, agreements, payments int

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM client_profiles`).Scan(&clients)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM artist_profiles`).Scan(&artists)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&projects)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM project_quotes`).Scan(&quotes)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM project_agreements`).Scan(&agreements)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM project_payments WHERE status = 'paid'`).Scan(&payments)

	return c.JSON(http.StatusOK, echo.Map{
		"users":      users,
		"clients":    clients,
		"artists":    artists,
		"projects":   projects,
		"quotes":     quotes,
		"agreements": agreements,
		"payments":   payments,
	})
}

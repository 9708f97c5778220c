package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

type BootstrapAdminRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// BootstrapAdmin grants admin rights to an existing DeArtisa account.
// Guarded by a shared secret so it can be left routable in fresh
// deployments and disabled everywhere else by unsetting the env var.
// Deactivated accounts stay out: suspend first, promote never.
func BootstrapAdmin(c echo.Context) error {
	var req BootstrapAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.Email = strings.TrimSpace(req.Email)

	cfgSecret := os.Getenv("ADMIN_BOOTSTRAP_SECRET")
	if cfgSecret == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin bootstrap is disabled on this instance"})
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(cfgSecret)) != 1 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid bootstrap secret"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ct, err := db.Conn.Exec(context.Background(), `
		UPDATE users SET role = 'admin' WHERE email = $1 AND is_active`, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to grant admin role"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active account with that email"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "admin access granted",
		"email":   req.Email,
	})
}

package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/db"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`

	// Profile fields captured at registration
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Phone       string   `json:"phone"`
	Experience  string   `json:"experience"`
	Specialties []string `json:"specialties"`
	Languages   string   `json:"languages"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
// Creates the user plus the role profile row in one transaction, so a
// client always has a client_profiles row and an artist an
// artist_profiles row before they hit any project route.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Role != "client" && req.Role != "artist" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be client or artist"})
	}
	if req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	conn := db.Conn
	ctx := context.Background()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, uuid.New().String(), req.Name, req.Email, string(hashed), req.Role).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	switch req.Role {
	case "client":
		_, err = tx.Exec(ctx, `
			INSERT INTO client_profiles (user_id, full_name, email, state, country, phone)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, req.Name, req.Email, req.State, req.Country, req.Phone)
	case "artist":
		_, err = tx.Exec(ctx, `
			INSERT INTO artist_profiles (user_id, full_name, email, state, country, experience, specialties, languages, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, userID, req.Name, req.Email, req.State, req.Country, req.Experience, req.Specialties, req.Languages, req.Phone)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile creation failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	// Welcome email (best-effort)
	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    req.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}

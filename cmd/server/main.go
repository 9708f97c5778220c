package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deartisahub/backend/internal/admin"
	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/auth"
	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/messaging"
	mware "github.com/deartisahub/backend/internal/middleware"
	"github.com/deartisahub/backend/internal/notify"
	"github.com/deartisahub/backend/internal/payment"
	"github.com/deartisahub/backend/internal/profile"
	"github.com/deartisahub/backend/internal/project"
)

func main() {
	// Load .env when present; real deployments set env vars directly
	_ = godotenv.Load()

	// Initialize database connection
	db.Init()

	// Delivery channels come from env; missing provider keys leave that
	// channel nil and the relay skips it
	relay := notify.NewRelayFromEnv()
	alerts.Init(relay)
	defer alerts.Close()

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "deartisa"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/password/request", auth.RequestPasswordReset)
	authGroup.POST("/password/reset", auth.ResetPassword)
	authGroup.POST("/bootstrap-admin", auth.BootstrapAdmin)

	// Public artist directory
	e.GET("/artists", profile.ListArtists)
	e.GET("/artists/:id", profile.GetArtist)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)

	api.GET("/profile", profile.GetMyProfile)
	api.PATCH("/profile", profile.UpdateProfile)
	api.GET("/artist/rates", profile.GetMyRates, mware.RequireRoles("artist"))
	api.PUT("/artist/rates", profile.UpsertRates, mware.RequireRoles("artist"))
	api.GET("/artist/portfolio", profile.GetMyPortfolio, mware.RequireRoles("artist"))
	api.POST("/artist/portfolio", profile.AddPortfolioItem, mware.RequireRoles("artist"))
	api.DELETE("/artist/portfolio/:id", profile.DeletePortfolioItem, mware.RequireRoles("artist"))

	api.POST("/projects", project.CreateProject, mware.RequireRoles("client"))
	api.GET("/projects", project.GetMyProjects)
	api.GET("/projects/:id", project.GetProject)
	api.GET("/jobs", project.ListOpenJobs, mware.RequireRoles("artist"))
	api.GET("/jobs/:id", project.GetJob, mware.RequireRoles("artist"))

	api.POST("/jobs/:id/quotes", project.SubmitQuote, mware.RequireRoles("artist"))
	api.GET("/projects/:id/quotes", project.ListProjectQuotes, mware.RequireRoles("client"))
	api.POST("/projects/:id/quotes/:quoteId/select", project.SelectQuote, mware.RequireRoles("client"))

	api.GET("/projects/:id/agreement", project.GetAgreement)
	api.POST("/projects/:id/agreement/accept", project.AcceptAgreement)

	api.POST("/api/payments/razorpay/order", payment.CreateOrder, mware.RequireRoles("client"))
	api.POST("/api/payments/razorpay/verify", payment.VerifyPayment, mware.RequireRoles("client"))

	api.POST("/projects/:id/messages", messaging.SendMessage)
	api.GET("/projects/:id/messages", messaging.ListMessages)
	api.GET("/projects/:id/messages/unread", messaging.UnreadCount)
	api.POST("/projects/:id/messages/:message_id/read", messaging.MarkMessageRead)
	api.GET("/projects/:id/ws", messaging.ProjectWS)

	api.POST("/api/notifications/send", relay.Handler)
	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware)
	adminGroup.Use(mware.AdminGuard)

	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.GET("/projects", admin.ListProjects)
	adminGroup.GET("/payments", admin.ListPayments)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

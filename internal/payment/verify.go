package payment

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

type VerifyRequest struct {
	ProjectID string `json:"projectId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// =========================
// VerifyPayment - confirm checkout and advance the project
// =========================
// POST /api/payments/razorpay/verify
// Safe under replay: the created->paid flip and the assigned->in_progress
// advance are both conditional UPDATEs inside one transaction. A retried
// verification finds the order already paid, still runs the idempotent
// advance (so a verification that was interrupted between the two writes
// heals on retry), and notifies the artist only on the call that actually
// moved the project forward.
func VerifyPayment(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req VerifyRequest
	if err := c.Bind(&req); err != nil || req.ProjectID == "" || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing payment verification data"})
	}

	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if secret == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": ErrCodeProviderNotConfigured})
	}

	if !VerifySignature(secret, req.OrderID, req.PaymentID, req.Signature) {
		// Logged for security monitoring; a mismatch may be tampering
		log.Printf("[payment] signature mismatch project=%s order=%s", req.ProjectID, req.OrderID)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ErrCodeInvalidSignature})
	}

	ctx := context.Background()

	// Only the client who owns the project may verify its payment
	var ownerID string
	err := db.Conn.QueryRow(ctx, `SELECT client_id FROM projects WHERE id = $1`, req.ProjectID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ErrCodeClientNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	callerClientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil || callerClientID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		UPDATE project_payments
		SET status = 'paid', payment_id = $1, updated_at = NOW()
		WHERE project_id = $2 AND order_id = $3 AND status = 'created'`,
		req.PaymentID, req.ProjectID, req.OrderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update payment"})
	}

	if res.RowsAffected() == 0 {
		// Replay of an already-verified payment, or an unknown order
		var status string
		err := tx.QueryRow(ctx, `
			SELECT status FROM project_payments WHERE project_id = $1 AND order_id = $2`,
			req.ProjectID, req.OrderID).Scan(&status)
		if err != nil || status != StatusPaid {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment order not found"})
		}
	}

	adv, err := tx.Exec(ctx, `
		UPDATE projects SET status = 'in_progress', updated_at = NOW()
		WHERE id = $1 AND status = 'assigned'`, req.ProjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update project status"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update payment"})
	}

	// Tell the artist the funds are in (best-effort), once
	if adv.RowsAffected() > 0 {
		var artistID *string
		_ = db.Conn.QueryRow(ctx, `SELECT selected_artist_id::text FROM projects WHERE id = $1`, req.ProjectID).Scan(&artistID)
		if artistID != nil {
			if ct, err := profile.ArtistContact(ctx, *artistID); err == nil && ct.UserID != "" {
				_ = alerts.EnqueuePaymentReceived(req.ProjectID, ct.UserID, ct.Email, ct.Phone)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
)

type AdminPayment struct {
	ProjectID string    `json:"project_id"`
	ClientID  string    `json:"client_id"`
	AmountUSD float64   `json:"amount_usd"`
	AmountINR int64     `json:"amount_inr"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GET /admin/payments
func ListPayments(c echo.Context) error {
	status := c.QueryParam("status")
	query := `SELECT project_id::text, client_id::text, amount, amount_inr, provider, status,
                     order_id, COALESCE(payment_id, ''), created_at, updated_at
              FROM project_payments ORDER BY created_at DESC`
	args := []interface{}{}
	if status != "" {
		query = `SELECT project_id::text, client_id::text, amount, amount_inr, provider, status,
                        order_id, COALESCE(payment_id, ''), created_at, updated_at
                 FROM project_payments WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch payments"})
	}
	defer rows.Close()

	var payments []AdminPayment
	for rows.Next() {
		var p AdminPayment
		if err := rows.Scan(&p.ProjectID, &p.ClientID, &p.AmountUSD, &p.AmountINR, &p.Provider,
			&p.Status, &p.OrderID, &p.PaymentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read payment record"})
		}
		payments = append(payments, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

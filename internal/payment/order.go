package payment

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	razorpay "github.com/razorpay/razorpay-go"

	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

type CreateOrderRequest struct {
	ProjectID string  `json:"projectId"`
	Amount    float64 `json:"amount"`
}

// =========================
// CreateOrder - open a Razorpay order for an assigned project
// =========================
// POST /api/payments/razorpay/order
func CreateOrder(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil || req.ProjectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing projectId or amount"})
	}
	if !ValidAmount(req.Amount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ErrCodeInvalidAmount})
	}

	ctx := context.Background()

	// The project's owning client is the payer of record
	var clientID string
	err := db.Conn.QueryRow(ctx, `SELECT client_id FROM projects WHERE id = $1`, req.ProjectID).Scan(&clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ErrCodeClientNotFound})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}

	// Only that client may open an order for it
	callerClientID, err := profile.ClientIDForUser(ctx, userID)
	if err != nil || callerClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
	}

	key := os.Getenv("RAZORPAY_KEY_ID")
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if key == "" || secret == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": ErrCodeProviderNotConfigured})
	}

	paise := ToPaise(req.Amount)
	amountINR := ToINR(req.Amount)

	client := razorpay.NewClient(key, secret)
	orderData := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  "project_" + req.ProjectID,
	}
	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "provider returned no order id"})
	}

	_, err = db.Conn.Exec(ctx, `
		INSERT INTO project_payments (project_id, client_id, amount, amount_inr, provider, status, order_id)
		VALUES ($1, $2, $3, $4, 'razorpay', 'created', $5)`,
		req.ProjectID, clientID, req.Amount, paise, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment order"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"key":          key,
		"amount":       paise,
		"currency":     "INR",
		"orderId":      orderID,
		"amountUSD":    req.Amount,
		"amountINR":    amountINR,
		"exchangeRate": USDToINRRate,
	})
}

package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/testinfra"
)

// TestVerifyPayment_Integration runs the verify handler against a real
// PostgreSQL and checks the replay and recovery behavior of the
// created->paid flip plus the project advance.
func TestVerifyPayment_Integration(t *testing.T) {
	testinfra.SetupDB(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "it_verify_secret")
	// Enqueue attempts must fail fast instead of dialing a live redis
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	ctx := context.Background()
	s := seedAssignedProject(ctx, t)

	orderID := fmt.Sprintf("order_it_%d", time.Now().UnixNano())
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO project_payments (project_id, client_id, amount, amount_inr, provider, status, order_id)
		VALUES ($1, $2, 500, $3, 'razorpay', 'created', $4)`,
		s.projectID, s.clientProfileID, ToPaise(500), orderID); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	sig := ComputeSignature("it_verify_secret", orderID, "pay_it_1")
	body := fmt.Sprintf(`{"projectId":%q,"orderId":%q,"paymentId":"pay_it_1","signature":%q}`, s.projectID, orderID, sig)

	// First verification flips the payment and advances the project
	rec := invokeVerify(t, body, s.clientUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("first verify: got %d body=%s", rec.Code, rec.Body.String())
	}
	assertPaymentStatus(ctx, t, s.projectID, orderID, "paid")
	assertProjectStatus(ctx, t, s.projectID, "in_progress")

	// Replay is accepted and changes nothing
	rec = invokeVerify(t, body, s.clientUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay verify: got %d body=%s", rec.Code, rec.Body.String())
	}
	var paidRows int
	if err := db.Conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM project_payments WHERE project_id = $1 AND status = 'paid'`,
		s.projectID).Scan(&paidRows); err != nil {
		t.Fatalf("count paid rows: %v", err)
	}
	if paidRows != 1 {
		t.Fatalf("expected exactly one paid row after replay, got %d", paidRows)
	}
	assertProjectStatus(ctx, t, s.projectID, "in_progress")
}

// TestVerifyPayment_RecoversStuckProject covers the retry after a
// verification that flipped the payment but never advanced the project:
// the replay must finish the advance instead of leaving it assigned.
func TestVerifyPayment_RecoversStuckProject(t *testing.T) {
	testinfra.SetupDB(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "it_verify_secret")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	ctx := context.Background()
	s := seedAssignedProject(ctx, t)

	orderID := fmt.Sprintf("order_it_%d", time.Now().UnixNano())
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO project_payments (project_id, client_id, amount, amount_inr, provider, status, order_id, payment_id)
		VALUES ($1, $2, 500, $3, 'razorpay', 'paid', $4, 'pay_it_2')`,
		s.projectID, s.clientProfileID, ToPaise(500), orderID); err != nil {
		t.Fatalf("seed paid payment: %v", err)
	}
	assertProjectStatus(ctx, t, s.projectID, "assigned")

	sig := ComputeSignature("it_verify_secret", orderID, "pay_it_2")
	body := fmt.Sprintf(`{"projectId":%q,"orderId":%q,"paymentId":"pay_it_2","signature":%q}`, s.projectID, orderID, sig)

	rec := invokeVerify(t, body, s.clientUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("recovery verify: got %d body=%s", rec.Code, rec.Body.String())
	}
	assertProjectStatus(ctx, t, s.projectID, "in_progress")
}

// TestPaymentOwnership_Integration checks that a client who does not own
// the project can neither open nor verify an order on it.
func TestPaymentOwnership_Integration(t *testing.T) {
	testinfra.SetupDB(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "it_verify_secret")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	ctx := context.Background()
	s := seedAssignedProject(ctx, t)
	intruderUserID := seedClientUser(ctx, t, "intruder")

	orderID := fmt.Sprintf("order_it_%d", time.Now().UnixNano())
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO project_payments (project_id, client_id, amount, amount_inr, provider, status, order_id)
		VALUES ($1, $2, 500, $3, 'razorpay', 'created', $4)`,
		s.projectID, s.clientProfileID, ToPaise(500), orderID); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/razorpay/order",
		strings.NewReader(fmt.Sprintf(`{"projectId":%q,"amount":500}`, s.projectID)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", intruderUserID)
	c.Set("role", "client")
	if err := CreateOrder(c); err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("order by non-owner: got %d body=%s", rec.Code, rec.Body.String())
	}

	sig := ComputeSignature("it_verify_secret", orderID, "pay_it_3")
	body := fmt.Sprintf(`{"projectId":%q,"orderId":%q,"paymentId":"pay_it_3","signature":%q}`, s.projectID, orderID, sig)
	rec = invokeVerify(t, body, intruderUserID)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("verify by non-owner: got %d body=%s", rec.Code, rec.Body.String())
	}
	assertPaymentStatus(ctx, t, s.projectID, orderID, "created")
	assertProjectStatus(ctx, t, s.projectID, "assigned")
}

type paymentSeed struct {
	clientUserID    string
	clientProfileID string
	artistProfileID string
	projectID       string
}

func seedAssignedProject(ctx context.Context, t *testing.T) paymentSeed {
	t.Helper()
	var s paymentSeed

	s.clientUserID = seedClientUser(ctx, t, "client")
	if err := db.Conn.QueryRow(ctx, `
		SELECT id FROM client_profiles WHERE user_id = $1`, s.clientUserID).Scan(&s.clientProfileID); err != nil {
		t.Fatalf("fetch client profile: %v", err)
	}

	artistUserID := uuid.New().String()
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, 'Ira Artist', $2, 'x', 'artist')`,
		artistUserID, fmt.Sprintf("artist+%d@example.com", time.Now().UnixNano())); err != nil {
		t.Fatalf("seed artist user: %v", err)
	}
	if err := db.Conn.QueryRow(ctx, `
		INSERT INTO artist_profiles (user_id, full_name, email, phone)
		VALUES ($1, 'Ira Artist', 'artist@example.com', '+15550100') RETURNING id`,
		artistUserID).Scan(&s.artistProfileID); err != nil {
		t.Fatalf("seed artist profile: %v", err)
	}

	if err := db.Conn.QueryRow(ctx, `
		INSERT INTO projects (client_id, title, status, selected_artist_id)
		VALUES ($1, 'Lobby render', 'assigned', $2) RETURNING id`,
		s.clientProfileID, s.artistProfileID).Scan(&s.projectID); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return s
}

func seedClientUser(ctx context.Context, t *testing.T, tag string) string {
	t.Helper()
	userID := uuid.New().String()
	email := fmt.Sprintf("%s+%d@example.com", tag, time.Now().UnixNano())
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, 'Cleo Client', $2, 'x', 'client')`, userID, email); err != nil {
		t.Fatalf("seed %s user: %v", tag, err)
	}
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO client_profiles (user_id, full_name, email)
		VALUES ($1, 'Cleo Client', $2)`, userID, email); err != nil {
		t.Fatalf("seed %s profile: %v", tag, err)
	}
	return userID
}

func invokeVerify(t *testing.T, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/razorpay/verify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", "client")
	if err := VerifyPayment(c); err != nil {
		t.Fatalf("VerifyPayment returned error: %v", err)
	}
	return rec
}

func assertPaymentStatus(ctx context.Context, t *testing.T, projectID, orderID, want string) {
	t.Helper()
	var got string
	if err := db.Conn.QueryRow(ctx, `
		SELECT status FROM project_payments WHERE project_id = $1 AND order_id = $2`,
		projectID, orderID).Scan(&got); err != nil {
		t.Fatalf("fetch payment status: %v", err)
	}
	if got != want {
		t.Fatalf("payment status = %q, want %q", got, want)
	}
}

func assertProjectStatus(ctx context.Context, t *testing.T, projectID, want string) {
	t.Helper()
	var got string
	if err := db.Conn.QueryRow(ctx, `
		SELECT status FROM projects WHERE id = $1`, projectID).Scan(&got); err != nil {
		t.Fatalf("fetch project status: %v", err)
	}
	if got != want {
		t.Fatalf("project status = %q, want %q", got, want)
	}
}

package project

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/testinfra"
)

// TestAcceptAgreement_Integration runs the accept handler against a real
// PostgreSQL and verifies that accepting is idempotent per party: a
// repeated accept keeps the original timestamp and the agreement reaches
// signed only once both parties have accepted.
func TestAcceptAgreement_Integration(t *testing.T) {
	testinfra.SetupDB(t)
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	ctx := context.Background()

	clientUserID := uuid.New().String()
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, 'Cleo Client', $2, 'x', 'client')`,
		clientUserID, fmt.Sprintf("client+%d@example.com", time.Now().UnixNano())); err != nil {
		t.Fatalf("seed client user: %v", err)
	}
	var clientProfileID string
	if err := db.Conn.QueryRow(ctx, `
		INSERT INTO client_profiles (user_id, full_name, email)
		VALUES ($1, 'Cleo Client', 'client@example.com') RETURNING id`,
		clientUserID).Scan(&clientProfileID); err != nil {
		t.Fatalf("seed client profile: %v", err)
	}

	artistUserID := uuid.New().String()
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, 'Ira Artist', $2, 'x', 'artist')`,
		artistUserID, fmt.Sprintf("artist+%d@example.com", time.Now().UnixNano())); err != nil {
		t.Fatalf("seed artist user: %v", err)
	}
	var artistProfileID string
	if err := db.Conn.QueryRow(ctx, `
		INSERT INTO artist_profiles (user_id, full_name, email, phone)
		VALUES ($1, 'Ira Artist', 'artist@example.com', '+15550100') RETURNING id`,
		artistUserID).Scan(&artistProfileID); err != nil {
		t.Fatalf("seed artist profile: %v", err)
	}

	var projectID string
	if err := db.Conn.QueryRow(ctx, `
		INSERT INTO projects (client_id, title, status, selected_artist_id)
		VALUES ($1, 'Villa exterior', 'assigned', $2) RETURNING id`,
		clientProfileID, artistProfileID).Scan(&projectID); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := db.Conn.Exec(ctx, `
		INSERT INTO project_agreements (project_id, client_id, artist_id, terms_text, status)
		VALUES ($1, $2, $3, 'terms', 'pending')`,
		projectID, clientProfileID, artistProfileID); err != nil {
		t.Fatalf("seed agreement: %v", err)
	}

	accept := func(userID, role string) *httptest.ResponseRecorder {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/projects/:id/agreement/accept", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(projectID)
		c.Set("user_id", userID)
		c.Set("role", role)
		if err := AcceptAgreement(c); err != nil {
			t.Fatalf("AcceptAgreement returned error: %v", err)
		}
		return rec
	}

	agreementState := func() (status string, clientAt, artistAt *time.Time) {
		t.Helper()
		if err := db.Conn.QueryRow(ctx, `
			SELECT status, client_accepted_at, artist_accepted_at
			FROM project_agreements WHERE project_id = $1`, projectID).
			Scan(&status, &clientAt, &artistAt); err != nil {
			t.Fatalf("fetch agreement: %v", err)
		}
		return status, clientAt, artistAt
	}

	// Client accepts
	if rec := accept(clientUserID, "client"); rec.Code != http.StatusOK {
		t.Fatalf("client accept: got %d body=%s", rec.Code, rec.Body.String())
	}
	status, clientAt, artistAt := agreementState()
	if status != AgreementClientAccepted {
		t.Fatalf("after client accept: status = %q, want %q", status, AgreementClientAccepted)
	}
	if clientAt == nil || artistAt != nil {
		t.Fatalf("after client accept: clientAt=%v artistAt=%v", clientAt, artistAt)
	}
	firstClientAt := *clientAt

	// Client accepts again: no status change, timestamp preserved
	if rec := accept(clientUserID, "client"); rec.Code != http.StatusOK {
		t.Fatalf("client re-accept: got %d body=%s", rec.Code, rec.Body.String())
	}
	status, clientAt, artistAt = agreementState()
	if status != AgreementClientAccepted {
		t.Fatalf("after client re-accept: status = %q, want %q", status, AgreementClientAccepted)
	}
	if clientAt == nil || !clientAt.Equal(firstClientAt) {
		t.Fatalf("client re-accept moved timestamp: %v -> %v", firstClientAt, clientAt)
	}
	if artistAt != nil {
		t.Fatalf("client re-accept set artist timestamp: %v", artistAt)
	}

	// Artist accepts: both sides present, agreement signed
	if rec := accept(artistUserID, "artist"); rec.Code != http.StatusOK {
		t.Fatalf("artist accept: got %d body=%s", rec.Code, rec.Body.String())
	}
	status, clientAt, artistAt = agreementState()
	if status != AgreementSigned {
		t.Fatalf("after artist accept: status = %q, want %q", status, AgreementSigned)
	}
	if artistAt == nil {
		t.Fatal("after artist accept: artist timestamp missing")
	}
	firstArtistAt := *artistAt

	// Replays after signing change nothing
	if rec := accept(artistUserID, "artist"); rec.Code != http.StatusOK {
		t.Fatalf("artist re-accept: got %d body=%s", rec.Code, rec.Body.String())
	}
	status, clientAt, artistAt = agreementState()
	if status != AgreementSigned {
		t.Fatalf("after artist re-accept: status = %q, want %q", status, AgreementSigned)
	}
	if !clientAt.Equal(firstClientAt) || !artistAt.Equal(firstArtistAt) {
		t.Fatalf("re-accept moved timestamps: client %v->%v artist %v->%v",
			firstClientAt, clientAt, firstArtistAt, artistAt)
	}
}

package project

import (
	"errors"
	"fmt"
	"time"
)

// Project statuses. Transitions: open -> assigned (quote selection),
// assigned -> in_progress (verified payment), in_progress -> completed.
const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Agreement statuses
const (
	AgreementPending        = "pending"
	AgreementClientAccepted = "client_accepted"
	AgreementArtistAccepted = "artist_accepted"
	AgreementSigned         = "signed"
)

type Project struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	BudgetMin        float64   `json:"budget_min"`
	BudgetMax        float64   `json:"budget_max"`
	Deadline         *string   `json:"deadline,omitempty"`
	Status           string    `json:"status"`
	SelectedArtistID *string   `json:"selected_artist_id,omitempty"`
	SelectedQuoteID  *string   `json:"selected_quote_id,omitempty"`
	ReferenceLinks   []string  `json:"reference_links"`
	CreatedAt        time.Time `json:"created_at"`
}

type QuoteService struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type Quote struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project_id"`
	ArtistID     string         `json:"artist_id"`
	Amount       float64        `json:"amount"`
	TimelineDays int            `json:"timeline_days"`
	Notes        string         `json:"notes,omitempty"`
	Services     []QuoteService `json:"services"`
	PDFURL       string         `json:"pdf_url,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Agreement struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"project_id"`
	ClientID         string     `json:"client_id"`
	ArtistID         string     `json:"artist_id"`
	TermsText        string     `json:"terms_text"`
	Status           string     `json:"status"`
	ClientAcceptedAt *time.Time `json:"client_accepted_at,omitempty"`
	ArtistAcceptedAt *time.Time `json:"artist_accepted_at,omitempty"`
}

// ValidateServices enforces the shape of externally-sourced quote line
// items: every entry needs a name and a positive rate.
func ValidateServices(services []QuoteService) error {
	for i, s := range services {
		if s.Name == "" {
			return fmt.Errorf("service %d: name is required", i+1)
		}
		if s.Rate <= 0 {
			return fmt.Errorf("service %d: rate must be positive", i+1)
		}
	}
	return nil
}

// ServicesTotal sums the line-item rates of a quote.
func ServicesTotal(services []QuoteService) float64 {
	var total float64
	for _, s := range services {
		total += s.Rate
	}
	return total
}

var errUnknownRole = errors.New("role must be client or artist")

// NextAgreementStatus computes the agreement status after the given role
// accepts. The agreement is signed only when both sides have accepted.
func NextAgreementStatus(role string, clientAccepted, artistAccepted bool) (string, error) {
	switch role {
	case "client":
		clientAccepted = true
	case "artist":
		artistAccepted = true
	default:
		return "", errUnknownRole
	}
	switch {
	case clientAccepted && artistAccepted:
		return AgreementSigned, nil
	case clientAccepted:
		return AgreementClientAccepted, nil
	default:
		return AgreementArtistAccepted, nil
	}
}

// BuildAgreementTerms renders the standard terms text shown to both parties.
func BuildAgreementTerms(projectTitle string, quoteAmount float64, timelineDays int) string {
	return fmt.Sprintf(`Agreement Summary

Project: %s
Selected Quote: $%.2f
Timeline: %d days

Terms:
1. DeArtisa Hub will mediate payments and release funds after client approval.
2. Artist will deliver milestones on agreed timeline.
3. Client agrees to provide timely feedback.
4. All communications should happen through the platform.
5. Any dispute will be handled by DeArtisa Hub mediation.`,
		projectTitle, quoteAmount, timelineDays)
}

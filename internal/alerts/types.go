package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail      = "email:welcome"
	TaskPasswordReset     = "email:password_reset"
	TaskArtistSelected    = "notify:artist_selected"
	TaskAgreementAccepted = "notify:agreement_accepted"
	TaskPaymentReceived   = "notify:payment_received"
	TaskMessageNew        = "notify:message_new"
)

// Common envelope for outbound notifications. Email and WhatsApp may both
// be set; the worker fans out to whichever destinations are present.
type Envelope struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Envelope Envelope  `json:"envelope"`
	SentAt   time.Time `json:"sent_at"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ResetURL  string    `json:"reset_url"`
	Envelope  Envelope  `json:"envelope"`
	Requested time.Time `json:"requested"`
}

// Artist selected payload (sent to the chosen artist after quote selection)
type ArtistSelectedPayload struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Envelope  Envelope  `json:"envelope"`
	SentAt    time.Time `json:"sent_at"`
}

// Agreement accepted payload (sent to the counterparty after either side accepts)
type AgreementAcceptedPayload struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	ByRole    string    `json:"by_role"`
	Status    string    `json:"status"`
	Envelope  Envelope  `json:"envelope"`
	SentAt    time.Time `json:"sent_at"`
}

// Payment received payload (sent to the artist after the client's payment verifies)
type PaymentReceivedPayload struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Envelope  Envelope  `json:"envelope"`
	SentAt    time.Time `json:"sent_at"`
}

// Message new payload (sent to the recipient on a new project message)
type MessageNewPayload struct {
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	Envelope  Envelope  `json:"envelope"`
	SentAt    time.Time `json:"sent_at"`
}

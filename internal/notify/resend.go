package notify

import (
	"context"
	"os"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSenderFromEnv returns nil when RESEND_API_KEY is unset, which
// leaves the email channel unconfigured rather than failing startup.
func NewResendSenderFromEnv() *ResendSender {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil
	}
	from := os.Getenv("RESEND_FROM")
	if from == "" {
		from = "DeArtisa Hub <noreply@deartisahub.com>"
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) SendEmail(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

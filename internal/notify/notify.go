package notify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Channel names recorded with each delivery attempt.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// ErrCodeMissingRecipient is surfaced when neither channel is usable.
const ErrCodeMissingRecipient = "MISSING_RECIPIENT"

// EmailSender delivers a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WhatsAppSender delivers a WhatsApp text message.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// RecordStore persists a record of each delivery attempt.
type RecordStore interface {
	Record(ctx context.Context, userID, channel, destination, title, body, status string) error
}

// Request is one notification to fan out across the recipient's channels.
type Request struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// Validate rejects requests with no recipient identity, no message, or no
// reachable channel.
func (r Request) Validate() error {
	if r.UserID == "" || r.Message == "" {
		return fmt.Errorf("%s: userId and message are required", ErrCodeMissingRecipient)
	}
	if r.Email == "" && r.WhatsApp == "" {
		return fmt.Errorf("%s: at least one of email or whatsapp is required", ErrCodeMissingRecipient)
	}
	return nil
}

// Result reports the outcome of one channel dispatch. The channel call and
// the persistence of its delivery record fail independently.
type Result struct {
	Channel   string `json:"channel"`
	SendErr   error  `json:"-"`
	RecordErr error  `json:"-"`
}

// Relay fans a notification out to every present, configured channel.
// Channels dispatch concurrently; one failing never blocks the other.
// Callers performing state transitions must treat the relay as fire and
// forget, never as a transaction participant.
type Relay struct {
	Email    EmailSender
	WhatsApp WhatsAppSender
	Records  RecordStore
}

// Dispatch sends on every usable channel and waits for all of them. The
// returned error is non-nil when any channel send failed, so queue workers
// can retry; record-persistence failures are reported per Result but do
// not fail the dispatch.
func (r *Relay) Dispatch(ctx context.Context, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var results []Result
	if req.Email != "" && r.Email != nil {
		results = append(results, Result{Channel: ChannelEmail})
	}
	if req.WhatsApp != "" && r.WhatsApp != nil {
		results = append(results, Result{Channel: ChannelWhatsApp})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s: no configured channel for this recipient", ErrCodeMissingRecipient)
	}

	subject := req.Subject
	if subject == "" {
		subject = "New Project Update"
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		res := &results[i]
		g.Go(func() error {
			switch res.Channel {
			case ChannelEmail:
				res.SendErr = r.Email.SendEmail(gctx, req.Email, subject, req.Message)
				res.RecordErr = r.record(gctx, req, ChannelEmail, req.Email, subject, res.SendErr)
			case ChannelWhatsApp:
				res.SendErr = r.WhatsApp.SendWhatsApp(gctx, req.WhatsApp, req.Message)
				res.RecordErr = r.record(gctx, req, ChannelWhatsApp, req.WhatsApp, subject, res.SendErr)
			}
			// Errors are collected per channel, never propagated here:
			// propagating would cancel the sibling dispatch.
			return nil
		})
	}
	_ = g.Wait()

	var firstSendErr error
	for _, res := range results {
		if res.SendErr != nil {
			firstSendErr = fmt.Errorf("%s: %w", res.Channel, res.SendErr)
			break
		}
	}
	return results, firstSendErr
}

func (r *Relay) record(ctx context.Context, req Request, channel, destination, title string, sendErr error) error {
	if r.Records == nil {
		return nil
	}
	status := "sent"
	if sendErr != nil {
		status = "failed"
	}
	return r.Records.Record(ctx, req.UserID, channel, destination, title, req.Message, status)
}

package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance. It only builds the
// enqueue side; the worker server is started by Init in main.
func ensureClient() *asynq.Client {
	if client == nil {
		client = asynq.NewClient(asynq.RedisClientOpt{Addr: resolveRedisAddr()})
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	base = strings.TrimRight(base, "/")

	subject := fmt.Sprintf("Welcome to DeArtisa, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining DeArtisa.\n\nOpen DeArtisa: %s\n\nIf the link doesn’t work, copy and paste the URL above.", name, base)

	env := Envelope{Email: email, Subject: subject, Body: body}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePasswordReset schedules a password reset notification
func EnqueuePasswordReset(userID, email, resetURL, name string) error {
	expiry := os.Getenv("PASSWORD_RESET_EXP_MINUTES")
	if expiry == "" {
		expiry = "30"
	}
	subject := "Password reset instructions"
	body := fmt.Sprintf("Hello %s,\n\nWe received a request to reset your DeArtisa password.\n\nTo proceed, open the link below:\n%s\n\nThis link expires in %s minutes. If you did not request this, no action is required.\n\nNeed help? Reply to this email.\n\n— DeArtisa Team", name, resetURL, expiry)

	env := Envelope{Email: email, Subject: subject, Body: body}
	payload := PasswordResetPayload{UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPasswordReset, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueArtistSelected notifies the artist that the client picked their quote
func EnqueueArtistSelected(projectID, userID, email, phone string) error {
	env := Envelope{
		Email:    email,
		WhatsApp: phone,
		Subject:  "You have been selected",
		Body:     "You have been selected for a project. Please review and accept the agreement to get started.",
	}
	payload := ArtistSelectedPayload{ProjectID: projectID, UserID: userID, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskArtistSelected, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("notify"))
	return err
}

// EnqueueAgreementAccepted notifies the counterparty after one side accepts
func EnqueueAgreementAccepted(projectID, userID, email, phone, byRole, status string) error {
	who := "Client"
	if byRole == "artist" {
		who = "Artist"
	}
	body := fmt.Sprintf("%s accepted the agreement. Waiting on the other party to sign.", who)
	if status == "signed" {
		body = fmt.Sprintf("%s accepted the agreement. The agreement is now fully signed.", who)
	}
	env := Envelope{Email: email, WhatsApp: phone, Subject: "Agreement update", Body: body}
	payload := AgreementAcceptedPayload{ProjectID: projectID, UserID: userID, ByRole: byRole, Status: status, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskAgreementAccepted, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("notify"))
	return err
}

// EnqueuePaymentReceived notifies the artist that the client's payment cleared
func EnqueuePaymentReceived(projectID, userID, email, phone string) error {
	env := Envelope{
		Email:    email,
		WhatsApp: phone,
		Subject:  "Payment received",
		Body:     "Client payment received. You can start work on the project.",
	}
	payload := PaymentReceivedPayload{ProjectID: projectID, UserID: userID, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPaymentReceived, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("notify"))
	return err
}

// EnqueueMessageNew notifies the recipient of a new project message
func EnqueueMessageNew(projectID, senderID, recipientID, email, phone, msgBody string) error {
	preview := previewText(msgBody, 120)
	env := Envelope{
		Email:    email,
		WhatsApp: phone,
		Subject:  "New message on your project",
		Body:     fmt.Sprintf("You have a new message on your project:\n\n%s", preview),
	}
	payload := MessageNewPayload{ProjectID: projectID, SenderID: senderID, Recipient: recipientID, Body: msgBody, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskMessageNew, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("notify"))
	return err
}

// previewText shortens s to at most max characters, cutting on a rune
// boundary so multi-byte text is never split mid-character.
func previewText(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}

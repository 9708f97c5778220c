package alerts

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/hibiken/asynq"

	"github.com/deartisahub/backend/internal/notify"
)

var (
	client *asynq.Client
	server *asynq.Server
	relay  *notify.Relay
)

// Init starts the Asynq server and initializes a shared client. The relay
// carries the configured delivery channels; a nil relay downgrades every
// task to log-only delivery.
func Init(r *notify.Relay) {
	relay = r

	redisAddr := resolveRedisAddr()
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskPasswordReset, handlePasswordReset)
	mux.HandleFunc(TaskArtistSelected, handleArtistSelected)
	mux.HandleFunc(TaskAgreementAccepted, handleAgreementAccepted)
	mux.HandleFunc(TaskPaymentReceived, handlePaymentReceived)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"notify": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

func resolveRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	// Prefer docker hostname, fallback to localhost
	if host := os.Getenv("REDIS_HOST"); host != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		return host + ":" + port
	}
	// Default to docker-compose service name if running in container; otherwise localhost
	if os.Getenv("RUN_LOCAL") == "true" {
		return "127.0.0.1:6379"
	}
	return "redis:6379"
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// dispatch fans the envelope out through the relay. Delivery errors are
// returned so asynq retries the task; a nil relay only logs.
func dispatch(ctx context.Context, userID string, env Envelope) error {
	if relay == nil {
		log.Printf("[notify] no relay configured, dropping -> user=%s subject=%q", userID, env.Subject)
		return nil
	}
	_, err := relay.Dispatch(ctx, notify.Request{
		UserID:   userID,
		Email:    env.Email,
		WhatsApp: env.WhatsApp,
		Subject:  env.Subject,
		Message:  env.Body,
	})
	return err
}

// deliverAndRecord dispatches the envelope and, only after delivery
// succeeds, writes the in-app notification row. Ordering matters: a
// returned error makes asynq re-run the whole task, and recording first
// would insert a duplicate row on every retry.
func deliverAndRecord(ctx context.Context, userID, projectID string, env Envelope) error {
	if err := dispatch(ctx, userID, env); err != nil {
		return err
	}
	if err := CreateNotification(userID, env.Subject, env.Body, &projectID); err != nil {
		log.Printf("[notify][ERROR] in-app record failed: %v", err)
	}
	return nil
}

func handleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := dispatch(ctx, p.UserID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] WelcomeEmail send failed: %v", err)
		return err
	}
	log.Printf("[notify] WelcomeEmail sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func handlePasswordReset(ctx context.Context, t *asynq.Task) error {
	var p PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := dispatch(ctx, p.UserID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] PasswordReset send failed: %v", err)
		return err
	}
	log.Printf("[notify] PasswordReset sent -> to=%s", p.Email)
	return nil
}

func handleArtistSelected(ctx context.Context, t *asynq.Task) error {
	var p ArtistSelectedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := deliverAndRecord(ctx, p.UserID, p.ProjectID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] ArtistSelected send failed: %v", err)
		return err
	}
	log.Printf("[notify] ArtistSelected sent -> project=%s user=%s", p.ProjectID, p.UserID)
	return nil
}

func handleAgreementAccepted(ctx context.Context, t *asynq.Task) error {
	var p AgreementAcceptedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := deliverAndRecord(ctx, p.UserID, p.ProjectID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] AgreementAccepted send failed: %v", err)
		return err
	}
	log.Printf("[notify] AgreementAccepted sent -> project=%s by=%s status=%s", p.ProjectID, p.ByRole, p.Status)
	return nil
}

func handlePaymentReceived(ctx context.Context, t *asynq.Task) error {
	var p PaymentReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := deliverAndRecord(ctx, p.UserID, p.ProjectID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] PaymentReceived send failed: %v", err)
		return err
	}
	log.Printf("[notify] PaymentReceived sent -> project=%s user=%s", p.ProjectID, p.UserID)
	return nil
}

func handleMessageNew(ctx context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := deliverAndRecord(ctx, p.Recipient, p.ProjectID, p.Envelope); err != nil {
		log.Printf("[notify][ERROR] MessageNew send failed: %v", err)
		return err
	}
	log.Printf("[notify] MessageNew sent -> project=%s recipient=%s", p.ProjectID, p.Recipient)
	return nil
}

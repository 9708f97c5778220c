package notify

import (
	"context"

	"github.com/deartisahub/backend/internal/db"
)

// DBRecordStore writes delivery records to the notifications table.
type DBRecordStore struct{}

func (DBRecordStore) Record(ctx context.Context, userID, channel, destination, title, body, status string) error {
	_, err := db.Conn.Exec(ctx, `
		INSERT INTO notifications (user_id, channel, destination, title, body, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, channel, destination, title, body, status)
	return err
}

// NewRelayFromEnv wires the relay with whichever channels have
// credentials configured.
func NewRelayFromEnv() *Relay {
	relay := &Relay{Records: DBRecordStore{}}
	if s := NewResendSenderFromEnv(); s != nil {
		relay.Email = s
	}
	if s := NewTwilioSenderFromEnv(); s != nil {
		relay.WhatsApp = s
	}
	return relay
}

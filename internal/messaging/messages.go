package messaging

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/deartisahub/backend/internal/alerts"
	"github.com/deartisahub/backend/internal/db"
	"github.com/deartisahub/backend/internal/profile"
)

// threadParties resolves the user ids on each side of a project thread.
// The artist side is empty until a quote has been selected.
func threadParties(ctx context.Context, projectID string) (clientUserID, artistUserID string, err error) {
	var artist *string
	err = db.Conn.QueryRow(ctx, `
        SELECT cp.user_id::text,
               (SELECT ap.user_id::text FROM artist_profiles ap WHERE ap.id = p.selected_artist_id)
        FROM projects p
        JOIN client_profiles cp ON cp.id = p.client_id
        WHERE p.id = $1`, projectID,
	).Scan(&clientUserID, &artist)
	if err != nil {
		return "", "", err
	}
	if artist != nil {
		artistUserID = *artist
	}
	return clientUserID, artistUserID, nil
}

// SendMessage - client or artist sends a message in a project thread
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id"})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	clientUserID, artistUserID, err := threadParties(context.Background(), projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	if artistUserID == "" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no artist assigned to this project yet"})
	}

	var senderRole, recipientID string
	switch userID {
	case clientUserID:
		senderRole, recipientID = "client", artistUserID
	case artistUserID:
		senderRole, recipientID = "artist", clientUserID
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this project"})
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err = db.Conn.QueryRow(context.Background(),
		`INSERT INTO project_messages (id, project_id, sender_user_id, sender_role, recipient_user_id, message)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		msgID, projectID, userID, senderRole, recipientID, body.Content,
	).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	// Broadcast new message event to WS subscribers
	BroadcastNewMessage(projectID, echo.Map{
		"id":           msgID,
		"project_id":   projectID,
		"sender_id":    userID,
		"sender_role":  senderRole,
		"recipient_id": recipientID,
		"content":      body.Content,
		"created_at":   createdAt.UTC().Format(time.RFC3339),
	})

	// Email/WhatsApp notification for recipient (best-effort)
	var ct profile.Contact
	if senderRole == "client" {
		var artistProfileID string
		if artistProfileID, err = profile.ArtistIDForUser(context.Background(), artistUserID); err == nil {
			ct, _ = profile.ArtistContact(context.Background(), artistProfileID)
		}
	} else {
		var clientProfileID string
		if clientProfileID, err = profile.ClientIDForUser(context.Background(), clientUserID); err == nil {
			ct, _ = profile.ClientContact(context.Background(), clientProfileID)
		}
	}
	if ct.Email != "" || ct.Phone != "" {
		_ = alerts.EnqueueMessageNew(projectID, userID, recipientID, ct.Email, ct.Phone, body.Content)
	}

	return c.JSON(http.StatusOK, echo.Map{"message_id": msgID})
}

// ListMessages - get the conversation for a project
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id"})
	}

	clientUserID, artistUserID, err := threadParties(context.Background(), projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	if userID != clientUserID && userID != artistUserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this project"})
	}

	// Optional since filter for incremental fetches
	sinceStr := c.QueryParam("since")
	var rows pgx.Rows
	if sinceStr != "" {
		sinceTime, perr := time.Parse(time.RFC3339, sinceStr)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid since timestamp, use RFC3339"})
		}
		rows, err = db.Conn.Query(context.Background(),
			`SELECT id::text, sender_user_id::text, sender_role, recipient_user_id::text, message, created_at, read_at
             FROM project_messages WHERE project_id = $1 AND created_at > $2 ORDER BY created_at ASC`, projectID, sinceTime,
		)
	} else {
		rows, err = db.Conn.Query(context.Background(),
			`SELECT id::text, sender_user_id::text, sender_role, recipient_user_id::text, message, created_at, read_at
             FROM project_messages WHERE project_id = $1 ORDER BY created_at ASC`, projectID,
		)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list messages"})
	}
	defer rows.Close()

	type message struct {
		ID          string      `json:"id"`
		SenderID    string      `json:"sender_id"`
		SenderRole  string      `json:"sender_role"`
		RecipientID string      `json:"recipient_id"`
		Content     string      `json:"content"`
		CreatedAt   string      `json:"created_at"`
		ReadAt      interface{} `json:"read_at"`
	}

	var msgs []message
	for rows.Next() {
		var m message
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderRole, &m.RecipientID, &m.Content, &createdAt, &readAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		m.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if readAt != nil {
			m.ReadAt = readAt.UTC().Format(time.RFC3339)
		} else {
			m.ReadAt = nil
		}
		msgs = append(msgs, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// UnreadCount - get unread count for the current user in a project thread
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project id"})
	}

	clientUserID, artistUserID, err := threadParties(context.Background(), projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch project"})
	}
	if userID != clientUserID && userID != artistUserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this project"})
	}

	var count int64
	err = db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM project_messages WHERE project_id = $1 AND recipient_user_id = $2 AND read_at IS NULL`,
		projectID, userID,
	).Scan(&count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute unread count"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkMessageRead - recipient marks a specific message as read
func MarkMessageRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	projectID := c.Param("id")
	msgID := c.Param("message_id")
	if projectID == "" || msgID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing project or message id"})
	}

	// Ensure message belongs to the project and user is recipient
	var recipientID string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT recipient_user_id::text FROM project_messages WHERE id = $1 AND project_id = $2`, msgID, projectID,
	).Scan(&recipientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch message"})
	}
	if recipientID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the recipient"})
	}

	var readTS time.Time
	err = db.Conn.QueryRow(context.Background(),
		`UPDATE project_messages SET read_at = COALESCE(read_at, NOW()) WHERE id = $1 AND recipient_user_id = $2 RETURNING read_at`, msgID, userID,
	).Scan(&readTS)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}

	// Broadcast read event
	BroadcastMessageRead(projectID, echo.Map{
		"message_id": msgID,
		"project_id": projectID,
		"user_id":    userID,
		"read_at":    readTS.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message_id": msgID, "read_at": readTS.UTC().Format(time.RFC3339)})
}

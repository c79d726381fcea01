package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TypeWelcomeEmail marks the one mail a new account receives. At most one
// row of this type exists per user.
const TypeWelcomeEmail = "welcome_email"

// Notification records a message the notifier delivered to a user.
type Notification struct {
	ID      int64     `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"type"`
	SentAt  time.Time `json:"sent_at"`
	Payload string    `json:"payload"`
}

var ErrAlreadySent = errors.New("notification already sent")

// Repo persists delivered notifications. Create reports ErrAlreadySent when
// the user already has a notification of the same type.
type Repo interface {
	Create(ctx context.Context, n *Notification) error
	Sent(ctx context.Context, userID uuid.UUID, typ string) (bool, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Clock interface{ Now() time.Time }

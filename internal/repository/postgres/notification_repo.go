package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/notification"
	"github.com/google/uuid"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const qNotifInsert = `
INSERT INTO notifications (user_id, type, sent_at, payload)
VALUES ($1, $2, COALESCE($3, now()), $4)
RETURNING id, sent_at;`

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qNotifInsert,
		n.UserID,
		n.Type,
		nullTime(n.SentAt),
		n.Payload,
	).Scan(&n.ID, &n.SentAt); err != nil {
		if isUniqueViolation(err) {
			return notification.ErrAlreadySent
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

const qNotifSent = `SELECT EXISTS (SELECT 1 FROM notifications WHERE user_id = $1 AND type = $2);`

func (r *NotificationRepo) Sent(ctx context.Context, userID uuid.UUID, typ string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := r.db.Pool.QueryRow(ctx, qNotifSent, userID, typ).Scan(&ok); err != nil {
		return false, fmt.Errorf("lookup notification: %w", err)
	}
	return ok, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

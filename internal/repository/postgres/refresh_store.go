package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/auth"
	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ session.RefreshStore = (*RefreshStore)(nil)

// RefreshStore keeps refresh tokens in the refresh_tokens table keyed by
// their hash. Rows past expires_at read as absent.
type RefreshStore struct {
	db  *DB
	now func() time.Time
}

func NewRefreshStore(db *DB, now func() time.Time) *RefreshStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RefreshStore{db: db, now: now}
}

const (
	qRTPut = `
INSERT INTO refresh_tokens (token_hash, user_id, issued_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (token_hash) DO UPDATE
SET user_id = EXCLUDED.user_id,
    issued_at = EXCLUDED.issued_at,
    expires_at = EXCLUDED.expires_at;`

	qRTGet = `
SELECT user_id
FROM refresh_tokens
WHERE token_hash = $1 AND expires_at > $2;`

	qRTDelete = `DELETE FROM refresh_tokens WHERE token_hash = $1;`

	qRTDeleteExpired = `DELETE FROM refresh_tokens WHERE expires_at <= $1;`
)

func (s *RefreshStore) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return session.ErrInvalidTTL
	}
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	now := s.now()
	if _, err := s.db.Pool.Exec(ctx, qRTPut, auth.HashToken(token), userID, now, now.Add(ttl)); err != nil {
		return fmt.Errorf("put refresh token: %w", err)
	}
	return nil
}

func (s *RefreshStore) Get(ctx context.Context, token string) (uuid.UUID, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var uid uuid.UUID
	if err := s.db.Pool.QueryRow(ctx, qRTGet, auth.HashToken(token), s.now()).Scan(&uid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, session.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("get refresh token: %w", err)
	}
	return uid, nil
}

func (s *RefreshStore) Delete(ctx context.Context, token string) error {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.Pool.Exec(ctx, qRTDelete, auth.HashToken(token)); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpired reclaims rows that already read as absent.
func (s *RefreshStore) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	cmd, err := s.db.Pool.Exec(ctx, qRTDeleteExpired, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (s *RefreshStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

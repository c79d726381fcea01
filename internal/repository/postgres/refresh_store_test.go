package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/NordCoder/Noteboard/internal/auth"
	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshStore_PutGetDelete(t *testing.T) {
	mock, db := newMock(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRefreshStore(db, func() time.Time { return now })
	uid := uuid.New()
	hash := auth.HashToken("raw-token")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs(hash, uid, now, now.Add(7*24*time.Hour)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs(hash, now).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uid))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE token_hash")).
		WithArgs(hash).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs(hash, now).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "raw-token", uid, 7*24*time.Hour))

	got, err := store.Get(ctx, "raw-token")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	require.NoError(t, store.Delete(ctx, "raw-token"))

	_, err = store.Get(ctx, "raw-token")
	assert.ErrorIs(t, err, session.ErrTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshStore_RejectsNonPositiveTTL(t *testing.T) {
	_, db := newMock(t)
	err := NewRefreshStore(db, nil).Put(context.Background(), "x", uuid.New(), 0)
	assert.ErrorIs(t, err, session.ErrInvalidTTL)
}

func TestRefreshStore_DeleteExpired(t *testing.T) {
	mock, db := newMock(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires_at")).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := NewRefreshStore(db, func() time.Time { return now }).DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/session"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRefreshStore_Expiry(t *testing.T) {
	cfg := LoadCfg()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pg.NewDB(ctx, pg.Config{DSN: cfg.DBDSN, QueryTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	clock := func() time.Time { return now }
	store := pg.NewRefreshStore(db, clock)

	uid := uuid.New()
	raw := "it-" + uuid.NewString()
	require.NoError(t, store.Put(ctx, raw, uid, time.Minute))

	got, err := store.Get(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, raw)
	require.ErrorIs(t, err, session.ErrTokenNotFound)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, store.Delete(ctx, raw))
}

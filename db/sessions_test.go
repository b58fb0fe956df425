package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bancohoras/models"
)

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC()
	sess := models.Session{Token: "tok-1", UserID: 7, ExpiresAt: expires}
	require.NoError(t, store.CreateSession(ctx, sess))

	got, err := store.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.UserID)
	assert.WithinDuration(t, expires, got.ExpiresAt, time.Second)

	require.NoError(t, store.DeleteSession(ctx, "tok-1"))

	_, err = store.GetSession(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTouchSessionExtendsExpiry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	initial := time.Now().Add(time.Hour).UTC()
	require.NoError(t, store.CreateSession(ctx, models.Session{
		Token: "tok-2", UserID: 1, ExpiresAt: initial,
	}))

	extended := initial.Add(24 * time.Hour)
	require.NoError(t, store.TouchSession(ctx, "tok-2", extended))

	got, err := store.GetSession(ctx, "tok-2")
	require.NoError(t, err)
	assert.WithinDuration(t, extended, got.ExpiresAt, time.Second)
}

func TestDeleteExpiredSessions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreateSession(ctx, models.Session{
		Token: "stale", UserID: 1, ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, store.CreateSession(ctx, models.Session{
		Token: "fresh", UserID: 1, ExpiresAt: now.Add(time.Hour),
	}))

	deleted, err := store.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = store.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.GetSession(ctx, "fresh")
	assert.NoError(t, err)
}

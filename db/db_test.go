package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesTables(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"funcionarios", "usuarios", "sessoes"} {
		var count int
		err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpenSeedsDefaultUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("admin123", user.PasswordHash))

	// Opening over an already seeded database must not add a second user.
	var count int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usuarios").Scan(&count))
	require.NoError(t, store.seedAdmin(ctx))
	var after int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usuarios").Scan(&after))
	assert.Equal(t, count, after)
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "postgres", driverFor("postgres://user@host:5432/horas"))
	assert.Equal(t, "postgres", driverFor("postgresql://user@host:5432/horas"))
	assert.Equal(t, "sqlite3", driverFor("./horas.db"))
	assert.Equal(t, "sqlite3", driverFor("file:horas.db?cache=shared"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("mypassword")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("mypassword", hash))
	assert.False(t, CheckPasswordHash("wrongpassword", hash))
}

func TestUsernameUniqueness(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	hash, err := HashPassword("secret")
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "maria", hash)
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "maria", hash)
	assert.Error(t, err)
}

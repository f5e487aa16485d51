package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/pdv/internal/domain"
)

func TestUserStore_CRUD(t *testing.T) {
	store := NewUserStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.CreateUser(ctx, domain.User{Username: "admin", Name: "Admin", PasswordHash: "hash", IsAdmin: true})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.IsAdmin)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.CreateUser(ctx, domain.User{Username: "admin", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = store.CreateUser(ctx, domain.User{Username: "clerk", PasswordHash: "hash"})
	require.NoError(t, err)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)

	admins, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)

	require.NoError(t, store.UpdatePasswordHash(ctx, created.ID, "new-hash"))
	got, err = store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	require.NoError(t, store.DeleteUser(ctx, created.ID))
	_, err = store.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, created.ID), domain.ErrNotFound)
}

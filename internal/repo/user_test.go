package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
)

func TestUserRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)

	got, err := r.Create(context.Background(), domain.User{
		Name:         "Tess Kasten",
		Email:        "tess@example.com",
		PasswordHash: "$2a$04$notarealhashbutitfits",
	})

	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, got.ID)
	assert.Equal(t, "tess@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	user := domain.User{Name: "Tess", Email: "dup@example.com", PasswordHash: "x"}
	_, err := r.Create(ctx, user)
	require.NoError(t, err)

	_, err = r.Create(ctx, user)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "email already registered")
}

func TestUserRepo_GetByEmail(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.User{Name: "Tess", Email: "find@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	got, err := r.GetByEmail(ctx, "find@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)

	_, err := r.GetByEmail(context.Background(), "missing@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

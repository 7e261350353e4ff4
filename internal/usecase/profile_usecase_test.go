package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-ats-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.profiles.SaveCallerProfile(ctx, alice, domain.UserProfile{Name: "  Alice "}))

	t.Run("Owner reads own profile", func(t *testing.T) {
		p, err := f.profiles.GetCallerProfile(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Alice", p.Name)

		p, err = f.profiles.GetProfile(ctx, alice, alice)
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.Name)
	})

	t.Run("Other user cannot read it", func(t *testing.T) {
		_, err := f.profiles.GetProfile(ctx, bob, alice)
		assertUnauthorized(t, err)
	})

	t.Run("Admin reads any profile", func(t *testing.T) {
		p, err := f.profiles.GetProfile(ctx, admin, alice)
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.Name)

		missing, err := f.profiles.GetProfile(ctx, admin, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Guest has no profile access", func(t *testing.T) {
		_, err := f.profiles.GetCallerProfile(ctx, guest)
		assertUnauthorized(t, err)
		_, err = f.profiles.GetProfile(ctx, guest, guest)
		assertUnauthorized(t, err)
		assertUnauthorized(t, f.profiles.SaveCallerProfile(ctx, guest, domain.UserProfile{Name: "G"}))
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, f.profiles.SaveCallerProfile(ctx, alice, domain.UserProfile{Name: "Alice B."}))
		p, _ := f.profiles.GetCallerProfile(ctx, alice)
		assert.Equal(t, "Alice B.", p.Name)
	})

	t.Run("Invalid name is rejected", func(t *testing.T) {
		err := f.profiles.SaveCallerProfile(ctx, alice, domain.UserProfile{Name: "   "})
		assertAppError(t, err, http.StatusBadRequest, nil)
	})
}

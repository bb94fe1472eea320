package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store/storetest"
	"storefront_back_end/internal/utils"
)

func TestSignupAndLogin(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	svc := NewIdentityService(s, "secret", time.Hour)

	res, err := svc.Signup(ctx, "alice", " Alice@Example.com ", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEqual(t, "motdepasse", res.User.Password)

	claims, err := utils.ParseJWT(res.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = svc.Signup(ctx, "alice2", "alice@example.com", "motdepasse")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	logged, err := svc.Login(ctx, "ALICE@example.com", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = svc.Login(ctx, "alice@example.com", "mauvais")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Login(ctx, "inconnu@example.com", "motdepasse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSignupValidation(t *testing.T) {
	svc := NewIdentityService(storetest.Open(t), "secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "a@example.com", "motdepasse")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, err = svc.Signup(ctx, "a", "pas-un-email", "motdepasse")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, err = svc.Signup(ctx, "a", "a@example.com", "court")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestLoginLegacyBcryptAccount(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("ancien-mdp"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.Users().Create(ctx, &models.User{Username: "legacy", Email: "legacy@example.com", Password: string(hash), Role: models.RoleUser}))

	svc := NewIdentityService(s, "secret", time.Hour)
	_, err = svc.Login(ctx, "legacy@example.com", "ancien-mdp")
	require.NoError(t, err)

	// le hash est migré vers argon2id au premier login réussi
	saved, err := s.Users().GetByEmail(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.True(t, utils.IsArgon2Hash(saved.Password))

	_, err = svc.Login(ctx, "legacy@example.com", "ancien-mdp")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "legacy@example.com", "mauvais")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	svc := NewIdentityService(s, "secret", time.Hour)

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "supersecret"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "supersecret"))

	res, err := svc.Login(ctx, "root@example.com", "supersecret")
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin())
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store/storetest"
)

func TestCartAccumulates(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, s, "alice@example.com", models.RoleUser)
	p := storetest.SeedProduct(t, s, "Stylo", "1.50", 1)
	svc := NewCartService(s, nil)

	line, created, err := svc.Add(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, line.Quantity)

	// aucun contrôle de stock à l'ajout
	line, created, err = svc.Add(ctx, user.ID, p.ID, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 7, line.Quantity)

	lines, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Stylo", lines[0].Name)
	assert.Equal(t, "1.50", lines[0].Price.StringFixed(2))
}

func TestCartAddValidation(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, s, "alice@example.com", models.RoleUser)
	p := storetest.SeedProduct(t, s, "Stylo", "1.50", 10)
	svc := NewCartService(s, nil)

	_, _, err := svc.Add(ctx, user.ID, p.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, _, err = svc.Add(ctx, user.ID, p.ID, -3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, _, err = svc.Add(ctx, user.ID, 0, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	_, _, err = svc.Add(ctx, user.ID, 404, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	lines, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartRemove(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, s, "alice@example.com", models.RoleUser)
	p := storetest.SeedProduct(t, s, "Stylo", "1.50", 10)
	svc := NewCartService(s, nil)

	_, _, err := svc.Add(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, user.ID, p.ID))
	assert.ErrorIs(t, svc.Remove(ctx, user.ID, p.ID), apperrors.ErrNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store/storetest"
)

func TestCatalogCreateAndList(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	svc := NewCatalogService(s)

	cat, err := svc.CreateCategory(ctx, "  Maison ")
	require.NoError(t, err)
	assert.Equal(t, "Maison", cat.Name)

	_, err = svc.CreateCategory(ctx, "Maison")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	p := &models.Product{Name: "Lampe de bureau", Price: decimal.RequireFromString("24.90"), StockQuantity: 3, CategoryID: &cat.ID}
	require.NoError(t, svc.CreateProduct(ctx, p))
	require.NoError(t, svc.CreateProduct(ctx, &models.Product{Name: "Tapis", Description: "Grand tapis de salon", Price: decimal.RequireFromString("80")}))

	products, err := svc.ListProducts(ctx, models.ProductFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Maison", products[0].CategoryName)

	products, err = svc.ListProducts(ctx, models.ProductFilter{Search: "SALON"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tapis", products[0].Name)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.90", got.Price.StringFixed(2))

	_, err = svc.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCatalogCreateValidation(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	svc := NewCatalogService(s)
	unknown := uint(42)

	bad := []*models.Product{
		{Name: " ", Price: decimal.RequireFromString("1")},
		{Name: "A", Price: decimal.RequireFromString("-1")},
		{Name: "A", Price: decimal.RequireFromString("1.234")},
		{Name: "A", Price: decimal.RequireFromString("1"), StockQuantity: -1},
		{Name: "A", Price: decimal.RequireFromString("1"), CategoryID: &unknown},
	}
	for _, p := range bad {
		assert.ErrorIs(t, svc.CreateProduct(ctx, p), apperrors.ErrInvalidRequest)
	}
}

func TestCatalogUpdateProduct(t *testing.T) {
	s := storetest.Open(t)
	ctx := context.Background()
	svc := NewCatalogService(s)
	p := storetest.SeedProduct(t, s, "Lampe", "10.00", 5)

	price := decimal.RequireFromString("12.50")
	stock := 9
	before, after, err := svc.UpdateProduct(ctx, p.ID, models.ProductUpdate{Price: &price, StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, "10.00", before.Price.StringFixed(2))
	assert.Equal(t, "12.50", after.Price.StringFixed(2))
	assert.Equal(t, 9, after.StockQuantity)
	assert.Equal(t, "Lampe", after.Name)

	_, _, err = svc.UpdateProduct(ctx, p.ID, models.ProductUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, _, err = svc.UpdateProduct(ctx, 999, models.ProductUpdate{Price: &price})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	negative := -1
	_, _, err = svc.UpdateProduct(ctx, p.ID, models.ProductUpdate{StockQuantity: &negative})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

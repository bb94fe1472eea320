// Package storetest fournit une base SQLite en mémoire migrée, pour les tests
// des services et des handlers.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Open crée une base isolée par test. Une seule connexion : les transactions
// concurrentes sont sérialisées comme le ferait un verrou de ligne.
func Open(t testing.TB) *store.GormStore {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return store.NewGormStore(db)
}

func SeedCategory(t testing.TB, s store.Store, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, s.Categories().Create(context.Background(), c))
	return c
}

func SeedProduct(t testing.TB, s store.Store, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Description:   "Description de " + name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

// SeedUser crée un utilisateur ; le mot de passe n'est pas haché ici
func SeedUser(t testing.TB, s store.Store, email, role string) *models.User {
	t.Helper()
	u := &models.User{Username: email, Email: email, Password: "x", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func Stock(t testing.TB, s store.Store, productID uint) int {
	t.Helper()
	p, err := s.Products().Get(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

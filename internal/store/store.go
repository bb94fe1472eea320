// Package store définit les dépôts relationnels de la boutique et leur
// implémentation GORM. Les services ne dépendent que des interfaces.
package store

import (
	"context"
	"errors"

	"storefront_back_end/internal/models"
)

var (
	ErrNotFound  = errors.New("store: enregistrement introuvable")
	ErrDuplicate = errors.New("store: enregistrement déjà existant")
)

// Store donne accès aux dépôts. Atomic exécute fn dans une transaction unique :
// le Store passé à fn est lié à la transaction, toute erreur annule tout.
type Store interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Carts() CartRepository
	Orders() OrderRepository
	Users() UserRepository
	Reviews() ReviewRepository
	Audit() AuditRepository

	Atomic(ctx context.Context, fn func(tx Store) error) error
}

type ProductRepository interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error)
	// DecrementStock retire qty du stock. Avec guard, la ligne n'est modifiée
	// que si le stock reste >= 0 ; applied=false signifie stock insuffisant.
	DecrementStock(ctx context.Context, id uint, qty int, guard bool) (applied bool, err error)
}

type CategoryRepository interface {
	Get(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
}

type CartRepository interface {
	List(ctx context.Context, userID uint) ([]models.CartLine, error)
	// Add incrémente la ligne existante ou la crée ; created indique une insertion
	Add(ctx context.Context, userID, productID uint, qty int) (line *models.CartLine, created bool, err error)
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) (int64, error)
}

type OrderRepository interface {
	// Create insère la commande seule, sans ses lignes
	Create(ctx context.Context, o *models.Order) error
	AddItem(ctx context.Context, item *models.OrderItem) error
	Get(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
}

type UserRepository interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID uint) ([]models.Review, error)
}

type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
}

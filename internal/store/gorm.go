package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_back_end/internal/models"
)

// GormStore implémente Store au-dessus d'une connexion (ou transaction) GORM
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB expose la connexion sous-jacente (migrations, tests)
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Products() ProductRepository   { return productRepo{db: s.db} }
func (s *GormStore) Categories() CategoryRepository { return categoryRepo{db: s.db} }
func (s *GormStore) Carts() CartRepository         { return cartRepo{db: s.db} }
func (s *GormStore) Orders() OrderRepository       { return orderRepo{db: s.db} }
func (s *GormStore) Users() UserRepository         { return userRepo{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository     { return reviewRepo{db: s.db} }
func (s *GormStore) Audit() AuditRepository        { return auditRepo{db: s.db} }

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// =============================================
// PRODUITS
// =============================================

type productRepo struct{ db *gorm.DB }

func (r productRepo) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).Take(&p, "product_id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("products.*, categories.category_name").
		Joins("LEFT JOIN categories ON categories.category_id = products.category_id")

	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`, like, like)
	}

	products := []models.Product{}
	err := q.Order("products.created_at DESC").Order("products.product_id DESC").Find(&products).Error
	return products, translate(err)
}

func (r productRepo) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r productRepo) Update(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.CategoryID != nil {
		fields["category_id"] = *upd.CategoryID
	}
	if upd.StockQuantity != nil {
		fields["stock_quantity"] = *upd.StockQuantity
	}
	if upd.ImageURL != nil {
		fields["image_url"] = *upd.ImageURL
	}

	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Product{}).
			Where("product_id = ?", id).
			UpdateColumns(fields).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return r.Get(ctx, id)
}

func (r productRepo) DecrementStock(ctx context.Context, id uint, qty int, guard bool) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("product_id = ?", id)
	if guard {
		q = q.Where("stock_quantity >= ?", qty)
	}
	res := q.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// =============================================
// CATÉGORIES
// =============================================

type categoryRepo struct{ db *gorm.DB }

func (r categoryRepo) Get(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Take(&c, "category_id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).Order("category_name").Find(&categories).Error
	return categories, translate(err)
}

func (r categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// =============================================
// PANIER
// =============================================

type cartRepo struct{ db *gorm.DB }

func (r cartRepo) List(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := r.db.WithContext(ctx).Model(&models.CartLine{}).
		Select("shopping_cart.*, products.name, products.price, products.image_url").
		Joins("JOIN products ON products.product_id = shopping_cart.product_id").
		Where("shopping_cart.user_id = ?", userID).
		Order("shopping_cart.cart_id").
		Find(&lines).Error
	return lines, translate(err)
}

func (r cartRepo) Add(ctx context.Context, userID, productID uint, qty int) (*models.CartLine, bool, error) {
	db := r.db.WithContext(ctx)

	var existing models.CartLine
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).Take(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return nil, false, translate(err)
	}

	// L'upsert couvre la course entre deux insertions concurrentes
	line := models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("shopping_cart.quantity + excluded.quantity"),
		}),
	}).Create(&line).Error
	if err != nil {
		return nil, false, translate(err)
	}

	var saved models.CartLine
	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).Take(&saved).Error; err != nil {
		return nil, false, translate(err)
	}
	return &saved, created, nil
}

func (r cartRepo) Remove(ctx context.Context, userID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r cartRepo) Clear(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	return res.RowsAffected, translate(res.Error)
}

// =============================================
// COMMANDES
// =============================================

type orderRepo struct{ db *gorm.DB }

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Select("order_items.*, products.name AS product_name").
		Joins("LEFT JOIN products ON products.product_id = order_items.product_id").
		Order("order_items.order_item_id")
}

func (r orderRepo) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error)
}

func (r orderRepo) AddItem(ctx context.Context, item *models.OrderItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r orderRepo) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Take(&o, "order_id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r orderRepo) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items", preloadItems)
	if filter.UserID != nil {
		q = q.Where("orders.user_id = ?", *filter.UserID)
	} else {
		q = q.Select("orders.*, users.username, users.email").
			Joins("JOIN users ON users.user_id = orders.user_id")
	}

	orders := []models.Order{}
	err := q.Order("orders.created_at DESC").Order("orders.order_id DESC").Find(&orders).Error
	return orders, translate(err)
}

func (r orderRepo) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================
// UTILISATEURS
// =============================================

type userRepo struct{ db *gorm.DB }

func (r userRepo) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Take(&u, "user_id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Take(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r userRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", id).
		UpdateColumn("password", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================
// AVIS
// =============================================

type reviewRepo struct{ db *gorm.DB }

func (r reviewRepo) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

func (r reviewRepo) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.*, users.username").
		Joins("JOIN users ON users.user_id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").Order("reviews.review_id DESC").
		Find(&reviews).Error
	return reviews, translate(err)
}

// =============================================
// AUDIT
// =============================================

type auditRepo struct{ db *gorm.DB }

func (r auditRepo) Record(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r auditRepo) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := r.db.WithContext(ctx).Order("logged_at DESC").Limit(limit).Find(&logs).Error
	return logs, translate(err)
}

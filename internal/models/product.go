package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `json:"product_id" gorm:"column:product_id;primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	CategoryID    *uint           `json:"category_id" gorm:"index"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`

	// Rempli uniquement par les requêtes de listing (jointure categories)
	CategoryName string `json:"category_name,omitempty" gorm:"->;-:migration"`
}

// ProductFilter regroupe les prédicats optionnels du catalogue
type ProductFilter struct {
	CategoryID *uint
	Search     string
}

// ProductUpdate ne contient que les champs modifiables par un admin (nil = inchangé)
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *uint
	StockQuantity *int
	ImageURL      *string
}

// Empty indique qu'aucun champ n'est à modifier
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.CategoryID == nil && u.StockQuantity == nil && u.ImageURL == nil
}

package models

import "github.com/shopspring/decimal"

// CartLine est une ligne du panier : (utilisateur, produit) → quantité
type CartLine struct {
	ID        uint `json:"cart_id" gorm:"column:cart_id;primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int  `json:"quantity" gorm:"not null"`

	// Colonnes jointes depuis products pour l'affichage du panier
	Name     string          `json:"name,omitempty" gorm:"->;-:migration"`
	Price    decimal.Decimal `json:"price" gorm:"->;-:migration"`
	ImageURL string          `json:"image_url,omitempty" gorm:"->;-:migration"`
}

func (CartLine) TableName() string {
	return "shopping_cart"
}

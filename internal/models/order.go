package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Ordre de progression normal d'une commande (cancelled est hors chaîne)
var orderStatusChain = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// ParseOrderStatus accepte la casse et les espaces autour de la valeur
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal : plus aucune transition possible en mode strict
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) rank() int {
	for i, st := range orderStatusChain {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo applique les règles strictes : avancer dans la chaîne,
// ou annuler tant que la commande n'est pas terminée.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return next.rank() > s.rank()
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// MissingFields retourne les champs obligatoires vides
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Order struct {
	ID              uint            `json:"order_id" gorm:"column:order_id;primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json;type:text;not null"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;references:ID"`

	// Vue admin : infos client jointes
	Username string `json:"username,omitempty" gorm:"->;-:migration"`
	Email    string `json:"email,omitempty" gorm:"->;-:migration"`
}

// ItemsTotal recalcule la somme des sous-totaux des lignes
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type OrderItem struct {
	ID                 uint            `json:"order_item_id" gorm:"column:order_item_id;primaryKey"`
	OrderID            uint            `json:"order_id" gorm:"not null;index"`
	ProductID          uint            `json:"product_id" gorm:"not null;index"`
	Quantity           int             `json:"quantity" gorm:"not null"`
	PriceAtTimeOfOrder decimal.Decimal `json:"price_at_time_of_order" gorm:"column:price_at_time_of_order;type:numeric(12,2);not null"`

	ProductName string `json:"product_name,omitempty" gorm:"->;-:migration"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTimeOfOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter : UserID nil = toutes les commandes (vue admin)
type OrderFilter struct {
	UserID *uint
}

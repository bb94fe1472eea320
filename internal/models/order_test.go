package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	s, ok := ParseOrderStatus("  Shipped ")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, s)

	_, ok = ParseOrderStatus("lost")
	assert.False(t, ok)
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("lost"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestShippingAddressMissingFields(t *testing.T) {
	addr := ShippingAddress{Name: "Ada", Street: "1 rue", City: " ", Zip: "75001", Country: "FR"}
	assert.Equal(t, []string{"city", "state"}, addr.MissingFields())

	addr.City, addr.State = "Paris", "IDF"
	assert.Empty(t, addr.MissingFields())
}

func TestOrderItemsTotal(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Quantity: 3, PriceAtTimeOfOrder: decimal.RequireFromString("0.10")},
		{Quantity: 1, PriceAtTimeOfOrder: decimal.RequireFromString("0.20")},
	}}
	assert.True(t, order.ItemsTotal().Equal(decimal.RequireFromString("0.50")))
}

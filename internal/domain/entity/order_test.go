package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []OrderItem {
	return []OrderItem{
		{ProductID: "p1", Name: "Air Max", Image: "/img/1.jpg", Price: 120.5, Quantity: 1, Size: "42"},
		{ProductID: "p2", Name: "Samba", Image: "/img/2.jpg", Price: 99.99, Quantity: 2, Size: "41"},
	}
}

func validAddress() ShippingAddress {
	return ShippingAddress{Address: "1 Main St", City: "Manila", PostalCode: "1000", Country: "PH"}
}

func TestNewOrder_KeepsSubmittedPrices(t *testing.T) {
	order, err := NewOrder("u1", validItems(), validAddress(), 10, 12.34)

	require.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 10.0, order.ItemsPrice)
	assert.Equal(t, 12.34, order.TotalPrice)
	assert.Equal(t, StatusCreated, order.Status())
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Equal(t, 3, order.ItemCount())
}

func TestNewOrder_Invalid(t *testing.T) {
	badItem := validItems()
	badItem[1].Quantity = 0

	tests := []struct {
		name   string
		userID string
		items  []OrderItem
		addr   ShippingAddress
	}{
		{name: "no user", userID: "", items: validItems(), addr: validAddress()},
		{name: "no items", userID: "u1", items: nil, addr: validAddress()},
		{name: "zero quantity", userID: "u1", items: badItem, addr: validAddress()},
		{name: "missing city", userID: "u1", items: validItems(), addr: ShippingAddress{Address: "x", PostalCode: "1", Country: "PH"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.userID, tt.items, tt.addr, 1, 1)
			assert.ErrorIs(t, err, ErrInvalidOrder)
			assert.Nil(t, order)
		})
	}
}

func TestOrder_StatusTransitions(t *testing.T) {
	order, err := NewOrder("u1", validItems(), validAddress(), 1, 1)
	require.NoError(t, err)

	now := time.Now().UTC()
	order.MarkDelivered(now)
	assert.Equal(t, StatusDelivered, order.Status(), "delivery does not require payment")
	assert.False(t, order.IsPaid)

	order.MarkPaid(PaymentResult{ID: "pi_1", Status: "complete"}, now)
	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaymentResult)
	assert.Equal(t, "pi_1", order.PaymentResult.ID)
	assert.Equal(t, StatusDelivered, order.Status())
}

func TestOrder_OwnedBy(t *testing.T) {
	order := &Order{UserID: "u1"}
	assert.True(t, order.OwnedBy("u1"))
	assert.False(t, order.OwnedBy("u2"))
	assert.False(t, (&Order{}).OwnedBy(""))
}

func TestUser_ResetTokenValid(t *testing.T) {
	now := time.Now()
	expires := now.Add(time.Hour)
	u := &User{ResetPasswordToken: "abc", ResetPasswordExpires: &expires}

	assert.True(t, u.ResetTokenValid("abc", now))
	assert.False(t, u.ResetTokenValid("abd", now))
	assert.False(t, u.ResetTokenValid("abc", now.Add(2*time.Hour)))
	assert.False(t, (&User{}).ResetTokenValid("", now))
}

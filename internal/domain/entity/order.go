package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusPaid      OrderStatus = "paid"
	StatusDelivered OrderStatus = "delivered"
)

var ErrInvalidOrder = errors.New("invalid order")

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a ShippingAddress) String() string {
	return strings.Join([]string{a.Address, a.City, a.PostalCode, a.Country}, ", ")
}

// OrderItem is frozen at checkout: later catalog edits do not reach it.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// NewOrder validates a checkout submission. Prices are taken as given and
// never recomputed from the items.
func NewOrder(userID string, items []OrderItem, addr ShippingAddress, itemsPrice, totalPrice float64) (*Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no order items", ErrInvalidOrder)
	}
	for i, item := range items {
		if err := item.validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidOrder, i, err)
		}
	}
	if addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, fmt.Errorf("%w: shipping address is incomplete", ErrInvalidOrder)
	}
	if itemsPrice < 0 || totalPrice < 0 {
		return nil, fmt.Errorf("%w: prices cannot be negative", ErrInvalidOrder)
	}

	now := time.Now().UTC()
	return &Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		ItemsPrice:      itemsPrice,
		TotalPrice:      totalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (i OrderItem) validate() error {
	switch {
	case i.ProductID == "":
		return errors.New("product is required")
	case i.Name == "":
		return errors.New("name is required")
	case i.Image == "":
		return errors.New("image is required")
	case i.Size == "":
		return errors.New("size is required")
	case i.Quantity <= 0:
		return errors.New("quantity must be positive")
	case i.Price < 0:
		return errors.New("price cannot be negative")
	}
	return nil
}

// Status is derived from the flags. An order can be delivered without ever
// having been paid; delivery wins in that case.
func (o *Order) Status() OrderStatus {
	switch {
	case o.IsDelivered:
		return StatusDelivered
	case o.IsPaid:
		return StatusPaid
	default:
		return StatusCreated
	}
}

func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != "" && o.UserID == userID
}

func (o *Order) MarkPaid(result PaymentResult, at time.Time) {
	o.IsPaid = true
	o.PaidAt = &at
	o.PaymentResult = &result
	o.UpdatedAt = at
}

func (o *Order) MarkDelivered(at time.Time) {
	o.IsDelivered = true
	o.DeliveredAt = &at
	o.UpdatedAt = at
}

func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

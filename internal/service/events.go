package service

import (
	"context"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
)

const (
	SubjectOrderCreated   = "order.created"
	SubjectOrderPaid      = "order.paid"
	SubjectOrderDelivered = "order.delivered"
)

type EventPublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

// OrderEvent is the payload published for every order lifecycle change.
type OrderEvent struct {
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	Status     entity.OrderStatus `json:"status"`
	TotalPrice float64            `json:"totalPrice"`
	ItemCount  int                `json:"itemCount"`
	Source     string             `json:"source,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func newOrderEvent(o *entity.Order, source string) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status(),
		TotalPrice: o.TotalPrice,
		ItemCount:  o.ItemCount(),
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}

package repository

import (
	"context"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) (*entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	// MarkPaid sets the paid fields unconditionally and returns the result.
	MarkPaid(ctx context.Context, id string, result entity.PaymentResult, at time.Time) (*entity.Order, error)
	// MarkPaidIfUnpaid sets the paid fields in a single conditional write that
	// only matches unpaid orders. It reports false with a nil error when the
	// order was already paid, and ErrNotFound when it does not exist.
	MarkPaidIfUnpaid(ctx context.Context, id string, result entity.PaymentResult, at time.Time) (bool, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) (*entity.Order, error)
	DeleteAll(ctx context.Context) error
}

package repository

import (
	"context"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) (*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// FindByIDs skips ids that are malformed or unknown.
	FindByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// ProductCache is a read-through cache in front of ProductRepository. Misses
// are reported as ErrNotFound.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, error)
	Set(ctx context.Context, p *entity.Product, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	GetList(ctx context.Context) ([]entity.Product, error)
	SetList(ctx context.Context, products []entity.Product, ttl time.Duration) error
	DeleteList(ctx context.Context) error
	// DeleteAll drops the list and every cached product.
	DeleteAll(ctx context.Context) error
}

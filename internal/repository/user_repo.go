package repository

import (
	"context"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
)

type UserRepository interface {
	// Create stores u and returns it with ID and timestamps set. A taken email
	// yields ErrAlreadyExists.
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	// Update overwrites the mutable fields of u. A taken email yields
	// ErrAlreadyExists.
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

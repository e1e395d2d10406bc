package seed

import (
	"context"
	"fmt"

	"github.com/devhermez/full-stack-sneakup/internal/auth"
	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
)

type Seeder struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    repository.ProductCache
	log      logger.Logger
	hash     func(string) (string, error)
}

// NewSeeder builds a seeder over the given repositories. cache may be nil.
func NewSeeder(
	users repository.UserRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	cache repository.ProductCache,
	log logger.Logger,
) *Seeder {
	return &Seeder{
		users:    users,
		products: products,
		orders:   orders,
		cache:    cache,
		log:      log,
		hash:     auth.HashPassword,
	}
}

// Destroy removes every product, user and order.
func (s *Seeder) Destroy(ctx context.Context) error {
	if err := s.products.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to remove products: %w", err)
	}
	s.log.Info("Existing products removed")

	if err := s.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to remove users: %w", err)
	}
	s.log.Info("Existing users removed")

	if err := s.orders.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to remove orders: %w", err)
	}
	s.log.Info("Existing orders removed")

	if s.cache != nil {
		if err := s.cache.DeleteAll(ctx); err != nil {
			s.log.Warnf("Failed to clear product cache: %v", err)
		}
	}
	return nil
}

// Import replaces all data with the demo catalog and accounts.
func (s *Seeder) Import(ctx context.Context) error {
	if err := s.Destroy(ctx); err != nil {
		return err
	}

	products := DemoProducts()
	for i := range products {
		if _, err := s.products.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", products[i].Name, err)
		}
	}
	s.log.Infof("Inserted %d products", len(products))

	users := DemoUsers()
	for _, u := range users {
		hash, err := s.hash(u.Password)
		if err != nil {
			return err
		}
		_, err = s.users.Create(ctx, &entity.User{
			Name:         u.Name,
			Email:        entity.NormalizeEmail(u.Email),
			PasswordHash: hash,
			Role:         u.Role,
		})
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
		}
	}
	s.log.Infof("Inserted %d users", len(users))
	return nil
}

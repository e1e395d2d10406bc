package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
)

type ImageStore interface {
	Upload(ctx context.Context, originalName, contentType string, body io.Reader, size int64) (string, error)
}

type ProductService interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	Create(ctx context.Context, fields entity.ProductUpdate) (*entity.Product, error)
	Update(ctx context.Context, id string, upd entity.ProductUpdate) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
}

type productService struct {
	productRepo repository.ProductRepository
	cache       repository.ProductCache
	images      ImageStore
	cacheTTL    time.Duration
	log         logger.Logger
}

// NewProductService wires the catalog. cache and images may be nil: reads then
// go straight to the repository and uploads fail with ErrStorageDisabled.
func NewProductService(
	productRepo repository.ProductRepository,
	cache repository.ProductCache,
	images ImageStore,
	cacheTTL time.Duration,
	log logger.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       cache,
		images:      images,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

func (s *productService) List(ctx context.Context) ([]entity.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetList(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Product list cache read failed: %v", err)
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, products, s.cacheTTL); err != nil {
			s.log.Warnf("Failed to cache product list: %v", err)
		}
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*entity.Product, error) {
	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Product cache read failed for %s: %v", id, err)
		}
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p, s.cacheTTL); err != nil {
			s.log.Warnf("Failed to cache product %s: %v", id, err)
		}
	}
	return p, nil
}

func (s *productService) GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, invalid("Invalid or empty ids")
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w", err)
	}
	return products, nil
}

// Create starts from the sample product and overlays whatever fields were sent.
func (s *productService) Create(ctx context.Context, fields entity.ProductUpdate) (*entity.Product, error) {
	p := entity.NewSampleProduct()
	p.Apply(fields)
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate(ctx, "")
	s.log.Infof("Product %s created", created.ID)
	return created, nil
}

func (s *productService) Update(ctx context.Context, id string, upd entity.ProductUpdate) (*entity.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	p.Apply(upd)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	s.log.Infof("Product %s deleted", id)
	return nil
}

func (s *productService) UploadImage(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", ErrStorageDisabled
	}
	url, err := s.images.Upload(ctx, name, contentType, body, size)
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}
	return url, nil
}

func (s *productService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if id != "" {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warnf("Failed to evict product %s from cache: %v", id, err)
		}
	}
	if err := s.cache.DeleteList(ctx); err != nil {
		s.log.Warnf("Failed to evict product list from cache: %v", err)
	}
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Price < 0:
		return invalid("Price cannot be negative")
	case p.Stock < 0:
		return invalid("Stock cannot be negative")
	}
	return nil
}

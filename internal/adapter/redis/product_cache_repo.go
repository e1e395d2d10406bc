package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	productCacheKeyPrefix = "product:"
	productListCacheKey   = "products:all"
	scanBatchSize         = 200
)

type productCacheRepository struct {
	client redis.Cmdable
}

func NewProductCacheRepository(client redis.Cmdable) repository.ProductCache {
	return &productCacheRepository{client: client}
}

func productKey(id string) string {
	return productCacheKeyPrefix + id
}

func (r *productCacheRepository) Get(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := r.getJSON(ctx, productKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productCacheRepository) Set(ctx context.Context, p *entity.Product, ttl time.Duration) error {
	if p == nil || p.ID == "" {
		return errors.New("cannot cache nil product or product with empty id")
	}
	return r.setJSON(ctx, productKey(p.ID), p, ttl)
}

func (r *productCacheRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached product %s: %w", id, err)
	}
	return nil
}

func (r *productCacheRepository) GetList(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.getJSON(ctx, productListCacheKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productCacheRepository) SetList(ctx context.Context, products []entity.Product, ttl time.Duration) error {
	if products == nil {
		products = []entity.Product{}
	}
	return r.setJSON(ctx, productListCacheKey, products, ttl)
}

func (r *productCacheRepository) DeleteList(ctx context.Context) error {
	if err := r.client.Del(ctx, productListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete cached product list: %w", err)
	}
	return nil
}

// DeleteAll drops the cached list and every cached product, scanning the
// product key prefix in batches.
func (r *productCacheRepository) DeleteAll(ctx context.Context) error {
	if err := r.DeleteList(ctx); err != nil {
		return err
	}
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, productCacheKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached products: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached products: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *productCacheRepository) getJSON(ctx context.Context, key string, dst interface{}) error {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		// Corrupt entries are dropped so the next read goes to the database.
		_ = r.client.Del(ctx, key).Err()
		return fmt.Errorf("failed to unmarshal cached %s: %w", key, err)
	}
	return nil
}

func (r *productCacheRepository) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s for cache: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

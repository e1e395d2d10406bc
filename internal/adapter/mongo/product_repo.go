package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productCollectionName = "products"

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{collection: db.Collection(productCollectionName)}
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	doc, err := productFromEntity(p)
	if err != nil {
		return nil, err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc mongoProduct
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return []entity.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *productRepository) find(ctx context.Context, filter bson.M) ([]entity.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]entity.Product, 0, len(docs))
	for i := range docs {
		products = append(products, *docs[i].toEntity())
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) error {
	doc, err := productFromEntity(p)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("%w: empty product id", repository.ErrInvalidID)
	}
	p.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"brand":       doc.Brand,
		"category":    doc.Category,
		"price":       doc.Price,
		"stock":       doc.Stock,
		"images":      doc.Images,
		"sizes":       doc.Sizes,
		"gender":      doc.Gender,
		"updated_at":  p.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := toObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

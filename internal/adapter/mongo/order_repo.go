package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollectionName = "orders"

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database, log logger.Logger) repository.OrderRepository {
	collection := db.Collection(orderCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	index := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		log.Warnf("Failed to ensure indexes for %s collection: %v", orderCollectionName, err)
	}

	return &orderRepository{collection: collection}
}

func (r *orderRepository) Create(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	doc, err := orderFromEntity(o)
	if err != nil {
		return nil, err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc mongoOrder
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	oid, err := toObjectID(userID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user_id": oid})
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoOrder
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}
	orders := make([]entity.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *docs[i].toEntity())
	}
	return orders, nil
}

func paidUpdate(result entity.PaymentResult, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"is_paid":        true,
		"paid_at":        at,
		"payment_result": paymentResultFromEntity(result),
		"updated_at":     at,
	}}
}

func (r *orderRepository) MarkPaid(ctx context.Context, id string, result entity.PaymentResult, at time.Time) (*entity.Order, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, oid, paidUpdate(result, at))
}

func (r *orderRepository) MarkPaidIfUnpaid(ctx context.Context, id string, result entity.PaymentResult, at time.Time) (bool, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return false, err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "is_paid": false}, paidUpdate(result, at))
	if err != nil {
		return false, fmt.Errorf("failed to mark order %s paid: %w", id, err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to check order %s: %w", id, err)
	}
	if count == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *orderRepository) MarkDelivered(ctx context.Context, id string, at time.Time) (*entity.Order, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"is_delivered": true,
		"delivered_at": at,
		"updated_at":   at,
	}}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *orderRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*entity.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoOrder
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update order %s: %w", oid.Hex(), err)
	}
	return doc.toEntity(), nil
}

func (r *orderRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

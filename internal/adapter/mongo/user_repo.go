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

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewUserRepository(db *mongo.Database, log logger.Logger) repository.UserRepository {
	collection := db.Collection(userCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reset_password_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("Failed to ensure indexes for %s collection: %v", userCollectionName, err)
	}

	return &userRepository{
		collection: collection,
		log:        log.With("repository", "users"),
	}
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	doc, err := userFromEntity(u)
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
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email %s: %w", doc.Email, repository.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": entity.NormalizeEmail(email)})
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"reset_password_token": token})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc mongoUser
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return []entity.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *userRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.User, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cursor, err := r.collection.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]entity.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toEntity())
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *entity.User) error {
	oid, err := toObjectID(u.ID)
	if err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"name":       u.Name,
		"email":      u.Email,
		"password":   u.PasswordHash,
		"role":       string(u.Role),
		"updated_at": u.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if u.ResetPasswordToken == "" {
		update["$unset"] = bson.M{"reset_password_token": "", "reset_password_expires": ""}
	} else {
		set["reset_password_token"] = u.ResetPasswordToken
		set["reset_password_expires"] = u.ResetPasswordExpires
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %s: %w", u.Email, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	oid, err := toObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteAll(ctx context.Context) error {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	r.log.Infof("Removed %d users", res.DeletedCount)
	return nil
}

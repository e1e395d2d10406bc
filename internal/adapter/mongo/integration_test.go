//go:build integration

package mongo

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("sneakup_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func newTestOrder(t *testing.T, repo repository.OrderRepository) *entity.Order {
	t.Helper()
	order, err := entity.NewOrder(
		primitive.NewObjectID().Hex(),
		[]entity.OrderItem{{ProductID: primitive.NewObjectID().Hex(), Name: "Air Max", Image: "/a.jpg", Price: 120, Quantity: 1, Size: "42"}},
		entity.ShippingAddress{Address: "1 Main", City: "Manila", PostalCode: "1000", Country: "PH"},
		120, 125,
	)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestOrderRepository_MarkPaidIfUnpaid_SingleTransition(t *testing.T) {
	repo := NewOrderRepository(testDB, logger.NewNop())
	order := newTestOrder(t, repo)

	const deliveries = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		transitions int
	)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkPaidIfUnpaid(context.Background(), order.ID, entity.PaymentResult{ID: "pi_1", Status: "complete"}, time.Now().UTC())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transitions)
	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
	require.NotNil(t, stored.PaymentResult)
	assert.Equal(t, "pi_1", stored.PaymentResult.ID)
	assert.Equal(t, 125.0, stored.TotalPrice)
}

func TestOrderRepository_MarkPaidIfUnpaid_Missing(t *testing.T) {
	repo := NewOrderRepository(testDB, logger.NewNop())
	ok, err := repo.MarkPaidIfUnpaid(context.Background(), primitive.NewObjectID().Hex(), entity.PaymentResult{}, time.Now())
	assert.False(t, ok)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepository_MarkDelivered_Unpaid(t *testing.T) {
	repo := NewOrderRepository(testDB, logger.NewNop())
	order := newTestOrder(t, repo)

	delivered, err := repo.MarkDelivered(context.Background(), order.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	assert.False(t, delivered.IsPaid)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testDB, logger.NewNop())
	ctx := context.Background()
	email := fmt.Sprintf("dup-%d@sneakup.com", time.Now().UnixNano())

	_, err := repo.Create(ctx, &entity.User{Name: "First", Email: email, PasswordHash: "x", Role: entity.RoleUser})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &entity.User{Name: "Second", Email: email, PasswordHash: "y", Role: entity.RoleUser})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
}

func TestProductRepository_FindByIDs(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	a, err := repo.Create(ctx, &entity.Product{Name: "A", Price: 10})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &entity.Product{Name: "B", Price: 20})
	require.NoError(t, err)

	got, err := repo.FindByIDs(ctx, []string{a.ID, "garbage", b.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

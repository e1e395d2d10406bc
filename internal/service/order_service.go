package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/platform/metrics"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/devhermez/full-stack-sneakup/internal/service"

type CreateOrderInput struct {
	Items           []entity.OrderItem
	ShippingAddress entity.ShippingAddress
	ItemsPrice      float64
	TotalPrice      float64
}

// OrderItemDetails replaces the bare product id with the product's name and
// price when an order is read back.
type OrderItemDetails struct {
	entity.OrderItem
	Product entity.ProductSummary `json:"product"`
}

// OrderDetails is an order with its owner and products attached.
type OrderDetails struct {
	entity.Order
	User  entity.UserSummary `json:"user"`
	Items []OrderItemDetails `json:"orderItems"`
}

type OrderService interface {
	Create(ctx context.Context, user *entity.User, in CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, requester *entity.User, id string) (*OrderDetails, error)
	ListMine(ctx context.Context, user *entity.User) ([]OrderDetails, error)
	ListAll(ctx context.Context) ([]OrderDetails, error)
	MarkDelivered(ctx context.Context, id string) (*entity.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	publisher   EventPublisher
	notifier    Notifier
	metrics     *metrics.MetricsManager
	log         logger.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	notifier Notifier,
	m *metrics.MetricsManager,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		publisher:   publisher,
		notifier:    notifier,
		metrics:     m,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) Create(ctx context.Context, user *entity.User, in CreateOrderInput) (*entity.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "OrderService.Create")
	defer span.End()

	if len(in.Items) == 0 {
		return nil, invalid("No order items")
	}

	order, err := entity.NewOrder(user.ID, in.Items, in.ShippingAddress, in.ItemsPrice, in.TotalPrice)
	if err != nil {
		return nil, invalid(err.Error())
	}

	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order")
		s.log.Errorf("Failed to save order for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", created.ID))

	s.metrics.OrdersCreatedTotal.Inc()
	s.publish(ctx, SubjectOrderCreated, created, "")
	s.notifier.OrderPlaced(*user, *created)

	s.log.Infof("Order %s placed by user %s", created.ID, user.ID)
	return created, nil
}

func (s *orderService) getOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return order, nil
}

func (s *orderService) Get(ctx context.Context, requester *entity.User, id string) (*OrderDetails, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !order.OwnedBy(requester.ID) {
		s.log.Warnf("User %s attempted to read order %s owned by %s", requester.ID, id, order.UserID)
		return nil, ErrForbidden
	}

	details, err := s.attach(ctx, []entity.Order{*order})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *orderService) ListMine(ctx context.Context, user *entity.User) ([]OrderDetails, error) {
	orders, err := s.orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", user.ID, err)
	}
	return s.attach(ctx, orders)
}

func (s *orderService) ListAll(ctx context.Context) ([]OrderDetails, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.attach(ctx, orders)
}

func (s *orderService) MarkDelivered(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "OrderService.MarkDelivered")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	order, err := s.orderRepo.MarkDelivered(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to mark order %s delivered: %w", id, err)
	}

	s.metrics.OrdersDeliveredTotal.Inc()
	s.publish(ctx, SubjectOrderDelivered, order, "")
	s.log.Infof("Order %s marked delivered", id)
	return order, nil
}

// attach joins user and product summaries onto orders with one lookup per
// collection. Records deleted since the order was placed keep only their id.
func (s *orderService) attach(ctx context.Context, orders []entity.Order) ([]OrderDetails, error) {
	userIDs := make([]string, 0, len(orders))
	var productIDs []string
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, item := range o.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	users := make(map[string]entity.UserSummary)
	if len(userIDs) > 0 {
		found, err := s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load order owners: %w", err)
		}
		for i := range found {
			users[found[i].ID] = found[i].Summary()
		}
	}

	products := make(map[string]entity.ProductSummary)
	if len(productIDs) > 0 {
		found, err := s.productRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load order products: %w", err)
		}
		for _, p := range found {
			products[p.ID] = entity.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price}
		}
	}

	out := make([]OrderDetails, len(orders))
	for i, o := range orders {
		user, ok := users[o.UserID]
		if !ok {
			user = entity.UserSummary{ID: o.UserID}
		}
		items := make([]OrderItemDetails, len(o.Items))
		for j, item := range o.Items {
			product, ok := products[item.ProductID]
			if !ok {
				product = entity.ProductSummary{ID: item.ProductID}
			}
			items[j] = OrderItemDetails{OrderItem: item, Product: product}
		}
		out[i] = OrderDetails{Order: o, User: user, Items: items}
	}
	return out, nil
}

// publish never fails the caller; the order is already stored.
func (s *orderService) publish(ctx context.Context, subject string, o *entity.Order, source string) {
	if err := s.publisher.Publish(ctx, subject, newOrderEvent(o, source)); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", subject, o.ID, err)
	}
}

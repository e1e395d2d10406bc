package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/platform/metrics"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const noteAlreadyPaid = "already paid"

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*entity.PaymentEvent, error)
}

// WebhookAck is the body returned to the payment provider once an event has
// been verified.
type WebhookAck struct {
	Received bool   `json:"received"`
	Note     string `json:"note,omitempty"`
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, requester *entity.User, orderID string) (*entity.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookAck, error)
	MarkPaid(ctx context.Context, orderID string, result entity.PaymentResult) (*entity.Order, error)
}

type paymentService struct {
	orderRepo repository.OrderRepository
	gateway   PaymentGateway
	publisher EventPublisher
	clientURL string
	metrics   *metrics.MetricsManager
	log       logger.Logger
	now       func() time.Time
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
	clientURL string,
	m *metrics.MetricsManager,
	log logger.Logger,
) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		publisher: publisher,
		clientURL: strings.TrimRight(clientURL, "/"),
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, requester *entity.User, orderID string) (*entity.CheckoutSession, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PaymentService.CreateCheckoutSession")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if !order.OwnedBy(requester.ID) {
		s.log.Warnf("User %s attempted checkout for order %s owned by %s", requester.ID, orderID, order.UserID)
		return nil, ErrForbidden
	}
	if order.IsPaid {
		return nil, invalid("Order is already paid")
	}

	req := entity.CheckoutRequest{
		OrderID:       order.ID,
		CustomerEmail: requester.Email,
		Items:         make([]entity.CheckoutLineItem, len(order.Items)),
		SuccessURL:    fmt.Sprintf("%s/order/%s?success=true", s.clientURL, order.ID),
		CancelURL:     s.clientURL + "/placeorder?canceled=true",
	}
	for i, item := range order.Items {
		req.Items[i] = entity.CheckoutLineItem{
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		}
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout session")
		s.log.Errorf("Failed to create checkout session for order %s: %v", orderID, err)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	s.log.Infof("Checkout session %s created for order %s", sess.ID, orderID)
	return sess, nil
}

// HandleWebhook verifies and applies a provider event. Only verification
// failures are returned as errors; anything that goes wrong afterwards is
// logged and still acknowledged so the provider does not retry forever.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookAck, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PaymentService.HandleWebhook")
	defer span.End()

	event, err := s.gateway.ParseWebhook(payload, signature)
	if errors.Is(err, entity.ErrMalformedEvent) {
		// Verified but undecodable: a retry would fail the same way.
		s.metrics.WebhookEventsTotal.WithLabelValues(entity.EventCheckoutCompleted, "error").Inc()
		span.RecordError(err)
		s.log.Errorf("Acknowledging undecodable payment webhook: %v", err)
		return &WebhookAck{Received: true}, nil
	}
	if err != nil {
		s.metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		s.log.Warnf("Rejected payment webhook: %v", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("event.type", event.Type), attribute.String("event.id", event.ID))

	if event.Type != entity.EventCheckoutCompleted {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		return &WebhookAck{Received: true}, nil
	}
	if event.OrderID == "" {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		s.log.Errorf("Checkout event %s carries no order id", event.ID)
		return &WebhookAck{Received: true}, nil
	}

	status := event.Status
	if status == "" {
		status = "completed"
	}
	now := s.now()
	result := entity.PaymentResult{
		ID:           event.PaymentIntentID,
		Status:       status,
		UpdateTime:   now.Format(time.RFC3339),
		EmailAddress: event.CustomerEmail,
	}

	transitioned, err := s.orderRepo.MarkPaidIfUnpaid(ctx, event.OrderID, result, now)
	if err != nil {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		span.RecordError(err)
		s.log.Errorf("Failed to mark order %s paid from event %s: %v", event.OrderID, event.ID, err)
		return &WebhookAck{Received: true}, nil
	}
	if !transitioned {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		s.log.Infof("Order %s already paid, ignoring event %s", event.OrderID, event.ID)
		return &WebhookAck{Received: true, Note: noteAlreadyPaid}, nil
	}

	s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "processed").Inc()
	s.metrics.OrdersPaidTotal.WithLabelValues(metrics.SourceWebhook).Inc()
	s.publishPaid(ctx, event.OrderID, metrics.SourceWebhook, now)
	s.log.Infof("Order %s paid via checkout session %s", event.OrderID, event.SessionID)
	return &WebhookAck{Received: true}, nil
}

// MarkPaid is the admin override: it sets the payment fields whatever the
// order's current state.
func (s *paymentService) MarkPaid(ctx context.Context, orderID string, result entity.PaymentResult) (*entity.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "PaymentService.MarkPaid")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	now := s.now()
	if result.UpdateTime == "" {
		result.UpdateTime = now.Format(time.RFC3339)
	}
	order, err := s.orderRepo.MarkPaid(ctx, orderID, result, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}

	s.metrics.OrdersPaidTotal.WithLabelValues(metrics.SourceManual).Inc()
	if err := s.publisher.Publish(ctx, SubjectOrderPaid, newOrderEvent(order, metrics.SourceManual)); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", SubjectOrderPaid, orderID, err)
	}
	s.log.Infof("Order %s marked paid manually", orderID)
	return order, nil
}

func (s *paymentService) publishPaid(ctx context.Context, orderID, source string, at time.Time) {
	evt := OrderEvent{OrderID: orderID, Status: entity.StatusPaid, Source: source, OccurredAt: at}
	if order, err := s.orderRepo.GetByID(ctx, orderID); err == nil {
		evt = newOrderEvent(order, source)
	} else {
		s.log.Warnf("Failed to reload paid order %s for event: %v", orderID, err)
	}
	if err := s.publisher.Publish(ctx, SubjectOrderPaid, evt); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", SubjectOrderPaid, orderID, err)
	}
}

package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	msgOrderNotFound = "Order not found"
	msgNoOrderItems  = "No order items"
	maxWebhookBody   = 64 << 10
)

type OrderHandler struct {
	orders   service.OrderService
	payments service.PaymentService
	log      logger.Logger
}

func NewOrderHandler(orders service.OrderService, payments service.PaymentService, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments, log: log}
}

type orderItemRequest struct {
	Product  string  `json:"product" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Image    string  `json:"image" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Size     string  `json:"size" validate:"required"`
}

type shippingAddressRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// createOrderRequest is checked for empty items before field validation so
// an empty cart reports that ahead of any address error.
type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems" validate:"dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	ItemsPrice      float64                `json:"itemsPrice" validate:"gte=0"`
	TotalPrice      float64                `json:"totalPrice" validate:"gte=0"`
}

type payOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	err := readJSON(r, &req)
	if err == nil && len(req.OrderItems) == 0 {
		err = badRequest(msgNoOrderItems)
	}
	if err == nil {
		err = validateStruct(&req)
	}
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}

	items := make([]entity.OrderItem, len(req.OrderItems))
	for i, it := range req.OrderItems {
		items[i] = entity.OrderItem{
			ProductID: it.Product,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
		}
	}

	order, err := h.orders.Create(r.Context(), currentUser(r), service.CreateOrderInput{
		Items: items,
		ShippingAddress: entity.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		ItemsPrice: req.ItemsPrice,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListMine(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	if orders == nil {
		orders = []service.OrderDetails{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	if orders == nil {
		orders = []service.OrderDetails{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	order, err := h.payments.MarkPaid(r.Context(), chi.URLParam(r, "id"), entity.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkDelivered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, msgOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.payments.CreateCheckoutSession(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		var verr *service.ValidationError
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) || errors.As(err, &verr) {
			respondError(w, h.log, err, msgOrderNotFound)
			return
		}
		h.log.Errorf("Checkout session failed: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse{URL: sess.URL})
}

// Webhook must see the body exactly as sent: the signature covers the raw
// bytes.
func (h *OrderHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Webhook Error: unreadable body")
		return
	}

	ack, err := h.payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrPaymentNotConfigured):
			respondMessage(w, http.StatusBadRequest, "Webhook Error: webhook secret not configured")
		case errors.Is(err, entity.ErrInvalidSignature):
			respondMessage(w, http.StatusBadRequest, "Webhook Error: signature verification failed")
		default:
			h.log.Errorf("Webhook handling failed: %v", err)
			respondMessage(w, http.StatusBadRequest, "Webhook Error")
		}
		return
	}
	respondJSON(w, http.StatusOK, ack)
}

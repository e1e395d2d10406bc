package stripe

import (
	"context"
	"testing"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

const completedEvent = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "api_version": "2025-03-31.basil",
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "payment_intent": "pi_123",
      "status": "complete",
      "customer_email": "buyer@example.com",
      "metadata": {"orderId": "64b7f0c2a1b2c3d4e5f60718"}
    }
  }
}`

func sign(t *testing.T, payload, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{price: 0, want: 0},
		{price: 19.99, want: 1999},
		{price: 120, want: 12000},
		{price: 0.1 + 0.2, want: 30},
		{price: 4.005, want: 401},
		{price: 89.995, want: 9000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.price), "price %v", tt.price)
	}
}

func TestGateway_ParseWebhook_Completed(t *testing.T) {
	g := NewGateway(config.StripeConfig{WebhookSecret: testWebhookSecret})

	event, err := g.ParseWebhook([]byte(completedEvent), sign(t, completedEvent, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, entity.EventCheckoutCompleted, event.Type)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", event.OrderID)
	assert.Equal(t, "pi_123", event.PaymentIntentID)
	assert.Equal(t, "complete", event.Status)
	assert.Equal(t, "buyer@example.com", event.CustomerEmail)
	assert.Equal(t, "cs_test_1", event.SessionID)
}

func TestGateway_ParseWebhook_OtherEventType(t *testing.T) {
	g := NewGateway(config.StripeConfig{WebhookSecret: testWebhookSecret})
	payload := `{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`

	event, err := g.ParseWebhook([]byte(payload), sign(t, payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", event.Type)
	assert.Empty(t, event.OrderID)
}

func TestGateway_ParseWebhook_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		signature string
		wantErr   error
	}{
		{name: "secret not configured", secret: "", signature: "t=1,v1=abc", wantErr: entity.ErrPaymentNotConfigured},
		{name: "missing signature", secret: testWebhookSecret, signature: "", wantErr: entity.ErrInvalidSignature},
		{name: "garbage signature", secret: testWebhookSecret, signature: "t=1,v1=deadbeef", wantErr: entity.ErrInvalidSignature},
		{name: "signed with another secret", secret: testWebhookSecret, signature: "", wantErr: entity.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.signature
			if tt.name == "signed with another secret" {
				sig = sign(t, completedEvent, "whsec_other")
			}
			g := NewGateway(config.StripeConfig{WebhookSecret: tt.secret})
			event, err := g.ParseWebhook([]byte(completedEvent), sig)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, event)
		})
	}
}

func TestGateway_ParseWebhook_TamperedPayload(t *testing.T) {
	g := NewGateway(config.StripeConfig{WebhookSecret: testWebhookSecret})
	sig := sign(t, completedEvent, testWebhookSecret)
	tampered := []byte(completedEvent[:len(completedEvent)-2] + " }")

	_, err := g.ParseWebhook(tampered, sig)
	assert.ErrorIs(t, err, entity.ErrInvalidSignature)
}

func TestGateway_ParseWebhook_UndecodableSession(t *testing.T) {
	g := NewGateway(config.StripeConfig{WebhookSecret: testWebhookSecret})
	payload := `{"id":"evt_4","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_4","object":"checkout.session","metadata":"not-a-map"}}}`

	event, err := g.ParseWebhook([]byte(payload), sign(t, payload, testWebhookSecret))
	assert.ErrorIs(t, err, entity.ErrMalformedEvent)
	assert.NotErrorIs(t, err, entity.ErrInvalidSignature)
	assert.Nil(t, event)
}

func TestGateway_BuildParams(t *testing.T) {
	g := NewGateway(config.StripeConfig{})
	params := g.buildParams(entity.CheckoutRequest{
		OrderID:       "o1",
		CustomerEmail: "buyer@example.com",
		Items: []entity.CheckoutLineItem{
			{Name: "Air Max", Image: "/images/airmax.jpg", UnitPrice: 129.99, Quantity: 2},
			{Name: "Samba", Image: "https://cdn.example.com/samba.jpg", UnitPrice: 90, Quantity: 1},
		},
		SuccessURL: "http://localhost:5173/order/o1?success=true",
		CancelURL:  "http://localhost:5173/placeorder?canceled=true",
	})

	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "buyer@example.com", *params.CustomerEmail)
	assert.Equal(t, "http://localhost:5173/order/o1?success=true", *params.SuccessURL)
	assert.Equal(t, "http://localhost:5173/placeorder?canceled=true", *params.CancelURL)
	assert.Equal(t, "o1", params.Metadata["orderId"])

	require.Len(t, params.LineItems, 2)
	first := params.LineItems[0]
	assert.Equal(t, int64(12999), *first.PriceData.UnitAmount)
	assert.Equal(t, int64(2), *first.Quantity)
	assert.Equal(t, "usd", *first.PriceData.Currency)
	assert.Empty(t, first.PriceData.ProductData.Images)
	assert.Len(t, params.LineItems[1].PriceData.ProductData.Images, 1)
}

func TestGateway_CreateCheckoutSession_NotConfigured(t *testing.T) {
	g := NewGateway(config.StripeConfig{})
	_, err := g.CreateCheckoutSession(context.Background(), entity.CheckoutRequest{OrderID: "o1"})
	assert.ErrorIs(t, err, entity.ErrPaymentNotConfigured)
}

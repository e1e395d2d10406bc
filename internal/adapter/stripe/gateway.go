package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

const orderIDMetadataKey = "orderId"

type Gateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

func NewGateway(cfg config.StripeConfig) *Gateway {
	g := &Gateway{
		webhookSecret: cfg.WebhookSecret,
		currency:      strings.ToLower(cfg.Currency),
	}
	if g.currency == "" {
		g.currency = "usd"
	}
	if cfg.SecretKey != "" {
		g.api = client.New(cfg.SecretKey, nil)
	}
	return g
}

// ToMinorUnits converts a decimal price to integer cents, rounding half away
// from zero.
func ToMinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}

func (g *Gateway) buildParams(req entity.CheckoutRequest) *stripego.CheckoutSessionParams {
	lineItems := make([]*stripego.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		product := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(item.Name),
		}
		// The provider only accepts absolute image URLs.
		if strings.HasPrefix(item.Image, "http://") || strings.HasPrefix(item.Image, "https://") {
			product.Images = stripego.StringSlice([]string{item.Image})
		}
		lineItems = append(lineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(g.currency),
				ProductData: product,
				UnitAmount:  stripego.Int64(ToMinorUnits(item.UnitPrice)),
			},
			Quantity: stripego.Int64(int64(item.Quantity)),
		})
	}

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripego.String(req.SuccessURL),
		CancelURL:          stripego.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(req.CustomerEmail)
	}
	params.AddMetadata(orderIDMetadataKey, req.OrderID)
	return params
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if g.api == nil {
		return nil, entity.ErrPaymentNotConfigured
	}

	params := g.buildParams(req)
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("stripe checkout session (%s): %s: %w", stripeErr.Code, stripeErr.Msg, err)
		}
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("stripe checkout session %s has no redirect url", sess.ID)
	}
	return &entity.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies the signature header against the webhook secret and
// decodes the event. Nothing in the payload is trusted before verification.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*entity.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, entity.ErrPaymentNotConfigured
	}
	if signature == "" {
		return nil, fmt.Errorf("%w: missing signature header", entity.ErrInvalidSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidSignature, err)
	}

	out := &entity.PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != entity.EventCheckoutCompleted || event.Data == nil {
		return out, nil
	}

	var sess stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: checkout session in event %s: %v", entity.ErrMalformedEvent, event.ID, err)
	}
	out.SessionID = sess.ID
	out.OrderID = sess.Metadata[orderIDMetadataKey]
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	out.Status = string(sess.Status)
	out.CustomerEmail = sess.CustomerEmail
	if out.CustomerEmail == "" && sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	return out, nil
}

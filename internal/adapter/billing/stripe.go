// Package billing implements the payment gateway with Stripe.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const metadataUserID = "userId"

var _ usecase.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway creates subscription checkouts and reads subscription state.
type StripeGateway struct {
	api     *client.API
	priceID string
	logger  *logrus.Logger
}

// NewPaymentGateway returns a nil gateway when no secret key is
// configured, which leaves billing disabled.
func NewPaymentGateway(cfg *config.Config, logger *logrus.Logger) usecase.PaymentGateway {
	key := strings.TrimSpace(cfg.Billing.StripeKey)
	if key == "" {
		return nil
	}
	return NewStripeGateway(key, cfg.Billing.PriceID, nil, logger)
}

// NewStripeGateway builds a gateway for one price. nil backends use the
// library defaults.
func NewStripeGateway(key, priceID string, backends *stripe.Backends, logger *logrus.Logger) *StripeGateway {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StripeGateway{
		api:     client.New(key, backends),
		priceID: priceID,
		logger:  logger,
	}
}

// CreateCheckout finds or creates the customer by email and opens a hosted
// subscription checkout for the configured price.
func (g *StripeGateway) CreateCheckout(ctx context.Context, account entity.Account, successURL, cancelURL string) (*entity.CheckoutSession, error) {
	if g.priceID == "" {
		return nil, fmt.Errorf("%w: price id not set", entity.ErrBillingUnavailable)
	}
	customerID, err := g.findCustomer(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		params := &stripe.CustomerParams{Email: stripe.String(account.Email)}
		params.Context = ctx
		params.AddMetadata(metadataUserID, account.UserID)
		customer, err := g.api.Customers.New(params)
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		customerID = customer.ID
		g.logger.WithField("customer_id", customerID).Info("created billing customer")
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(g.priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, account.UserID)
	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &entity.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// SubscriptionStatus reports the customer's first active subscription.
func (g *StripeGateway) SubscriptionStatus(ctx context.Context, account entity.Account) (*entity.SubscriptionStatus, error) {
	customerID, err := g.findCustomer(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return &entity.SubscriptionStatus{}, nil
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true
	iter := g.api.Subscriptions.List(params)
	if !iter.Next() {
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		return &entity.SubscriptionStatus{}, nil
	}

	sub := iter.Subscription()
	status := &entity.SubscriptionStatus{Subscribed: true}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		status.SubscriptionEnd = &end
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		status.PriceID = price.ID
		if price.Product != nil {
			status.ProductID = price.Product.ID
		}
	}
	return status, nil
}

func (g *StripeGateway) findCustomer(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", entity.ErrMissingEmail
	}
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true
	iter := g.api.Customers.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}
	return "", nil
}

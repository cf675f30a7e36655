package usecase

import (
	"context"

	"github.com/eslsoft/lingolive/internal/entity"
)

// Tutor produces the assistant side of a conversation turn.
type Tutor interface {
	Reply(ctx context.Context, req entity.TutorRequest) (*entity.TutorReply, error)
}

// PaymentGateway talks to the payment processor.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, account entity.Account, successURL, cancelURL string) (*entity.CheckoutSession, error)
	SubscriptionStatus(ctx context.Context, account entity.Account) (*entity.SubscriptionStatus, error)
}

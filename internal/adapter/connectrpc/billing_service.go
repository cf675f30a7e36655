package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const BillingServiceName = "lingolive.v1.BillingService"

type CreateCheckoutRequest struct {
	Origin string `json:"origin"`
}

type BillingService struct {
	uc usecase.BillingUsecase
}

func NewBillingService(uc usecase.BillingUsecase) *BillingService {
	return &BillingService{uc: uc}
}

func (s *BillingService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unaryRequest(procedure(BillingServiceName, "CreateCheckout"), s.CreateCheckout, opts...),
		unary(procedure(BillingServiceName, "CheckSubscription"), s.CheckSubscription, opts...),
	}
}

// CreateCheckout uses the request's Origin header when the body names none.
func (s *BillingService) CreateCheckout(ctx context.Context, req *connect.Request[CreateCheckoutRequest]) (*entity.CheckoutSession, error) {
	account, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}
	origin := req.Msg.Origin
	if origin == "" {
		origin = req.Header().Get("Origin")
	}
	return s.uc.Checkout(ctx, account, origin)
}

func (s *BillingService) CheckSubscription(ctx context.Context, _ *Empty) (*entity.SubscriptionStatus, error) {
	account, err := callerAccount(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Check(ctx, account)
}

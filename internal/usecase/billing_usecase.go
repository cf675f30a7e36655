package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

// BillingUsecase starts checkouts and reconciles premium status.
type BillingUsecase interface {
	Checkout(ctx context.Context, account entity.Account, origin string) (*entity.CheckoutSession, error)
	// Check queries the payment processor and upgrades the learner when an
	// active subscription exists.
	Check(ctx context.Context, account entity.Account) (*entity.SubscriptionStatus, error)
}

// NewBillingUsecase wires the payment gateway. gateway may be nil when
// billing is not configured.
func NewBillingUsecase(gateway PaymentGateway, sessions SessionRegistry, profiles repository.ProfileRepository, defaultOrigin string, logger *logrus.Logger) BillingUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &billingUsecase{
		gateway:       gateway,
		sessions:      sessions,
		profiles:      profiles,
		defaultOrigin: strings.TrimRight(defaultOrigin, "/"),
		logger:        logger,
	}
}

type billingUsecase struct {
	gateway       PaymentGateway
	sessions      SessionRegistry
	profiles      repository.ProfileRepository
	defaultOrigin string
	logger        *logrus.Logger
}

func (u *billingUsecase) Checkout(ctx context.Context, account entity.Account, origin string) (*entity.CheckoutSession, error) {
	if account.UserID == "" {
		return nil, entity.ErrUnauthenticated
	}
	if strings.TrimSpace(account.Email) == "" {
		return nil, entity.ErrMissingEmail
	}
	if u.gateway == nil {
		return nil, entity.ErrBillingUnavailable
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = u.defaultOrigin
	}
	success := origin + "/dashboard?payment=success"
	cancel := origin + "/pricing?payment=canceled"
	return u.gateway.CreateCheckout(ctx, account, success, cancel)
}

func (u *billingUsecase) Check(ctx context.Context, account entity.Account) (*entity.SubscriptionStatus, error) {
	if account.UserID == "" {
		return nil, entity.ErrUnauthenticated
	}
	if strings.TrimSpace(account.Email) == "" {
		return nil, entity.ErrMissingEmail
	}
	if u.gateway == nil {
		return nil, entity.ErrBillingUnavailable
	}
	status, err := u.gateway.SubscriptionStatus(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("subscription status: %w", err)
	}
	if !status.Subscribed {
		return status, nil
	}

	st, err := u.sessions.Open(ctx, account.UserID)
	if err != nil {
		return nil, err
	}
	if !st.Progress().IsPremium {
		st.UpgradeToPremium()
		if err := u.sessions.Save(ctx, account.UserID); err != nil {
			return nil, err
		}
	}
	if err := u.markPremium(ctx, account); err != nil {
		return nil, err
	}
	return status, nil
}

func (u *billingUsecase) markPremium(ctx context.Context, account entity.Account) error {
	profile, err := u.profiles.Get(ctx, account.UserID)
	switch {
	case errors.Is(err, entity.ErrProfileNotFound):
		profile = &entity.Profile{ID: account.UserID}
	case err != nil:
		return err
	}
	if profile.IsPremium && profile.Email != "" {
		return nil
	}
	profile.IsPremium = true
	if profile.Email == "" {
		profile.Email = account.Email
	}
	if _, err := u.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("mark profile premium: %w", err)
	}
	u.logger.WithField("user_id", account.UserID).Info("learner upgraded to premium")
	return nil
}

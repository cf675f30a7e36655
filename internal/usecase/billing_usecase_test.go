package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/lingolive/internal/entity"
)

func TestCheckout(t *testing.T) {
	gateway := &fakeGateway{}
	sessions := newTestSessions(newFakeStateRepo(), newFakeProfileRepo(), nil)
	uc := NewBillingUsecase(gateway, sessions, newFakeProfileRepo(), "https://lingo.example", nil)
	ctx := context.Background()
	account := entity.Account{UserID: "u1", Email: "ana@example.com"}

	session, err := uc.Checkout(ctx, account, "https://app.example/")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if session.URL == "" {
		t.Fatal("expected checkout url")
	}
	if gateway.successURL != "https://app.example/dashboard?payment=success" {
		t.Errorf("unexpected success url %q", gateway.successURL)
	}
	if gateway.cancelURL != "https://app.example/pricing?payment=canceled" {
		t.Errorf("unexpected cancel url %q", gateway.cancelURL)
	}

	if _, err := uc.Checkout(ctx, account, ""); err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if gateway.successURL != "https://lingo.example/dashboard?payment=success" {
		t.Errorf("expected default origin, got %q", gateway.successURL)
	}
}

func TestCheckoutRejections(t *testing.T) {
	sessions := newTestSessions(newFakeStateRepo(), newFakeProfileRepo(), nil)
	cases := []struct {
		name    string
		gateway PaymentGateway
		account entity.Account
		wantErr error
	}{
		{name: "anonymous", gateway: &fakeGateway{}, account: entity.Account{}, wantErr: entity.ErrUnauthenticated},
		{name: "no email", gateway: &fakeGateway{}, account: entity.Account{UserID: "u1"}, wantErr: entity.ErrMissingEmail},
		{name: "billing disabled", gateway: nil, account: entity.Account{UserID: "u1", Email: "a@b.c"}, wantErr: entity.ErrBillingUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewBillingUsecase(tc.gateway, sessions, newFakeProfileRepo(), "https://lingo.example", nil)
			if _, err := uc.Checkout(context.Background(), tc.account, ""); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCheckSubscriptionUpgrades(t *testing.T) {
	profiles := newFakeProfileRepo()
	sessions := newTestSessions(newFakeStateRepo(), profiles, nil)
	gateway := &fakeGateway{status: entity.SubscriptionStatus{Subscribed: true, ProductID: "prod_1", PriceID: "price_1"}}
	uc := NewBillingUsecase(gateway, sessions, profiles, "", nil)
	ctx := context.Background()
	account := entity.Account{UserID: "u1", Email: "ana@example.com"}

	status, err := uc.Check(ctx, account)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !status.Subscribed || status.ProductID != "prod_1" {
		t.Fatalf("unexpected status: %+v", status)
	}
	st, _ := sessions.Open(ctx, "u1")
	if !st.Progress().IsPremium {
		t.Fatal("expected store to be premium")
	}
	profile, ok := profiles.get("u1")
	if !ok || !profile.IsPremium || profile.Email != "ana@example.com" {
		t.Fatalf("expected premium profile, got %+v", profile)
	}
}

func TestCheckSubscriptionInactive(t *testing.T) {
	profiles := newFakeProfileRepo()
	sessions := newTestSessions(newFakeStateRepo(), profiles, nil)
	uc := NewBillingUsecase(&fakeGateway{}, sessions, profiles, "", nil)
	ctx := context.Background()

	status, err := uc.Check(ctx, entity.Account{UserID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if status.Subscribed {
		t.Fatal("expected no subscription")
	}
	st, _ := sessions.Open(ctx, "u1")
	if st.Progress().IsPremium {
		t.Fatal("store should not be upgraded")
	}
	if _, ok := profiles.get("u1"); ok {
		t.Fatal("profile should not be written")
	}
}

package entity

import "time"

// Account identifies the authenticated caller.
type Account struct {
	UserID string
	Email  string
}

// SubscriptionStatus is the payment processor's view of an account.
type SubscriptionStatus struct {
	Subscribed      bool       `json:"subscribed"`
	ProductID       string     `json:"productId,omitempty"`
	PriceID         string     `json:"priceId,omitempty"`
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
}

// CheckoutSession is a hosted payment page the learner is redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Package identity verifies and issues access tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
)

// ErrNotConfigured is returned when no signing secret is set.
var ErrNotConfigured = errors.New("jwt secret not configured")

// Claims carried by an access token.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

// NewTokenManager builds a manager from the auth config.
func NewTokenManager(cfg *config.Config) *TokenManager {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Issue signs a token for the account.
func (m *TokenManager) Issue(account entity.Account) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(account.UserID) == "" {
		return "", entity.ErrInvalidUserID
	}
	now := m.clock()
	claims := Claims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token and returns the account it names.
func (m *TokenManager) Verify(token string) (entity.Account, error) {
	if len(m.secret) == 0 {
		return entity.Account{}, ErrNotConfigured
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return entity.Account{}, fmt.Errorf("%w: %v", entity.ErrUnauthenticated, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return entity.Account{}, entity.ErrUnauthenticated
	}
	return entity.Account{UserID: claims.Subject, Email: claims.Email}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type accountKey struct{}

// WithAccount stores the caller in ctx.
func WithAccount(ctx context.Context, account entity.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFrom returns the caller stored by WithAccount.
func AccountFrom(ctx context.Context) (entity.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(entity.Account)
	return account, ok && account.UserID != ""
}

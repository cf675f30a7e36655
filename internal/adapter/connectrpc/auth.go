package connectrpc

import (
	"context"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/identity"
)

// TokenVerifier resolves a bearer token to the calling account.
type TokenVerifier interface {
	Verify(token string) (entity.Account, error)
}

// NewAuthInterceptor verifies the bearer token and stores the account in
// the context. Public procedures are served without a token; a token sent
// to them is still verified.
func NewAuthInterceptor(verifier TokenVerifier, public ...string) connect.UnaryInterceptorFunc {
	open := lo.SliceToMap(public, func(p string) (string, struct{}) { return p, struct{}{} })
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, ok := identity.BearerToken(req.Header().Get("Authorization"))
			if !ok {
				if _, isPublic := open[req.Spec().Procedure]; isPublic {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, entity.ErrUnauthenticated)
			}
			account, err := verifier.Verify(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(identity.WithAccount(ctx, account), req)
		}
	}
}

func callerAccount(ctx context.Context) (entity.Account, error) {
	account, ok := identity.AccountFrom(ctx)
	if !ok {
		return entity.Account{}, entity.ErrUnauthenticated
	}
	return account, nil
}

func callerID(ctx context.Context) (string, error) {
	account, err := callerAccount(ctx)
	return account.UserID, err
}

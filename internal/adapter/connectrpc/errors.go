package connectrpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
)

var errorCodes = []struct {
	err  error
	code connect.Code
}{
	{entity.ErrUnauthenticated, connect.CodeUnauthenticated},

	{entity.ErrInvalidUserID, connect.CodeInvalidArgument},
	{entity.ErrUnsupportedLanguage, connect.CodeInvalidArgument},
	{entity.ErrInvalidWord, connect.CodeInvalidArgument},
	{entity.ErrEmptyMessage, connect.CodeInvalidArgument},
	{entity.ErrInvalidGuildName, connect.CodeInvalidArgument},
	{entity.ErrInvalidFilter, connect.CodeInvalidArgument},
	{entity.ErrMissingEmail, connect.CodeInvalidArgument},

	{entity.ErrProfileNotFound, connect.CodeNotFound},
	{entity.ErrWordNotFound, connect.CodeNotFound},
	{entity.ErrStoryModeNotFound, connect.CodeNotFound},
	{entity.ErrGuildNotFound, connect.CodeNotFound},

	{entity.ErrDuplicateWord, connect.CodeAlreadyExists},
	{entity.ErrDuplicateGuildName, connect.CodeAlreadyExists},

	{entity.ErrMessageQuotaExhausted, connect.CodeResourceExhausted},
	{entity.ErrTutorRateLimited, connect.CodeResourceExhausted},
	{entity.ErrTutorCreditsExhausted, connect.CodeResourceExhausted},

	{entity.ErrRewardAlreadyClaimed, connect.CodeFailedPrecondition},
	{entity.ErrAlreadyInGuild, connect.CodeFailedPrecondition},
	{entity.ErrNotInGuild, connect.CodeFailedPrecondition},
	{entity.ErrGuildLeaderCannotLeave, connect.CodeFailedPrecondition},

	{entity.ErrTutorUnavailable, connect.CodeUnavailable},
	{entity.ErrBillingUnavailable, connect.CodeUnavailable},
}

func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return connect.NewError(m.code, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

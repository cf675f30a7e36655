package entity

import "errors"

// Domain errors for the learning service.
var (
	ErrInvalidUserID          = errors.New("invalid user ID")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrUnsupportedLanguage    = errors.New("unsupported language")
	ErrWordNotFound           = errors.New("word not found")
	ErrInvalidWord            = errors.New("invalid word")
	ErrDuplicateWord          = errors.New("word already exists")
	ErrStoryModeNotFound      = errors.New("story mode not found")
	ErrMessageQuotaExhausted  = errors.New("message quota exhausted")
	ErrEmptyMessage           = errors.New("message content is empty")
	ErrTutorRateLimited       = errors.New("rate limit exceeded, please try again later")
	ErrTutorCreditsExhausted  = errors.New("AI credits exhausted, please add funds")
	ErrTutorUnavailable       = errors.New("tutor unavailable")
	ErrRewardAlreadyClaimed   = errors.New("reward already claimed today")
	ErrGuildNotFound          = errors.New("guild not found")
	ErrInvalidGuildName       = errors.New("invalid guild name")
	ErrDuplicateGuildName     = errors.New("guild name already taken")
	ErrAlreadyInGuild         = errors.New("already a member of a guild")
	ErrNotInGuild             = errors.New("not a member of any guild")
	ErrGuildLeaderCannotLeave = errors.New("guild leader cannot leave while other members remain")
	ErrMissingEmail           = errors.New("account email is required")
	ErrBillingUnavailable     = errors.New("billing is not configured")
	ErrInvalidFilter          = errors.New("invalid filter")
)

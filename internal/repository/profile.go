package repository

import (
	"context"

	"github.com/eslsoft/lingolive/internal/entity"
)

// ProfileRepository persists one progress row per user.
type ProfileRepository interface {
	// Get returns entity.ErrProfileNotFound when the user has no row yet.
	Get(ctx context.Context, userID string) (*entity.Profile, error)
	Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	TopByXP(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

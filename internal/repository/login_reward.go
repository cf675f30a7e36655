package repository

import (
	"context"

	"github.com/eslsoft/lingolive/internal/entity"
)

// LoginRewardRepository persists one reward row per user and calendar day.
type LoginRewardRepository interface {
	// Recent returns up to limit rows ordered by login_date descending.
	Recent(ctx context.Context, userID string, limit int) ([]entity.LoginReward, error)
	// Upsert writes the row for (user_id, login_date).
	Upsert(ctx context.Context, reward *entity.LoginReward) (*entity.LoginReward, error)
}

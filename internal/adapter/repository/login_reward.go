package repository

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/repository"
)

var loginRewardColumns = []string{
	"id", "user_id", "login_date", "day_number", "xp_reward", "bonus_multiplier", "claimed", "created_at",
}

type loginRewardRepository struct {
	sqlBase
	clock func() time.Time
}

// NewLoginRewardRepository constructs an SQL-backed login reward repository.
func NewLoginRewardRepository(drv *entsql.Driver) repository.LoginRewardRepository {
	return &loginRewardRepository{sqlBase: newSQLBase(drv), clock: time.Now}
}

func (r *loginRewardRepository) Recent(ctx context.Context, userID string, limit int) ([]entity.LoginReward, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = entity.RewardCycleDays
	}
	sel := r.b.Select(loginRewardColumns...).
		From(r.b.Table(database.LoginRewardsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("login_date")).
		Limit(limit)
	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list login rewards: %w", err)
	}
	defer rows.Close()

	var rewards []entity.LoginReward
	for rows.Next() {
		reward, err := scanLoginReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan login reward: %w", err)
		}
		rewards = append(rewards, *reward)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login rewards: %w", err)
	}
	return rewards, nil
}

func (r *loginRewardRepository) Upsert(ctx context.Context, reward *entity.LoginReward) (*entity.LoginReward, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := *reward
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.clock().UTC()
	}
	insert := r.b.Insert(database.LoginRewardsTable.Name).
		Columns(loginRewardColumns...).
		Values(row.ID, row.UserID, row.LoginDate, row.DayNumber, row.XPReward, row.BonusMultiplier, row.Claimed, row.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("user_id", "login_date"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("day_number")
				u.SetExcluded("xp_reward")
				u.SetExcluded("bonus_multiplier")
				u.SetExcluded("claimed")
			}),
		)
	if _, err := exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("upsert login reward: %w", err)
	}

	sel := r.b.Select(loginRewardColumns...).
		From(r.b.Table(database.LoginRewardsTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", row.UserID), entsql.EQ("login_date", row.LoginDate)))
	saved, err := scanLoginReward(queryRow(ctx, r.db, sel))
	if err != nil {
		return nil, fmt.Errorf("reload login reward: %w", err)
	}
	return saved, nil
}

func scanLoginReward(row scanner) (*entity.LoginReward, error) {
	var l entity.LoginReward
	if err := row.Scan(&l.ID, &l.UserID, &l.LoginDate, &l.DayNumber, &l.XPReward, &l.BonusMultiplier, &l.Claimed, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

const recentRewardRows = 7

// RewardClaim is the outcome of claiming today's login reward.
type RewardClaim struct {
	Reward     entity.DailyReward  `json:"reward"`
	Multiplier float64             `json:"multiplier"`
	LevelsUp   int                 `json:"levelsUp"`
	Status     entity.RewardStatus `json:"status"`
	Progress   entity.UserProgress `json:"progress"`
}

// RewardUsecase drives the daily login reward calendar.
type RewardUsecase interface {
	Status(ctx context.Context, userID string) (*entity.RewardStatus, error)
	Claim(ctx context.Context, userID string) (*RewardClaim, error)
}

// NewRewardUsecase wires the reward rows and the session registry.
func NewRewardUsecase(rewards repository.LoginRewardRepository, sessions SessionRegistry) RewardUsecase {
	return &rewardUsecase{rewards: rewards, sessions: sessions, clock: time.Now}
}

type rewardUsecase struct {
	rewards  repository.LoginRewardRepository
	sessions SessionRegistry
	clock    func() time.Time
}

func (u *rewardUsecase) Status(ctx context.Context, userID string) (*entity.RewardStatus, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	status, _, err := u.status(ctx, userID, u.clock())
	return status, err
}

// status derives the calendar from the most recent rows. It also returns
// today's row when one exists.
func (u *rewardUsecase) status(ctx context.Context, userID string, now time.Time) (*entity.RewardStatus, *entity.LoginReward, error) {
	rows, err := u.rewards.Recent(ctx, userID, recentRewardRows)
	if err != nil {
		return nil, nil, fmt.Errorf("load login rewards: %w", err)
	}
	today := entity.DayString(now)
	yesterday := entity.DayString(now.AddDate(0, 0, -1))

	var todayRow, yesterdayRow *entity.LoginReward
	for i := range rows {
		switch rows[i].LoginDate {
		case today:
			todayRow = &rows[i]
		case yesterday:
			yesterdayRow = &rows[i]
		}
	}

	streak := 1
	switch {
	case yesterdayRow != nil:
		streak = yesterdayRow.DayNumber%entity.RewardCycleDays + 1
	case todayRow != nil:
		streak = todayRow.DayNumber
	}

	status := &entity.RewardStatus{
		CurrentStreak: streak,
		CanClaim:      todayRow == nil || !todayRow.Claimed,
		TodayReward:   entity.RewardForStreak(streak),
	}
	for i, reward := range entity.DailyRewards() {
		day := entity.RewardDay{DailyReward: reward, IsToday: i+1 == streak}
		for _, row := range rows {
			if row.DayNumber == i+1 && row.Claimed {
				day.Claimed = true
				break
			}
		}
		status.Days = append(status.Days, day)
	}
	return status, todayRow, nil
}

func (u *rewardUsecase) Claim(ctx context.Context, userID string) (*RewardClaim, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	ctx, span := tracer.Start(ctx, "Rewards.Claim")
	defer span.End()

	now := u.clock()
	status, todayRow, err := u.status(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if !status.CanClaim {
		return nil, entity.ErrRewardAlreadyClaimed
	}

	streak := status.CurrentStreak
	reward := entity.RewardForStreak(streak)
	row := &entity.LoginReward{
		ID:              uuid.NewString(),
		UserID:          userID,
		LoginDate:       entity.DayString(now),
		DayNumber:       streak,
		XPReward:        reward.XP,
		BonusMultiplier: entity.RewardMultiplier(streak),
		Claimed:         true,
	}
	if todayRow != nil {
		row.ID = todayRow.ID
	}
	saved, err := u.rewards.Upsert(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("save login reward: %w", err)
	}

	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	levels := st.AddXP(saved.XPReward)
	if err := u.sessions.Save(ctx, userID); err != nil {
		return nil, err
	}

	status.CanClaim = false
	for i := range status.Days {
		if status.Days[i].Day == streak {
			status.Days[i].Claimed = true
		}
	}
	return &RewardClaim{
		Reward:     reward,
		Multiplier: saved.BonusMultiplier,
		LevelsUp:   levels,
		Status:     *status,
		Progress:   st.Progress(),
	}, nil
}

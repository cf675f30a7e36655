package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

// GlobalLeaderboard is the top learners plus the caller's own placement.
type GlobalLeaderboard struct {
	Entries []entity.LeaderboardEntry `json:"entries"`
	// MyRank is zero when the caller is outside the ranked range.
	MyRank int `json:"myRank"`
}

// LeaderboardUsecase ranks learners and guilds by XP.
type LeaderboardUsecase interface {
	Global(ctx context.Context, userID string) (*GlobalLeaderboard, error)
	Guilds(ctx context.Context) ([]entity.GuildRanking, error)
}

// NewLeaderboardUsecase wires the profile and guild repositories.
func NewLeaderboardUsecase(profiles repository.ProfileRepository, guilds repository.GuildRepository) LeaderboardUsecase {
	return &leaderboardUsecase{profiles: profiles, guilds: guilds}
}

type leaderboardUsecase struct {
	profiles repository.ProfileRepository
	guilds   repository.GuildRepository
}

func (u *leaderboardUsecase) Global(ctx context.Context, userID string) (*GlobalLeaderboard, error) {
	entries, err := u.profiles.TopByXP(ctx, entity.GlobalLeaderboardSize)
	if err != nil {
		return nil, err
	}
	board := &GlobalLeaderboard{Entries: entries}
	if mine, ok := lo.Find(entries, func(e entity.LeaderboardEntry) bool { return e.UserID == userID }); ok {
		board.MyRank = mine.Rank
	}
	return board, nil
}

func (u *leaderboardUsecase) Guilds(ctx context.Context) ([]entity.GuildRanking, error) {
	guilds, err := u.guilds.ListTop(ctx, entity.GuildLeaderboardSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(guilds, func(g entity.Guild, i int) entity.GuildRanking {
		return entity.GuildRanking{Rank: i + 1, Guild: g}
	}), nil
}

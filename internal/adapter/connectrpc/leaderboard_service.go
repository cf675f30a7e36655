package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const LeaderboardServiceName = "lingolive.v1.LeaderboardService"

type GuildRankingsResponse struct {
	Guilds []entity.GuildRanking `json:"guilds"`
}

type LeaderboardService struct {
	uc usecase.LeaderboardUsecase
}

func NewLeaderboardService(uc usecase.LeaderboardUsecase) *LeaderboardService {
	return &LeaderboardService{uc: uc}
}

func (s *LeaderboardService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(procedure(LeaderboardServiceName, "Global"), s.Global, opts...),
		unary(procedure(LeaderboardServiceName, "Guilds"), s.Guilds, opts...),
	}
}

func (s *LeaderboardService) Global(ctx context.Context, _ *Empty) (*usecase.GlobalLeaderboard, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Global(ctx, userID)
}

func (s *LeaderboardService) Guilds(ctx context.Context, _ *Empty) (*GuildRankingsResponse, error) {
	rankings, err := s.uc.Guilds(ctx)
	if err != nil {
		return nil, err
	}
	if rankings == nil {
		rankings = []entity.GuildRanking{}
	}
	return &GuildRankingsResponse{Guilds: rankings}, nil
}

package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const RewardServiceName = "lingolive.v1.RewardService"

type RewardService struct {
	uc usecase.RewardUsecase
}

func NewRewardService(uc usecase.RewardUsecase) *RewardService {
	return &RewardService{uc: uc}
}

func (s *RewardService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(procedure(RewardServiceName, "GetStatus"), s.GetStatus, opts...),
		unary(procedure(RewardServiceName, "Claim"), s.Claim, opts...),
	}
}

func (s *RewardService) GetStatus(ctx context.Context, _ *Empty) (*entity.RewardStatus, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Status(ctx, userID)
}

func (s *RewardService) Claim(ctx context.Context, _ *Empty) (*usecase.RewardClaim, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Claim(ctx, userID)
}

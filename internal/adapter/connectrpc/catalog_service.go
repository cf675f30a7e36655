package connectrpc

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
)

const CatalogServiceName = "lingolive.v1.CatalogService"

type LanguagesResponse struct {
	Languages []entity.Language `json:"languages"`
}

type StoryModesResponse struct {
	StoryModes []entity.StoryMode `json:"storyModes"`
}

type DailyChallengesResponse struct {
	Challenges []entity.DailyChallenge `json:"challenges"`
}

type DailyRewardsResponse struct {
	Rewards []entity.DailyReward `json:"rewards"`
}

// CatalogService serves the static catalogs. Its procedures are public.
type CatalogService struct {
	clock func() time.Time
}

func NewCatalogService() *CatalogService {
	return &CatalogService{clock: time.Now}
}

// PublicProcedures lists the procedures that need no token.
func (s *CatalogService) PublicProcedures() []string {
	return []string{
		procedure(CatalogServiceName, "Languages"),
		procedure(CatalogServiceName, "StoryModes"),
		procedure(CatalogServiceName, "DailyChallenges"),
		procedure(CatalogServiceName, "DailyRewards"),
	}
}

func (s *CatalogService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(procedure(CatalogServiceName, "Languages"), s.Languages, opts...),
		unary(procedure(CatalogServiceName, "StoryModes"), s.StoryModes, opts...),
		unary(procedure(CatalogServiceName, "DailyChallenges"), s.DailyChallenges, opts...),
		unary(procedure(CatalogServiceName, "DailyRewards"), s.DailyRewards, opts...),
	}
}

func (s *CatalogService) Languages(context.Context, *Empty) (*LanguagesResponse, error) {
	return &LanguagesResponse{Languages: entity.Languages()}, nil
}

func (s *CatalogService) StoryModes(context.Context, *Empty) (*StoryModesResponse, error) {
	return &StoryModesResponse{StoryModes: entity.StoryModes()}, nil
}

func (s *CatalogService) DailyChallenges(context.Context, *Empty) (*DailyChallengesResponse, error) {
	return &DailyChallengesResponse{Challenges: entity.DailyChallenges(s.clock())}, nil
}

func (s *CatalogService) DailyRewards(context.Context, *Empty) (*DailyRewardsResponse, error) {
	return &DailyRewardsResponse{Rewards: entity.DailyRewards()}, nil
}

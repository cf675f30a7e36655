package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const GuildServiceName = "lingolive.v1.GuildService"

type GuildsResponse struct {
	Guilds []entity.Guild `json:"guilds"`
}

// MineResponse leaves Guild nil when the caller belongs to no guild.
type MineResponse struct {
	Guild *usecase.MyGuild `json:"guild"`
}

type GuildRequest struct {
	GuildID string `json:"guildId"`
}

type MembersResponse struct {
	Members []entity.GuildMember `json:"members"`
}

type CreateGuildRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type GuildService struct {
	uc usecase.GuildUsecase
}

func NewGuildService(uc usecase.GuildUsecase) *GuildService {
	return &GuildService{uc: uc}
}

func (s *GuildService) Routes(opts ...connect.HandlerOption) []Route {
	p := func(method string) string { return procedure(GuildServiceName, method) }
	return []Route{
		unary(p("List"), s.List, opts...),
		unary(p("Mine"), s.Mine, opts...),
		unary(p("Members"), s.Members, opts...),
		unary(p("Create"), s.Create, opts...),
		unary(p("Join"), s.Join, opts...),
		unary(p("Leave"), s.Leave, opts...),
	}
}

func (s *GuildService) List(ctx context.Context, _ *Empty) (*GuildsResponse, error) {
	guilds, err := s.uc.List(ctx)
	if err != nil {
		return nil, err
	}
	if guilds == nil {
		guilds = []entity.Guild{}
	}
	return &GuildsResponse{Guilds: guilds}, nil
}

func (s *GuildService) Mine(ctx context.Context, _ *Empty) (*MineResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	mine, err := s.uc.Mine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MineResponse{Guild: mine}, nil
}

func (s *GuildService) Members(ctx context.Context, req *GuildRequest) (*MembersResponse, error) {
	members, err := s.uc.Members(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []entity.GuildMember{}
	}
	return &MembersResponse{Members: members}, nil
}

func (s *GuildService) Create(ctx context.Context, req *CreateGuildRequest) (*entity.Guild, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Create(ctx, userID, usecase.CreateGuildInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
}

func (s *GuildService) Join(ctx context.Context, req *GuildRequest) (*entity.Guild, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Join(ctx, userID, req.GuildID)
}

func (s *GuildService) Leave(ctx context.Context, _ *Empty) (*Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.Leave(ctx, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

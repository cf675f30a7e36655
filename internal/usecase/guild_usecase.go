package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

// CreateGuildInput carries the fields a learner chooses for a new guild.
type CreateGuildInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MyGuild is the caller's guild together with their membership.
type MyGuild struct {
	Guild      entity.Guild       `json:"guild"`
	Membership entity.GuildMember `json:"membership"`
}

// GuildUsecase manages guild membership.
type GuildUsecase interface {
	List(ctx context.Context) ([]entity.Guild, error)
	// Mine returns nil when the user belongs to no guild.
	Mine(ctx context.Context, userID string) (*MyGuild, error)
	Members(ctx context.Context, guildID string) ([]entity.GuildMember, error)
	Create(ctx context.Context, userID string, input CreateGuildInput) (*entity.Guild, error)
	Join(ctx context.Context, userID, guildID string) (*entity.Guild, error)
	Leave(ctx context.Context, userID string) error
}

// NewGuildUsecase wires the guild and profile repositories.
func NewGuildUsecase(guilds repository.GuildRepository, profiles repository.ProfileRepository, logger *logrus.Logger) GuildUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &guildUsecase{guilds: guilds, profiles: profiles, logger: logger, clock: time.Now}
}

type guildUsecase struct {
	guilds   repository.GuildRepository
	profiles repository.ProfileRepository
	logger   *logrus.Logger
	clock    func() time.Time
}

func (u *guildUsecase) List(ctx context.Context) ([]entity.Guild, error) {
	return u.guilds.ListTop(ctx, entity.GuildLeaderboardSize)
}

func (u *guildUsecase) Mine(ctx context.Context, userID string) (*MyGuild, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	membership, err := u.guilds.MembershipOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, nil
	}
	guild, err := u.guilds.Get(ctx, membership.GuildID)
	if err != nil {
		return nil, err
	}
	return &MyGuild{Guild: *guild, Membership: *membership}, nil
}

func (u *guildUsecase) Members(ctx context.Context, guildID string) ([]entity.GuildMember, error) {
	if strings.TrimSpace(guildID) == "" {
		return nil, entity.ErrGuildNotFound
	}
	if _, err := u.guilds.Get(ctx, guildID); err != nil {
		return nil, err
	}
	return u.guilds.Members(ctx, guildID)
}

func (u *guildUsecase) Create(ctx context.Context, userID string, input CreateGuildInput) (*entity.Guild, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	name, err := entity.NormalizeGuildName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := u.ensureGuildless(ctx, userID); err != nil {
		return nil, err
	}
	xp, err := u.totalXP(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := u.clock()
	guild := &entity.Guild{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Icon:        lo.Ternary(strings.TrimSpace(input.Icon) == "", entity.DefaultGuildIcon, strings.TrimSpace(input.Icon)),
		CreatedAt:   now,
	}
	leader := &entity.GuildMember{
		ID:       uuid.NewString(),
		UserID:   userID,
		Role:     entity.GuildRoleLeader,
		JoinedAt: now,
		XP:       xp,
	}
	return u.guilds.Create(ctx, guild, leader)
}

func (u *guildUsecase) Join(ctx context.Context, userID, guildID string) (*entity.Guild, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	if _, err := u.guilds.Get(ctx, guildID); err != nil {
		return nil, err
	}
	if err := u.ensureGuildless(ctx, userID); err != nil {
		return nil, err
	}
	member := &entity.GuildMember{
		ID:       uuid.NewString(),
		GuildID:  guildID,
		UserID:   userID,
		Role:     entity.GuildRoleMember,
		JoinedAt: u.clock(),
	}
	if err := u.guilds.AddMember(ctx, member); err != nil {
		return nil, err
	}
	u.refreshTotals(ctx, guildID)
	return u.guilds.Get(ctx, guildID)
}

// Leave removes the caller from their guild. The guild is deleted when its
// last member leaves; a leader cannot leave while others remain.
func (u *guildUsecase) Leave(ctx context.Context, userID string) error {
	if userID == "" {
		return entity.ErrInvalidUserID
	}
	membership, err := u.guilds.MembershipOf(ctx, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return entity.ErrNotInGuild
	}
	members, err := u.guilds.Members(ctx, membership.GuildID)
	if err != nil {
		return err
	}
	if len(members) <= 1 {
		u.logger.WithField("guild_id", membership.GuildID).Info("last member left, deleting guild")
		return u.guilds.Delete(ctx, membership.GuildID)
	}
	if membership.Role == entity.GuildRoleLeader {
		return entity.ErrGuildLeaderCannotLeave
	}
	if err := u.guilds.RemoveMember(ctx, membership.GuildID, userID); err != nil {
		return err
	}
	u.refreshTotals(ctx, membership.GuildID)
	return nil
}

// refreshTotals runs after the membership change is committed, so a failure
// only leaves the pooled totals stale until the next profile sync.
func (u *guildUsecase) refreshTotals(ctx context.Context, guildID string) {
	if err := u.guilds.RefreshTotals(ctx, guildID); err != nil {
		u.logger.WithError(err).WithField("guild_id", guildID).Warn("refresh guild totals failed")
	}
}

func (u *guildUsecase) ensureGuildless(ctx context.Context, userID string) error {
	existing, err := u.guilds.MembershipOf(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return entity.ErrAlreadyInGuild
	}
	return nil
}

func (u *guildUsecase) totalXP(ctx context.Context, userID string) (int, error) {
	profile, err := u.profiles.Get(ctx, userID)
	if errors.Is(err, entity.ErrProfileNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.TotalXP, nil
}

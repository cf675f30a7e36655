package repository

import (
	"context"

	"github.com/eslsoft/lingolive/internal/entity"
)

// GuildRepository persists guilds and their memberships.
type GuildRepository interface {
	Create(ctx context.Context, guild *entity.Guild, leader *entity.GuildMember) (*entity.Guild, error)
	Get(ctx context.Context, id string) (*entity.Guild, error)
	ListTop(ctx context.Context, limit int) ([]entity.Guild, error)
	// MembershipOf returns nil when the user belongs to no guild.
	MembershipOf(ctx context.Context, userID string) (*entity.GuildMember, error)
	Members(ctx context.Context, guildID string) ([]entity.GuildMember, error)
	AddMember(ctx context.Context, member *entity.GuildMember) error
	RemoveMember(ctx context.Context, guildID, userID string) error
	Delete(ctx context.Context, id string) error
	// RefreshTotals recomputes member_count and total_xp from the members.
	RefreshTotals(ctx context.Context, guildID string) error
}

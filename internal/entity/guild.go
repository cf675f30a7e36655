package entity

import (
	"strings"
	"time"
)

// GuildRole is a member's rank inside a guild.
type GuildRole string

const (
	GuildRoleLeader  GuildRole = "leader"
	GuildRoleOfficer GuildRole = "officer"
	GuildRoleMember  GuildRole = "member"
)

// Guild limits.
const (
	GuildNameMaxLength = 40
	DefaultGuildIcon   = "🏰"
)

// Guild is a group of learners pooling XP.
type Guild struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	LeaderID    string    `json:"leaderId"`
	TotalXP     int       `json:"totalXp"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GuildMember links a user to a guild.
type GuildMember struct {
	ID       string    `json:"id"`
	GuildID  string    `json:"guildId"`
	UserID   string    `json:"userId"`
	Role     GuildRole `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	Username string    `json:"username,omitempty"`
	XP       int       `json:"xp"`
}

// NormalizeGuildName trims a guild name and validates its length.
func NormalizeGuildName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || len([]rune(name)) > GuildNameMaxLength {
		return "", ErrInvalidGuildName
	}
	return name, nil
}

package entity

// Leaderboard sizes.
const (
	GlobalLeaderboardSize = 100
	GuildLeaderboardSize  = 50
)

// LeaderboardEntry is one ranked learner.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
	Streak    int    `json:"streak"`
	GuildName string `json:"guildName,omitempty"`
	GuildIcon string `json:"guildIcon,omitempty"`
}

// GuildRanking is one ranked guild.
type GuildRanking struct {
	Rank int `json:"rank"`
	Guild
}

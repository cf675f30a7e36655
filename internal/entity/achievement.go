package entity

import "time"

// AchievementType selects the progress metric an achievement tracks.
type AchievementType string

const (
	AchievementWords  AchievementType = "words"
	AchievementStreak AchievementType = "streak"
	AchievementXP     AchievementType = "xp"
	AchievementLevel  AchievementType = "level"
)

// Achievement is a milestone unlocked by reaching a requirement.
type Achievement struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Requirement int             `json:"requirement"`
	Type        AchievementType `json:"type"`
}

// AchievementStatus pairs an achievement with the learner's standing.
type AchievementStatus struct {
	Achievement
	Current  int  `json:"current"`
	Unlocked bool `json:"unlocked"`
}

var achievements = []Achievement{
	{ID: "first-words", Title: "First Steps", Description: "Learn your first 5 words", Icon: "🌱", Requirement: 5, Type: AchievementWords},
	{ID: "vocabulary-builder", Title: "Vocabulary Builder", Description: "Learn 25 words", Icon: "📚", Requirement: 25, Type: AchievementWords},
	{ID: "word-collector", Title: "Word Collector", Description: "Learn 50 words", Icon: "🎯", Requirement: 50, Type: AchievementWords},
	{ID: "linguist", Title: "Linguist", Description: "Learn 100 words", Icon: "🏆", Requirement: 100, Type: AchievementWords},
	{ID: "polyglot", Title: "Polyglot", Description: "Learn 250 words", Icon: "👑", Requirement: 250, Type: AchievementWords},
	{ID: "consistent-learner", Title: "Consistent Learner", Description: "Maintain a 3-day streak", Icon: "🔥", Requirement: 3, Type: AchievementStreak},
	{ID: "week-warrior", Title: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "⚡", Requirement: 7, Type: AchievementStreak},
	{ID: "dedicated", Title: "Dedicated", Description: "Maintain a 14-day streak", Icon: "💪", Requirement: 14, Type: AchievementStreak},
	{ID: "unstoppable", Title: "Unstoppable", Description: "Maintain a 30-day streak", Icon: "🚀", Requirement: 30, Type: AchievementStreak},
	{ID: "xp-starter", Title: "XP Starter", Description: "Earn 100 XP", Icon: "⭐", Requirement: 100, Type: AchievementXP},
	{ID: "xp-hunter", Title: "XP Hunter", Description: "Earn 500 XP", Icon: "🌟", Requirement: 500, Type: AchievementXP},
	{ID: "xp-master", Title: "XP Master", Description: "Earn 1000 XP", Icon: "✨", Requirement: 1000, Type: AchievementXP},
	{ID: "level-5", Title: "Rising Star", Description: "Reach level 5", Icon: "🌙", Requirement: 5, Type: AchievementLevel},
	{ID: "level-10", Title: "Skilled Learner", Description: "Reach level 10", Icon: "🌠", Requirement: 10, Type: AchievementLevel},
	{ID: "level-20", Title: "Expert", Description: "Reach level 20", Icon: "🎖️", Requirement: 20, Type: AchievementLevel},
}

// Achievements returns the achievement catalog.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// EvaluateAchievements reports every achievement against the given progress.
func EvaluateAchievements(p UserProgress) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(achievements))
	for _, a := range achievements {
		var current int
		switch a.Type {
		case AchievementWords:
			current = p.TotalWords
		case AchievementStreak:
			current = p.Streak
		case AchievementXP:
			current = p.TotalXP
		case AchievementLevel:
			current = p.CurrentLevel
		}
		out = append(out, AchievementStatus{Achievement: a, Current: current, Unlocked: current >= a.Requirement})
	}
	return out
}

// ChallengeType selects the activity a daily challenge counts.
type ChallengeType string

const (
	ChallengeWords         ChallengeType = "words"
	ChallengeConversations ChallengeType = "conversations"
	ChallengePractice      ChallengeType = "practice"
)

// DailyChallenge is a per-day goal with an XP reward.
type DailyChallenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Target      int           `json:"target"`
	XPReward    int           `json:"xpReward"`
	Type        ChallengeType `json:"type"`
}

// DailyChallenges returns the challenges for the given day. Ids are scoped to
// the calendar date so a client can track completion per day.
func DailyChallenges(day time.Time) []DailyChallenge {
	stamp := day.Format(DateLayout)
	return []DailyChallenge{
		{ID: "words-" + stamp, Title: "Word Hunter", Description: "Learn 3 new words today", Target: 3, XPReward: 25, Type: ChallengeWords},
		{ID: "conversations-" + stamp, Title: "Chatterbox", Description: "Have 2 conversations", Target: 2, XPReward: 30, Type: ChallengeConversations},
		{ID: "practice-" + stamp, Title: "Practice Makes Perfect", Description: "Practice 5 vocabulary words", Target: 5, XPReward: 20, Type: ChallengePractice},
	}
}

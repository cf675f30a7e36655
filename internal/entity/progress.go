package entity

// Progress defaults for a fresh learner.
const (
	DefaultMessagesLimit = 150
	BaseXPToNextLevel    = 100
	InitialStreak        = 1
)

// UserProgress is the aggregate progress record of a learner.
type UserProgress struct {
	TotalWords    int  `json:"totalWords"`
	KnownWords    int  `json:"knownWords"`
	LearningWords int  `json:"learningWords"`
	Streak        int  `json:"streak"`
	MessagesUsed  int  `json:"messagesUsed"`
	MessagesLimit int  `json:"messagesLimit"`
	IsPremium     bool `json:"isPremium"`
	CurrentLevel  int  `json:"currentLevel"`
	XP            int  `json:"xp"`
	XPToNextLevel int  `json:"xpToNextLevel"`
	TotalXP       int  `json:"totalXp"`
}

// NewUserProgress returns the starting progress with the given message limit.
func NewUserProgress(messagesLimit int) UserProgress {
	if messagesLimit <= 0 {
		messagesLimit = DefaultMessagesLimit
	}
	return UserProgress{
		Streak:        InitialStreak,
		MessagesLimit: messagesLimit,
		CurrentLevel:  1,
		XPToNextLevel: BaseXPToNextLevel,
	}
}

// AddXP credits amount and resolves level-ups. Each level consumes the
// current threshold, and the next threshold is floor(threshold * 1.5).
// It returns the number of levels gained.
func (p *UserProgress) AddXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.XP += amount
	p.TotalXP += amount
	return p.Settle()
}

// Settle carries any XP at or above the threshold into levels and returns
// the number of levels gained.
func (p *UserProgress) Settle() int {
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = BaseXPToNextLevel
	}
	if p.CurrentLevel < 1 {
		p.CurrentLevel = 1
	}
	gained := 0
	for p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.CurrentLevel++
		p.XPToNextLevel = p.XPToNextLevel * 3 / 2
		gained++
	}
	return gained
}

// MessagesRemaining reports the unused quota, or -1 for premium accounts.
func (p UserProgress) MessagesRemaining() int {
	if p.IsPremium {
		return -1
	}
	remaining := p.MessagesLimit - p.MessagesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Recount derives word totals from the vocabulary collection.
func (p *UserProgress) Recount(words []Word) {
	known := 0
	for _, w := range words {
		if w.IsKnown() {
			known++
		}
	}
	p.TotalWords = len(words)
	p.KnownWords = known
	p.LearningWords = len(words) - known
}

// LevelProgress returns the completion ratio of the current level in [0,1].
func (p UserProgress) LevelProgress() float64 {
	if p.XPToNextLevel <= 0 {
		return 0
	}
	return float64(p.XP) / float64(p.XPToNextLevel)
}

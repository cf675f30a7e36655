package entity

import "time"

// DateLayout is the calendar-day format used for practice and reward dates.
const DateLayout = "2006-01-02"

// Profile is the durable per-user progress row.
type Profile struct {
	ID                string
	Username          string
	Email             string
	AvatarURL         string
	XP                int
	Level             int
	XPToNextLevel     int
	TotalXP           int
	Streak            int
	MessagesRemaining int
	IsPremium         bool
	TargetLanguage    string
	LastPracticeDate  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName returns the username or a short fallback derived from the id.
func (p Profile) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return FallbackUsername(p.ID)
}

// FallbackUsername renders "User" plus the first four characters of an id.
func FallbackUsername(id string) string {
	if len(id) > 4 {
		id = id[:4]
	}
	return "User" + id
}

// DayString formats t as a calendar day in UTC.
func DayString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysBetween returns the number of calendar days from a to b. Both are
// DateLayout strings; ok is false when either fails to parse.
func DaysBetween(a, b string) (int, bool) {
	from, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, false
	}
	to, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, false
	}
	return int(to.Sub(from).Hours() / 24), true
}

// NextStreak applies the day-difference rule to a streak: practicing again on
// the same day keeps it, the following day extends it by one, and any longer
// gap resets it to one.
func NextStreak(current int, lastPracticeDate string, today time.Time) int {
	if current < InitialStreak {
		current = InitialStreak
	}
	diff, ok := DaysBetween(lastPracticeDate, DayString(today))
	switch {
	case !ok, diff <= 0:
		return current
	case diff == 1:
		return current + 1
	default:
		return InitialStreak
	}
}

package entity

import "time"

// RewardCycleDays is the length of the login reward calendar.
const RewardCycleDays = 7

// DailyReward is one slot of the login reward calendar.
type DailyReward struct {
	Day   int    `json:"day"`
	XP    int    `json:"xp"`
	Bonus string `json:"bonus,omitempty"`
}

var dailyRewards = [RewardCycleDays]DailyReward{
	{Day: 1, XP: 10, Bonus: "Welcome!"},
	{Day: 2, XP: 15, Bonus: "+50% XP"},
	{Day: 3, XP: 20, Bonus: "Streak Boost"},
	{Day: 4, XP: 25, Bonus: "+75% XP"},
	{Day: 5, XP: 35, Bonus: "Super Streak"},
	{Day: 6, XP: 45, Bonus: "+100% XP"},
	{Day: 7, XP: 100, Bonus: "MEGA BONUS!"},
}

// DailyRewards returns the reward calendar.
func DailyRewards() []DailyReward {
	out := make([]DailyReward, RewardCycleDays)
	copy(out, dailyRewards[:])
	return out
}

// RewardForStreak returns the calendar slot for a login streak (1-based,
// wrapping every seven days).
func RewardForStreak(streak int) DailyReward {
	if streak < 1 {
		streak = 1
	}
	return dailyRewards[(streak-1)%RewardCycleDays]
}

// RewardMultiplier is the bonus multiplier recorded for a login streak.
func RewardMultiplier(streak int) float64 {
	if streak >= RewardCycleDays {
		return 2.0
	}
	return 1 + float64(streak)*0.1
}

// LoginReward is the durable record of one day's login.
type LoginReward struct {
	ID              string
	UserID          string
	LoginDate       string
	DayNumber       int
	XPReward        int
	BonusMultiplier float64
	Claimed         bool
	CreatedAt       time.Time
}

// RewardDay is a calendar slot annotated for display.
type RewardDay struct {
	DailyReward
	Claimed bool `json:"claimed"`
	IsToday bool `json:"isToday"`
}

// RewardStatus summarizes today's login reward state.
type RewardStatus struct {
	CurrentStreak int         `json:"currentStreak"`
	CanClaim      bool        `json:"canClaim"`
	TodayReward   DailyReward `json:"todayReward"`
	Days          []RewardDay `json:"days"`
}

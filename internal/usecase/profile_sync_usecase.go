package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/internal/store"
)

// ProfileSync mirrors a learner's progress into the durable profile row.
type ProfileSync interface {
	Sync(ctx context.Context, userID string, st *store.Store) (*entity.Profile, error)
}

type profileSync struct {
	profiles repository.ProfileRepository
	guilds   repository.GuildRepository
	logger   *logrus.Logger
	clock    func() time.Time
}

// NewProfileSync constructs the profile sync. guilds may be nil.
func NewProfileSync(profiles repository.ProfileRepository, guilds repository.GuildRepository, logger *logrus.Logger) ProfileSync {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &profileSync{profiles: profiles, guilds: guilds, logger: logger, clock: time.Now}
}

func (s *profileSync) Sync(ctx context.Context, userID string, st *store.Store) (*entity.Profile, error) {
	if userID == "" {
		return nil, entity.ErrInvalidUserID
	}
	now := s.clock()
	progress := st.Progress()

	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, entity.ErrProfileNotFound):
		profile = &entity.Profile{ID: userID}
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}

	streak := progress.Streak
	if profile.LastPracticeDate != "" {
		streak = entity.NextStreak(profile.Streak, profile.LastPracticeDate, now)
	}

	remaining := progress.MessagesLimit - progress.MessagesUsed
	if remaining < 0 {
		remaining = 0
	}

	profile.XP = progress.XP
	profile.Level = progress.CurrentLevel
	profile.XPToNextLevel = progress.XPToNextLevel
	profile.TotalXP = progress.TotalXP
	profile.Streak = streak
	profile.MessagesRemaining = remaining
	profile.IsPremium = progress.IsPremium
	profile.LastPracticeDate = entity.DayString(now)
	if lang, ok := st.TargetLanguage(); ok {
		profile.TargetLanguage = lang.Code
	}

	saved, err := s.profiles.Save(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	if streak != progress.Streak {
		st.ApplyOverride(store.ProgressOverride{Streak: &streak})
	}

	s.refreshGuild(ctx, userID)
	return saved, nil
}

// refreshGuild keeps the guild's pooled XP current. Failures are logged
// and do not fail the sync.
func (s *profileSync) refreshGuild(ctx context.Context, userID string) {
	if s.guilds == nil {
		return
	}
	membership, err := s.guilds.MembershipOf(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("lookup guild membership failed")
		return
	}
	if membership == nil {
		return
	}
	if err := s.guilds.RefreshTotals(ctx, membership.GuildID); err != nil {
		s.logger.WithError(err).WithField("guild_id", membership.GuildID).Warn("refresh guild totals failed")
	}
}

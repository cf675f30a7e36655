package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/repository"
)

var profileColumns = []string{
	"id", "username", "email", "avatar_url", "xp", "level", "xp_to_next_level",
	"total_xp", "streak", "messages_remaining", "is_premium", "target_language",
	"last_practice_date", "created_at", "updated_at",
}

type profileRepository struct {
	sqlBase
	clock func() time.Time
}

// NewProfileRepository constructs an SQL-backed profile repository.
func NewProfileRepository(drv *entsql.Driver) repository.ProfileRepository {
	return &profileRepository{sqlBase: newSQLBase(drv), clock: time.Now}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := r.b.Select(profileColumns...).
		From(r.b.Table(database.ProfilesTable.Name)).
		Where(entsql.EQ("id", userID))
	profile, err := scanProfile(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Save writes every column except created_at, which is set on first insert.
func (r *profileRepository) Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if profile == nil || profile.ID == "" {
		return nil, entity.ErrInvalidUserID
	}
	now := r.clock().UTC()
	row := *profile
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	insert := r.b.Insert(database.ProfilesTable.Name).
		Columns(profileColumns...).
		Values(
			row.ID, row.Username, row.Email, row.AvatarURL, row.XP, row.Level, row.XPToNextLevel,
			row.TotalXP, row.Streak, row.MessagesRemaining, row.IsPremium, row.TargetLanguage,
			row.LastPracticeDate, row.CreatedAt, row.UpdatedAt,
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range profileColumns {
					if c == "id" || c == "created_at" {
						continue
					}
					u.SetExcluded(c)
				}
			}),
		)
	if _, err := exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return r.Get(ctx, row.ID)
}

func (r *profileRepository) TopByXP(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = entity.GlobalLeaderboardSize
	}
	p := r.b.Table(database.ProfilesTable.Name).As("p")
	m := r.b.Table(database.GuildMembersTable.Name).As("m")
	g := r.b.Table(database.GuildsTable.Name).As("g")
	sel := r.b.Select(
		p.C("id"), p.C("username"), p.C("avatar_url"), p.C("total_xp"),
		p.C("level"), p.C("streak"), g.C("name"), g.C("icon"),
	).
		From(p).
		LeftJoin(m).On(m.C("user_id"), p.C("id")).
		LeftJoin(g).On(g.C("id"), m.C("guild_id")).
		OrderBy(entsql.Desc(p.C("total_xp")), entsql.Asc(p.C("id"))).
		Limit(limit)

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("top profiles: %w", err)
	}
	defer rows.Close()

	var entries []entity.LeaderboardEntry
	for rows.Next() {
		var (
			e         entity.LeaderboardEntry
			guildName sql.NullString
			guildIcon sql.NullString
		)
		if err := rows.Scan(&e.UserID, &e.Username, &e.AvatarURL, &e.XP, &e.Level, &e.Streak, &guildName, &guildIcon); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		if e.Username == "" {
			e.Username = entity.FallbackUsername(e.UserID)
		}
		e.GuildName = guildName.String
		e.GuildIcon = guildIcon.String
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

func scanProfile(row scanner) (*entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.AvatarURL, &p.XP, &p.Level, &p.XPToNextLevel,
		&p.TotalXP, &p.Streak, &p.MessagesRemaining, &p.IsPremium, &p.TargetLanguage,
		&p.LastPracticeDate, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

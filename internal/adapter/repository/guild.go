package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/repository"
)

var (
	guildColumns  = []string{"id", "name", "description", "icon", "leader_id", "total_xp", "member_count", "created_at"}
	memberColumns = []string{"id", "guild_id", "user_id", "role", "joined_at"}
)

type guildRepository struct {
	sqlBase
	clock func() time.Time
}

// NewGuildRepository constructs an SQL-backed guild repository.
func NewGuildRepository(drv *entsql.Driver) repository.GuildRepository {
	return &guildRepository{sqlBase: newSQLBase(drv), clock: time.Now}
}

// Create inserts the guild and its leader membership in one transaction.
func (r *guildRepository) Create(ctx context.Context, guild *entity.Guild, leader *entity.GuildMember) (*entity.Guild, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if guild == nil || leader == nil {
		return nil, entity.ErrInvalidGuildName
	}
	now := r.clock().UTC()
	g := *guild
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.Icon == "" {
		g.Icon = entity.DefaultGuildIcon
	}
	g.LeaderID = leader.UserID
	g.MemberCount = 1
	g.TotalXP = leader.XP

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin guild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertGuild := r.b.Insert(database.GuildsTable.Name).
		Columns(guildColumns...).
		Values(g.ID, g.Name, g.Description, g.Icon, g.LeaderID, g.TotalXP, g.MemberCount, g.CreatedAt)
	if _, err := exec(ctx, tx, insertGuild); err != nil {
		return nil, fmt.Errorf("insert guild: %w", translateError(err, entity.ErrDuplicateGuildName, nil))
	}

	m := *leader
	m.GuildID = g.ID
	m.Role = entity.GuildRoleLeader
	if _, err := exec(ctx, tx, r.memberInsert(&m, now)); err != nil {
		return nil, fmt.Errorf("insert guild leader: %w", translateError(err, entity.ErrAlreadyInGuild, nil))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit guild tx: %w", err)
	}
	return &g, nil
}

func (r *guildRepository) Get(ctx context.Context, id string) (*entity.Guild, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := r.b.Select(guildColumns...).
		From(r.b.Table(database.GuildsTable.Name)).
		Where(entsql.EQ("id", id))
	g, err := scanGuild(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrGuildNotFound
		}
		return nil, fmt.Errorf("get guild: %w", err)
	}
	return g, nil
}

func (r *guildRepository) ListTop(ctx context.Context, limit int) ([]entity.Guild, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = entity.GuildLeaderboardSize
	}
	sel := r.b.Select(guildColumns...).
		From(r.b.Table(database.GuildsTable.Name)).
		OrderBy(entsql.Desc("total_xp"), entsql.Asc("name")).
		Limit(limit)
	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list guilds: %w", err)
	}
	defer rows.Close()

	var guilds []entity.Guild
	for rows.Next() {
		g, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guild: %w", err)
		}
		guilds = append(guilds, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guilds: %w", err)
	}
	return guilds, nil
}

func (r *guildRepository) MembershipOf(ctx context.Context, userID string) (*entity.GuildMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := r.b.Select(memberColumns...).
		From(r.b.Table(database.GuildMembersTable.Name)).
		Where(entsql.EQ("user_id", userID))
	var m entity.GuildMember
	if err := queryRow(ctx, r.db, sel).Scan(&m.ID, &m.GuildID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// Members lists a guild's members with their profile name and total XP,
// highest XP first.
func (r *guildRepository) Members(ctx context.Context, guildID string) ([]entity.GuildMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := r.b.Table(database.GuildMembersTable.Name).As("m")
	p := r.b.Table(database.ProfilesTable.Name).As("p")
	sel := r.b.Select(
		m.C("id"), m.C("guild_id"), m.C("user_id"), m.C("role"), m.C("joined_at"),
		p.C("username"), p.C("total_xp"),
	).
		From(m).
		LeftJoin(p).On(p.C("id"), m.C("user_id")).
		Where(entsql.EQ(m.C("guild_id"), guildID)).
		OrderBy(entsql.Desc(p.C("total_xp")), entsql.Asc(m.C("joined_at")))

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list guild members: %w", err)
	}
	defer rows.Close()

	var members []entity.GuildMember
	for rows.Next() {
		var (
			gm       entity.GuildMember
			username sql.NullString
			xp       sql.NullInt64
		)
		if err := rows.Scan(&gm.ID, &gm.GuildID, &gm.UserID, &gm.Role, &gm.JoinedAt, &username, &xp); err != nil {
			return nil, fmt.Errorf("scan guild member: %w", err)
		}
		gm.Username = username.String
		if gm.Username == "" {
			gm.Username = entity.FallbackUsername(gm.UserID)
		}
		gm.XP = int(xp.Int64)
		members = append(members, gm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guild members: %w", err)
	}
	return members, nil
}

func (r *guildRepository) AddMember(ctx context.Context, member *entity.GuildMember) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if member.Role == "" {
		member.Role = entity.GuildRoleMember
	}
	if _, err := exec(ctx, r.db, r.memberInsert(member, r.clock().UTC())); err != nil {
		return fmt.Errorf("add guild member: %w", translateError(err, entity.ErrAlreadyInGuild, nil))
	}
	return nil
}

func (r *guildRepository) RemoveMember(ctx context.Context, guildID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := exec(ctx, r.db, r.b.Delete(database.GuildMembersTable.Name).
		Where(entsql.And(entsql.EQ("guild_id", guildID), entsql.EQ("user_id", userID))))
	if err != nil {
		return fmt.Errorf("remove guild member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotInGuild
	}
	return nil
}

func (r *guildRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin guild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := exec(ctx, tx, r.b.Delete(database.GuildMembersTable.Name).Where(entsql.EQ("guild_id", id))); err != nil {
		return fmt.Errorf("delete guild members: %w", err)
	}
	res, err := exec(ctx, tx, r.b.Delete(database.GuildsTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete guild: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrGuildNotFound
	}
	return tx.Commit()
}

func (r *guildRepository) RefreshTotals(ctx context.Context, guildID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := r.b.Table(database.GuildMembersTable.Name).As("m")
	p := r.b.Table(database.ProfilesTable.Name).As("p")
	sel := r.b.Select(entsql.Count("*"), entsql.Sum(p.C("total_xp"))).
		From(m).
		LeftJoin(p).On(p.C("id"), m.C("user_id")).
		Where(entsql.EQ(m.C("guild_id"), guildID))

	var (
		members int64
		totalXP sql.NullInt64
	)
	if err := queryRow(ctx, r.db, sel).Scan(&members, &totalXP); err != nil {
		return fmt.Errorf("sum guild totals: %w", err)
	}

	update := r.b.Update(database.GuildsTable.Name).
		Set("member_count", members).
		Set("total_xp", totalXP.Int64).
		Where(entsql.EQ("id", guildID))
	res, err := exec(ctx, r.db, update)
	if err != nil {
		return fmt.Errorf("update guild totals: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrGuildNotFound
	}
	return nil
}

func (r *guildRepository) memberInsert(m *entity.GuildMember, now time.Time) *entsql.InsertBuilder {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = now
	}
	return r.b.Insert(database.GuildMembersTable.Name).
		Columns(memberColumns...).
		Values(m.ID, m.GuildID, m.UserID, string(m.Role), m.JoinedAt)
}

func scanGuild(row scanner) (*entity.Guild, error) {
	var g entity.Guild
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Icon, &g.LeaderID, &g.TotalXP, &g.MemberCount, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

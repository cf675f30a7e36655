package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/repository"
)

func TestVocabularyRepositoryUpsertAndList(t *testing.T) {
	drv := openTestDriver(t)
	ctx := context.Background()
	repo := NewVocabularyRepository(drv).(*vocabularyRepository)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.clock = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	seed := []entity.VocabularyEntry{
		{UserID: "u1", Word: "hola", Translation: "hello", Language: "es", Mastery: 90},
		{UserID: "u1", Word: "gato", Translation: "cat", Language: "es", Mastery: 20},
		{UserID: "u1", Word: "gracias", Translation: "thank you", Language: "es", Mastery: 85},
		{UserID: "u1", Word: "bonjour", Translation: "hello", Language: "fr", Mastery: 0},
		{UserID: "u2", Word: "hola", Translation: "hi", Language: "es", Mastery: 10},
	}
	for i := range seed {
		if _, err := repo.Upsert(ctx, &seed[i]); err != nil {
			t.Fatalf("upsert %s: %v", seed[i].Word, err)
		}
	}

	updated, err := repo.Upsert(ctx, &entity.VocabularyEntry{UserID: "u1", Word: "gato", Translation: "cat (animal)", Language: "es", Mastery: 100})
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if updated.Translation != "cat (animal)" {
		t.Fatalf("expected translation replaced, got %q", updated.Translation)
	}
	if updated.Mastery != 20 {
		t.Fatalf("expected mastery preserved on conflict, got %d", updated.Mastery)
	}

	cases := []struct {
		name      string
		filter    string
		orderBy   string
		wantWords []string
		wantTotal int64
	}{
		{name: "default order newest first", wantWords: []string{"bonjour", "gracias", "gato", "hola"}, wantTotal: 4},
		{name: "language filter", filter: `language == "es"`, orderBy: "word", wantWords: []string{"gato", "gracias", "hola"}, wantTotal: 3},
		{name: "prefix", filter: `word.startsWith("g")`, orderBy: "word desc", wantWords: []string{"gracias", "gato"}, wantTotal: 2},
		{name: "mastered", filter: `mastery >= 80`, orderBy: "mastery desc", wantWords: []string{"hola", "gracias"}, wantTotal: 2},
		{name: "learning", filter: `mastery < 80 && language == "es"`, wantWords: []string{"gato"}, wantTotal: 1},
		{name: "in list", filter: `word in ["hola", "bonjour"]`, orderBy: "word", wantWords: []string{"bonjour", "hola"}, wantTotal: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, total, err := repo.List(ctx, &repository.ListVocabularyQuery{
				UserID:      "u1",
				FilterOrder: repository.FilterOrder{Filter: tc.filter, OrderBy: tc.orderBy},
			})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != tc.wantTotal {
				t.Fatalf("expected total %d, got %d", tc.wantTotal, total)
			}
			got := make([]string, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.Word)
			}
			if len(got) != len(tc.wantWords) {
				t.Fatalf("expected %v, got %v", tc.wantWords, got)
			}
			for i := range got {
				if got[i] != tc.wantWords[i] {
					t.Fatalf("expected %v, got %v", tc.wantWords, got)
				}
			}
		})
	}

	if _, _, err := repo.List(ctx, &repository.ListVocabularyQuery{
		UserID:      "u1",
		FilterOrder: repository.FilterOrder{Filter: `translation == "cat"`},
	}); !errors.Is(err, entity.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}

	page, total, err := repo.List(ctx, &repository.ListVocabularyQuery{
		UserID:     "u1",
		Pagination: repository.Pagination{PageNo: 2, PageSize: 3},
	})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if total != 4 || len(page) != 1 || page[0].Word != "hola" {
		t.Fatalf("unexpected second page: total=%d entries=%+v", total, page)
	}
}

func TestVocabularyRepositoryPracticeStatsDelete(t *testing.T) {
	drv := openTestDriver(t)
	ctx := context.Background()
	repo := NewVocabularyRepository(drv)

	saved, err := repo.Upsert(ctx, &entity.VocabularyEntry{UserID: "u1", Word: "perro", Translation: "dog", Language: "es", Mastery: 75})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.ID == "" || saved.LastPracticedAt != nil {
		t.Fatalf("unexpected saved entry: %+v", saved)
	}

	at := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	saved.Practice(true, at)
	practiced, err := repo.UpdatePractice(ctx, saved)
	if err != nil {
		t.Fatalf("update practice: %v", err)
	}
	if practiced.Mastery != 85 || practiced.TimesSeen != 1 || practiced.TimesCorrect != 1 {
		t.Fatalf("unexpected counters: %+v", practiced)
	}
	if practiced.LastPracticedAt == nil || !practiced.LastPracticedAt.Equal(at) {
		t.Fatalf("expected last practiced %v, got %v", at, practiced.LastPracticedAt)
	}

	if _, err := repo.GetByID(ctx, "someone-else", saved.ID); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound for foreign user, got %v", err)
	}
	if found, err := repo.FindByWord(ctx, "u1", "gato"); err != nil || found != nil {
		t.Fatalf("expected no match, got %+v err=%v", found, err)
	}

	if _, err := repo.Upsert(ctx, &entity.VocabularyEntry{UserID: "u1", Word: "sol", Translation: "sun", Language: "es"}); err != nil {
		t.Fatalf("upsert second: %v", err)
	}
	stats, err := repo.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats != (entity.VocabularyStats{Total: 2, Mastered: 1, Learning: 1}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := repo.Delete(ctx, "u1", saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "u1", saved.ID); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound on second delete, got %v", err)
	}
}

func TestProfileRepositorySaveAndLeaderboard(t *testing.T) {
	drv := openTestDriver(t)
	ctx := context.Background()
	profiles := NewProfileRepository(drv)
	guilds := NewGuildRepository(drv)

	if _, err := profiles.Get(ctx, "missing"); !errors.Is(err, entity.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	seed := []entity.Profile{
		{ID: "alice-1", Username: "alice", TotalXP: 300, Level: 3, Streak: 4, XPToNextLevel: 225},
		{ID: "bob-2222", TotalXP: 500, Level: 4, Streak: 1, XPToNextLevel: 337},
		{ID: "carol-3", Username: "carol", TotalXP: 50, Level: 1, Streak: 2, XPToNextLevel: 100},
	}
	for i := range seed {
		if _, err := profiles.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("save profile: %v", err)
		}
	}

	first, err := profiles.Get(ctx, "alice-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.TotalXP = 320
	first.LastPracticeDate = "2025-03-02"
	again, err := profiles.Save(ctx, first)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if again.TotalXP != 320 || again.LastPracticeDate != "2025-03-02" {
		t.Fatalf("profile not updated: %+v", again)
	}
	if !again.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed: %v vs %v", again.CreatedAt, first.CreatedAt)
	}

	if _, err := guilds.Create(ctx, &entity.Guild{Name: "Polyglots"}, &entity.GuildMember{UserID: "alice-1", XP: 320}); err != nil {
		t.Fatalf("create guild: %v", err)
	}

	top, err := profiles.TopByXP(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].UserID != "bob-2222" || top[0].Rank != 1 || top[0].Username != "Userbob-" {
		t.Fatalf("unexpected first entry: %+v", top[0])
	}
	if top[1].UserID != "alice-1" || top[1].Rank != 2 || top[1].GuildName != "Polyglots" || top[1].GuildIcon != entity.DefaultGuildIcon {
		t.Fatalf("unexpected second entry: %+v", top[1])
	}
}

func TestGuildRepositoryLifecycle(t *testing.T) {
	drv := openTestDriver(t)
	ctx := context.Background()
	profiles := NewProfileRepository(drv)
	repo := NewGuildRepository(drv)

	for _, p := range []entity.Profile{
		{ID: "leader", Username: "lea", TotalXP: 200},
		{ID: "member", Username: "mem", TotalXP: 50},
	} {
		p := p
		if _, err := profiles.Save(ctx, &p); err != nil {
			t.Fatalf("save profile: %v", err)
		}
	}

	guild, err := repo.Create(ctx, &entity.Guild{Name: "Night Owls", Description: "late learners"}, &entity.GuildMember{UserID: "leader", XP: 200})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if guild.LeaderID != "leader" || guild.MemberCount != 1 || guild.TotalXP != 200 {
		t.Fatalf("unexpected guild: %+v", guild)
	}

	if _, err := repo.Create(ctx, &entity.Guild{Name: "Night Owls"}, &entity.GuildMember{UserID: "member"}); !errors.Is(err, entity.ErrDuplicateGuildName) {
		t.Fatalf("expected ErrDuplicateGuildName, got %v", err)
	}
	if _, err := repo.Create(ctx, &entity.Guild{Name: "Second"}, &entity.GuildMember{UserID: "leader"}); !errors.Is(err, entity.ErrAlreadyInGuild) {
		t.Fatalf("expected ErrAlreadyInGuild, got %v", err)
	}
	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, entity.ErrGuildNotFound) {
		t.Fatalf("expected ErrGuildNotFound, got %v", err)
	}

	if err := repo.AddMember(ctx, &entity.GuildMember{GuildID: guild.ID, UserID: "member"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := repo.AddMember(ctx, &entity.GuildMember{GuildID: guild.ID, UserID: "member"}); !errors.Is(err, entity.ErrAlreadyInGuild) {
		t.Fatalf("expected ErrAlreadyInGuild, got %v", err)
	}
	if err := repo.RefreshTotals(ctx, guild.ID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err := repo.Get(ctx, guild.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MemberCount != 2 || got.TotalXP != 250 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	members, err := repo.Members(ctx, guild.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 || members[0].UserID != "leader" || members[0].Role != entity.GuildRoleLeader || members[1].Username != "mem" {
		t.Fatalf("unexpected members: %+v", members)
	}

	membership, err := repo.MembershipOf(ctx, "member")
	if err != nil || membership == nil || membership.GuildID != guild.ID || membership.Role != entity.GuildRoleMember {
		t.Fatalf("unexpected membership: %+v err=%v", membership, err)
	}
	if none, err := repo.MembershipOf(ctx, "stranger"); err != nil || none != nil {
		t.Fatalf("expected no membership, got %+v err=%v", none, err)
	}

	if err := repo.RemoveMember(ctx, guild.ID, "member"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.RemoveMember(ctx, guild.ID, "member"); !errors.Is(err, entity.ErrNotInGuild) {
		t.Fatalf("expected ErrNotInGuild, got %v", err)
	}

	if err := repo.Delete(ctx, guild.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if m, err := repo.MembershipOf(ctx, "leader"); err != nil || m != nil {
		t.Fatalf("expected leader membership gone, got %+v err=%v", m, err)
	}
	top, err := repo.ListTop(ctx, 10)
	if err != nil {
		t.Fatalf("list top: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("expected no guilds, got %+v", top)
	}
}

func TestLoginRewardRepositoryUpsertAndRecent(t *testing.T) {
	drv := openTestDriver(t)
	ctx := context.Background()
	repo := NewLoginRewardRepository(drv)

	for i, day := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		if _, err := repo.Upsert(ctx, &entity.LoginReward{
			UserID:          "u1",
			LoginDate:       day,
			DayNumber:       i + 1,
			XPReward:        entity.RewardForStreak(i + 1).XP,
			BonusMultiplier: entity.RewardMultiplier(i + 1),
		}); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	claimed, err := repo.Upsert(ctx, &entity.LoginReward{UserID: "u1", LoginDate: "2025-03-03", DayNumber: 3, XPReward: 20, BonusMultiplier: 1.3, Claimed: true})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.Claimed {
		t.Fatalf("expected claimed row, got %+v", claimed)
	}

	recent, err := repo.Recent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].LoginDate != "2025-03-03" || recent[1].LoginDate != "2025-03-02" {
		t.Fatalf("unexpected recent rows: %+v", recent)
	}
	if recent[0].ID != claimed.ID {
		t.Fatalf("expected upsert to keep the row id")
	}
}

func openTestDriver(t *testing.T) *entsql.Driver {
	t.Helper()
	requireSQLite(t)

	dsn := "file:" + filepath.Join(t.TempDir(), "repo.db") + "?_fk=1&cache=shared"
	drv, cleanup, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(cleanup)
	if err := database.Migrate(context.Background(), drv); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return drv
}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}

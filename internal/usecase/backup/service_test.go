package backup

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingolive/internal/adapter/repository"
	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
)

func TestServiceExportImportRoundTrip(t *testing.T) {
	requireSQLite(t)
	ctx := context.Background()

	srcDSN, srcDrv := openDatabase(t, "src.db")
	seedData(t, ctx, srcDrv)

	exporter, err := NewService("sqlite3", srcDSN)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	var buf bytes.Buffer
	progress := &countingProgress{}
	if err := exporter.Export(ctx, &buf, WithProgressReporter(progress)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if progress.rows["vocabulary"] != 2 || progress.rows["guild_members"] != 1 {
		t.Fatalf("unexpected progress: %+v", progress.rows)
	}

	dstDSN, dstDrv := openDatabase(t, "dst.db")
	importer, err := NewService("sqlite3", dstDSN)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	profile, err := repository.NewProfileRepository(dstDrv).Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get imported profile: %v", err)
	}
	if profile.TotalXP != 420 || !profile.IsPremium || profile.TargetLanguage != "es" || profile.LastPracticeDate != "2025-03-14" {
		t.Fatalf("profile mismatch after import: %+v", profile)
	}

	vocab := repository.NewVocabularyRepository(dstDrv)
	gato, err := vocab.FindByWord(ctx, "u1", "gato")
	if err != nil || gato == nil {
		t.Fatalf("find imported word: %+v, %v", gato, err)
	}
	if gato.Mastery != 70 || gato.TimesSeen != 3 || gato.LastPracticedAt == nil {
		t.Fatalf("vocabulary mismatch after import: %+v", gato)
	}
	if !gato.LastPracticedAt.Equal(time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected last practiced at %v", gato.LastPracticedAt)
	}
	perro, _ := vocab.FindByWord(ctx, "u1", "perro")
	if perro == nil || perro.LastPracticedAt != nil {
		t.Fatalf("expected perro with no practice time, got %+v", perro)
	}

	guilds := repository.NewGuildRepository(dstDrv)
	membership, err := guilds.MembershipOf(ctx, "u1")
	if err != nil || membership == nil || membership.Role != entity.GuildRoleLeader {
		t.Fatalf("membership mismatch after import: %+v, %v", membership, err)
	}

	rewards, err := repository.NewLoginRewardRepository(dstDrv).Recent(ctx, "u1", 7)
	if err != nil || len(rewards) != 1 {
		t.Fatalf("rewards mismatch after import: %+v, %v", rewards, err)
	}
	if !rewards[0].Claimed || rewards[0].BonusMultiplier != 1.2 {
		t.Errorf("unexpected reward row: %+v", rewards[0])
	}

	// Importing the same backup again overwrites rows in place.
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	stats, err := vocab.Stats(ctx, "u1")
	if err != nil || stats.Total != 2 {
		t.Fatalf("expected 2 words after re-import, got %+v, %v", stats, err)
	}
}

func TestServiceExportTablesFilter(t *testing.T) {
	requireSQLite(t)
	ctx := context.Background()

	srcDSN, srcDrv := openDatabase(t, "src.db")
	seedData(t, ctx, srcDrv)

	exporter, err := NewService("sqlite3", srcDSN)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf, WithTables([]string{"vocabulary"})); err != nil {
		t.Fatalf("filtered export failed: %v", err)
	}

	types := map[string]int{}
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var rec struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		types[rec.Type]++
	}
	if types["meta"] != 1 || types["vocabulary"] != 2 || len(types) != 2 {
		t.Fatalf("unexpected record types: %+v", types)
	}

	dstDSN, dstDrv := openDatabase(t, "dst.db")
	importer, err := NewService("sqlite3", dstDSN)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("filtered import failed: %v", err)
	}
	if _, err := repository.NewProfileRepository(dstDrv).Get(ctx, "u1"); !errors.Is(err, entity.ErrProfileNotFound) {
		t.Fatalf("expected no profiles, got %v", err)
	}
}

func TestServiceRejections(t *testing.T) {
	if _, err := NewService("mysql", "dsn"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := NewService("sqlite3", " "); err == nil {
		t.Fatal("expected missing dsn error")
	}

	requireSQLite(t)
	dsn, _ := openDatabase(t, "db.db")
	svc, err := NewService("sqlite3", dsn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	if err := svc.Export(ctx, &bytes.Buffer{}, WithTables([]string{"words"})); err == nil {
		t.Fatal("expected unknown table error")
	}
	noMeta := `{"type":"profiles","payload":{"id":"u1"}}` + "\n"
	if err := svc.Import(ctx, strings.NewReader(noMeta)); err == nil {
		t.Fatal("expected missing meta error")
	}
	badVersion := `{"type":"meta","meta":{"version":99}}` + "\n"
	if err := svc.Import(ctx, strings.NewReader(badVersion)); err == nil {
		t.Fatal("expected version error")
	}
}

type countingProgress struct {
	rows map[string]int
}

func (p *countingProgress) StartTable(table string, total int) {
	if p.rows == nil {
		p.rows = make(map[string]int)
	}
	p.rows[table] = 0
}

func (p *countingProgress) Increment(table string, delta int) { p.rows[table] += delta }

func (p *countingProgress) FinishTable(string) {}

func openDatabase(t *testing.T, name string) (string, *entsql.Driver) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), name) + "?_fk=1&cache=shared"
	drv, cleanup, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(cleanup)
	if err := database.Migrate(context.Background(), drv); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dsn, drv
}

func seedData(t *testing.T, ctx context.Context, drv *entsql.Driver) {
	t.Helper()
	if _, err := repository.NewProfileRepository(drv).Save(ctx, &entity.Profile{
		ID:               "u1",
		Username:         "ana",
		XP:               20,
		Level:            4,
		XPToNextLevel:    337,
		TotalXP:          420,
		Streak:           3,
		IsPremium:        true,
		TargetLanguage:   "es",
		LastPracticeDate: "2025-03-14",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	vocab := repository.NewVocabularyRepository(drv)
	gato, err := vocab.Upsert(ctx, &entity.VocabularyEntry{UserID: "u1", Word: "gato", Translation: "cat", Language: "es", Mastery: 70})
	if err != nil {
		t.Fatalf("seed vocabulary: %v", err)
	}
	practiced := time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC)
	gato.TimesSeen, gato.TimesCorrect, gato.LastPracticedAt = 3, 2, &practiced
	if _, err := vocab.UpdatePractice(ctx, gato); err != nil {
		t.Fatalf("seed practice: %v", err)
	}
	if _, err := vocab.Upsert(ctx, &entity.VocabularyEntry{UserID: "u1", Word: "perro", Translation: "dog", Language: "es"}); err != nil {
		t.Fatalf("seed vocabulary: %v", err)
	}

	if _, err := repository.NewGuildRepository(drv).Create(ctx,
		&entity.Guild{Name: "Polyglots"},
		&entity.GuildMember{UserID: "u1", XP: 420}); err != nil {
		t.Fatalf("seed guild: %v", err)
	}

	if _, err := repository.NewLoginRewardRepository(drv).Upsert(ctx, &entity.LoginReward{
		UserID:          "u1",
		LoginDate:       "2025-03-14",
		DayNumber:       2,
		XPReward:        15,
		BonusMultiplier: 1.2,
		Claimed:         true,
	}); err != nil {
		t.Fatalf("seed reward: %v", err)
	}
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

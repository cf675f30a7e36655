package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

func TestVocabularySaveNormalizes(t *testing.T) {
	repo := newFakeVocabularyRepo()
	uc := NewVocabularyUsecase(repo)

	got, err := uc.Save(context.Background(), "u1", &entity.VocabularyEntry{
		Word:        "  perro ",
		Translation: " dog ",
		Language:    "es_AR",
		Mastery:     -20,
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got.Word != "perro" || got.Translation != "dog" {
		t.Errorf("expected trimmed text, got %+v", got)
	}
	if got.Language != "es" {
		t.Errorf("expected language es, got %q", got.Language)
	}
	if got.Mastery != 0 {
		t.Errorf("expected mastery clamped to 0, got %d", got.Mastery)
	}
	if got.UserID != "u1" {
		t.Errorf("expected owner u1, got %q", got.UserID)
	}
}

func TestVocabularySaveValidation(t *testing.T) {
	uc := NewVocabularyUsecase(newFakeVocabularyRepo())
	cases := []struct {
		name    string
		userID  string
		entry   *entity.VocabularyEntry
		wantErr error
	}{
		{name: "missing user", userID: "", entry: &entity.VocabularyEntry{Word: "a", Translation: "b"}, wantErr: entity.ErrInvalidUserID},
		{name: "nil entry", userID: "u1", entry: nil, wantErr: entity.ErrInvalidWord},
		{name: "missing translation", userID: "u1", entry: &entity.VocabularyEntry{Word: "a"}, wantErr: entity.ErrInvalidWord},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Save(context.Background(), tc.userID, tc.entry); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestVocabularyPractice(t *testing.T) {
	repo := newFakeVocabularyRepo()
	uc := NewVocabularyUsecase(repo)
	uc.(*vocabularyUsecase).clock = fixedClock
	ctx := context.Background()

	saved, err := uc.Save(ctx, "u1", &entity.VocabularyEntry{Word: "casa", Translation: "house", Mastery: 50})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := uc.Practice(ctx, "u1", saved.ID, false)
	if err != nil {
		t.Fatalf("Practice returned error: %v", err)
	}
	if got.Mastery != 45 || got.TimesSeen != 1 || got.TimesCorrect != 0 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if _, err := uc.Practice(ctx, "u2", saved.ID, true); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected other users to get ErrWordNotFound, got %v", err)
	}
}

func TestVocabularyStatsAndDelete(t *testing.T) {
	repo := newFakeVocabularyRepo()
	uc := NewVocabularyUsecase(repo)
	ctx := context.Background()

	for _, e := range []entity.VocabularyEntry{
		{Word: "uno", Translation: "one", Mastery: 90},
		{Word: "dos", Translation: "two", Mastery: 10},
		{Word: "tres", Translation: "three", Mastery: 80},
	} {
		if _, err := uc.Save(ctx, "u1", &e); err != nil {
			t.Fatalf("Save %s: %v", e.Word, err)
		}
	}
	stats, err := uc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Mastered != 2 || stats.Learning != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	items, total, err := uc.List(ctx, &repository.ListVocabularyQuery{UserID: "u1"})
	if err != nil || total != 3 {
		t.Fatalf("List: total=%d err=%v", total, err)
	}
	if err := uc.Delete(ctx, "u1", items[0].ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := uc.Delete(ctx, "u1", items[0].ID); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound on second delete, got %v", err)
	}
}

func TestVocabularyImport(t *testing.T) {
	repo := newFakeVocabularyRepo()
	uc := NewVocabularyUsecase(repo)
	ctx := context.Background()

	res, err := uc.Import(ctx, "u1", []entity.VocabularyEntry{
		{Word: "gato", Translation: "cat"},
		{Word: "", Translation: "nothing"},
		{Word: "gato", Translation: "cat (m)"},
		{Word: "perro", Translation: "dog", Language: "fr"},
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if res.Processed != 4 || res.Created != 2 || res.Updated != 1 || len(res.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, _ := repo.FindByWord(ctx, "u1", "gato")
	if got == nil || got.Translation != "cat (m)" {
		t.Fatalf("expected gato to be updated, got %+v", got)
	}
	if got.Language != "es" {
		t.Errorf("expected default language es, got %q", got.Language)
	}
}

func TestVocabularyImportAbortsOnStorageFailure(t *testing.T) {
	repo := newFakeVocabularyRepo()
	repo.fail = errors.New("disk full")
	uc := NewVocabularyUsecase(repo)

	res, err := uc.Import(context.Background(), "u1", []entity.VocabularyEntry{{Word: "gato", Translation: "cat"}})
	if err == nil {
		t.Fatal("expected storage failure to abort the import")
	}
	if res.Created != 0 {
		t.Fatalf("expected nothing created, got %+v", res)
	}
}

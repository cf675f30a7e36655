package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/lingolive/internal/entity"
)

func newTestLearning(t *testing.T) (LearningUsecase, SessionRegistry) {
	t.Helper()
	sessions := newTestSessions(newFakeStateRepo(), newFakeProfileRepo(), nil)
	uc := NewLearningUsecase(sessions)
	uc.(*learningUsecase).clock = fixedClock
	return uc, sessions
}

func TestSetTargetLanguageSeedsSample(t *testing.T) {
	uc, _ := newTestLearning(t)

	state, err := uc.SetTargetLanguage(context.Background(), "u1", "es-MX")
	if err != nil {
		t.Fatalf("SetTargetLanguage returned error: %v", err)
	}
	if state.TargetLanguage == nil || state.TargetLanguage.Code != "es" {
		t.Fatalf("expected Spanish, got %+v", state.TargetLanguage)
	}
	want := len(entity.SampleVocabulary("es"))
	if len(state.Vocabulary) != want {
		t.Fatalf("expected %d seeded words, got %d", want, len(state.Vocabulary))
	}
	if state.Progress.TotalWords != want {
		t.Errorf("expected total words %d, got %d", want, state.Progress.TotalWords)
	}

	if _, err := uc.SetTargetLanguage(context.Background(), "u1", "tlh"); !errors.Is(err, entity.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestAddWord(t *testing.T) {
	uc, _ := newTestLearning(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		word      entity.Word
		wantErr   error
		wantAdded bool
	}{
		{name: "missing translation", word: entity.Word{Word: "perro"}, wantErr: entity.ErrInvalidWord},
		{name: "new word resets practice", word: entity.Word{ID: "w1", Word: " perro ", Translation: "dog", Mastery: 95, TimesCorrect: 7}, wantAdded: true},
		{name: "duplicate id", word: entity.Word{ID: "w1", Word: "perro", Translation: "dog"}, wantAdded: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, added, err := uc.AddWord(ctx, "u1", tc.word)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddWord returned error: %v", err)
			}
			if added != tc.wantAdded {
				t.Fatalf("expected added=%v, got %v", tc.wantAdded, added)
			}
			if got.Word != "perro" || got.Mastery != 0 || got.TimesCorrect != 0 || got.LastPracticed != nil {
				t.Errorf("unexpected stored word: %+v", got)
			}
		})
	}
}

func TestAddWordCountsAsLearning(t *testing.T) {
	uc, sessions := newTestLearning(t)
	ctx := context.Background()
	if _, _, err := uc.AddWord(ctx, "u1", entity.Word{ID: "w1", Word: "casa", Translation: "house", Mastery: 95}); err != nil {
		t.Fatalf("AddWord: %v", err)
	}
	st, _ := sessions.Open(ctx, "u1")
	p := st.Progress()
	if p.TotalWords != 1 || p.KnownWords != 0 || p.LearningWords != 1 {
		t.Fatalf("unexpected counts: %+v", p)
	}
}

func TestAddWordGeneratesID(t *testing.T) {
	uc, _ := newTestLearning(t)
	got, added, err := uc.AddWord(context.Background(), "u1", entity.Word{Word: "sol", Translation: "sun"})
	if err != nil || !added {
		t.Fatalf("AddWord: added=%v err=%v", added, err)
	}
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestUpdateWordMasteryUnknownWord(t *testing.T) {
	uc, sessions := newTestLearning(t)
	ctx := context.Background()
	if _, err := uc.UpdateWordMastery(ctx, "u1", "missing", true); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}
	st, _ := sessions.Open(ctx, "u1")
	if st.Progress().TotalWords != 0 {
		t.Fatal("expected state to be untouched")
	}
}

func TestUpdateWordMastery(t *testing.T) {
	uc, sessions := newTestLearning(t)
	ctx := context.Background()
	st, err := sessions.Open(ctx, "u1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st.AddWord(entity.Word{ID: "w1", Word: "luna", Translation: "moon", Mastery: 75})
	got, err := uc.UpdateWordMastery(ctx, "u1", "w1", true)
	if err != nil {
		t.Fatalf("UpdateWordMastery returned error: %v", err)
	}
	if got.Mastery != 85 || got.TimesCorrect != 1 {
		t.Fatalf("unexpected word after practice: %+v", got)
	}
	if got.LastPracticed == nil || !got.LastPracticed.Equal(fixedNow) {
		t.Errorf("expected last practiced at %v, got %v", fixedNow, got.LastPracticed)
	}
	state, err := uc.State(ctx, "u1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Progress.KnownWords != 1 {
		t.Errorf("expected one known word, got %d", state.Progress.KnownWords)
	}
}

func TestSetStoryMode(t *testing.T) {
	uc, _ := newTestLearning(t)
	ctx := context.Background()

	mode, err := uc.SetStoryMode(ctx, "u1", "restaurant")
	if err != nil {
		t.Fatalf("SetStoryMode returned error: %v", err)
	}
	if mode == nil || mode.ID != "restaurant" {
		t.Fatalf("unexpected mode: %+v", mode)
	}
	state, _ := uc.State(ctx, "u1")
	if state.StoryMode == nil || state.StoryMode.ID != "restaurant" {
		t.Fatalf("expected restaurant in state, got %+v", state.StoryMode)
	}

	if _, err := uc.SetStoryMode(ctx, "u1", "space-station"); !errors.Is(err, entity.ErrStoryModeNotFound) {
		t.Fatalf("expected ErrStoryModeNotFound, got %v", err)
	}

	mode, err = uc.SetStoryMode(ctx, "u1", "")
	if err != nil || mode != nil {
		t.Fatalf("expected story mode to clear, got %+v, %v", mode, err)
	}
	state, _ = uc.State(ctx, "u1")
	if state.StoryMode != nil {
		t.Fatal("expected no story mode")
	}
}

func TestClearMessages(t *testing.T) {
	uc, sessions := newTestLearning(t)
	ctx := context.Background()
	st, _ := sessions.Open(ctx, "u1")
	st.AddMessage(entity.Message{ID: "m1", Role: entity.RoleUser, Content: "hola"})

	if err := uc.ClearMessages(ctx, "u1"); err != nil {
		t.Fatalf("ClearMessages returned error: %v", err)
	}
	if len(st.Messages()) != 0 {
		t.Fatal("expected empty transcript")
	}
}

func TestBookmarkWordOfTheDay(t *testing.T) {
	uc, _ := newTestLearning(t)
	ctx := context.Background()

	view, err := uc.WordOfTheDay(ctx, "u1")
	if err != nil {
		t.Fatalf("WordOfTheDay returned error: %v", err)
	}
	if view.Language != "es" || view.Saved {
		t.Fatalf("unexpected initial view: %+v", view)
	}
	if view.Word != entity.PickWordOfTheDay("es", fixedNow) {
		t.Fatalf("unexpected word: %+v", view.Word)
	}

	word, added, err := uc.BookmarkWordOfTheDay(ctx, "u1")
	if err != nil || !added {
		t.Fatalf("first bookmark: added=%v err=%v", added, err)
	}
	if word.Word != view.Word.Word {
		t.Errorf("expected %q, got %q", view.Word.Word, word.Word)
	}
	state, _ := uc.State(ctx, "u1")
	if state.Progress.XP != entity.WordOfTheDayXP {
		t.Fatalf("expected %d xp, got %d", entity.WordOfTheDayXP, state.Progress.XP)
	}

	_, added, err = uc.BookmarkWordOfTheDay(ctx, "u1")
	if err != nil || added {
		t.Fatalf("second bookmark: added=%v err=%v", added, err)
	}
	state, _ = uc.State(ctx, "u1")
	if state.Progress.XP != entity.WordOfTheDayXP {
		t.Fatalf("expected xp to be awarded once, got %d", state.Progress.XP)
	}

	view, _ = uc.WordOfTheDay(ctx, "u1")
	if !view.Saved {
		t.Fatal("expected word of the day to be marked saved")
	}
}

func TestAchievements(t *testing.T) {
	uc, _ := newTestLearning(t)
	got, err := uc.Achievements(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Achievements returned error: %v", err)
	}
	if len(got) != len(entity.Achievements()) {
		t.Fatalf("expected %d achievements, got %d", len(entity.Achievements()), len(got))
	}
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/store"
)

// LearningState is a read-only view of a learner's session.
type LearningState struct {
	TargetLanguage    *entity.Language    `json:"targetLanguage"`
	Progress          entity.UserProgress `json:"progress"`
	Vocabulary        []entity.Word       `json:"vocabulary"`
	Messages          []entity.Message    `json:"messages"`
	StoryMode         *entity.StoryMode   `json:"currentStoryMode"`
	MessagesRemaining int                 `json:"messagesRemaining"`
	LevelProgress     float64             `json:"levelProgress"`
}

// WordOfTheDayView pairs the featured word with whether it was bookmarked.
type WordOfTheDayView struct {
	Language string              `json:"language"`
	Word     entity.WordOfTheDay `json:"word"`
	Saved    bool                `json:"saved"`
}

// LearningUsecase exposes the safe operations on a learner's store.
type LearningUsecase interface {
	State(ctx context.Context, userID string) (*LearningState, error)
	SetTargetLanguage(ctx context.Context, userID, code string) (*LearningState, error)
	AddWord(ctx context.Context, userID string, word entity.Word) (entity.Word, bool, error)
	UpdateWordMastery(ctx context.Context, userID, wordID string, correct bool) (entity.Word, error)
	ClearMessages(ctx context.Context, userID string) error
	// SetStoryMode activates a scenario; an empty id leaves story mode.
	SetStoryMode(ctx context.Context, userID, storyModeID string) (*entity.StoryMode, error)
	WordOfTheDay(ctx context.Context, userID string) (*WordOfTheDayView, error)
	// BookmarkWordOfTheDay adds today's word to the vocabulary and awards
	// its XP the first time.
	BookmarkWordOfTheDay(ctx context.Context, userID string) (entity.Word, bool, error)
	Achievements(ctx context.Context, userID string) ([]entity.AchievementStatus, error)
}

// NewLearningUsecase wires the session registry with default behaviour.
func NewLearningUsecase(sessions SessionRegistry) LearningUsecase {
	return &learningUsecase{sessions: sessions, clock: time.Now}
}

type learningUsecase struct {
	sessions SessionRegistry
	clock    func() time.Time
}

func (u *learningUsecase) State(ctx context.Context, userID string) (*LearningState, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stateOf(st), nil
}

func stateOf(st *store.Store) *LearningState {
	progress := st.Progress()
	state := &LearningState{
		Progress:          progress,
		Vocabulary:        st.Vocabulary(),
		Messages:          st.Messages(),
		MessagesRemaining: progress.MessagesRemaining(),
		LevelProgress:     progress.LevelProgress(),
	}
	if lang, ok := st.TargetLanguage(); ok {
		state.TargetLanguage = &lang
	}
	if id, ok := st.StoryMode(); ok {
		if mode, found := entity.LookupStoryMode(id); found {
			state.StoryMode = &mode
		}
	}
	return state
}

func (u *learningUsecase) SetTargetLanguage(ctx context.Context, userID, code string) (*LearningState, error) {
	lang, err := entity.ParseLanguage(code)
	if err != nil {
		return nil, err
	}
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.SetTargetLanguage(lang)
	if err := u.sessions.Save(ctx, userID); err != nil {
		return nil, err
	}
	return stateOf(st), nil
}

func (u *learningUsecase) AddWord(ctx context.Context, userID string, word entity.Word) (entity.Word, bool, error) {
	word.Word = strings.TrimSpace(word.Word)
	word.Translation = strings.TrimSpace(word.Translation)
	if word.Word == "" || word.Translation == "" {
		return entity.Word{}, false, entity.ErrInvalidWord
	}
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	// New words start unpracticed.
	word.Mastery = 0
	word.TimesCorrect = 0
	word.TimesIncorrect = 0
	word.LastPracticed = nil

	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return entity.Word{}, false, err
	}
	added := st.AddWord(word)
	if added {
		if err := u.sessions.Save(ctx, userID); err != nil {
			return entity.Word{}, false, err
		}
	}
	stored, _ := st.Word(word.ID)
	return stored, added, nil
}

func (u *learningUsecase) UpdateWordMastery(ctx context.Context, userID, wordID string, correct bool) (entity.Word, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return entity.Word{}, err
	}
	updated, ok := st.UpdateWordMastery(wordID, correct)
	if !ok {
		return entity.Word{}, entity.ErrWordNotFound
	}
	if err := u.sessions.Save(ctx, userID); err != nil {
		return entity.Word{}, err
	}
	return updated, nil
}

func (u *learningUsecase) ClearMessages(ctx context.Context, userID string) error {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return err
	}
	st.ClearMessages()
	return nil
}

func (u *learningUsecase) SetStoryMode(ctx context.Context, userID, storyModeID string) (*entity.StoryMode, error) {
	storyModeID = strings.TrimSpace(storyModeID)
	var mode *entity.StoryMode
	if storyModeID != "" {
		found, ok := entity.LookupStoryMode(storyModeID)
		if !ok {
			return nil, entity.ErrStoryModeNotFound
		}
		mode = &found
	}
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.SetStoryMode(storyModeID)
	if err := u.sessions.Save(ctx, userID); err != nil {
		return nil, err
	}
	return mode, nil
}

func (u *learningUsecase) WordOfTheDay(ctx context.Context, userID string) (*WordOfTheDayView, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	code := languageCodeOf(st)
	today := u.clock()
	wotd := entity.PickWordOfTheDay(code, today)
	_, saved := st.Word(wotd.ToWord(code, today).ID)
	return &WordOfTheDayView{Language: code, Word: wotd, Saved: saved}, nil
}

func (u *learningUsecase) BookmarkWordOfTheDay(ctx context.Context, userID string) (entity.Word, bool, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return entity.Word{}, false, err
	}
	code := languageCodeOf(st)
	today := u.clock()
	word := entity.PickWordOfTheDay(code, today).ToWord(code, today)
	if !st.AddWord(word) {
		existing, _ := st.Word(word.ID)
		return existing, false, nil
	}
	st.AddXP(entity.WordOfTheDayXP)
	if err := u.sessions.Save(ctx, userID); err != nil {
		return entity.Word{}, false, err
	}
	return word, true, nil
}

func (u *learningUsecase) Achievements(ctx context.Context, userID string) ([]entity.AchievementStatus, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entity.EvaluateAchievements(st.Progress()), nil
}

func languageCodeOf(st *store.Store) string {
	if lang, ok := st.TargetLanguage(); ok {
		return lang.Code
	}
	return entity.DefaultTutorLanguage.Code
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

// Flashcard XP.
const (
	PracticeCorrectXP   = 5
	PracticeIncorrectXP = 1
)

var comboBonuses = map[int]int{3: 5, 5: 10}

// PracticeResult reports the outcome of one flashcard answer.
type PracticeResult struct {
	Word       entity.Word         `json:"word"`
	XPAwarded  int                 `json:"xpAwarded"`
	ComboBonus int                 `json:"comboBonus"`
	Combo      int                 `json:"combo"`
	LevelsUp   int                 `json:"levelsUp"`
	Progress   entity.UserProgress `json:"progress"`
}

// PracticeUsecase grades flashcard answers.
type PracticeUsecase interface {
	Answer(ctx context.Context, userID, wordID string, correct bool) (*PracticeResult, error)
	// ResetCombo ends the current run of correct answers.
	ResetCombo(userID string)
}

// NewPracticeUsecase wires the sessions and the durable vocabulary.
// vocabulary may be nil.
func NewPracticeUsecase(sessions SessionRegistry, vocabulary repository.VocabularyRepository, logger *logrus.Logger) PracticeUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &practiceUsecase{
		sessions:   sessions,
		vocabulary: vocabulary,
		logger:     logger,
		clock:      time.Now,
		combos:     make(map[string]int),
	}
}

type practiceUsecase struct {
	sessions   SessionRegistry
	vocabulary repository.VocabularyRepository
	logger     *logrus.Logger
	clock      func() time.Time

	mu     sync.Mutex
	combos map[string]int
}

func (u *practiceUsecase) Answer(ctx context.Context, userID, wordID string, correct bool) (*PracticeResult, error) {
	st, err := u.sessions.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	word, ok := st.UpdateWordMastery(wordID, correct)
	if !ok {
		return nil, entity.ErrWordNotFound
	}

	combo, bonus := u.advanceCombo(userID, correct)
	xp := PracticeIncorrectXP
	if correct {
		xp = PracticeCorrectXP
	}
	levels := 0
	if bonus > 0 {
		levels += st.AddXP(bonus)
	}
	levels += st.AddXP(xp)

	u.mirror(ctx, userID, word, correct)

	if err := u.sessions.Save(ctx, userID); err != nil {
		return nil, err
	}
	return &PracticeResult{
		Word:       word,
		XPAwarded:  xp + bonus,
		ComboBonus: bonus,
		Combo:      combo,
		LevelsUp:   levels,
		Progress:   st.Progress(),
	}, nil
}

func (u *practiceUsecase) advanceCombo(userID string, correct bool) (int, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !correct {
		delete(u.combos, userID)
		return 0, 0
	}
	u.combos[userID]++
	combo := u.combos[userID]
	return combo, comboBonuses[combo]
}

func (u *practiceUsecase) ResetCombo(userID string) {
	u.mu.Lock()
	delete(u.combos, userID)
	u.mu.Unlock()
}

// mirror applies the answer to the durable vocabulary row with the same
// word, when one exists.
func (u *practiceUsecase) mirror(ctx context.Context, userID string, word entity.Word, correct bool) {
	if u.vocabulary == nil {
		return
	}
	entry, err := u.vocabulary.FindByWord(ctx, userID, word.Word)
	if err != nil {
		u.logger.WithError(err).WithField("word", word.Word).Warn("lookup durable vocabulary failed")
		return
	}
	if entry == nil {
		return
	}
	entry.Practice(correct, u.clock())
	if _, err := u.vocabulary.UpdatePractice(ctx, entry); err != nil {
		u.logger.WithError(err).WithField("word", word.Word).Warn("mirror practice failed")
	}
}

package entity

import (
	"strings"
	"time"
)

// Mastery bounds and adjustments for vocabulary practice.
const (
	MasteryMin       = 0
	MasteryMax       = 100
	MasteryKnown     = 80
	MasteryCorrect   = 10
	MasteryIncorrect = -5
)

// Word is one vocabulary item the learner has encountered.
type Word struct {
	ID             string     `json:"id"`
	Word           string     `json:"word"`
	Translation    string     `json:"translation"`
	Pronunciation  string     `json:"pronunciation"`
	PartOfSpeech   string     `json:"partOfSpeech"`
	Examples       []string   `json:"examples,omitempty"`
	Mastery        int        `json:"mastery"`
	LastPracticed  *time.Time `json:"lastPracticed,omitempty"`
	TimesCorrect   int        `json:"timesCorrect"`
	TimesIncorrect int        `json:"timesIncorrect"`
}

// IsKnown reports whether the word counts as known.
func (w Word) IsKnown() bool {
	return w.Mastery >= MasteryKnown
}

// Practice applies one recall outcome at the given time.
func (w *Word) Practice(correct bool, at time.Time) {
	delta := MasteryIncorrect
	if correct {
		delta = MasteryCorrect
	}
	w.Mastery = ClampMastery(w.Mastery + delta)
	if correct {
		w.TimesCorrect++
	} else {
		w.TimesIncorrect++
	}
	practiced := at
	w.LastPracticed = &practiced
}

// Clone returns a deep copy of the word.
func (w Word) Clone() Word {
	out := w
	if w.Examples != nil {
		out.Examples = append([]string(nil), w.Examples...)
	}
	if w.LastPracticed != nil {
		t := *w.LastPracticed
		out.LastPracticed = &t
	}
	return out
}

// ClampMastery bounds a mastery score to [MasteryMin, MasteryMax].
func ClampMastery(v int) int {
	if v < MasteryMin {
		return MasteryMin
	}
	if v > MasteryMax {
		return MasteryMax
	}
	return v
}

// WordInContext is a word annotated inside a tutor reply.
type WordInContext struct {
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	Pronunciation string `json:"pronunciation"`
	PartOfSpeech  string `json:"partOfSpeech"`
	IsKnown       bool   `json:"isKnown"`
	IsNew         bool   `json:"isNew"`
}

// NormalizeWordToken lowercases and trims a word for comparison.
func NormalizeWordToken(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ContextWordID derives a stable vocabulary id for a word introduced in a
// conversation, so that the same word is added at most once per language.
func ContextWordID(languageCode, word string) string {
	return languageCode + ":" + NormalizeWordToken(word)
}

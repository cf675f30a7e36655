package entity

import (
	"strings"
	"time"
)

// VocabularyEntry is a durable vocabulary row owned by a user.
type VocabularyEntry struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Word            string     `json:"word"`
	Translation     string     `json:"translation"`
	Pronunciation   string     `json:"pronunciation,omitempty"`
	PartOfSpeech    string     `json:"partOfSpeech,omitempty"`
	Language        string     `json:"language"`
	Example         string     `json:"example,omitempty"`
	Mastery         int        `json:"mastery"`
	TimesSeen       int        `json:"timesSeen"`
	TimesCorrect    int        `json:"timesCorrect"`
	LastPracticedAt *time.Time `json:"lastPracticedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Normalize trims text fields and validates required ones.
func (e *VocabularyEntry) Normalize() error {
	e.Word = strings.TrimSpace(e.Word)
	e.Translation = strings.TrimSpace(e.Translation)
	e.Pronunciation = strings.TrimSpace(e.Pronunciation)
	e.PartOfSpeech = strings.TrimSpace(e.PartOfSpeech)
	e.Example = strings.TrimSpace(e.Example)
	if e.Word == "" || e.Translation == "" {
		return ErrInvalidWord
	}
	if code := NormalizeLanguageCode(e.Language); code != "" {
		e.Language = code
	}
	e.Mastery = ClampMastery(e.Mastery)
	return nil
}

// Practice records one review of the entry.
func (e *VocabularyEntry) Practice(correct bool, at time.Time) {
	e.TimesSeen++
	if correct {
		e.TimesCorrect++
		e.Mastery = ClampMastery(e.Mastery + MasteryCorrect)
	} else {
		e.Mastery = ClampMastery(e.Mastery + MasteryIncorrect)
	}
	practiced := at
	e.LastPracticedAt = &practiced
}

// VocabularyStats summarizes a user's durable vocabulary.
type VocabularyStats struct {
	Total    int `json:"total"`
	Mastered int `json:"mastered"`
	Learning int `json:"learning"`
}

// FromWord builds a durable entry from an in-session word.
func FromWord(userID, languageCode string, w Word) VocabularyEntry {
	entry := VocabularyEntry{
		UserID:        userID,
		Word:          w.Word,
		Translation:   w.Translation,
		Pronunciation: w.Pronunciation,
		PartOfSpeech:  w.PartOfSpeech,
		Language:      languageCode,
		Mastery:       w.Mastery,
		TimesSeen:     w.TimesCorrect + w.TimesIncorrect,
		TimesCorrect:  w.TimesCorrect,
	}
	if len(w.Examples) > 0 {
		entry.Example = w.Examples[0]
	}
	return entry
}

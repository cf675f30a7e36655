package repository

import (
	"context"

	"github.com/eslsoft/lingolive/internal/entity"
)

// ListVocabularyQuery holds parameters for listing a user's vocabulary.
type ListVocabularyQuery struct {
	Pagination
	FilterOrder

	UserID string
}

// VocabularyRepository persists durable vocabulary rows keyed by (user, word).
type VocabularyRepository interface {
	// Upsert inserts the entry or, when the user already saved the word,
	// replaces its translation details. Practice counters are kept.
	Upsert(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error)
	UpdatePractice(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error)
	GetByID(ctx context.Context, userID, id string) (*entity.VocabularyEntry, error)
	FindByWord(ctx context.Context, userID, word string) (*entity.VocabularyEntry, error)
	List(ctx context.Context, query *ListVocabularyQuery) ([]entity.VocabularyEntry, int64, error)
	Stats(ctx context.Context, userID string) (entity.VocabularyStats, error)
	Delete(ctx context.Context, userID, id string) error
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

// ImportResult summarizes a bulk vocabulary import.
type ImportResult struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors,omitempty"`
}

// VocabularyUsecase manages a learner's durable vocabulary.
type VocabularyUsecase interface {
	List(ctx context.Context, query *repository.ListVocabularyQuery) ([]entity.VocabularyEntry, int64, error)
	Save(ctx context.Context, userID string, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error)
	Practice(ctx context.Context, userID, id string, correct bool) (*entity.VocabularyEntry, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (entity.VocabularyStats, error)
	Import(ctx context.Context, userID string, entries []entity.VocabularyEntry) (*ImportResult, error)
}

// NewVocabularyUsecase wires the repository with default behaviour.
func NewVocabularyUsecase(repo repository.VocabularyRepository) VocabularyUsecase {
	return &vocabularyUsecase{repo: repo, clock: time.Now}
}

type vocabularyUsecase struct {
	repo  repository.VocabularyRepository
	clock func() time.Time
}

func (u *vocabularyUsecase) List(ctx context.Context, query *repository.ListVocabularyQuery) ([]entity.VocabularyEntry, int64, error) {
	if query == nil || strings.TrimSpace(query.UserID) == "" {
		return nil, 0, entity.ErrInvalidUserID
	}
	return u.repo.List(ctx, query)
}

func (u *vocabularyUsecase) Save(ctx context.Context, userID string, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, entity.ErrInvalidUserID
	}
	if entry == nil {
		return nil, entity.ErrInvalidWord
	}
	copy := *entry
	copy.UserID = userID
	if err := copy.Normalize(); err != nil {
		return nil, err
	}
	if copy.Language == "" {
		copy.Language = entity.DefaultTutorLanguage.Code
	}
	return u.repo.Upsert(ctx, &copy)
}

func (u *vocabularyUsecase) Practice(ctx context.Context, userID, id string, correct bool) (*entity.VocabularyEntry, error) {
	if id == "" {
		return nil, entity.ErrWordNotFound
	}
	existing, err := u.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	existing.Practice(correct, u.clock())
	return u.repo.UpdatePractice(ctx, existing)
}

func (u *vocabularyUsecase) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return entity.ErrWordNotFound
	}
	return u.repo.Delete(ctx, userID, id)
}

func (u *vocabularyUsecase) Stats(ctx context.Context, userID string) (entity.VocabularyStats, error) {
	if strings.TrimSpace(userID) == "" {
		return entity.VocabularyStats{}, entity.ErrInvalidUserID
	}
	return u.repo.Stats(ctx, userID)
}

// Import upserts every entry. Invalid rows are reported and skipped; a
// storage failure aborts the import.
func (u *vocabularyUsecase) Import(ctx context.Context, userID string, entries []entity.VocabularyEntry) (*ImportResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, entity.ErrInvalidUserID
	}
	result := &ImportResult{}
	for i := range entries {
		result.Processed++
		entry := entries[i]
		entry.UserID = userID
		if err := entry.Normalize(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		existing, err := u.repo.FindByWord(ctx, userID, entry.Word)
		if err != nil {
			return result, err
		}
		if _, err := u.Save(ctx, userID, &entry); err != nil {
			if errors.Is(err, entity.ErrInvalidWord) {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			return result, err
		}
		if existing != nil {
			result.Updated++
		} else {
			result.Created++
		}
	}
	return result, nil
}

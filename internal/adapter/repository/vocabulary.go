package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/pkg/filterexpr"
)

var vocabularyColumns = []string{
	"id", "user_id", "word", "translation", "pronunciation", "part_of_speech",
	"language", "example", "mastery", "times_seen", "times_correct",
	"last_practiced_at", "created_at",
}

type vocabularyRepository struct {
	sqlBase
	clock func() time.Time
}

// NewVocabularyRepository constructs an SQL-backed vocabulary repository.
func NewVocabularyRepository(drv *entsql.Driver) repository.VocabularyRepository {
	return &vocabularyRepository{sqlBase: newSQLBase(drv), clock: time.Now}
}

func (r *vocabularyRepository) table() string { return database.VocabularyTable.Name }

func (r *vocabularyRepository) Upsert(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, entity.ErrInvalidWord
	}
	row := *entry
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.clock().UTC()
	}

	insert := r.b.Insert(r.table()).
		Columns(vocabularyColumns...).
		Values(
			row.ID, row.UserID, row.Word, row.Translation, row.Pronunciation, row.PartOfSpeech,
			row.Language, row.Example, row.Mastery, row.TimesSeen, row.TimesCorrect,
			nullableTime(row.LastPracticedAt), row.CreatedAt,
		).
		OnConflict(
			entsql.ConflictColumns("user_id", "word"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("translation")
				u.SetExcluded("pronunciation")
				u.SetExcluded("part_of_speech")
				u.SetExcluded("language")
				u.SetExcluded("example")
			}),
		)
	if _, err := exec(ctx, r.db, insert); err != nil {
		return nil, fmt.Errorf("upsert vocabulary: %w", translateError(err, entity.ErrDuplicateWord, nil))
	}

	saved, err := r.FindByWord(ctx, row.UserID, row.Word)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, entity.ErrWordNotFound
	}
	return saved, nil
}

func (r *vocabularyRepository) UpdatePractice(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	update := r.b.Update(r.table()).
		Set("mastery", entry.Mastery).
		Set("times_seen", entry.TimesSeen).
		Set("times_correct", entry.TimesCorrect).
		Where(entsql.And(entsql.EQ("id", entry.ID), entsql.EQ("user_id", entry.UserID)))
	if entry.LastPracticedAt != nil {
		update.Set("last_practiced_at", *entry.LastPracticedAt)
	}
	res, err := exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update vocabulary practice: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entity.ErrWordNotFound
	}
	return r.GetByID(ctx, entry.UserID, entry.ID)
}

func (r *vocabularyRepository) GetByID(ctx context.Context, userID, id string) (*entity.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := r.b.Select(vocabularyColumns...).
		From(r.b.Table(r.table())).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", userID)))
	entry, err := scanVocabulary(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("get vocabulary: %w", err)
	}
	return entry, nil
}

func (r *vocabularyRepository) FindByWord(ctx context.Context, userID, word string) (*entity.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if word == "" {
		return nil, nil
	}
	sel := r.b.Select(vocabularyColumns...).
		From(r.b.Table(r.table())).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("word", word)))
	entry, err := scanVocabulary(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find vocabulary: %w", err)
	}
	return entry, nil
}

func (r *vocabularyRepository) List(ctx context.Context, query *repository.ListVocabularyQuery) ([]entity.VocabularyEntry, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if query == nil {
		query = &repository.ListVocabularyQuery{}
	}
	query.Pagination.Normalize()

	var params listVocabularyParams
	order, err := filterexpr.Bind(&query.FilterOrder, &params, listVocabularySchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidFilter, err)
	}

	total, err := count(ctx, r.db, r.b.Select(entsql.Count("*")).
		From(r.b.Table(r.table())).
		Where(vocabularyPredicate(query.UserID, params)))
	if err != nil {
		return nil, 0, fmt.Errorf("count vocabulary: %w", err)
	}

	sel := r.b.Select(vocabularyColumns...).
		From(r.b.Table(r.table())).
		Where(vocabularyPredicate(query.UserID, params)).
		OrderBy(
			orderTerm(listVocabularySchema.Order, order.Primary),
			orderTerm(listVocabularySchema.Order, order.Secondary),
		).
		Limit(int(query.PageSize)).
		Offset(int(query.Offset()))

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, 0, fmt.Errorf("list vocabulary: %w", err)
	}
	defer rows.Close()

	entries := make([]entity.VocabularyEntry, 0, query.PageSize)
	for rows.Next() {
		entry, err := scanVocabulary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vocabulary: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vocabulary: %w", err)
	}
	return entries, total, nil
}

func (r *vocabularyRepository) Stats(ctx context.Context, userID string) (entity.VocabularyStats, error) {
	if err := ctx.Err(); err != nil {
		return entity.VocabularyStats{}, err
	}
	total, err := count(ctx, r.db, r.b.Select(entsql.Count("*")).
		From(r.b.Table(r.table())).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return entity.VocabularyStats{}, fmt.Errorf("count vocabulary: %w", err)
	}
	mastered, err := count(ctx, r.db, r.b.Select(entsql.Count("*")).
		From(r.b.Table(r.table())).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.GTE("mastery", entity.MasteryKnown))))
	if err != nil {
		return entity.VocabularyStats{}, fmt.Errorf("count mastered vocabulary: %w", err)
	}
	return entity.VocabularyStats{
		Total:    int(total),
		Mastered: int(mastered),
		Learning: int(total - mastered),
	}, nil
}

func (r *vocabularyRepository) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := exec(ctx, r.db, r.b.Delete(r.table()).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", userID))))
	if err != nil {
		return fmt.Errorf("delete vocabulary: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrWordNotFound
	}
	return nil
}

func vocabularyPredicate(userID string, p listVocabularyParams) *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if p.Language != "" {
		code := entity.NormalizeLanguageCode(p.Language)
		if code == "" {
			code = p.Language
		}
		preds = append(preds, entsql.EQ("language", code))
	}
	if p.Word != "" {
		preds = append(preds, entsql.EQ("word", p.Word))
	}
	if p.WordPrefix != "" {
		preds = append(preds, entsql.HasPrefix("word", p.WordPrefix))
	}
	if words := uniqueTrimmed(p.Words); len(words) > 0 {
		preds = append(preds, entsql.In("word", toAny(words)...))
	}
	if p.MasteryBelow != nil {
		preds = append(preds, entsql.LT("mastery", *p.MasteryBelow))
	}
	if p.MasteryAtLeast != nil {
		preds = append(preds, entsql.GTE("mastery", *p.MasteryAtLeast))
	}
	if p.CreatedAfter != nil {
		preds = append(preds, entsql.GTE("created_at", p.CreatedAfter.UTC()))
	}
	if p.CreatedBefore != nil {
		preds = append(preds, entsql.LT("created_at", p.CreatedBefore.UTC()))
	}
	return entsql.And(preds...)
}

func scanVocabulary(row scanner) (*entity.VocabularyEntry, error) {
	var (
		e         entity.VocabularyEntry
		practiced sql.NullTime
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Word, &e.Translation, &e.Pronunciation, &e.PartOfSpeech,
		&e.Language, &e.Example, &e.Mastery, &e.TimesSeen, &e.TimesCorrect,
		&practiced, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.LastPracticedAt = timePtr(practiced)
	return &e, nil
}

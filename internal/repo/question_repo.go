// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Question
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a question is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// Question list orderings accepted by ListQuestionsPage.
const (
	OrderNewest = "newest"
	OrderScore  = "score"
)

// QuestionWithScore carries a question row together with its ledger-computed
// score. The score is never stored; list queries derive it with a grouped
// LEFT JOIN over the votes table.
type QuestionWithScore struct {
	domain.Question
	Score int64 `json:"score"`
}

// CreateQuestion inserts a new question authored by userID.
func CreateQuestion(ctx context.Context, db *gorm.DB, userID, title, body string) (*domain.Question, error) {
	q := &domain.Question{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuestion fetches a question by ID with author and tags preloaded.
// Returns ErrNotFound if missing.
func GetQuestion(ctx context.Context, db *gorm.DB, id string) (*domain.Question, error) {
	var q domain.Question
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// QuestionExists reports whether a live question row exists for id.
func QuestionExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Question{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// CountQuestions returns the total number of questions, optionally filtered
// by tag name.
func CountQuestions(ctx context.Context, db *gorm.DB, tag string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Question{})
	if tag != "" {
		q = q.Joins("JOIN question_tags qt ON qt.question_id = questions.id").
			Joins("JOIN tags ON tags.id = qt.tag_id").
			Where("tags.name = ?", tag)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListQuestionsPage returns a page of questions with their computed scores,
// ordered by creation time (OrderNewest) or by score then recency
// (OrderScore). An optional tag name narrows the result.
func ListQuestionsPage(ctx context.Context, db *gorm.DB, tag, order string, offset, limit int) ([]QuestionWithScore, error) {
	q := db.WithContext(ctx).
		Model(&domain.Question{}).
		Select("questions.*, COALESCE(SUM(votes.value), 0) AS score").
		Joins("LEFT JOIN votes ON votes.question_id = questions.id AND votes.deleted_at IS NULL").
		Group("questions.id")
	if tag != "" {
		q = q.Joins("JOIN question_tags qt ON qt.question_id = questions.id").
			Joins("JOIN tags ON tags.id = qt.tag_id").
			Where("tags.name = ?", tag)
	}
	switch order {
	case OrderScore:
		q = q.Order("score DESC, questions.created_at DESC")
	default:
		q = q.Order("questions.created_at DESC")
	}

	var out []QuestionWithScore
	if err := q.Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	if err := loadQuestionAssociations(ctx, db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListQuestionsForIndex streams every question with tags and score for the
// search index rebuild. Unpaginated by design; the index caps documents.
func ListQuestionsForIndex(ctx context.Context, db *gorm.DB) ([]QuestionWithScore, error) {
	var out []QuestionWithScore
	err := db.WithContext(ctx).
		Model(&domain.Question{}).
		Select("questions.*, COALESCE(SUM(votes.value), 0) AS score").
		Joins("LEFT JOIN votes ON votes.question_id = questions.id AND votes.deleted_at IS NULL").
		Group("questions.id").
		Order("questions.created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if err := loadQuestionAssociations(ctx, db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadQuestionAssociations hydrates Author and Tags on scored rows with one
// batched query per page. Preload cannot run on the scored queries directly:
// GORM resolves association keys from the Find destination, and the wrapper
// type would make it look up join columns that do not exist.
func loadQuestionAssociations(ctx context.Context, db *gorm.DB, items []QuestionWithScore) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	var rows []domain.Question
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.Question, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for i := range items {
		if q, ok := byID[items[i].ID]; ok {
			items[i].Author = q.Author
			items[i].Tags = q.Tags
		}
	}
	return nil
}

// UpdateQuestion updates title and body, enforcing author ownership.
// Returns ErrNotFound if the question does not exist or is not owned by userID.
func UpdateQuestion(ctx context.Context, db *gorm.DB, id, userID, title, body string) error {
	res := db.WithContext(ctx).
		Model(&domain.Question{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"title": title, "body": body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteQuestion soft-deletes a question owned by userID. Associated answers,
// comments, and votes are removed by the cascade foreign keys when the row is
// purged; until then the soft-deleted question hides them from every query.
func DeleteQuestion(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceQuestionTags resets the question's tag association.
func ReplaceQuestionTags(ctx context.Context, db *gorm.DB, q *domain.Question, tags []domain.Tag) error {
	return db.WithContext(ctx).Model(q).Association("Tags").Replace(tags)
}

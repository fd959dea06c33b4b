// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Answer model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
)

// CreateAnswer inserts a new answer row under a question.
func CreateAnswer(ctx context.Context, db *gorm.DB, questionID, userID, body string) (*domain.Answer, error) {
	a := &domain.Answer{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		UserID:     userID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetAnswer fetches an answer by ID with its author preloaded.
func GetAnswer(ctx context.Context, db *gorm.DB, id string) (*domain.Answer, error) {
	var a domain.Answer
	err := db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AnswerExists reports whether a live answer row exists for id.
func AnswerExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// ListAnswers returns all answers for a question ordered deterministically:
// accepted first, then oldest to newest with ID as a tiebreaker.
func ListAnswers(ctx context.Context, db *gorm.DB, questionID string) ([]domain.Answer, error) {
	var out []domain.Answer
	err := db.WithContext(ctx).
		Preload("Author").
		Where("question_id = ?", questionID).
		Order("accepted DESC, created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdateAnswerBody updates an answer's body, enforcing author ownership.
func UpdateAnswerBody(ctx context.Context, db *gorm.DB, id, userID, body string) error {
	res := db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("body", body)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAnswer soft-deletes an answer owned by userID.
func DeleteAnswer(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Answer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetAccepted marks one answer as accepted and clears the flag on every other
// answer of the same question, so at most one answer is accepted at a time.
func SetAccepted(ctx context.Context, db *gorm.DB, questionID, answerID string) error {
	if err := db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("question_id = ? AND id <> ?", questionID, answerID).
		Update("accepted", false).Error; err != nil {
		return err
	}
	res := db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("id = ? AND question_id = ?", answerID, questionID).
		Update("accepted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

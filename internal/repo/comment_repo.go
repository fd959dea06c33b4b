// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model. A comment references exactly one of questionID/answerID; the service
// layer decides which before calling in.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
)

// CreateQuestionComment inserts a comment attached to a question.
func CreateQuestionComment(ctx context.Context, db *gorm.DB, userID, questionID, body string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: &questionID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CreateAnswerComment inserts a comment attached to an answer.
func CreateAnswerComment(ctx context.Context, db *gorm.DB, userID, answerID, body string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		AnswerID:  &answerID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListQuestionComments returns a question's comments, oldest first.
func ListQuestionComments(ctx context.Context, db *gorm.DB, questionID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAnswerComments returns an answer's comments, oldest first.
func ListAnswerComments(ctx context.Context, db *gorm.DB, answerID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("answer_id = ?", answerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeleteComment soft-deletes a comment owned by userID.
func DeleteComment(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

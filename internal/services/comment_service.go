// Package services – CommentService
//
// Comments attach to exactly one question or answer. They carry no votes.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

// CommentService provides comment-level operations.
type CommentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxBodyRunes caps submitted content by rune length.
	MaxBodyRunes int
}

// CreateOnQuestion posts a comment under a question.
func (s *CommentService) CreateOnQuestion(ctx context.Context, userID, questionID, body string) (*domain.Comment, error) {
	body, err := s.validateBody(body)
	if err != nil {
		return nil, err
	}
	ok, err := repo.QuestionExists(ctx, s.DB, questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return repo.CreateQuestionComment(ctx, s.DB, userID, questionID, body)
}

// CreateOnAnswer posts a comment under an answer.
func (s *CommentService) CreateOnAnswer(ctx context.Context, userID, answerID, body string) (*domain.Comment, error) {
	body, err := s.validateBody(body)
	if err != nil {
		return nil, err
	}
	ok, err := repo.AnswerExists(ctx, s.DB, answerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAnswerNotFound
	}
	return repo.CreateAnswerComment(ctx, s.DB, userID, answerID, body)
}

// ListForAnswer returns an answer's comments, oldest first.
func (s *CommentService) ListForAnswer(ctx context.Context, answerID string) ([]domain.Comment, error) {
	return repo.ListAnswerComments(ctx, s.DB, answerID)
}

// Delete removes a comment owned by userID.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	err := repo.DeleteComment(ctx, s.DB, commentID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return err
}

func (s *CommentService) validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return "", ErrTooLong
	}
	return body, nil
}

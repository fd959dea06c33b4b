// Package services – AnswerService
//
// This file implements the answer lifecycle: posting under a question,
// owner-guarded edits and deletion, and acceptance by the question author.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

// AnswerService provides answer-level operations.
type AnswerService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxBodyRunes caps submitted content by rune length.
	MaxBodyRunes int
}

// Create posts an answer under questionID on behalf of userID.
func (s *AnswerService) Create(ctx context.Context, userID, questionID, body string) (*domain.Answer, error) {
	ctx, span := otel.Tracer("services.answer").Start(ctx, "AnswerService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("question.id", questionID))

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return nil, ErrTooLong
	}

	ok, err := repo.QuestionExists(ctx, s.DB, questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return repo.CreateAnswer(ctx, s.DB, questionID, userID, body)
}

// Get returns the answer hydrated with its ledger score and the requester's
// own vote. requesterID may be empty for anonymous reads, in which case
// MyVote is 0.
func (s *AnswerService) Get(ctx context.Context, answerID, requesterID string) (*AnswerView, error) {
	a, err := repo.GetAnswer(ctx, s.DB, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	score, err := repo.AnswerScore(ctx, s.DB, answerID)
	if err != nil {
		return nil, err
	}
	view := &AnswerView{Answer: *a, Score: score}
	if requesterID != "" {
		v, err := repo.FindAnswerVote(ctx, s.DB, requesterID, answerID)
		switch {
		case err == nil:
			view.MyVote = v.Value
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return view, nil
}

// Update edits the body of an answer owned by userID.
func (s *AnswerService) Update(ctx context.Context, userID, answerID, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return ErrEmptyBody
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return ErrTooLong
	}

	a, err := repo.GetAnswer(ctx, s.DB, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnswerNotFound
		}
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return repo.UpdateAnswerBody(ctx, s.DB, answerID, userID, body)
}

// Delete removes an answer owned by userID. Votes and comments on the answer
// go with it via the cascade foreign keys.
func (s *AnswerService) Delete(ctx context.Context, userID, answerID string) error {
	a, err := repo.GetAnswer(ctx, s.DB, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnswerNotFound
		}
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return repo.DeleteAnswer(ctx, s.DB, answerID, userID)
}

// Accept marks an answer as the accepted one. Only the author of the parent
// question may accept, and at most one answer per question stays accepted.
func (s *AnswerService) Accept(ctx context.Context, userID, answerID string) error {
	ctx, span := otel.Tracer("services.answer").Start(ctx, "AnswerService.Accept")
	defer span.End()
	span.SetAttributes(attribute.String("answer.id", answerID))

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := repo.GetAnswer(ctx, tx, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAnswerNotFound
			}
			return err
		}
		q, err := repo.GetQuestion(ctx, tx, a.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		if q.UserID != userID {
			return ErrForbidden
		}
		return repo.SetAccepted(ctx, tx, a.QuestionID, answerID)
	})
}

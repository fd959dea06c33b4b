// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file is the vote ledger: point lookups, the single
// create/update/delete mutations used by the toggle logic, and the aggregate
// queries that project scores out of the ledger.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving toggle semantics to the services package.
//
// Error semantics:
//   - Find* return ErrNotFound when no vote exists for the pair.
//   - CreateVote relies on the composite unique indexes; a lost
//     read-decide-write race surfaces as a duplicate-key error which the
//     service layer translates into ErrVoteConflict.
//   - Scores are computed with SUM(value) over live rows; a target with no
//     votes scores 0. Nothing here maintains a counter.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/domain"
)

// FindQuestionVote returns the caller's vote on a question, or ErrNotFound.
func FindQuestionVote(ctx context.Context, db *gorm.DB, userID, questionID string) (*domain.Vote, error) {
	var v domain.Vote
	err := db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindAnswerVote returns the caller's vote on an answer, or ErrNotFound.
func FindAnswerVote(ctx context.Context, db *gorm.DB, userID, answerID string) (*domain.Vote, error) {
	var v domain.Vote
	err := db.WithContext(ctx).
		Where("user_id = ? AND answer_id = ?", userID, answerID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateQuestionVote inserts a ledger row for (userID, questionID).
// The unique index ux_votes_user_question rejects a second row for the pair.
func CreateQuestionVote(ctx context.Context, db *gorm.DB, userID, questionID string, value int) (*domain.Vote, error) {
	v := &domain.Vote{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: &questionID,
		Value:      value,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// CreateAnswerVote inserts a ledger row for (userID, answerID).
func CreateAnswerVote(ctx context.Context, db *gorm.DB, userID, answerID string, value int) (*domain.Vote, error) {
	v := &domain.Vote{
		ID:        uuid.NewString(),
		UserID:    userID,
		AnswerID:  &answerID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVoteValue switches an existing vote to the opposite value.
func UpdateVoteValue(ctx context.Context, db *gorm.DB, vote *domain.Vote, value int) error {
	res := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("id = ?", vote.ID).
		Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	vote.Value = value
	return nil
}

// DeleteVote removes a ledger row outright. Votes are hard-deleted so the
// composite unique indexes keep enforcing one-vote-per-target; a removed vote
// must be indistinguishable from "never voted".
func DeleteVote(ctx context.Context, db *gorm.DB, vote *domain.Vote) error {
	return db.WithContext(ctx).Unscoped().Delete(&domain.Vote{}, "id = ?", vote.ID).Error
}

// ListVotesForUser returns every live vote the user holds, both question and
// answer votes. Order is unspecified.
func ListVotesForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Vote, error) {
	var out []domain.Vote
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	return out, err
}

// QuestionScore sums the ledger for one question; 0 when unvoted.
func QuestionScore(ctx context.Context, db *gorm.DB, questionID string) (int64, error) {
	var score int64
	err := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("question_id = ?", questionID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&score).Error
	return score, err
}

// AnswerScore sums the ledger for one answer; 0 when unvoted.
func AnswerScore(ctx context.Context, db *gorm.DB, answerID string) (int64, error) {
	var score int64
	err := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("answer_id = ?", answerID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&score).Error
	return score, err
}

// AnswerScores returns answerID -> score for all answers of a question in one
// grouped query, for hydrating question detail views without N+1 lookups.
func AnswerScores(ctx context.Context, db *gorm.DB, questionID string) (map[string]int64, error) {
	var rows []struct {
		AnswerID string
		Score    int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Vote{}).
		Select("votes.answer_id AS answer_id, COALESCE(SUM(votes.value), 0) AS score").
		Joins("JOIN answers ON answers.id = votes.answer_id").
		Where("answers.question_id = ?", questionID).
		Group("votes.answer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.AnswerID] = r.Score
	}
	return out, nil
}

// CountVotes returns the total number of live ledger rows. Used by tests to
// assert that failed casts leave the ledger untouched.
func CountVotes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Vote{}).Count(&total).Error
	return total, err
}

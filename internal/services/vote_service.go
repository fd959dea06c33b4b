// Package services – VoteService
//
// This file implements the VoteService, the toggle engine that turns one user
// action into exactly one vote-ledger mutation. Casting a value on an unvoted
// target creates a vote, re-casting the same value removes it, and casting
// the opposite value switches it in place. The engine treats questions and
// answers uniformly; handlers never re-derive toggle semantics.
//
// Concurrency: each cast runs read-decide-write inside one database
// transaction, and the composite unique indexes on (user_id, question_id) /
// (user_id, answer_id) turn a lost race between two concurrent casts into a
// surfaced ErrVoteConflict. A retry re-reads the settled ledger and converges.
// Casts on different (user, target) pairs share nothing and proceed in
// parallel.
//
// Scores are always computed from the ledger (SUM of values); no counter is
// maintained anywhere, so the returned aggregate can never drift.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

// voteCasts counts ledger transitions by target kind and outcome. Outcomes
// mirror the three rows of the toggle table: created, removed, switched.
var voteCasts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "forum_vote_casts_total",
		Help: "Total vote casts by target type and resulting ledger transition.",
	},
	[]string{"target", "transition"},
)

func init() {
	prometheus.MustRegister(voteCasts)
}

// VoteResult is the aggregate state of a target after a cast: the fresh
// ledger-computed score and the caller's own vote (0 when none remains).
type VoteResult struct {
	Score  int64 `json:"score"`
	MyVote int   `json:"my_vote"`
}

// VoteMap lists every active vote a user holds, keyed by target ID. Absent
// keys mean "no vote"; a stored 0 never exists.
type VoteMap struct {
	Questions map[string]int `json:"questions"`
	Answers   map[string]int `json:"answers"`
}

// VoteService implements the vote toggle use-cases over the ledger.
// It is context-aware and safe for concurrent use.
type VoteService struct {
	// DB is the database handle used for all vote operations.
	DB *gorm.DB
}

// CastQuestionVote applies one toggle step for (userID, questionID).
//
// Semantics:
//   - value must be exactly -1 or 1; otherwise ErrInvalidVote. A request-level
//     0 ("remove my vote") never reaches this boundary: removal is expressed
//     by re-sending the current value.
//   - questionID must exist; otherwise ErrQuestionNotFound.
//   - no existing vote        -> create with value
//   - existing vote == value  -> delete (toggle off)
//   - existing vote != value  -> update in place
//
// It returns the question's score and the caller's remaining vote as of this
// write. At most one ledger row is created, updated, or deleted per call.
func (s *VoteService) CastQuestionVote(ctx context.Context, userID, questionID string, value int) (*VoteResult, error) {
	ctx, span := otel.Tracer("services.vote").Start(ctx, "VoteService.CastQuestionVote")
	defer span.End()
	span.SetAttributes(
		attribute.String("question.id", questionID),
		attribute.Int("vote.value", value),
	)

	return s.cast(ctx, userID, value, target{
		kind:   domain.TargetQuestion,
		exists: func(tx *gorm.DB) (bool, error) { return repo.QuestionExists(ctx, tx, questionID) },
		find:   func(tx *gorm.DB) (*domain.Vote, error) { return repo.FindQuestionVote(ctx, tx, userID, questionID) },
		create: func(tx *gorm.DB) (*domain.Vote, error) {
			return repo.CreateQuestionVote(ctx, tx, userID, questionID, value)
		},
		score: func(tx *gorm.DB) (int64, error) { return repo.QuestionScore(ctx, tx, questionID) },
	})
}

// CastAnswerVote applies one toggle step for (userID, answerID). Semantics
// match CastQuestionVote with ErrAnswerNotFound for a missing target.
func (s *VoteService) CastAnswerVote(ctx context.Context, userID, answerID string, value int) (*VoteResult, error) {
	ctx, span := otel.Tracer("services.vote").Start(ctx, "VoteService.CastAnswerVote")
	defer span.End()
	span.SetAttributes(
		attribute.String("answer.id", answerID),
		attribute.Int("vote.value", value),
	)

	return s.cast(ctx, userID, value, target{
		kind:   domain.TargetAnswer,
		exists: func(tx *gorm.DB) (bool, error) { return repo.AnswerExists(ctx, tx, answerID) },
		find:   func(tx *gorm.DB) (*domain.Vote, error) { return repo.FindAnswerVote(ctx, tx, userID, answerID) },
		create: func(tx *gorm.DB) (*domain.Vote, error) {
			return repo.CreateAnswerVote(ctx, tx, userID, answerID, value)
		},
		score: func(tx *gorm.DB) (int64, error) { return repo.AnswerScore(ctx, tx, answerID) },
	})
}

// target abstracts the two votable entity kinds so the toggle decision is
// written exactly once.
type target struct {
	kind   string
	exists func(tx *gorm.DB) (bool, error)
	find   func(tx *gorm.DB) (*domain.Vote, error)
	create func(tx *gorm.DB) (*domain.Vote, error)
	score  func(tx *gorm.DB) (int64, error)
}

func (s *VoteService) cast(ctx context.Context, userID string, value int, t target) (*VoteResult, error) {
	if value != -1 && value != 1 {
		return nil, ErrInvalidVote
	}

	var res VoteResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := t.exists(tx)
		if err != nil {
			return err
		}
		if !ok {
			if t.kind == domain.TargetAnswer {
				return ErrAnswerNotFound
			}
			return ErrQuestionNotFound
		}

		existing, err := t.find(tx)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := t.create(tx); err != nil {
				if isUniqueViolation(err) {
					return ErrVoteConflict
				}
				return err
			}
			res.MyVote = value
			voteCasts.WithLabelValues(t.kind, "created").Inc()

		case err != nil:
			return err

		case existing.Value == value:
			// Same value again: toggle off.
			if err := repo.DeleteVote(ctx, tx, existing); err != nil {
				return err
			}
			res.MyVote = 0
			voteCasts.WithLabelValues(t.kind, "removed").Inc()

		default:
			// Opposite value: switch in place.
			if err := repo.UpdateVoteValue(ctx, tx, existing, value); err != nil {
				return err
			}
			res.MyVote = value
			voteCasts.WithLabelValues(t.kind, "switched").Inc()
		}

		res.Score, err = t.score(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MyVotes returns every active vote the user holds, split by target kind.
// Calling it twice with no intervening writes yields identical maps.
func (s *VoteService) MyVotes(ctx context.Context, userID string) (*VoteMap, error) {
	ctx, span := otel.Tracer("services.vote").Start(ctx, "VoteService.MyVotes")
	defer span.End()

	votes, err := repo.ListVotesForUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	vm := &VoteMap{
		Questions: make(map[string]int),
		Answers:   make(map[string]int),
	}
	for i := range votes {
		v := &votes[i]
		switch {
		case v.QuestionID != nil:
			vm.Questions[*v.QuestionID] = v.Value
		case v.AnswerID != nil:
			vm.Answers[*v.AnswerID] = v.Value
		}
	}
	return vm, nil
}

// QuestionScore projects a question's score out of the ledger.
func (s *VoteService) QuestionScore(ctx context.Context, questionID string) (int64, error) {
	return repo.QuestionScore(ctx, s.DB, questionID)
}

// AnswerScore projects an answer's score out of the ledger.
func (s *VoteService) AnswerScore(ctx context.Context, answerID string) (int64, error) {
	return repo.AnswerScore(ctx, s.DB, answerID)
}

// isUniqueViolation detects unique-constraint violations across drivers that
// may not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

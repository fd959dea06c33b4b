// Package services – QuestionService
//
// This file implements QuestionService, the application-level component that
// owns the question lifecycle: creation with tag attachment, hydrated detail
// reads (score, answers with scores, comments), paginated listing with
// ledger-derived ordering, and owner-guarded updates and deletion.
//
// Scores in every view come from the vote ledger at read time. The service
// never caches or stores an aggregate.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// question identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/repo"
)

// AnswerView is an answer hydrated with its ledger score and the requester's
// own vote on it.
type AnswerView struct {
	domain.Answer
	Score  int64 `json:"score"`
	MyVote int   `json:"my_vote"`
}

// QuestionDetail is the full read model for a question page: the question,
// its fresh score, the requester's vote, all answers with their scores, and
// the question-level comments.
type QuestionDetail struct {
	domain.Question
	Score    int64            `json:"score"`
	MyVote   int              `json:"my_vote"`
	Answers  []AnswerView     `json:"answers"`
	Comments []domain.Comment `json:"comments"`
}

// Indexer receives invalidation signals after question writes. SearchService
// satisfies it; a nil Indexer means searches rely on the rebuild TTL alone.
type Indexer interface {
	Invalidate()
}

// QuestionService provides question-level operations. Content limits are
// enforced here so handlers stay transport-thin.
type QuestionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxTitleRunes / MaxBodyRunes cap submitted content by rune length.
	MaxTitleRunes int
	MaxBodyRunes  int

	// Index, when set, is invalidated after every successful write so the
	// next search sees the change before the rebuild TTL lapses.
	Index Indexer
}

// titleCaser renders tag display names ("go-routines" -> "Go-Routines").
var titleCaser = cases.Title(language.English)

// Create inserts a question with its tags. Tag names are normalized to
// lowercase and created on demand; unknown names are not an error.
func (s *QuestionService) Create(ctx context.Context, userID, title, body string, tagNames []string) (*domain.Question, error) {
	ctx, span := otel.Tracer("services.question").Start(ctx, "QuestionService.Create")
	defer span.End()

	title = collapseWhitespace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if body == "" {
		return nil, ErrEmptyBody
	}
	if s.exceeds(title, s.MaxTitleRunes) || s.exceeds(body, s.MaxBodyRunes) {
		return nil, ErrTooLong
	}

	var out *domain.Question
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := repo.CreateQuestion(ctx, tx, userID, title, body)
		if err != nil {
			return err
		}
		tags, err := ensureTags(ctx, tx, tagNames)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := repo.ReplaceQuestionTags(ctx, tx, q, tags); err != nil {
				return err
			}
			q.Tags = tags
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateIndex()
	span.SetAttributes(attribute.String("question.id", out.ID))
	return out, nil
}

// Get returns the hydrated detail view. requesterID may be empty for
// anonymous reads, in which case every MyVote is 0.
func (s *QuestionService) Get(ctx context.Context, id, requesterID string) (*QuestionDetail, error) {
	ctx, span := otel.Tracer("services.question").Start(ctx, "QuestionService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("question.id", id))

	q, err := repo.GetQuestion(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	score, err := repo.QuestionScore(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	answers, err := repo.ListAnswers(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	answerScores, err := repo.AnswerScores(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	comments, err := repo.ListQuestionComments(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}

	detail := &QuestionDetail{
		Question: *q,
		Score:    score,
		Answers:  make([]AnswerView, 0, len(answers)),
		Comments: comments,
	}

	var myVotes *VoteMap
	if requesterID != "" {
		myVotes, err = (&VoteService{DB: s.DB}).MyVotes(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		detail.MyVote = myVotes.Questions[id]
	}
	for i := range answers {
		av := AnswerView{Answer: answers[i], Score: answerScores[answers[i].ID]}
		if myVotes != nil {
			av.MyVote = myVotes.Answers[answers[i].ID]
		}
		detail.Answers = append(detail.Answers, av)
	}
	return detail, nil
}

// ListPage returns a page of questions with scores and the total count.
// order is repo.OrderNewest or repo.OrderScore; tag optionally filters.
func (s *QuestionService) ListPage(ctx context.Context, tag, order string, page, pageSize int) ([]repo.QuestionWithScore, int64, error) {
	ctx, span := otel.Tracer("services.question").Start(ctx, "QuestionService.ListPage")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize))

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountQuestions(ctx, s.DB, tag)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []repo.QuestionWithScore{}, 0, nil
	}

	items, err := repo.ListQuestionsPage(ctx, s.DB, tag, order, offset, pageSize)
	return items, total, err
}

// Update replaces title, body, and tags of a question owned by userID.
func (s *QuestionService) Update(ctx context.Context, userID, id, title, body string, tagNames []string) error {
	title = collapseWhitespace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return ErrEmptyTitle
	}
	if body == "" {
		return ErrEmptyBody
	}
	if s.exceeds(title, s.MaxTitleRunes) || s.exceeds(body, s.MaxBodyRunes) {
		return ErrTooLong
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := repo.GetQuestion(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		if q.UserID != userID {
			return ErrForbidden
		}
		if err := repo.UpdateQuestion(ctx, tx, id, userID, title, body); err != nil {
			return err
		}
		if tagNames != nil {
			tags, err := ensureTags(ctx, tx, tagNames)
			if err != nil {
				return err
			}
			return repo.ReplaceQuestionTags(ctx, tx, q, tags)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateIndex()
	return nil
}

// Delete removes a question owned by userID. The storage layer cascades the
// deletion to answers, comments, and votes.
func (s *QuestionService) Delete(ctx context.Context, userID, id string) error {
	q, err := repo.GetQuestion(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	if q.UserID != userID {
		return ErrForbidden
	}
	if err := repo.DeleteQuestion(ctx, s.DB, id, userID); err != nil {
		return err
	}
	s.invalidateIndex()
	return nil
}

func (s *QuestionService) invalidateIndex() {
	if s.Index != nil {
		s.Index.Invalidate()
	}
}

func (s *QuestionService) exceeds(text string, max int) bool {
	return max > 0 && utf8.RuneCountInString(text) > max
}

// ensureTags resolves tag names to rows, creating missing tags on demand.
// Names are lowercased and deduplicated; blanks are dropped.
func ensureTags(ctx context.Context, db *gorm.DB, names []string) ([]domain.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]domain.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(collapseWhitespace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		t, err := repo.GetTagByName(ctx, db, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			t, err = repo.CreateTag(ctx, db, name, titleCaser.String(name))
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// collapseWhitespace trims and squeezes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)

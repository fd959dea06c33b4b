// Handler wiring for the public API.
//
// This file defines the service contracts consumed by the HTTP layer and the
// Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses. Depending on abstract interfaces keeps transport concerns
// separate from business logic and lets tests substitute stub services.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/http/middleware"
	"github.com/dstamatis/go-forum-backend/internal/repo"
	"github.com/dstamatis/go-forum-backend/internal/search"
	"github.com/dstamatis/go-forum-backend/internal/services"
	"github.com/dstamatis/go-forum-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new account.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// GetUser fetches an account by ID.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile updates the caller's own profile fields.
	UpdateProfile(ctx context.Context, userID, about, avatarURL string) error
}

// QuestionService defines question lifecycle operations.
type QuestionService interface {
	// Create inserts a question with its tags.
	Create(ctx context.Context, userID, title, body string, tags []string) (*domain.Question, error)
	// Get returns the hydrated detail view; requesterID may be empty.
	Get(ctx context.Context, id, requesterID string) (*services.QuestionDetail, error)
	// ListPage returns a page of questions with scores and the total count.
	ListPage(ctx context.Context, tag, order string, page, pageSize int) ([]repo.QuestionWithScore, int64, error)
	// Update replaces title, body, and tags of an owned question.
	Update(ctx context.Context, userID, id, title, body string, tags []string) error
	// Delete removes an owned question.
	Delete(ctx context.Context, userID, id string) error
}

// AnswerService defines answer lifecycle operations.
type AnswerService interface {
	Create(ctx context.Context, userID, questionID, body string) (*domain.Answer, error)
	// Get returns the answer with its score and the requester's vote.
	Get(ctx context.Context, answerID, requesterID string) (*services.AnswerView, error)
	Update(ctx context.Context, userID, answerID, body string) error
	Delete(ctx context.Context, userID, answerID string) error
	// Accept marks an answer accepted; question-owner only.
	Accept(ctx context.Context, userID, answerID string) error
}

// CommentService defines comment operations on questions and answers.
type CommentService interface {
	CreateOnQuestion(ctx context.Context, userID, questionID, body string) (*domain.Comment, error)
	CreateOnAnswer(ctx context.Context, userID, answerID, body string) (*domain.Comment, error)
	ListForAnswer(ctx context.Context, answerID string) ([]domain.Comment, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// TagService defines read-side tag operations.
type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, name string) (*domain.Tag, error)
}

// VoteService defines the vote toggle operations consumed by HTTP handlers.
//
// A cast either creates, switches, or removes the caller's vote; the result
// always carries the fresh ledger score and the caller's remaining vote.
type VoteService interface {
	CastQuestionVote(ctx context.Context, userID, questionID string, value int) (*services.VoteResult, error)
	CastAnswerVote(ctx context.Context, userID, answerID string, value int) (*services.VoteResult, error)
	MyVotes(ctx context.Context, userID string) (*services.VoteMap, error)
}

// SearchService defines the question search operation.
type SearchService interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, questions, answers,
// comments, tags, votes, and search.
type Handlers struct {
	authSvc   AuthService
	qSvc      QuestionService
	aSvc      AnswerService
	cSvc      CommentService
	tagSvc    TagService
	voteSvc   VoteService
	searchSvc SearchService
}

// New constructs a Handlers instance bound to the given services.
func New(auth AuthService, q QuestionService, a AnswerService, c CommentService, t TagService, v VoteService, s SearchService) *Handlers {
	return &Handlers{
		authSvc:   auth,
		qSvc:      q,
		aSvc:      a,
		cSvc:      c,
		tagSvc:    t,
		voteSvc:   v,
		searchSvc: s,
	}
}

// userID extracts the authenticated user ID from the Gin context, set by the
// auth middleware. Empty means anonymous; protected routes never reach a
// handler without it.
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination derives the metadata block for a page of total items.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// Question HTTP handlers.
//
// This file exposes the REST endpoints for question resources:
//   - POST   /questions        (create, Idempotency-Key aware)
//   - GET    /questions        (list, paginated, ETag support)
//   - GET    /questions/{id}   (hydrated detail with scores and my_vote)
//   - PUT    /questions/{id}   (update, owner only)
//   - DELETE /questions/{id}   (delete, owner only)
//   - GET    /search           (free text + score:N / tag:name filters)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses).
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dstamatis/go-forum-backend/internal/http/middleware"
	"github.com/dstamatis/go-forum-backend/internal/repo"
	"github.com/dstamatis/go-forum-backend/internal/search"
	"github.com/dstamatis/go-forum-backend/internal/services"
	"github.com/dstamatis/go-forum-backend/internal/utils"
)

//
// DTOs
//

// CreateQuestionRequest is the JSON payload for creating a question.
type CreateQuestionRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"How do I cancel a goroutine?"`
	Body  string `json:"body" binding:"required,min=1" example:"I start a goroutine and…"`
	// Tags are normalized to lowercase; unknown tags are created on demand.
	Tags []string `json:"tags" example:"go,concurrency"`
}

// UpdateQuestionRequest is the JSON payload for updating a question.
type UpdateQuestionRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
	Body  string `json:"body" binding:"required,min=1"`
	// Tags, when present, replaces the full tag set.
	Tags []string `json:"tags"`
}

// ListQuestionsResponse wraps a page of questions and pagination information.
type ListQuestionsResponse struct {
	Questions  []repo.QuestionWithScore `json:"questions"`
	Pagination Pagination               `json:"pagination"`
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// questionDB exposes the underlying GORM handle when the concrete service is
// in play; stats-based ETags and idempotency replay are best-effort and are
// skipped for stub services in tests.
func (h *Handlers) questionDB() *gorm.DB {
	if svc, okCast := h.qSvc.(*services.QuestionService); okCast {
		return svc.DB
	}
	return nil
}

//
// Handlers
//

// CreateQuestion godoc
// @ID          createQuestion
// @Summary     Ask a question
// @Description Creates a question with tags for the current user. Supports safe
// @Description retries via the Idempotency-Key header: a replayed key returns the
// @Description originally created question instead of a duplicate.
// @Tags        Questions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Stable key for safe retries"
// @Param       body  body  handlers.CreateQuestionRequest  true  "Question payload"
//
// @Success     201  {object} domain.Question
// @Success     200  {object} domain.Question "Idempotent replay"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions [post]
func (h *Handlers) CreateQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// Replay: return the resource created by the original request.
	if middleware.IsReplay(c) {
		if key, okKey := middleware.GetIdempotencyKey(c); okKey {
			if db := h.questionDB(); db != nil {
				if rec, err := repo.GetIdempotency(ctx, db, uid, key, time.Now().UTC()); err == nil {
					if detail, err := h.qSvc.Get(ctx, rec.ResourceID, uid); err == nil {
						ok(c, http.StatusOK, detail.Question)
						return
					}
				}
			}
		}
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body required")
		return
	}

	q, err := h.qSvc.Create(ctx, uid, req.Title, req.Body, req.Tags)
	if err != nil {
		switch err {
		case services.ErrEmptyTitle, services.ErrEmptyBody, services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Record the key -> resource binding for future replays (best effort).
	if key, okKey := middleware.GetIdempotencyKey(c); okKey {
		if db := h.questionDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, uid, key, q.ID, http.StatusCreated, 24*time.Hour)
		}
	}

	ok(c, http.StatusCreated, q)
}

// ListQuestions godoc
// @ID          listQuestions
// @Summary     List questions (paginated)
// @Description Returns a page of questions with ledger-derived scores. Supports
// @Description ordering by newest or score, tag filtering, and weak ETags via
// @Description If-None-Match (may return 304).
// @Tags        Questions
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       tag        query  string  false "Filter by tag name"                example(go)
// @Param       order      query  string  false "Sort order"  Enums(newest, score)  default(newest)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListQuestionsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions [get]
func (h *Handlers) ListQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	tag := c.Query("tag")
	order := c.DefaultQuery("order", repo.OrderNewest)

	// ETag pre-check (best effort). Vote writes do not touch question rows,
	// so the tag folds in the vote ledger stats as well.
	if db := h.questionDB(); db != nil {
		qCount, qTS, qErr := repo.QuestionsStats(ctx, db)
		vCount, vTS, vErr := repo.VotesStats(ctx, db)
		if qErr == nil && vErr == nil {
			var qt, vt int64
			if qTS != nil {
				qt = qTS.Unix()
			}
			if vTS != nil {
				vt = vTS.Unix()
			}
			etag := fmt.Sprintf(`W/"questions:%d:%d:%d:%d"`, qCount, qt, vCount, vt)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.qSvc.ListPage(ctx, tag, order, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListQuestionsResponse{
		Questions:  items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetQuestion godoc
// @ID          getQuestion
// @Summary     Question detail
// @Description Returns a question hydrated with its fresh score, answers (with
// @Description scores), comments, and, for authenticated callers, my_vote.
// @Tags        Questions
// @Produce     json
//
// @Param       id  path  string  true  "Question ID (UUID)"  format(uuid)
//
// @Success     200  {object} services.QuestionDetail
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id} [get]
func (h *Handlers) GetQuestion(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}

	detail, err := h.qSvc.Get(c.Request.Context(), id, userID(c))
	if err != nil {
		if err == services.ErrQuestionNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, detail)
}

// UpdateQuestion godoc
// @ID          updateQuestion
// @Summary     Edit a question
// @Description Updates title, body, and tags of a question owned by the caller.
// @Tags        Questions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Question ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateQuestionRequest  true  "Question payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id} [put]
func (h *Handlers) UpdateQuestion(c *gin.Context) {
	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body required")
		return
	}

	err := h.qSvc.Update(c.Request.Context(), userID(c), c.Param("id"), req.Title, req.Body, req.Tags)
	if err != nil {
		switch err {
		case services.ErrQuestionNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can edit this question")
		case services.ErrEmptyTitle, services.ErrEmptyBody, services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// DeleteQuestion godoc
// @ID          deleteQuestion
// @Summary     Delete a question
// @Description Deletes a question owned by the caller; answers, comments, and
// @Description votes cascade.
// @Tags        Questions
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Question ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id} [delete]
func (h *Handlers) DeleteQuestion(c *gin.Context) {
	err := h.qSvc.Delete(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrQuestionNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can delete this question")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// SearchQuestions godoc
// @ID          searchQuestions
// @Summary     Search questions
// @Description Searches questions by free-text terms mixed with structured
// @Description filters: score:N keeps results with a ledger score of at least N,
// @Description tag:name requires
// @Description a tag. Results come from a periodically rebuilt in-memory index.
// @Tags        Search
// @Produce     json
//
// @Param       q      query  string  true   "Query, e.g. `goroutine tag:go score:3`"
// @Param       limit  query  int     false  "Max results"  minimum(1) maximum(50) default(10)
//
// @Success     200  {object} handlers.SearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /search [get]
func (h *Handlers) SearchQuestions(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q required")
		return
	}
	limit := utils.ClampLimit(utils.AtoiDefault(c.Query("limit"), 10), 10, 50)

	results, err := h.searchSvc.Search(c.Request.Context(), query, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	ok(c, http.StatusOK, SearchResponse{Query: query, Results: results})
}

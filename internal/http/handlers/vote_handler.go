// Vote HTTP handlers.
//
// This file exposes the REST endpoints for the vote toggle:
//   - POST /questions/{id}/vote  (cast/switch/remove a question vote)
//   - POST /answers/{id}/vote    (cast/switch/remove an answer vote)
//   - GET  /me/votes             (every active vote the caller holds)
//
// A cast is a toggle step, not an absolute write: sending the value the
// caller already holds removes the vote, sending the opposite switches it,
// and sending onto a clean target creates it. The response carries the voted
// target re-hydrated as its detail view, with the fresh ledger score and the
// caller's remaining vote, so clients can render the new state without a
// follow-up read. Vote values are constrained to {-1, +1} at the transport
// layer; "remove" is expressed by re-sending the current value, never by a 0.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dstamatis/go-forum-backend/internal/services"
)

// CastVoteRequest is the JSON payload for casting a vote.
//
// Value must be one of:
//   - +1 : upvote
//   - -1 : downvote
//
// The binding tag enforces the domain constraint at the transport layer.
type CastVoteRequest struct {
	// Value is the vote signal: +1 (up) or -1 (down).
	Value int `json:"value" binding:"required,oneof=-1 1" example:"1"`
}

// VoteQuestion godoc
// @ID          voteQuestion
// @Summary     Vote on a question
// @Description Applies one toggle step for the caller's vote on a question:
// @Description no vote -> create, same value -> remove, opposite -> switch.
// @Description Returns the question detail view with the fresh score and the
// @Description caller's remaining vote.
// @Tags        Votes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Question ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CastVoteRequest  true  "Vote payload"
//
// @Success     200  {object} services.QuestionDetail
// @Failure     400  {object} handlers.ErrorResponse "Value must be -1 or 1"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     409  {object} handlers.ErrorResponse "Concurrent vote, retry"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id}/vote [post]
func (h *Handlers) VoteQuestion(c *gin.Context) {
	questionID := c.Param("id")
	if _, err := uuid.Parse(questionID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
		return
	}

	uid := userID(c)
	if _, err := h.voteSvc.CastQuestionVote(c.Request.Context(), uid, questionID, req.Value); err != nil {
		h.failVote(c, err, "question not found")
		return
	}

	// Re-hydrate the voted question so the response mirrors a detail read.
	detail, err := h.qSvc.Get(c.Request.Context(), questionID, uid)
	if err != nil {
		h.failVote(c, err, "question not found")
		return
	}
	ok(c, http.StatusOK, detail)
}

// VoteAnswer godoc
// @ID          voteAnswer
// @Summary     Vote on an answer
// @Description Applies one toggle step for the caller's vote on an answer:
// @Description no vote -> create, same value -> remove, opposite -> switch.
// @Description Returns the answer view with the fresh score and the caller's
// @Description remaining vote.
// @Tags        Votes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Answer ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CastVoteRequest  true  "Vote payload"
//
// @Success     200  {object} services.AnswerView
// @Failure     400  {object} handlers.ErrorResponse "Value must be -1 or 1"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Answer not found"
// @Failure     409  {object} handlers.ErrorResponse "Concurrent vote, retry"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id}/vote [post]
func (h *Handlers) VoteAnswer(c *gin.Context) {
	answerID := c.Param("id")
	if _, err := uuid.Parse(answerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answer id must be a UUID")
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
		return
	}

	uid := userID(c)
	if _, err := h.voteSvc.CastAnswerVote(c.Request.Context(), uid, answerID, req.Value); err != nil {
		h.failVote(c, err, "answer not found")
		return
	}

	// Re-hydrate the voted answer so the response mirrors a detail read.
	view, err := h.aSvc.Get(c.Request.Context(), answerID, uid)
	if err != nil {
		h.failVote(c, err, "answer not found")
		return
	}
	ok(c, http.StatusOK, view)
}

// MyVotes godoc
// @ID          myVotes
// @Summary     List my votes
// @Description Returns every active vote the caller holds, keyed by target ID
// @Description and split into questions and answers. Absent keys mean no vote.
// @Tags        Votes
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object} services.VoteMap
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /me/votes [get]
func (h *Handlers) MyVotes(c *gin.Context) {
	vm, err := h.voteSvc.MyVotes(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, vm)
}

// failVote maps vote-service errors onto the HTTP taxonomy shared by both
// cast endpoints.
func (h *Handlers) failVote(c *gin.Context, err error, notFoundMsg string) {
	switch err {
	case services.ErrQuestionNotFound, services.ErrAnswerNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	case services.ErrInvalidVote:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
	case services.ErrVoteConflict:
		fail(c, http.StatusConflict, ErrCodeConflict, "vote changed concurrently, retry")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeVoteFailed, err.Error())
	}
}

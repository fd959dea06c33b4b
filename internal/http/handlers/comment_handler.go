// Comment HTTP handlers.
//
// This file exposes the REST endpoints for comment resources:
//   - POST   /questions/{id}/comments  (create on question)
//   - POST   /answers/{id}/comments    (create on answer)
//   - GET    /answers/{id}/comments    (list for answer)
//   - DELETE /comments/{id}            (delete, owner only)
//
// Question-level comments are returned inside the question detail view, so
// there is no separate list endpoint for them.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/services"
)

// CommentRequest is the JSON payload for creating a comment.
type CommentRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"Could you share the stack trace?"`
}

// CommentOnQuestion godoc
// @ID          commentOnQuestion
// @Summary     Comment on a question
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Question ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CommentRequest  true  "Comment payload"
//
// @Success     201  {object} domain.Comment
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id}/comments [post]
func (h *Handlers) CommentOnQuestion(c *gin.Context) {
	questionID := c.Param("id")
	if _, err := uuid.Parse(questionID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	cm, err := h.cSvc.CreateOnQuestion(c.Request.Context(), userID(c), questionID, req.Body)
	if err != nil {
		h.failComment(c, err, "question not found")
		return
	}
	ok(c, http.StatusCreated, cm)
}

// CommentOnAnswer godoc
// @ID          commentOnAnswer
// @Summary     Comment on an answer
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Answer ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CommentRequest  true  "Comment payload"
//
// @Success     201  {object} domain.Comment
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Answer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id}/comments [post]
func (h *Handlers) CommentOnAnswer(c *gin.Context) {
	answerID := c.Param("id")
	if _, err := uuid.Parse(answerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answer id must be a UUID")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	cm, err := h.cSvc.CreateOnAnswer(c.Request.Context(), userID(c), answerID, req.Body)
	if err != nil {
		h.failComment(c, err, "answer not found")
		return
	}
	ok(c, http.StatusCreated, cm)
}

// ListAnswerComments godoc
// @ID          listAnswerComments
// @Summary     List comments on an answer
// @Tags        Comments
// @Produce     json
//
// @Param       id  path  string  true  "Answer ID (UUID)"  format(uuid)
//
// @Success     200  {array}  domain.Comment
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id}/comments [get]
func (h *Handlers) ListAnswerComments(c *gin.Context) {
	answerID := c.Param("id")
	if _, err := uuid.Parse(answerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answer id must be a UUID")
		return
	}

	comments, err := h.cSvc.ListForAnswer(c.Request.Context(), answerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	ok(c, http.StatusOK, comments)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Deletes a comment owned by the caller.
// @Tags        Comments
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Comment ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Comment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	err := h.cSvc.Delete(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if err == services.ErrCommentNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// failComment maps comment-service errors onto the HTTP taxonomy shared by
// both create endpoints.
func (h *Handlers) failComment(c *gin.Context, err error, notFoundMsg string) {
	switch err {
	case services.ErrQuestionNotFound, services.ErrAnswerNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	case services.ErrEmptyBody, services.ErrTooLong:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

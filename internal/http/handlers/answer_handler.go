// Answer HTTP handlers.
//
// This file exposes the REST endpoints for answer resources:
//   - POST   /questions/{id}/answers  (create)
//   - PUT    /answers/{id}            (update, owner only)
//   - DELETE /answers/{id}            (delete, owner only)
//   - POST   /answers/{id}/accept     (accept, question owner only)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dstamatis/go-forum-backend/internal/services"
)

// AnswerRequest is the JSON payload for creating or updating an answer.
type AnswerRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"Use context cancellation…"`
}

// CreateAnswer godoc
// @ID          createAnswer
// @Summary     Answer a question
// @Description Posts an answer under a question for the current user.
// @Tags        Answers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Question ID (UUID)"  format(uuid)
// @Param       body  body  handlers.AnswerRequest  true  "Answer payload"
//
// @Success     201  {object} domain.Answer
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Question not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /questions/{id}/answers [post]
func (h *Handlers) CreateAnswer(c *gin.Context) {
	questionID := c.Param("id")
	if _, err := uuid.Parse(questionID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question id must be a UUID")
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	a, err := h.aSvc.Create(c.Request.Context(), userID(c), questionID, req.Body)
	if err != nil {
		switch err {
		case services.ErrQuestionNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
		case services.ErrEmptyBody, services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, a)
}

// UpdateAnswer godoc
// @ID          updateAnswer
// @Summary     Edit an answer
// @Description Updates the body of an answer owned by the caller.
// @Tags        Answers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Answer ID (UUID)"  format(uuid)
// @Param       body  body  handlers.AnswerRequest  true  "Answer payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Answer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id} [put]
func (h *Handlers) UpdateAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body required")
		return
	}

	err := h.aSvc.Update(c.Request.Context(), userID(c), c.Param("id"), req.Body)
	if err != nil {
		switch err {
		case services.ErrAnswerNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "answer not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can edit this answer")
		case services.ErrEmptyBody, services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// DeleteAnswer godoc
// @ID          deleteAnswer
// @Summary     Delete an answer
// @Description Deletes an answer owned by the caller; its votes and comments
// @Description cascade.
// @Tags        Answers
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Answer ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Answer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id} [delete]
func (h *Handlers) DeleteAnswer(c *gin.Context) {
	err := h.aSvc.Delete(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrAnswerNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "answer not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can delete this answer")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// AcceptAnswer godoc
// @ID          acceptAnswer
// @Summary     Accept an answer
// @Description Marks an answer as accepted. Only the author of the parent
// @Description question may accept; a previously accepted answer is cleared.
// @Tags        Answers
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Answer ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object} handlers.ErrorResponse "Not the question author"
// @Failure     404  {object} handlers.ErrorResponse "Answer not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /answers/{id}/accept [post]
func (h *Handlers) AcceptAnswer(c *gin.Context) {
	err := h.aSvc.Accept(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrAnswerNotFound, services.ErrQuestionNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "answer not found")
		case services.ErrForbidden:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the question author can accept an answer")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

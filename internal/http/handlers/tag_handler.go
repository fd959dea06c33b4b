// Tag HTTP handlers.
//
// This file exposes the read-only REST endpoints for tags:
//   - GET /tags         (list all)
//   - GET /tags/{name}  (lookup by canonical name)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dstamatis/go-forum-backend/internal/domain"
	"github.com/dstamatis/go-forum-backend/internal/services"
)

// ListTags godoc
// @ID          listTags
// @Summary     List tags
// @Tags        Tags
// @Produce     json
//
// @Success     200  {array}  domain.Tag
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	tags, err := h.tagSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	ok(c, http.StatusOK, tags)
}

// GetTag godoc
// @ID          getTag
// @Summary     Get a tag
// @Description Looks a tag up by its canonical (lowercase) name.
// @Tags        Tags
// @Produce     json
//
// @Param       name  path  string  true  "Tag name"  example(go)
//
// @Success     200  {object} domain.Tag
// @Failure     404  {object} handlers.ErrorResponse "Tag not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags/{name} [get]
func (h *Handlers) GetTag(c *gin.Context) {
	t, err := h.tagSvc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		if err == services.ErrTagNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, t)
}

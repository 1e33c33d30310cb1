package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"simpleblog/internal/auth"
	"simpleblog/internal/errors"
	"simpleblog/internal/logger"
	"simpleblog/internal/model"
	"simpleblog/internal/service"
)

// CommentHandler serves the comment JSON API.
type CommentHandler struct {
	comments service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CommentRequest is the body of a new comment. AuthorName is only used
// for anonymous commenters.
type CommentRequest struct {
	Content    string `json:"content" form:"content"`
	AuthorName string `json:"authorName,omitempty" form:"authorName" validate:"omitempty,max=50"`
}

// jsonError writes err as an ErrorResponse, logging anything unexpected.
func jsonError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error().Err(err).
			Str("path", c.Path()).Msg("request failed")
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// ListComments godoc
// @Summary List comments on a post
// @Description Comments in the order they were written.
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Comment
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/{id}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		// no post can have this id
		return c.JSON(http.StatusOK, []model.Comment{})
	}

	comments, err := h.comments.List(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary Comment on a post
// @Description Signed-in users comment under their username; anyone else under authorName or "Anonymous".
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts/{id}/comments [post]
func (h *CommentHandler) AddComment(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return jsonError(c, errors.ErrPostNotFound)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error: "authorName too long",
			Code:  "VALIDATION_ERROR",
		})
	}

	comment, err := h.comments.Add(c.Request().Context(), auth.IdentityFrom(c), id, req.Content, req.AuthorName)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

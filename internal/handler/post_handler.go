package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"simpleblog/internal/auth"
	"simpleblog/internal/errors"
	"simpleblog/internal/model"
	"simpleblog/internal/service"
	"simpleblog/internal/view"
)

// PostHandler serves the post pages and the JSON feed.
type PostHandler struct {
	posts service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// PostForm is the create and edit form.
type PostForm struct {
	Title string `form:"title"`
	Body  string `form:"body"`
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

// Home shows the user's own posts, or the landing page when anonymous.
func (h *PostHandler) Home(c echo.Context) error {
	user, ok := auth.UserOf(auth.IdentityFrom(c))
	if !ok {
		return c.Render(http.StatusOK, "homepage", view.Page{})
	}

	posts, err := h.posts.ListByAuthor(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "dashboard", view.Page{Posts: posts})
}

// Feed shows every post.
func (h *PostHandler) Feed(c echo.Context) error {
	posts, err := h.posts.Feed(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "feed", view.Page{Posts: posts})
}

// ListPosts godoc
// @Summary List all posts
// @Description Every post with its author's username, newest first.
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.posts.Feed(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// NewPost renders an empty post form.
func (h *PostHandler) NewPost(c echo.Context) error {
	return c.Render(http.StatusOK, "create-post", view.Page{})
}

// CreatePost stores a post owned by the current user.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, ok := auth.UserOf(auth.IdentityFrom(c))
	if !ok {
		return home(c)
	}

	var form PostForm
	_ = c.Bind(&form)

	post, err := h.posts.Create(c.Request().Context(), user, form.Title, form.Body)
	if msgs := errors.Messages(err); msgs != nil {
		return c.Render(http.StatusOK, "create-post", view.Page{Errors: msgs, Post: post})
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(post))
}

// ShowPost renders a single post. Missing posts redirect home.
func (h *PostHandler) ShowPost(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return home(c)
	}

	v, err := h.posts.View(c.Request().Context(), auth.IdentityFrom(c), id)
	if err != nil {
		if errors.MapErrorToHTTP(err).StatusCode == http.StatusNotFound {
			return home(c)
		}
		return err
	}
	return c.Render(http.StatusOK, "single-post", view.Page{Post: v.Post, IsAuthor: v.IsAuthor})
}

// EditPost renders the edit form for a post the user owns.
func (h *PostHandler) EditPost(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return home(c)
	}

	post, access, err := h.posts.Editable(c.Request().Context(), auth.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	if access != auth.Allowed {
		return home(c)
	}
	return c.Render(http.StatusOK, "edit-post", view.Page{Post: post})
}

// UpdatePost saves an edit to a post the user owns.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return home(c)
	}

	var form PostForm
	_ = c.Bind(&form)

	post, access, err := h.posts.Update(c.Request().Context(), auth.IdentityFrom(c), id, form.Title, form.Body)
	if access != auth.Allowed {
		if err != nil {
			return err
		}
		return home(c)
	}
	if msgs := errors.Messages(err); msgs != nil {
		return c.Render(http.StatusOK, "edit-post", view.Page{Errors: msgs, Post: post})
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postURL(post))
}

// DeletePost removes a post the user owns.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return home(c)
	}

	if _, err := h.posts.Delete(c.Request().Context(), auth.IdentityFrom(c), id); err != nil {
		return err
	}
	return home(c)
}

func postURL(p *model.Post) string {
	return fmt.Sprintf("/post/%d", p.ID)
}

package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"simpleblog/internal/auth"
	"simpleblog/internal/config"
	"simpleblog/internal/handler"
	"simpleblog/internal/logger"
	"simpleblog/internal/view"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Post    *handler.PostHandler
	Comment *handler.CommentHandler
	User    *handler.UserHandler
	Cron    *handler.CronHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logger.Logger,
	tokens *auth.TokenService,
	renderer echo.Renderer,
	h Handlers,
) {
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(contextLogger(log))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(auth.Authenticate(tokens, cfg.SessionCookie))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", view.Static())

	// Pages
	e.GET("/", h.Post.Home)
	e.GET("/dashboard", h.Post.Feed)
	e.GET("/post/:id", h.Post.ShowPost)
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.Login)
	e.GET("/logout", h.Auth.Logout)
	e.POST("/register", h.Auth.Register)

	// Pages for signed-in users only
	members := auth.RequireAuthenticated()
	e.GET("/create-post", h.Post.NewPost, members)
	e.POST("/create-post", h.Post.CreatePost, members)
	e.GET("/edit-post/:id", h.Post.EditPost, members)
	e.POST("/edit-post/:id", h.Post.UpdatePost, members)
	e.POST("/delete-post/:id", h.Post.DeletePost, members)

	api := e.Group("/api")
	api.GET("/posts", h.Post.ListPosts)
	api.GET("/posts/:id/comments", h.Comment.ListComments)
	api.POST("/posts/:id/comments", h.Comment.AddComment)

	admin := e.Group("/admin")
	admin.GET("/users", h.User.ListUsers)
	admin.GET("/users/:id", h.User.GetUser)

	e.GET("/cron/ping", h.Cron.Ping)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"simpleblog/internal/auth"
	"simpleblog/internal/errors"
	"simpleblog/internal/service"
	"simpleblog/internal/view"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	cookie      auth.SessionCookie
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie auth.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// CredentialsForm is the registration and login form.
type CredentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Register validates the form, creates the user and logs them in.
// Problems re-render the landing page with the messages.
func (h *AuthHandler) Register(c echo.Context) error {
	var form CredentialsForm
	_ = c.Bind(&form)

	_, token, err := h.authService.Register(c.Request().Context(), form.Username, form.Password)
	if msgs := errors.Messages(err); msgs != nil {
		return c.Render(http.StatusOK, "homepage", view.Page{Errors: msgs, Username: form.Username})
	}
	if err != nil {
		return err
	}

	h.cookie.Set(c, token)
	return c.Redirect(http.StatusSeeOther, "/")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", view.Page{})
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var form CredentialsForm
	_ = c.Bind(&form)

	_, token, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if msgs := errors.Messages(err); msgs != nil {
		return c.Render(http.StatusOK, "login", view.Page{Errors: msgs, Username: form.Username})
	}
	if err != nil {
		return err
	}

	h.cookie.Set(c, token)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.Clear(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

package auth

import (
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ContextKeyIdentity is where Authenticate stores the request's Identity.
const ContextKeyIdentity = "identity"

// Authenticate resolves the session cookie into an Identity. Any failure,
// including a missing cookie, leaves the request Anonymous; it never rejects.
func Authenticate(tokens *TokenService, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + cookieName,
		ContextKey:  ContextKeyIdentity,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			user, err := tokens.Verify(auth)
			if err != nil {
				return nil, err
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Set(ContextKeyIdentity, Anonymous{})
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// IdentityFrom returns the identity stored by Authenticate, Anonymous if none.
func IdentityFrom(c echo.Context) Identity {
	if id, ok := c.Get(ContextKeyIdentity).(Identity); ok {
		return id
	}
	return Anonymous{}
}

// RequireAuthenticated redirects anonymous requests to the landing page.
// Must be used after Authenticate.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserOf(IdentityFrom(c)); !ok {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

// SessionCookie writes the session token cookie.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Set stores token on the response with a lifetime equal to the token's.
func (s SessionCookie) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.TTL / time.Second),
		Expires:  time.Now().Add(s.TTL),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear removes the session cookie.
func (s SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

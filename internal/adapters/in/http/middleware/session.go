// Package middleware provides echo middleware for the HTTP adapter.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/boundaries/in"
	"github.com/bnema/pdv/internal/domain"
)

const (
	// SessionName is the session cookie name.
	SessionName = "pdv_session"

	sessionUserKey = "user_id"
	contextUserKey = "user"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret string
	Secure bool
	MaxAge time.Duration
}

// Sessions installs a gorilla cookie store for the session helpers below.
func Sessions(opts SessionOptions) echo.MiddlewareFunc {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		MaxAge:   int(opts.MaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	}
	return session.Middleware(store)
}

// Login stores the user id in the session cookie.
func Login(c echo.Context, userID int64) error {
	// An undecodable cookie (rotated secret) still yields a fresh session.
	sess, _ := session.Get(SessionName, c)
	if sess == nil {
		return errors.New("session store not installed")
	}
	sess.Values[sessionUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// Logout expires the session cookie.
func Logout(c echo.Context) error {
	sess, _ := session.Get(SessionName, c)
	if sess == nil {
		return nil
	}
	delete(sess.Values, sessionUserKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// sessionUserID returns the user id held by the session, if any.
func sessionUserID(c echo.Context) (int64, bool) {
	sess, err := session.Get(SessionName, c)
	if err != nil || sess == nil {
		return 0, false
	}
	id, ok := sess.Values[sessionUserKey].(int64)
	return id, ok && id > 0
}

// RequireLogin resolves the session user on every request. Users deleted
// since login, including by a restore, are rejected.
func RequireLogin(auth in.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessionUserID(c)
			if !ok {
				return domain.ErrUnauthorized
			}

			user, err := auth.Resolve(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					_ = Logout(c)
				}
				return err
			}

			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin users. It must run after RequireLogin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.ErrUnauthorized
		}
		if !user.IsAdmin {
			return domain.ErrForbidden
		}
		return next(c)
	}
}

// CurrentUser returns the user resolved by RequireLogin.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(contextUserKey).(*domain.User)
	return user
}

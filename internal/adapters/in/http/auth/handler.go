// Package auth implements the HTTP adapter for session login endpoints.
package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/httputil"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
	"github.com/bnema/pdv/internal/boundaries/in"
	"github.com/bnema/pdv/internal/domain"
)

// Handler serves /api/auth/*.
type Handler struct {
	authSvc in.AuthService
	log     *log.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(authSvc in.AuthService, logger *log.Logger) *Handler {
	return &Handler{authSvc: authSvc, log: logger.With("handler", "auth")}
}

// Register mounts the public routes on public and the session routes on user.
// loginMW wraps only the login route.
func (h *Handler) Register(public, user *echo.Group, loginMW ...echo.MiddlewareFunc) {
	public.POST("/login", h.login, loginMW...)
	public.POST("/logout", h.logout)
	user.GET("/me", h.me)
	user.PUT("/password", h.changePassword)
}

func (h *Handler) login(c echo.Context) error {
	var req dto.LoginRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return domain.ErrUnauthorized
	}

	user, err := h.authSvc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if err := middleware.Login(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.UserFromDomain(*user))
}

func (h *Handler) logout(c echo.Context) error {
	if err := middleware.Logout(c); err != nil {
		h.log.Warn("Failed to clear session", "error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) me(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.UserFromDomain(*middleware.CurrentUser(c)))
}

func (h *Handler) changePassword(c echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	if err := h.authSvc.ChangePassword(c.Request().Context(), middleware.CurrentUser(c).ID, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

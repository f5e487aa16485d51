package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/httputil"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
)

func (h *Handler) listUsers(c echo.Context) error {
	users, err := h.authSvc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.UsersResponse{Users: dto.UsersFromDomain(users)})
}

func (h *Handler) createUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}

	user, err := h.authSvc.CreateUser(c.Request().Context(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.UserFromDomain(*user))
}

func (h *Handler) deleteUser(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	if err := h.authSvc.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

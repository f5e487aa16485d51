package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
)

func (h *Handler) listBackups(c echo.Context) error {
	files, err := h.backupSvc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.BackupsResponse{Backups: dto.BackupsFromDomain(files)})
}

func (h *Handler) createBackup(c echo.Context) error {
	file, err := h.backupSvc.Create(c.Request().Context())
	if err != nil {
		return err
	}

	h.log.Info("Backup requested", "name", file.Name, "by", middleware.CurrentUser(c).Username)
	return c.JSON(http.StatusCreated, dto.BackupCreateResponse{
		Status: "created",
		Backup: dto.BackupFromDomain(file),
	})
}

func (h *Handler) deleteBackup(c echo.Context) error {
	name := c.Param("name")
	if err := h.backupSvc.Delete(c.Request().Context(), name); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) restoreBackup(c echo.Context) error {
	name := c.Param("name")
	user := middleware.CurrentUser(c)

	h.log.Warn("Restore requested", "name", name, "by", user.Username)
	if err := h.backupSvc.Restore(c.Request().Context(), name); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.BackupRestoreResponse{Status: "restored", Restored: name})
}

func (h *Handler) downloadBackup(c echo.Context) error {
	rc, file, err := h.backupSvc.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Stream(http.StatusOK, echo.MIMEApplicationJSON, rc)
}

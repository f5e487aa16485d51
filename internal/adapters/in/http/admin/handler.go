// Package admin implements the HTTP adapter for user and backup administration.
package admin

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/boundaries/in"
)

// Handler serves /api/admin/*. Every route requires an admin session.
type Handler struct {
	authSvc   in.AuthService
	backupSvc in.BackupService
	log       *log.Logger
}

// NewHandler creates a new admin HTTP handler.
func NewHandler(authSvc in.AuthService, backupSvc in.BackupService, logger *log.Logger) *Handler {
	return &Handler{
		authSvc:   authSvc,
		backupSvc: backupSvc,
		log:       logger.With("handler", "admin"),
	}
}

// Register mounts the admin routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/users", h.listUsers)
	g.POST("/users", h.createUser)
	g.DELETE("/users/:id", h.deleteUser)

	g.GET("/backups", h.listBackups)
	g.POST("/backups", h.createBackup)
	g.DELETE("/backups/:name", h.deleteBackup)
	g.POST("/backups/:name/restore", h.restoreBackup)
	g.GET("/backups/:name/download", h.downloadBackup)
}

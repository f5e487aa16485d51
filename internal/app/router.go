package app

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/admin"
	"github.com/bnema/pdv/internal/adapters/in/http/auth"
	"github.com/bnema/pdv/internal/adapters/in/http/httputil"
	"github.com/bnema/pdv/internal/adapters/in/http/inventory"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
	"github.com/bnema/pdv/pkg/logger"
	"github.com/bnema/pdv/pkg/version"
)

// NewRouter builds the echo instance serving the JSON API.
func (a *App) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httputil.ErrorHandler(logger.Named("http"))
	// X-Forwarded-For is honored only from loopback and private proxies.
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.BodyLimit())
	e.Use(middleware.Sessions(middleware.SessionOptions{
		Secret: a.Config.Server.SessionSecret,
		Secure: a.Config.Server.SecureCookie,
		MaxAge: a.Config.Server.SessionMaxAge,
	}))

	e.GET("/healthz", a.health)

	api := e.Group("/api")
	requireLogin := middleware.RequireLogin(a.Auth)

	auth.NewHandler(a.Auth, logger.Named("http")).
		Register(api.Group("/auth"), api.Group("/auth", requireLogin), middleware.RateLimit(a.LoginLimiter, "login"))

	user := api.Group("", requireLogin)
	inventory.NewHandler(a.Inventory, logger.Named("http")).Register(user)

	adminGroup := api.Group("/admin", requireLogin, middleware.RequireAdmin)
	admin.NewHandler(a.Auth, a.Backup, logger.Named("http")).Register(adminGroup)

	return e
}

func (a *App) health(c echo.Context) error {
	resp := dto.HealthResponse{Status: "ok", Version: version.Get().Version}
	if err := a.DB.Ping(c.Request().Context()); err != nil {
		a.log.Warn("Health check failed", "error", err)
		resp.Status = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

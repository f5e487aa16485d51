// Package inventory implements the HTTP adapter for catalog, client, account
// and stock endpoints.
package inventory

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/http/httputil"
	"github.com/bnema/pdv/internal/adapters/in/http/middleware"
	"github.com/bnema/pdv/internal/boundaries/in"
	"github.com/bnema/pdv/internal/domain"
)

// Handler serves the logged-in inventory API.
type Handler struct {
	svc in.InventoryService
	log *log.Logger
}

// NewHandler creates a new inventory handler.
func NewHandler(svc in.InventoryService, logger *log.Logger) *Handler {
	return &Handler{svc: svc, log: logger.With("handler", "inventory")}
}

// Register mounts the inventory routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/categories", h.listCategories)
	g.POST("/categories", h.createCategory)

	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.GET("/products/:id", h.getProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.GET("/products/:id/movements", h.listMovements)
	g.POST("/products/:id/movements", h.recordMovement)

	g.GET("/clients", h.listClients)
	g.POST("/clients", h.createClient)
	g.PUT("/clients/:id", h.updateClient)
	g.DELETE("/clients/:id", h.deleteClient)

	g.GET("/accounts", h.listAccounts)
	g.POST("/accounts", h.createAccount)
	g.POST("/accounts/:id/pay", h.payAccount)
	g.DELETE("/accounts/:id", h.deleteAccount)
}

func (h *Handler) listCategories(c echo.Context) error {
	cats, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.CategoriesFromDomain(cats))
}

func (h *Handler) createCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	cat, err := h.svc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.Category{ID: cat.ID, Name: cat.Name})
}

func (h *Handler) listProducts(c echo.Context) error {
	lowStock := false
	if raw := c.QueryParam("low_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.ErrInvalidInput
		}
		lowStock = v
	}

	products, err := h.svc.ListProducts(c.Request().Context(), lowStock)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ProductsFromDomain(products))
}

func (h *Handler) getProduct(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ProductFromDomain(*p))
}

func (h *Handler) createProduct(c echo.Context) error {
	var req dto.ProductRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.svc.CreateProduct(c.Request().Context(), req.ToDomain(0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.ProductFromDomain(*p))
}

func (h *Handler) updateProduct(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.svc.UpdateProduct(c.Request().Context(), req.ToDomain(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ProductFromDomain(*p))
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listMovements(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	movements, err := h.svc.ListMovements(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MovementsFromDomain(movements))
}

func (h *Handler) recordMovement(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.MovementRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	m, p, err := h.svc.RecordMovement(c.Request().Context(), req.ToDomain(id, user.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.MovementResponse{
		Movement: dto.MovementFromDomain(*m),
		Product:  dto.ProductFromDomain(*p),
	})
}

func (h *Handler) listClients(c echo.Context) error {
	clients, err := h.svc.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ClientsFromDomain(clients))
}

func (h *Handler) createClient(c echo.Context) error {
	var req dto.ClientRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	client, err := h.svc.CreateClient(c.Request().Context(), req.ToDomain(0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.ClientFromDomain(*client))
}

func (h *Handler) updateClient(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	client, err := h.svc.UpdateClient(c.Request().Context(), req.ToDomain(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ClientFromDomain(*client))
}

func (h *Handler) deleteClient(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listAccounts(c echo.Context) error {
	filter := domain.AccountFilter{
		Kind:   domain.AccountKind(c.QueryParam("kind")),
		Status: domain.AccountStatus(c.QueryParam("status")),
	}
	accounts, err := h.svc.ListAccounts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AccountsFromDomain(accounts))
}

func (h *Handler) createAccount(c echo.Context) error {
	var req dto.AccountRequest
	if err := httputil.Bind(c, &req); err != nil {
		return err
	}
	account, err := req.ToDomain(middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	created, err := h.svc.CreateAccount(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.AccountFromDomain(*created))
}

func (h *Handler) payAccount(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	account, err := h.svc.PayAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AccountFromDomain(*account))
}

func (h *Handler) deleteAccount(c echo.Context) error {
	id, err := httputil.IDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

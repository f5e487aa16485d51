// Package inventory implements the catalog, client, account and stock use cases.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/pdv/internal/boundaries/out"
	"github.com/bnema/pdv/internal/domain"
	"github.com/bnema/pdv/pkg/sanitize"
)

// Service implements the InventoryService interface.
type Service struct {
	store out.InventoryStore
	log   *log.Logger
	now   func() time.Time
}

// NewService creates a new inventory service.
func NewService(store out.InventoryStore, logger *log.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.With("usecase", "inventory"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Categories

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = sanitize.Text(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.store.CreateCategory(ctx, name)
}

// Products

func (s *Service) ListProducts(ctx context.Context, lowStockOnly bool) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, lowStockOnly)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	cleanProduct(&p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("Product created", "id", created.ID, "sku", created.SKU)
	return created, nil
}

// UpdateProduct changes descriptive fields. The stock level is left as is.
func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	current, err := s.store.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	cleanProduct(&p)
	p.Stock = current.Stock
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("Product deleted", "id", id)
	return nil
}

func cleanProduct(p *domain.Product) {
	p.SKU = strings.ToUpper(sanitize.Text(p.SKU))
	p.Name = sanitize.Text(p.Name)
	p.Description = sanitize.Text(p.Description)
}

// Clients

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	cleanClient(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateClient(ctx, c)
}

func (s *Service) UpdateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	cleanClient(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateClient(ctx, c)
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	return s.store.DeleteClient(ctx, id)
}

func cleanClient(c *domain.Client) {
	c.Name = sanitize.Text(c.Name)
	c.Document = sanitize.Text(c.Document)
	c.Email = strings.ToLower(sanitize.Text(c.Email))
	c.Phone = sanitize.Text(c.Phone)
	c.Address = sanitize.Text(c.Address)
	c.Notes = sanitize.Text(c.Notes)
}

// Accounts

func (s *Service) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	switch filter.Kind {
	case "", domain.AccountPayable, domain.AccountReceivable:
	default:
		return nil, fmt.Errorf("%w: unknown account kind %q", domain.ErrInvalidInput, filter.Kind)
	}
	switch filter.Status {
	case "", domain.AccountOpen, domain.AccountPaid:
	default:
		return nil, fmt.Errorf("%w: unknown account status %q", domain.ErrInvalidInput, filter.Status)
	}
	return s.store.ListAccounts(ctx, filter)
}

func (s *Service) CreateAccount(ctx context.Context, a domain.Account) (*domain.Account, error) {
	a.Description = sanitize.Text(a.Description)
	a.PaidAt = nil
	if err := a.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return nil, err
	}
	s.log.Info("Account created", "id", created.ID, "kind", created.Kind, "amount_cents", created.AmountCents)
	return created, nil
}

// PayAccount marks an open account as paid now.
func (s *Service) PayAccount(ctx context.Context, id int64) (*domain.Account, error) {
	paid, err := s.store.MarkAccountPaid(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info("Account paid", "id", id)
	return paid, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	return s.store.DeleteAccount(ctx, id)
}

// Movements

// RecordMovement validates m and applies it to the product stock.
func (s *Service) RecordMovement(ctx context.Context, m domain.Movement) (*domain.Movement, *domain.Product, error) {
	m.Reason = sanitize.Text(m.Reason)
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	movement, product, err := s.store.ApplyMovement(ctx, m)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Stock movement recorded",
		"product_id", product.ID,
		"kind", movement.Kind,
		"quantity", movement.Quantity,
		"stock", product.Stock,
	)
	if product.LowStock() {
		s.log.Warn("Product at or below minimum stock", "sku", product.SKU, "stock", product.Stock, "min_stock", product.MinStock)
	}
	return movement, product, nil
}

func (s *Service) ListMovements(ctx context.Context, productID int64) ([]domain.Movement, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.ListMovements(ctx, productID)
}

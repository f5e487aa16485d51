package in

import (
	"context"

	"github.com/bnema/pdv/internal/domain"
)

// InventoryService defines the catalog, client, account and stock use cases.
type InventoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)

	ListProducts(ctx context.Context, lowStockOnly bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, c domain.Client) (*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
	CreateAccount(ctx context.Context, a domain.Account) (*domain.Account, error)
	PayAccount(ctx context.Context, id int64) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	// RecordMovement stores a movement and applies it to the product stock.
	RecordMovement(ctx context.Context, m domain.Movement) (*domain.Movement, *domain.Product, error)
	ListMovements(ctx context.Context, productID int64) ([]domain.Movement, error)
}

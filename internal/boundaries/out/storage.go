package out

import (
	"context"
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// UserStore persists users.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	CountAdmins(ctx context.Context) (int, error)
}

// InventoryStore persists catalog, clients, accounts and stock movements.
type InventoryStore interface {
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
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	CreateAccount(ctx context.Context, a domain.Account) (*domain.Account, error)
	MarkAccountPaid(ctx context.Context, id int64, paidAt time.Time) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	// ApplyMovement inserts m and updates the product stock in one transaction.
	ApplyMovement(ctx context.Context, m domain.Movement) (*domain.Movement, *domain.Product, error)
	ListMovements(ctx context.Context, productID int64) ([]domain.Movement, error)
}

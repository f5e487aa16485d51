package dto

import (
	"fmt"
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// DateLayout is the calendar date format accepted for due dates.
const DateLayout = "2006-01-02"

// Category is a product category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

func CategoriesFromDomain(cats []domain.Category) []Category {
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, Category{ID: c.ID, Name: c.Name})
	}
	return out
}

// Product is the API view of a product.
type Product struct {
	ID          int64     `json:"id"`
	CategoryID  *int64    `json:"category_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CostCents   int64     `json:"cost_cents"`
	Stock       int64     `json:"stock"`
	MinStock    int64     `json:"min_stock"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductRequest creates or updates a product. Stock is only read on create.
type ProductRequest struct {
	CategoryID  *int64 `json:"category_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	CostCents   int64  `json:"cost_cents"`
	Stock       int64  `json:"stock"`
	MinStock    int64  `json:"min_stock"`
}

func (r ProductRequest) ToDomain(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		CategoryID:  r.CategoryID,
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		CostCents:   r.CostCents,
		Stock:       r.Stock,
		MinStock:    r.MinStock,
	}
}

func ProductFromDomain(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		CostCents:   p.CostCents,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.LowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductsFromDomain(products []domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, ProductFromDomain(p))
	}
	return out
}

// Client is the API view of a client.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientRequest creates or updates a client.
type ClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (r ClientRequest) ToDomain(id int64) domain.Client {
	return domain.Client{
		ID:       id,
		Name:     r.Name,
		Document: r.Document,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Notes:    r.Notes,
	}
}

func ClientFromDomain(c domain.Client) Client {
	return Client{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func ClientsFromDomain(clients []domain.Client) []Client {
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientFromDomain(c))
	}
	return out
}

// Account is the API view of a payable or receivable.
type Account struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     time.Time  `json:"due_date"`
	PaidAt      *time.Time `json:"paid_at"`
	ClientID    *int64     `json:"client_id"`
	CreatedBy   *int64     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AccountRequest creates an account. DueDate is YYYY-MM-DD or RFC 3339.
type AccountRequest struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	ClientID    *int64 `json:"client_id"`
}

func (r AccountRequest) ToDomain(createdBy int64) (domain.Account, error) {
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		Kind:        domain.AccountKind(r.Kind),
		Description: r.Description,
		AmountCents: r.AmountCents,
		DueDate:     due,
		ClientID:    r.ClientID,
		CreatedBy:   &createdBy,
	}, nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: due_date is required", domain.ErrInvalidInput)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due_date must be YYYY-MM-DD or RFC 3339", domain.ErrInvalidInput)
	}
	return t.UTC(), nil
}

func AccountFromDomain(a domain.Account) Account {
	return Account{
		ID:          a.ID,
		Kind:        string(a.Kind),
		Status:      string(a.Status()),
		Description: a.Description,
		AmountCents: a.AmountCents,
		DueDate:     a.DueDate,
		PaidAt:      a.PaidAt,
		ClientID:    a.ClientID,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}

func AccountsFromDomain(accounts []domain.Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountFromDomain(a))
	}
	return out
}

// Movement is the API view of a stock movement.
type Movement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    *int64    `json:"user_id"`
	Kind      string    `json:"kind"`
	Quantity  int64     `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementRequest records a stock movement for the product in the URL.
type MovementRequest struct {
	Kind     string `json:"kind"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

func (r MovementRequest) ToDomain(productID, userID int64) domain.Movement {
	return domain.Movement{
		ProductID: productID,
		UserID:    &userID,
		Kind:      domain.MovementKind(r.Kind),
		Quantity:  r.Quantity,
		Reason:    r.Reason,
	}
}

// MovementResponse returns the movement together with the updated product.
type MovementResponse struct {
	Movement Movement `json:"movement"`
	Product  Product  `json:"product"`
}

func MovementFromDomain(m domain.Movement) Movement {
	return Movement{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Kind:      string(m.Kind),
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

func MovementsFromDomain(movements []domain.Movement) []Movement {
	out := make([]Movement, 0, len(movements))
	for _, m := range movements {
		out = append(out, MovementFromDomain(m))
	}
	return out
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category groups products.
type Category struct {
	ID   int64
	Name string
}

// Product is a stock-keeping item.
type Product struct {
	ID          int64
	CategoryID  *int64
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	CostCents   int64
	Stock       int64
	MinStock    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock reports whether the product is at or below its minimum stock.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// Validate checks product invariants.
func (p Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.PriceCents < 0 || p.CostCents < 0 {
		return fmt.Errorf("%w: prices cannot be negative", ErrInvalidInput)
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	return nil
}

// Client is a customer.
type Client struct {
	ID        int64
	Name      string
	Document  string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
}

// Validate checks client invariants.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

// AccountKind distinguishes payables from receivables.
type AccountKind string

const (
	AccountPayable    AccountKind = "payable"
	AccountReceivable AccountKind = "receivable"
)

// AccountStatus filters accounts by settlement.
type AccountStatus string

const (
	AccountOpen AccountStatus = "open"
	AccountPaid AccountStatus = "paid"
)

// Account is an entry in accounts payable or receivable.
type Account struct {
	ID          int64
	Kind        AccountKind
	Description string
	AmountCents int64
	DueDate     time.Time
	PaidAt      *time.Time
	ClientID    *int64
	CreatedBy   *int64
	CreatedAt   time.Time
}

// Status derives the settlement status.
func (a Account) Status() AccountStatus {
	if a.PaidAt != nil {
		return AccountPaid
	}
	return AccountOpen
}

// Validate checks account invariants.
func (a Account) Validate() error {
	if a.Kind != AccountPayable && a.Kind != AccountReceivable {
		return fmt.Errorf("%w: kind must be %q or %q", ErrInvalidInput, AccountPayable, AccountReceivable)
	}
	if strings.TrimSpace(a.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if a.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if a.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}
	return nil
}

// AccountFilter narrows account listings. Empty fields match everything.
type AccountFilter struct {
	Kind   AccountKind
	Status AccountStatus
}

// MovementKind is the direction of a stock movement.
type MovementKind string

const (
	MovementIn     MovementKind = "in"
	MovementOut    MovementKind = "out"
	MovementAdjust MovementKind = "adjust"
)

// Movement records a stock change for a product.
type Movement struct {
	ID        int64
	ProductID int64
	UserID    *int64
	Kind      MovementKind
	Quantity  int64
	Reason    string
	CreatedAt time.Time
}

// Validate checks movement invariants.
func (m Movement) Validate() error {
	switch m.Kind {
	case MovementIn, MovementOut:
		if m.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	case MovementAdjust:
		if m.Quantity < 0 {
			return fmt.Errorf("%w: adjusted stock cannot be negative", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown movement kind %q", ErrInvalidInput, m.Kind)
	}
	return nil
}

// ApplyTo returns the stock level after applying the movement.
func (m Movement) ApplyTo(stock int64) (int64, error) {
	var next int64
	switch m.Kind {
	case MovementIn:
		next = stock + m.Quantity
	case MovementOut:
		next = stock - m.Quantity
	case MovementAdjust:
		next = m.Quantity
	default:
		return stock, fmt.Errorf("%w: unknown movement kind %q", ErrInvalidInput, m.Kind)
	}
	if next < 0 {
		return stock, fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, stock, m.Quantity)
	}
	return next, nil
}

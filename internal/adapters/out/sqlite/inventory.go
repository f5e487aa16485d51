package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// InventoryStore implements out.InventoryStore.
type InventoryStore struct {
	db *DB
}

// NewInventoryStore creates an InventoryStore over db.
func NewInventoryStore(db *DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// Categories

func (s *InventoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.sql.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, translateError(err, "list categories")
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *InventoryStore) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	res, err := s.db.sql.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("category %q", name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: id, Name: name}, nil
}

// Products

const productColumns = "id, category_id, sku, name, description, price_cents, cost_cents, stock, min_stock, created_at, updated_at"

func scanProduct(r rowScanner) (*domain.Product, error) {
	var (
		p                    domain.Product
		categoryID           sql.NullInt64
		createdAt, updatedAt string
	)
	if err := r.Scan(&p.ID, &categoryID, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.CostCents,
		&p.Stock, &p.MinStock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CategoryID = int64Ptr(categoryID)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *InventoryStore) ListProducts(ctx context.Context, lowStockOnly bool) ([]domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if lowStockOnly {
		query += " WHERE stock <= min_stock"
	}
	query += " ORDER BY name"

	rows, err := s.db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "list products")
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *InventoryStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return getProduct(ctx, s.db.sql, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProduct(ctx context.Context, q queryRower, id int64) (*domain.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("product %d", id))
	}
	return p, nil
}

func (s *InventoryStore) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := s.db.sql.ExecContext(ctx, `
		INSERT INTO products (category_id, sku, name, description, price_cents, cost_cents, stock, min_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt64(p.CategoryID), p.SKU, p.Name, p.Description, p.PriceCents, p.CostCents,
		p.Stock, p.MinStock, formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("product %q", p.SKU))
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct updates descriptive fields. Stock only changes through movements.
func (s *InventoryStore) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	res, err := s.db.sql.ExecContext(ctx, `
		UPDATE products
		SET category_id = ?, sku = ?, name = ?, description = ?, price_cents = ?, cost_cents = ?, min_stock = ?, updated_at = ?
		WHERE id = ?`,
		nullInt64(p.CategoryID), p.SKU, p.Name, p.Description, p.PriceCents, p.CostCents, p.MinStock,
		formatTime(time.Now().UTC()), p.ID,
	)
	if err := affectedOne(res, err, fmt.Sprintf("product %d", p.ID)); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *InventoryStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.sql.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	return affectedOne(res, err, fmt.Sprintf("product %d", id))
}

// Clients

const clientColumns = "id, name, document, email, phone, address, notes, created_at"

func scanClient(r rowScanner) (*domain.Client, error) {
	var (
		c         domain.Client
		createdAt string
	)
	if err := r.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Address, &c.Notes, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

func (s *InventoryStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.sql.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name")
	if err != nil {
		return nil, translateError(err, "list clients")
	}
	defer rows.Close()

	out := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *InventoryStore) CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	c.CreatedAt = time.Now().UTC()
	res, err := s.db.sql.ExecContext(ctx, `
		INSERT INTO clients (name, document, email, phone, address, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Document, c.Email, c.Phone, c.Address, c.Notes, formatTime(c.CreatedAt),
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("client %q", c.Name))
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *InventoryStore) UpdateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	res, err := s.db.sql.ExecContext(ctx, `
		UPDATE clients SET name = ?, document = ?, email = ?, phone = ?, address = ?, notes = ?
		WHERE id = ?`,
		c.Name, c.Document, c.Email, c.Phone, c.Address, c.Notes, c.ID,
	)
	if err := affectedOne(res, err, fmt.Sprintf("client %d", c.ID)); err != nil {
		return nil, err
	}
	updated, err := scanClient(s.db.sql.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", c.ID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("client %d", c.ID))
	}
	return updated, nil
}

func (s *InventoryStore) DeleteClient(ctx context.Context, id int64) error {
	res, err := s.db.sql.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	return affectedOne(res, err, fmt.Sprintf("client %d", id))
}

// Accounts

const accountColumns = "id, kind, description, amount_cents, due_date, paid_at, client_id, created_by, created_at"

func scanAccount(r rowScanner) (*domain.Account, error) {
	var (
		a                  domain.Account
		kind               string
		dueDate, createdAt string
		paidAt             sql.NullString
		clientID, creator  sql.NullInt64
	)
	if err := r.Scan(&a.ID, &kind, &a.Description, &a.AmountCents, &dueDate, &paidAt, &clientID, &creator, &createdAt); err != nil {
		return nil, err
	}
	a.Kind = domain.AccountKind(kind)
	a.DueDate = parseTime(dueDate)
	a.PaidAt = timePtr(paidAt)
	a.ClientID = int64Ptr(clientID)
	a.CreatedBy = int64Ptr(creator)
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

func (s *InventoryStore) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	switch filter.Status {
	case domain.AccountOpen:
		where = append(where, "paid_at IS NULL")
	case domain.AccountPaid:
		where = append(where, "paid_at IS NOT NULL")
	}

	query := "SELECT " + accountColumns + " FROM accounts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date, id"

	rows, err := s.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list accounts")
	}
	defer rows.Close()

	out := make([]domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *InventoryStore) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := scanAccount(s.db.sql.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("account %d", id))
	}
	return a, nil
}

func (s *InventoryStore) CreateAccount(ctx context.Context, a domain.Account) (*domain.Account, error) {
	a.CreatedAt = time.Now().UTC()
	res, err := s.db.sql.ExecContext(ctx, `
		INSERT INTO accounts (kind, description, amount_cents, due_date, paid_at, client_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.Kind), a.Description, a.AmountCents, formatTime(a.DueDate), nullTime(a.PaidAt),
		nullInt64(a.ClientID), nullInt64(a.CreatedBy), formatTime(a.CreatedAt),
	)
	if err != nil {
		return nil, translateError(err, "account")
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *InventoryStore) MarkAccountPaid(ctx context.Context, id int64, paidAt time.Time) (*domain.Account, error) {
	res, err := s.db.sql.ExecContext(ctx, "UPDATE accounts SET paid_at = ? WHERE id = ? AND paid_at IS NULL", formatTime(paidAt), id)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("account %d", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either missing or already paid; GetAccount tells them apart.
		a, err := s.GetAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("account %d already paid: %w", a.ID, domain.ErrConflict)
	}
	return s.GetAccount(ctx, id)
}

func (s *InventoryStore) DeleteAccount(ctx context.Context, id int64) error {
	res, err := s.db.sql.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	return affectedOne(res, err, fmt.Sprintf("account %d", id))
}

// Movements

func scanMovement(r rowScanner) (*domain.Movement, error) {
	var (
		m         domain.Movement
		kind      string
		userID    sql.NullInt64
		createdAt string
	)
	if err := r.Scan(&m.ID, &m.ProductID, &userID, &kind, &m.Quantity, &m.Reason, &createdAt); err != nil {
		return nil, err
	}
	m.Kind = domain.MovementKind(kind)
	m.UserID = int64Ptr(userID)
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// ApplyMovement records m and sets the new product stock atomically.
func (s *InventoryStore) ApplyMovement(ctx context.Context, m domain.Movement) (*domain.Movement, *domain.Product, error) {
	var product *domain.Product

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := getProduct(ctx, tx, m.ProductID)
		if err != nil {
			return err
		}

		next, err := m.ApplyTo(p.Stock)
		if err != nil {
			return err
		}

		m.CreatedAt = time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO movements (product_id, user_id, kind, quantity, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ProductID, nullInt64(m.UserID), string(m.Kind), m.Quantity, m.Reason, formatTime(m.CreatedAt),
		)
		if err != nil {
			return translateError(err, "movement")
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "UPDATE products SET stock = ?, updated_at = ? WHERE id = ?",
			next, formatTime(m.CreatedAt), m.ProductID); err != nil {
			return translateError(err, fmt.Sprintf("product %d", m.ProductID))
		}

		p.Stock = next
		p.UpdatedAt = m.CreatedAt
		product = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &m, product, nil
}

func (s *InventoryStore) ListMovements(ctx context.Context, productID int64) ([]domain.Movement, error) {
	rows, err := s.db.sql.QueryContext(ctx, `
		SELECT id, product_id, user_id, kind, quantity, reason, created_at
		FROM movements WHERE product_id = ? ORDER BY id DESC`, productID)
	if err != nil {
		return nil, translateError(err, "list movements")
	}
	defer rows.Close()

	out := make([]domain.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

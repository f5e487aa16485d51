package sqlite

const nowExpr = `(strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))`

type tableDDL struct {
	table string
	ddl   string
}

// schema lists tables parents first, matching domain.SnapshotTables.
var schema = []tableDDL{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		is_admin      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL DEFAULT ` + nowExpr + `
	);`},
	{"categories", `
	CREATE TABLE IF NOT EXISTS categories (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		sku         TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price_cents INTEGER NOT NULL DEFAULT 0 CHECK (price_cents >= 0),
		cost_cents  INTEGER NOT NULL DEFAULT 0 CHECK (cost_cents >= 0),
		stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		min_stock   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT ` + nowExpr + `,
		updated_at  TEXT NOT NULL DEFAULT ` + nowExpr + `
	);`},
	{"clients", `
	CREATE TABLE IF NOT EXISTS clients (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		document   TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ` + nowExpr + `
	);`},
	{"accounts", `
	CREATE TABLE IF NOT EXISTS accounts (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		kind         TEXT NOT NULL CHECK (kind IN ('payable', 'receivable')),
		description  TEXT NOT NULL,
		amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
		due_date     TEXT NOT NULL,
		paid_at      TEXT,
		client_id    INTEGER REFERENCES clients(id),
		created_by   INTEGER REFERENCES users(id) ON DELETE SET NULL,
		created_at   TEXT NOT NULL DEFAULT ` + nowExpr + `
	);`},
	{"movements", `
	CREATE TABLE IF NOT EXISTS movements (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		user_id    INTEGER REFERENCES users(id) ON DELETE SET NULL,
		kind       TEXT NOT NULL CHECK (kind IN ('in', 'out', 'adjust')),
		quantity   INTEGER NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ` + nowExpr + `
	);`},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_client ON accounts(client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_due ON accounts(due_date);`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product ON movements(product_id);`,
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/pdv/internal/domain"
)

// TableStore implements out.TableStore.
type TableStore struct {
	db *DB
}

// NewTableStore creates a TableStore over db.
func NewTableStore(db *DB) *TableStore {
	return &TableStore{db: db}
}

// ReadTables reads every row of each table inside one transaction so the
// result is a consistent view across tables.
func (s *TableStore) ReadTables(ctx context.Context, tables []string) (map[string][]domain.Row, error) {
	result := make(map[string][]domain.Row, len(tables))

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			rows, err := readTable(ctx, tx, table)
			if err != nil {
				return fmt.Errorf("failed to read table %s: %w", table, err)
			}
			result[table] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func readTable(ctx context.Context, tx *sql.Tx, table string) ([]domain.Row, error) {
	rows, err := tx.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(domain.Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeValue converts driver values into JSON scalars.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return val
	}
}

// Columns returns the live column names of table.
func (s *TableStore) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.sql.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return cols, nil
}

// ReplaceTables empties tables children first, then inserts the given rows
// parents first with their original primary keys. Nothing is applied unless
// every statement succeeds.
func (s *TableStore) ReplaceTables(ctx context.Context, tables []string, data map[string][]domain.Row) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		for i := len(tables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(tables[i])); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", tables[i], err)
			}
		}

		for _, table := range tables {
			if err := insertRows(ctx, tx, table, data[table]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, rows []domain.Row) error {
	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, stmt := range stmts {
			_ = stmt.Close()
		}
	}()

	for i, row := range rows {
		if len(row) == 0 {
			return fmt.Errorf("failed to insert into %s: row %d has no columns", table, i)
		}

		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		key := strings.Join(cols, "\x00")
		stmt, ok := stmts[key]
		if !ok {
			quoted := make([]string, len(cols))
			for j, col := range cols {
				quoted[j] = quoteIdent(col)
			}
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
				quoteIdent(table),
				strings.Join(quoted, ", "),
				strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
			)
			var err error
			stmt, err = tx.PrepareContext(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
			}
			stmts[key] = stmt
		}

		args := make([]any, len(cols))
		for j, col := range cols {
			args[j] = bindValue(row[col])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", i, table, err)
		}
	}
	return nil
}

// bindValue converts decoded JSON scalars into driver arguments.
func bindValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	default:
		return val
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

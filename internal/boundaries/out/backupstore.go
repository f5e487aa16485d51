package out

import (
	"context"
	"io"
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// SnapshotStorage persists snapshot files in the backup directory.
type SnapshotStorage interface {
	// Write stores the encoded snapshot atomically and returns the new file.
	// The name is derived from ts; a taken name moves ts forward by 1ns.
	Write(ctx context.Context, ts time.Time, encode func(w io.Writer) error) (domain.BackupFile, error)

	// Open returns the named snapshot for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, domain.BackupFile, error)

	// List returns snapshot files, newest first.
	List(ctx context.Context) ([]domain.BackupFile, error)

	// Delete removes the named snapshot.
	Delete(ctx context.Context, name string) error

	// Prune keeps the newest keep snapshots and deletes the rest.
	Prune(ctx context.Context, keep int) (int, error)
}

// TableStore reads and replaces whole tables for snapshots.
type TableStore interface {
	// ReadTables returns every row of each table from one consistent read.
	ReadTables(ctx context.Context, tables []string) (map[string][]domain.Row, error)

	// Columns returns the column names of a live table.
	Columns(ctx context.Context, table string) ([]string, error)

	// ReplaceTables deletes all rows of tables in reverse order, then inserts
	// rows in forward order, inside a single transaction.
	ReplaceTables(ctx context.Context, tables []string, rows map[string][]domain.Row) error
}

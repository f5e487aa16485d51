package in

import (
	"context"
	"io"

	"github.com/bnema/pdv/internal/domain"
)

// BackupService defines snapshot and restore use cases.
type BackupService interface {
	// Create snapshots every application table into a new backup file.
	Create(ctx context.Context) (domain.BackupFile, error)

	// List returns the backup files, newest first.
	List(ctx context.Context) ([]domain.BackupFile, error)

	// Delete removes a backup file by name.
	Delete(ctx context.Context, name string) error

	// Restore replaces live table contents with the named snapshot.
	Restore(ctx context.Context, name string) error

	// Open returns a reader over the raw backup file.
	Open(ctx context.Context, name string) (io.ReadCloser, domain.BackupFile, error)
}

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/pdv/internal/domain"
	"github.com/bnema/pdv/pkg/validation"
)

// maxNameAttempts bounds the search for a free snapshot name.
const maxNameAttempts = 1000

// SnapshotStorage implements snapshot file persistence on the local filesystem.
type SnapshotStorage struct {
	rootDir string
	log     *log.Logger
}

// NewSnapshotStorage creates the backup directory if needed.
func NewSnapshotStorage(rootDir string, logger *log.Logger) (*SnapshotStorage, error) {
	rootDir = validation.ExpandHome(rootDir)

	if err := os.MkdirAll(rootDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup directory: %w", err)
	}

	return &SnapshotStorage{rootDir: abs, log: logger.With("adapter", "filesystem")}, nil
}

// Dir returns the absolute backup directory.
func (s *SnapshotStorage) Dir() string {
	return s.rootDir
}

// Write encodes a snapshot into a temp file and renames it into place.
func (s *SnapshotStorage) Write(_ context.Context, ts time.Time, encode func(w io.Writer) error) (domain.BackupFile, error) {
	f, err := os.CreateTemp(s.rootDir, ".snapshot-*.tmp")
	if err != nil {
		return domain.BackupFile{}, fmt.Errorf("failed to create temp backup file: %w", err)
	}
	tmpPath := f.Name()

	if err := encode(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return domain.BackupFile{}, fmt.Errorf("failed to write backup data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return domain.BackupFile{}, fmt.Errorf("failed to sync backup file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return domain.BackupFile{}, fmt.Errorf("failed to close temp backup file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0600); err != nil {
		s.log.Warn("Failed to set backup file permissions", "file", tmpPath, "error", err)
	}

	finalPath, name, err := s.reserveName(ts, tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return domain.BackupFile{}, err
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return domain.BackupFile{}, fmt.Errorf("failed to stat backup file: %w", err)
	}

	created, _ := domain.ParseSnapshotFileName(name)
	return domain.BackupFile{
		Name:      name,
		Path:      finalPath,
		SizeBytes: info.Size(),
		CreatedAt: created,
	}, nil
}

// reserveName moves tmpPath to the first free snapshot name at or after ts.
// os.Link fails when the target exists, so two writers never share a name.
func (s *SnapshotStorage) reserveName(ts time.Time, tmpPath string) (string, string, error) {
	ts = ts.UTC()
	for i := 0; i < maxNameAttempts; i++ {
		name := domain.SnapshotFileName(ts)
		finalPath := filepath.Join(s.rootDir, name)

		err := os.Link(tmpPath, finalPath)
		if err == nil {
			_ = os.Remove(tmpPath)
			return finalPath, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			// Hard links are unsupported on some filesystems; fall back to rename.
			if _, statErr := os.Stat(finalPath); errors.Is(statErr, os.ErrNotExist) {
				if err := os.Rename(tmpPath, finalPath); err != nil {
					return "", "", fmt.Errorf("failed to finalize backup file: %w", err)
				}
				return finalPath, name, nil
			}
		}
		ts = ts.Add(time.Nanosecond)
	}
	return "", "", fmt.Errorf("failed to finalize backup file: no free name after %d attempts", maxNameAttempts)
}

// Open returns the named snapshot for reading.
func (s *SnapshotStorage) Open(_ context.Context, name string) (io.ReadCloser, domain.BackupFile, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, domain.BackupFile{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.BackupFile{}, fmt.Errorf("%w: %s", domain.ErrBackupNotFound, name)
		}
		return nil, domain.BackupFile{}, fmt.Errorf("failed to open backup: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, domain.BackupFile{}, fmt.Errorf("failed to stat backup: %w", err)
	}

	created, _ := domain.ParseSnapshotFileName(name)
	return f, domain.BackupFile{Name: name, Path: path, SizeBytes: info.Size(), CreatedAt: created}, nil
}

// List returns snapshot files, newest first. Other files in the directory are ignored.
func (s *SnapshotStorage) List(_ context.Context) ([]domain.BackupFile, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.BackupFile{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	files := make([]domain.BackupFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		created, err := domain.ParseSnapshotFileName(entry.Name())
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.BackupFile{
			Name:      entry.Name(),
			Path:      filepath.Join(s.rootDir, entry.Name()),
			SizeBytes: info.Size(),
			CreatedAt: created,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})

	return files, nil
}

// Delete removes the named snapshot.
func (s *SnapshotStorage) Delete(_ context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrBackupNotFound, name)
		}
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

// Prune deletes all but the newest keep snapshots. keep <= 0 disables pruning.
func (s *SnapshotStorage) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	files, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for idx := keep; idx < len(files); idx++ {
		if err := s.Delete(ctx, files[idx].Name); err != nil {
			if errors.Is(err, domain.ErrBackupNotFound) {
				continue
			}
			return deleted, err
		}
		s.log.Debug("Pruned backup", "name", files[idx].Name)
		deleted++
	}
	return deleted, nil
}

// resolve validates name and maps it into the backup directory.
func (s *SnapshotStorage) resolve(name string) (string, error) {
	if err := domain.ValidateSnapshotFileName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.rootDir, name)
	if err := validation.PathWithinRoot(s.rootDir, path); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidBackupName, err)
	}
	return path, nil
}

package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/bnema/pdv/internal/boundaries/out"
	"github.com/bnema/pdv/internal/domain"
)

// defaultMaxRestoreSize caps how much of a snapshot file restore will read.
const defaultMaxRestoreSize = 512 << 20 // 512MB

// Service orchestrates snapshot, restore and backup directory operations.
type Service struct {
	tables  out.TableStore
	storage out.SnapshotStorage
	config  domain.BackupConfig
	log     *log.Logger
	now     func() time.Time

	// mu serializes create and restore so a restore never interleaves with
	// another restore or with a snapshot being taken.
	mu sync.Mutex
}

// NewService creates a backup service.
func NewService(
	tables out.TableStore,
	storage out.SnapshotStorage,
	config domain.BackupConfig,
	logger *log.Logger,
) *Service {
	return &Service{
		tables:  tables,
		storage: storage,
		config:  config,
		log:     logger.With("usecase", "backup"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create snapshots every application table into a new file.
func (s *Service) Create(ctx context.Context) (domain.BackupFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()

	data, err := s.tables.ReadTables(ctx, domain.SnapshotTables)
	if err != nil {
		return domain.BackupFile{}, fmt.Errorf("%w: %w", domain.ErrSnapshotFailed, err)
	}

	snapshot := domain.Snapshot{
		FormatVersion: domain.SnapshotFormatVersion,
		Timestamp:     started,
		Tables:        make(map[string][]domain.Row, len(domain.SnapshotTables)),
	}
	for _, table := range domain.SnapshotTables {
		rows := data[table]
		if rows == nil {
			rows = []domain.Row{}
		}
		snapshot.Tables[table] = rows
	}

	file, err := s.storage.Write(ctx, started, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	})
	if err != nil {
		return domain.BackupFile{}, fmt.Errorf("%w: %w", domain.ErrSnapshotFailed, err)
	}

	s.log.Info("Backup created", "name", file.Name, "size_bytes", file.SizeBytes, "duration", time.Since(started))

	if s.config.KeepLast > 0 {
		pruned, err := s.storage.Prune(ctx, s.config.KeepLast)
		if err != nil {
			s.log.Warn("Backup retention failed", "keep_last", s.config.KeepLast, "error", err)
		} else if pruned > 0 {
			s.log.Info("Old backups pruned", "count", pruned, "keep_last", s.config.KeepLast)
		}
	}

	return file, nil
}

// List returns the backup files, newest first.
func (s *Service) List(ctx context.Context) ([]domain.BackupFile, error) {
	return s.storage.List(ctx)
}

// Delete removes a backup file.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateSnapshotFileName(name); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	s.log.Info("Backup deleted", "name", name)
	return nil
}

// Open returns the raw backup file.
func (s *Service) Open(ctx context.Context, name string) (io.ReadCloser, domain.BackupFile, error) {
	if err := domain.ValidateSnapshotFileName(name); err != nil {
		return nil, domain.BackupFile{}, err
	}
	return s.storage.Open(ctx, name)
}

// Restore replaces live table contents with the named snapshot. The file is
// fully validated before any table is touched, and the replacement runs in a
// single transaction.
func (s *Service) Restore(ctx context.Context, name string) error {
	if err := domain.ValidateSnapshotFileName(name); err != nil {
		return err
	}

	rc, _, err := s.storage.Open(ctx, name)
	if err != nil {
		return err
	}
	snapshot, err := decodeSnapshot(rc, s.maxRestoreSize())
	_ = rc.Close()
	if err != nil {
		return err
	}

	if err := s.checkColumns(ctx, snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	if err := s.tables.ReplaceTables(ctx, domain.SnapshotTables, snapshot.Tables); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRestoreFailed, err)
	}

	s.log.Info("Backup restored",
		"name", name,
		"snapshot_time", snapshot.Timestamp,
		"rows", countRows(snapshot),
		"duration", time.Since(started),
	)
	return nil
}

// checkColumns rejects rows naming columns the live schema does not have.
func (s *Service) checkColumns(ctx context.Context, snapshot *domain.Snapshot) error {
	for _, table := range domain.SnapshotTables {
		rows := snapshot.Tables[table]
		if len(rows) == 0 {
			continue
		}

		cols, err := s.tables.Columns(ctx, table)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrRestoreFailed, err)
		}
		known := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			known[c] = struct{}{}
		}

		for i, row := range rows {
			for col := range row {
				if _, ok := known[col]; !ok {
					return fmt.Errorf("%w: table %s row %d has unknown column %q", domain.ErrMalformedSnapshot, table, i, col)
				}
			}
		}
	}
	return nil
}

func (s *Service) maxRestoreSize() int64 {
	if s.config.MaxRestoreBytes > 0 {
		return s.config.MaxRestoreBytes
	}
	return defaultMaxRestoreSize
}

// decodeSnapshot parses and shape-checks a snapshot document of at most limit bytes.
func decodeSnapshot(r io.Reader, limit int64) (*domain.Snapshot, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrMalformedSnapshot, limit)
	}

	var doc struct {
		FormatVersion string                     `json:"format_version"`
		Timestamp     time.Time                  `json:"timestamp"`
		Tables        map[string]json.RawMessage `json:"tables"`
	}
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}

	if err := checkFormatVersion(doc.FormatVersion); err != nil {
		return nil, err
	}
	if doc.Tables == nil {
		return nil, fmt.Errorf("%w: missing tables", domain.ErrMalformedSnapshot)
	}

	for name := range doc.Tables {
		if !domain.IsSnapshotTable(name) {
			return nil, fmt.Errorf("%w: unexpected table %q", domain.ErrMalformedSnapshot, name)
		}
	}

	snapshot := &domain.Snapshot{
		FormatVersion: doc.FormatVersion,
		Timestamp:     doc.Timestamp,
		Tables:        make(map[string][]domain.Row, len(domain.SnapshotTables)),
	}
	for _, table := range domain.SnapshotTables {
		rawRows, ok := doc.Tables[table]
		if !ok {
			return nil, fmt.Errorf("%w: missing table %q", domain.ErrMalformedSnapshot, table)
		}

		var rows []domain.Row
		if err := decodeStrict(rawRows, &rows); err != nil {
			return nil, fmt.Errorf("%w: table %s: %v", domain.ErrMalformedSnapshot, table, err)
		}
		if rows == nil {
			return nil, fmt.Errorf("%w: table %s must be an array", domain.ErrMalformedSnapshot, table)
		}

		for i, row := range rows {
			if err := checkRow(row); err != nil {
				return nil, fmt.Errorf("%w: table %s row %d: %v", domain.ErrMalformedSnapshot, table, i, err)
			}
		}
		snapshot.Tables[table] = rows
	}

	return snapshot, nil
}

// decodeStrict decodes exactly one JSON value, keeping numbers exact.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after document")
	}
	return nil
}

func checkFormatVersion(raw string) error {
	if raw == "" {
		raw = domain.SnapshotFormatVersion
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid format_version %q", domain.ErrMalformedSnapshot, raw)
	}
	constraint, err := semver.NewConstraint(domain.SnapshotFormatConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: unsupported format_version %s (want %s)", domain.ErrMalformedSnapshot, version, domain.SnapshotFormatConstraint)
	}
	return nil
}

// checkRow requires a primary key and scalar column values.
func checkRow(row domain.Row) error {
	if row == nil {
		return fmt.Errorf("row must be an object")
	}
	id, ok := row["id"]
	if !ok || id == nil {
		return fmt.Errorf("missing id")
	}
	if _, ok := id.(json.Number); !ok {
		return fmt.Errorf("id must be a number")
	}
	for col, v := range row {
		switch v.(type) {
		case nil, json.Number, string, bool:
		default:
			return fmt.Errorf("column %q is not a scalar", col)
		}
	}
	return nil
}

func countRows(snapshot *domain.Snapshot) int {
	n := 0
	for _, rows := range snapshot.Tables {
		n += len(rows)
	}
	return n
}

package domain

import (
	"fmt"
	"regexp"
	"time"
)

// SnapshotTables is the fixed set of tables captured by a snapshot,
// parents before children. Restore inserts in this order and deletes in reverse.
var SnapshotTables = []string{
	"users",
	"categories",
	"products",
	"clients",
	"accounts",
	"movements",
}

// SnapshotFormatVersion is written into every snapshot document.
const SnapshotFormatVersion = "1.0.0"

// SnapshotFormatConstraint is the range of format versions restore accepts.
const SnapshotFormatConstraint = "^1.0.0"

const (
	snapshotPrefix          = "snapshot-"
	snapshotExt             = ".json"
	snapshotTimestampLayout = "20060102T150405.000000000Z"
)

var snapshotNameRegex = regexp.MustCompile(`^snapshot-\d{8}T\d{6}\.\d{9}Z\.json$`)

// Row mirrors a database row at snapshot time, keyed by column name.
type Row map[string]any

// Snapshot is the document persisted in a backup file.
type Snapshot struct {
	FormatVersion string           `json:"format_version"`
	Timestamp     time.Time        `json:"timestamp"`
	Tables        map[string][]Row `json:"tables"`
}

// BackupFile describes a snapshot file found in the backup directory.
type BackupFile struct {
	Name      string
	Path      string
	SizeBytes int64
	CreatedAt time.Time
}

// BackupConfig configures the backup directory and retention.
type BackupConfig struct {
	Dir string
	// KeepLast bounds the number of snapshots kept after each create. Zero keeps everything.
	KeepLast int
	// MaxRestoreBytes caps the snapshot size restore will read. Zero uses the default.
	MaxRestoreBytes int64
}

// SnapshotFileName derives the backup file name from its generation time.
func SnapshotFileName(ts time.Time) string {
	return snapshotPrefix + ts.UTC().Format(snapshotTimestampLayout) + snapshotExt
}

// ParseSnapshotFileName returns the generation time encoded in a snapshot file name.
func ParseSnapshotFileName(name string) (time.Time, error) {
	if err := ValidateSnapshotFileName(name); err != nil {
		return time.Time{}, err
	}
	raw := name[len(snapshotPrefix) : len(name)-len(snapshotExt)]
	ts, err := time.Parse(snapshotTimestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidBackupName, name)
	}
	return ts.UTC(), nil
}

// ValidateSnapshotFileName rejects anything that is not a bare snapshot file name.
func ValidateSnapshotFileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidBackupName)
	}
	if !snapshotNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBackupName, name)
	}
	return nil
}

// IsSnapshotTable reports whether table belongs to the snapshot set.
func IsSnapshotTable(table string) bool {
	for _, t := range SnapshotTables {
		if t == table {
			return true
		}
	}
	return false
}

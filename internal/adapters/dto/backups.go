package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bnema/pdv/internal/domain"
)

// Backup represents snapshot file metadata in admin API responses.
type Backup struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupsResponse is returned by the backup listing endpoint.
type BackupsResponse struct {
	Backups []Backup `json:"backups"`
}

// BackupCreateResponse is returned after a snapshot is written.
type BackupCreateResponse struct {
	Status string `json:"status"`
	Backup Backup `json:"backup"`
}

// BackupRestoreResponse is returned after a successful restore.
type BackupRestoreResponse struct {
	Status   string `json:"status"`
	Restored string `json:"restored"`
}

// BackupFromDomain converts backup metadata, adding a human-readable size.
func BackupFromDomain(f domain.BackupFile) Backup {
	return Backup{
		Name:      f.Name,
		SizeBytes: f.SizeBytes,
		Size:      HumanSize(f.SizeBytes),
		CreatedAt: f.CreatedAt,
	}
}

// BackupsFromDomain converts a backup listing, never returning nil.
func BackupsFromDomain(files []domain.BackupFile) []Backup {
	out := make([]Backup, 0, len(files))
	for _, f := range files {
		out = append(out, BackupFromDomain(f))
	}
	return out
}

// HumanSize formats a byte count with binary units, e.g. "1.5 KiB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

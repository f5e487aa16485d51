package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/pdv/internal/domain"
)

func TestBackupFromDomain(t *testing.T) {
	created := time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)
	b := BackupFromDomain(domain.BackupFile{Name: "snapshot-x.json", Path: "/secret/path", SizeBytes: 1536, CreatedAt: created})

	assert.Equal(t, "snapshot-x.json", b.Name)
	assert.Equal(t, int64(1536), b.SizeBytes)
	assert.Equal(t, "1.5 KiB", b.Size)
	assert.Equal(t, created, b.CreatedAt)
}

func TestBackupsFromDomain_Empty(t *testing.T) {
	out := BackupsFromDomain(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", HumanSize(0))
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "2.0 MiB", HumanSize(2<<20))
	assert.Equal(t, "0 B", HumanSize(-1))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-11-01T15:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, 18, d.Hour())

	_, err = ParseDate("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ParseDate("01/11/2026")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccountFromDomain_Status(t *testing.T) {
	paid := time.Now()
	assert.Equal(t, "open", AccountFromDomain(domain.Account{}).Status)
	assert.Equal(t, "paid", AccountFromDomain(domain.Account{PaidAt: &paid}).Status)
}

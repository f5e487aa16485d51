package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFileName_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 19, 15, 30, 45, 123456789, time.UTC)

	name := SnapshotFileName(ts)
	assert.Equal(t, "snapshot-20261019T153045.123456789Z.json", name)

	parsed, err := ParseSnapshotFileName(name)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestSnapshotFileName_ZeroNanos(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "snapshot-20260102T030405.000000000Z.json", SnapshotFileName(ts))
}

func TestValidateSnapshotFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", "snapshot-20261019T153045.123456789Z.json", true},
		{"empty", "", false},
		{"traversal", "../snapshot-20261019T153045.123456789Z.json", false},
		{"nested", "dir/snapshot-20261019T153045.123456789Z.json", false},
		{"temp file", "snapshot-20261019T153045.123456789Z.json.tmp", false},
		{"wrong prefix", "backup-20261019T153045.123456789Z.json", false},
		{"arbitrary", "passwd", false},
		{"missing nanos", "snapshot-20261019T153045Z.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotFileName(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidBackupName))
		})
	}
}

func TestIsSnapshotTable(t *testing.T) {
	assert.True(t, IsSnapshotTable("users"))
	assert.True(t, IsSnapshotTable("movements"))
	assert.False(t, IsSnapshotTable("sqlite_sequence"))
}

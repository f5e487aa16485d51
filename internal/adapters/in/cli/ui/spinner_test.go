package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpin_NonTerminalRunsDirectly(t *testing.T) {
	var buf bytes.Buffer
	calls := 0

	err := Spin(&buf, "Writing snapshot...", func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, buf.String())
}

func TestSpin_ReturnsError(t *testing.T) {
	boom := errors.New("restore failed")
	err := Spin(&bytes.Buffer{}, "Restoring...", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

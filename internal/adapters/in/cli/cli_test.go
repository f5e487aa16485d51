package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PDV_DATABASE_PATH", filepath.Join(dir, "pdv.db"))
	t.Setenv("PDV_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("PDV_SERVER_SESSION_SECRET", strings.Repeat("x", 40))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env"), "--config", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pdv dev")
}

func TestCLI_ConfigShowRedactsSecret(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "********")
	assert.NotContains(t, out, strings.Repeat("x", 40))
	assert.Contains(t, out, filepath.Join(dir, "backups"))
}

func TestCLI_BackupLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "user", "create", "admin", "--admin", "--password", "s3cret!")
	require.NoError(t, err)
	assert.Contains(t, out, `Created admin "admin"`)

	out, err = runCLI(t, dir, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups found")

	out, err = runCLI(t, dir, "backup", "create")
	require.NoError(t, err)
	require.Contains(t, out, "Created snapshot-")
	name := out[strings.Index(out, "snapshot-"):]
	name = name[:strings.Index(name, ".json")+len(".json")]

	out, err = runCLI(t, dir, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, name)

	out, err = runCLI(t, dir, "backup", "restore", name, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored "+name)

	out, err = runCLI(t, dir, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "admin")

	_, err = runCLI(t, dir, "backup", "delete", name, "--yes")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "backup", "delete", name, "--yes")
	assert.ErrorContains(t, err, "backup not found")
}

func TestCLI_RestoreRejectsBadName(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "backup", "restore", "../pdv.db", "--yes")
	assert.Error(t, err)
}

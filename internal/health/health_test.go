package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealthy(t *testing.T) {
	statuses := Check(context.Background(), t.TempDir(), "/bin/sh")
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.OK, "%s: %s", s.Name, s.Error)
		assert.Empty(t, s.Error)
	}
}

func TestCheckLogDirUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	s := checkLogDir(filepath.Join(dir, "logs"))
	assert.False(t, s.OK)
	assert.Contains(t, s.Error, "cannot")
}

func TestCheckShellMissing(t *testing.T) {
	s := checkShell(context.Background(), "/no/such/shell")
	assert.False(t, s.OK)
	assert.Contains(t, s.Error, "not found")
}

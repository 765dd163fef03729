package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_Paths(t *testing.T) {
	l := New("/data")

	assert.Equal(t, filepath.Join("/data", "profiles", "survival"), l.ProfileDir("survival"))
	assert.Equal(t, filepath.Join("/data", "profiles", "survival", "profile.json"), l.ProfilePath("survival"))
	assert.Equal(t, filepath.Join("/data", "backups", "survival.zip"), l.BackupPath("survival"))
	assert.Equal(t, filepath.Join("/data", "modrith.db"), l.StateDB())
	assert.Equal(t, filepath.Join("/data", "logs", "modrith.log"), l.LogFile())
}

func TestLayout_Ensure(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "modrith"))
	require.NoError(t, l.Ensure())

	for _, dir := range []string{l.Profiles(), l.Backups(), l.Cache(), l.Downloads(), l.Logs()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Second call is a no-op.
	require.NoError(t, l.Ensure())
}

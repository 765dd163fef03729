package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultSearchLimit, cfg.SearchLimit)
	assert.Equal(t, DefaultSearchTimeout, cfg.SearchTimeout)
	assert.Equal(t, DefaultDownloadWorkers, cfg.DownloadWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		APIBaseURL:      "https://staging.example/v2",
		UserAgent:       "modrith-test",
		SearchLimit:     25,
		SearchTimeout:   3 * time.Second,
		DownloadWorkers: 2,
		BackupExcludes:  []string{"*.log", "cache/**"},
		LogLevel:        "debug",
	}
	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIBaseURL, loaded.APIBaseURL)
	assert.Equal(t, cfg.SearchLimit, loaded.SearchLimit)
	assert.Equal(t, cfg.SearchTimeout, loaded.SearchTimeout)
	assert.Equal(t, cfg.BackupExcludes, loaded.BackupExcludes)
	assert.Equal(t, "debug", loaded.LogLevel)
}

func TestLoad_BadTimeout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("search_timeout: soon\n"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("::not yaml::\n\t"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

// Package paths owns the on-disk layout of the modrith data directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProfileDocument is the name of the JSON document inside each profile
// directory. Only profiles/*/profile.json and backups/*.zip are contract
// surface; cache/, downloads/, and logs/ are scratch space.
const ProfileDocument = "profile.json"

// Layout resolves every path under one root data directory.
type Layout struct {
	Root string
}

// DefaultRoot returns ~/.modrith.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".modrith"), nil
}

// New creates a layout rooted at the given directory.
func New(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) Profiles() string  { return filepath.Join(l.Root, "profiles") }
func (l Layout) Backups() string   { return filepath.Join(l.Root, "backups") }
func (l Layout) Cache() string     { return filepath.Join(l.Root, "cache") }
func (l Layout) Downloads() string { return filepath.Join(l.Root, "downloads") }
func (l Layout) Logs() string      { return filepath.Join(l.Root, "logs") }

// ProfileDir returns the dedicated directory of a named profile.
func (l Layout) ProfileDir(name string) string {
	return filepath.Join(l.Profiles(), name)
}

// ProfilePath returns the profile.json document of a named profile.
func (l Layout) ProfilePath(name string) string {
	return filepath.Join(l.ProfileDir(name), ProfileDocument)
}

// BackupPath returns the deterministic archive path for a named profile.
func (l Layout) BackupPath(name string) string {
	return filepath.Join(l.Backups(), name+".zip")
}

// StateDB returns the path of the auxiliary SQLite state database.
func (l Layout) StateDB() string {
	return filepath.Join(l.Root, "modrith.db")
}

// LogFile returns the manager log file path.
func (l Layout) LogFile() string {
	return filepath.Join(l.Logs(), "modrith.log")
}

// Ensure creates the directory tree.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Profiles(), l.Backups(), l.Cache(), l.Downloads(), l.Logs()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// Package profiles persists one JSON document per profile under the
// profiles directory of the data dir.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modrith/internal/domain"
	"modrith/internal/storage/paths"
)

// Save writes the profile document into its dedicated directory, creating
// the directory if absent. The document is written to a temporary path and
// renamed into place so a partially written file is never loadable.
func Save(layout paths.Layout, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("saving profile %q: %w", profile.Name, err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile %q: %w", profile.Name, err)
	}

	dir := layout.ProfileDir(profile.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating profile dir for %q: %w", profile.Name, err)
	}

	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("creating temp document for %q: %w", profile.Name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing profile %q: %w", profile.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing profile %q: %w", profile.Name, err)
	}

	if err := os.Rename(tmpPath, layout.ProfilePath(profile.Name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing profile document for %q: %w", profile.Name, err)
	}

	return nil
}

// Load reads a profile document by name. A missing document is
// ErrProfileNotFound; invalid JSON, a failed load-order invariant, or a
// document whose name disagrees with its directory is ErrCorruptProfile.
func Load(layout paths.Layout, name string) (*domain.Profile, error) {
	data, err := os.ReadFile(layout.ProfilePath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading profile %q: %w", name, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("reading profile %q: %w", name, err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrCorruptProfile, name, err)
	}
	profile.Normalize()

	if profile.Name != name {
		return nil, fmt.Errorf("%w: document name %q does not match directory %q",
			domain.ErrCorruptProfile, profile.Name, name)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrCorruptProfile, name, err)
	}

	return &profile, nil
}

// List enumerates the profiles directory and returns the names of every
// directory that contains a profile document. Directories without one are
// skipped, not an error.
func List(layout paths.Layout) ([]string, error) {
	entries, err := os.ReadDir(layout.Profiles())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(layout.Profiles(), entry.Name(), paths.ProfileDocument)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Delete removes a profile's directory and everything in it.
func Delete(layout paths.Layout, name string) error {
	if _, err := os.Stat(layout.ProfilePath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("deleting profile %q: %w", name, domain.ErrProfileNotFound)
		}
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}

	if err := os.RemoveAll(layout.ProfileDir(name)); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	return nil
}

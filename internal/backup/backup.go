// Package backup archives profile directories to zip files and restores
// them. Backups copy, never move; restore never registers the profile into
// the live store.
package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"modrith/internal/domain"
	"modrith/internal/storage/paths"
)

// Service creates and unpacks profile backups under the data directory.
type Service struct {
	layout   paths.Layout
	excludes []glob.Glob
}

// New compiles the exclude patterns (matched against slash-separated paths
// relative to the profile directory) and returns the service.
func New(layout paths.Layout, excludePatterns []string) (*Service, error) {
	excludes := make([]glob.Glob, 0, len(excludePatterns))
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	return &Service{layout: layout, excludes: excludes}, nil
}

func (s *Service) excluded(relPath string) bool {
	for _, g := range s.excludes {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// Backup archives the profile's directory tree into
// backups/<name>.zip and returns the archive path. The archive is written
// to a temporary file and renamed into place.
func (s *Service) Backup(profileName string) (string, error) {
	srcDir := s.layout.ProfileDir(profileName)
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("backing up %q: %w", profileName, domain.ErrProfileNotFound)
	}

	if err := os.MkdirAll(s.layout.Backups(), 0755); err != nil {
		return "", fmt.Errorf("creating backups dir: %w", err)
	}

	archivePath := s.layout.BackupPath(profileName)
	tmp, err := os.CreateTemp(s.layout.Backups(), ".backup-*.zip")
	if err != nil {
		return "", fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()

	if err := s.writeArchive(tmp, srcDir); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("backing up %q: %w", profileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("backing up %q: %w", profileName, err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("replacing archive for %q: %w", profileName, err)
	}

	return archivePath, nil
}

func (s *Service) writeArchive(w io.Writer, srcDir string) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		if cerr := zw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if s.excluded(rel) {
			return nil
		}

		entry, err := zw.Create(rel)
		if err != nil {
			return fmt.Errorf("creating archive entry %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		defer f.Close()

		if _, err := io.Copy(entry, f); err != nil {
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
		return nil
	})
}

// Restore unpacks an archive into profiles/<archive base name>, replacing
// any existing directory of that name. It returns the profile name. The
// caller must reload the profile explicitly; restore does not register it.
func Restore(layout paths.Layout, archivePath string) (name string, err error) {
	name = strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrInvalidArchive, archivePath, err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	hasDocument := false
	for _, f := range r.File {
		if filepath.ToSlash(f.Name) == paths.ProfileDocument {
			hasDocument = true
			break
		}
	}
	if !hasDocument {
		return "", fmt.Errorf("%w: %s contains no %s", domain.ErrInvalidArchive, archivePath, paths.ProfileDocument)
	}

	destDir := layout.ProfileDir(name)
	if err := os.RemoveAll(destDir); err != nil {
		return "", fmt.Errorf("clearing %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	for _, f := range r.File {
		if err := extractFile(f, destDir); err != nil {
			return "", fmt.Errorf("restoring %s: %w", name, err)
		}
	}

	return name, nil
}

// extractFile extracts a single file from a zip archive
func extractFile(f *zip.File, destDir string) (err error) {
	destPath, err := sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("writing file %s: %w", destPath, err)
	}

	return nil
}

// sanitizePath ensures the extracted file path stays within the destination
// directory. Archives containing paths like "../../../etc/passwd" are
// rejected as invalid.
func sanitizePath(destDir, filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	destPath := filepath.Join(destDir, cleanPath)

	if !strings.HasPrefix(filepath.Clean(destPath)+string(os.PathSeparator), filepath.Clean(destDir)+string(os.PathSeparator)) {
		if filepath.Clean(destPath) != filepath.Clean(destDir) {
			return "", fmt.Errorf("%w: path traversal in entry %s", domain.ErrInvalidArchive, filePath)
		}
	}

	return destPath, nil
}

// Exists reports whether a backup archive already exists for the profile.
func (s *Service) Exists(profileName string) bool {
	_, err := os.Stat(s.layout.BackupPath(profileName))
	return err == nil
}

// List returns the profile names of all archives in the backups directory.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.layout.Backups())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backups dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".zip"))
	}
	return names, nil
}

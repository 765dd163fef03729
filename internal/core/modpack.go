package core

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"modrith/internal/domain"
	"modrith/internal/storage/paths"
)

// A modpack is a shareable zip bundling a profile document with a
// human-readable manifest. Importing one registers it as a new profile.

const manifestName = "manifest.yaml"

// modpackManifest is the YAML summary written next to the profile document
type modpackManifest struct {
	Name          string       `yaml:"name"`
	GameID        string       `yaml:"game_id"`
	Mods          []manifestMod `yaml:"mods"`
	ResourcePacks []string     `yaml:"resource_packs,omitempty"`
	DataPacks     []string     `yaml:"data_packs,omitempty"`
}

type manifestMod struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ExportModpack writes <name>-modpack.zip into destDir and returns its
// path. An empty destDir exports into the downloads directory.
func (s *Service) ExportModpack(profileName, destDir string) (archivePath string, err error) {
	p, err := s.store.Get(profileName)
	if err != nil {
		return "", err
	}

	if destDir == "" {
		destDir = s.layout.Downloads()
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	archivePath = filepath.Join(destDir, p.Name+"-modpack.zip")

	doc, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling profile %q: %w", p.Name, err)
	}

	manifest := modpackManifest{
		Name:          p.Name,
		GameID:        p.GameID,
		ResourcePacks: p.ResourcePacks,
		DataPacks:     p.DataPacks,
	}
	for _, id := range p.LoadOrder {
		mod := p.Mods[id]
		manifest.Mods = append(manifest.Mods, manifestMod{
			ID: mod.ID, Name: mod.Name, Version: mod.Version,
		})
	}
	manifestData, err := yaml.Marshal(&manifest)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest for %q: %w", p.Name, err)
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("creating modpack archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing modpack archive: %w", cerr)
		}
	}()

	zw := zip.NewWriter(f)
	entries := []struct {
		name    string
		content []byte
	}{
		{paths.ProfileDocument, doc},
		{manifestName, manifestData},
	}
	for _, e := range entries {
		entry, err := zw.Create(e.name)
		if err != nil {
			return "", fmt.Errorf("creating modpack entry %s: %w", e.name, err)
		}
		if _, err := entry.Write(e.content); err != nil {
			return "", fmt.Errorf("writing modpack entry %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing modpack: %w", err)
	}

	s.logger.Info("modpack exported",
		zap.String("profile", profileName), zap.String("archive", archivePath))
	return archivePath, nil
}

// ImportModpack reads a modpack archive and registers its profile as a new
// profile in the store. Fails with ErrProfileExists on a name collision and
// ErrInvalidArchive when the bundled document is missing or corrupt.
func (s *Service) ImportModpack(archivePath string) (p *domain.Profile, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArchive, archivePath, err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing modpack: %w", cerr)
		}
	}()

	var doc []byte
	for _, f := range r.File {
		if filepath.ToSlash(f.Name) != paths.ProfileDocument {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrInvalidArchive, f.Name, err)
		}
		doc, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidArchive, f.Name, err)
		}
		break
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s contains no %s", domain.ErrInvalidArchive, archivePath, paths.ProfileDocument)
	}

	var profile domain.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	profile.Normalize()
	// The bundled name becomes a directory name; never trust it.
	if err := validateProfileName(profile.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	if err := s.store.Insert(&profile); err != nil {
		return nil, err
	}

	if err := s.db.RecordEvent("import", profile.Name, archivePath); err != nil {
		s.logger.Warn("recording import event", zap.Error(err))
	}
	s.logger.Info("modpack imported",
		zap.String("profile", profile.Name), zap.String("archive", archivePath))
	return &profile, nil
}

package core

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"sync"

	"github.com/cavaliergopher/grab/v3"
	"github.com/remeh/sizedwaitgroup"

	"modrith/internal/domain"
	"modrith/internal/storage/paths"
)

// Downloader fetches mod files from their source URLs into the downloads
// directory, verifying recorded checksums when present.
type Downloader struct {
	layout  paths.Layout
	client  *grab.Client
	workers int
}

// NewDownloader creates a downloader with a bounded worker count for
// whole-profile fetches.
func NewDownloader(layout paths.Layout, workers int) *Downloader {
	if workers <= 0 {
		workers = 1
	}
	return &Downloader{
		layout:  layout,
		client:  grab.NewClient(),
		workers: workers,
	}
}

// checksumHash picks the digest algorithm from the checksum length.
// Unknown lengths disable verification rather than failing the download.
func checksumHash(checksum string) (hash.Hash, []byte) {
	sum, err := hex.DecodeString(checksum)
	if err != nil {
		return nil, nil
	}
	switch len(sum) {
	case sha1.Size:
		return sha1.New(), sum
	case sha256.Size:
		return sha256.New(), sum
	case sha512.Size:
		return sha512.New(), sum
	default:
		return nil, nil
	}
}

// Fetch downloads one mod file to downloads/<mod id>/ and returns the
// final path.
func (d *Downloader) Fetch(ctx context.Context, mod domain.Mod) (string, error) {
	if mod.SourceURL == "" {
		return "", fmt.Errorf("downloading %q: mod has no source url", mod.ID)
	}

	destDir := filepath.Join(d.layout.Downloads(), mod.ID)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating download dir for %q: %w", mod.ID, err)
	}

	req, err := grab.NewRequest(destDir+string(os.PathSeparator), mod.SourceURL)
	if err != nil {
		return "", fmt.Errorf("downloading %q: %w", mod.ID, err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	if h, sum := checksumHash(mod.Checksum); h != nil {
		// grab deletes the file on mismatch
		req.SetChecksum(h, sum, true)
	}

	resp := d.client.Do(req)
	if err := resp.Err(); err != nil {
		if errors.Is(err, grab.ErrBadChecksum) {
			return "", fmt.Errorf("downloading %q: %w", mod.ID, domain.ErrChecksumMismatch)
		}
		return "", fmt.Errorf("downloading %q: %w", mod.ID, err)
	}

	return resp.Filename, nil
}

// FetchProfile downloads every enabled mod of the profile, in load order,
// with at most the configured number of concurrent transfers. All failures
// are collected; successfully downloaded paths are returned either way.
func (d *Downloader) FetchProfile(ctx context.Context, p *domain.Profile) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
		errs  []error
	)

	swg := sizedwaitgroup.New(d.workers)
	for _, id := range p.LoadOrder {
		mod := p.Mods[id]
		if !mod.Enabled {
			continue
		}

		swg.Add()
		go func(mod domain.Mod) {
			defer swg.Done()
			path, err := d.Fetch(ctx, mod)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			files = append(files, path)
		}(mod)
	}
	swg.Wait()

	return files, errors.Join(errs...)
}

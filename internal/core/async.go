package core

import (
	"context"

	"modrith/internal/domain"
)

// Async variants of the latency-bearing operations. Each runs the call on
// its own goroutine and delivers exactly one outcome on a buffered channel,
// so a UI thread is never blocked waiting on the network or the filesystem.

// SearchOutcome is the result of an asynchronous search.
type SearchOutcome struct {
	Results []domain.SearchResult
	Err     error
}

// SearchAsync runs Search without blocking the caller.
func (s *Service) SearchAsync(ctx context.Context, query string) <-chan SearchOutcome {
	ch := make(chan SearchOutcome, 1)
	go func() {
		results, err := s.Search(ctx, query)
		ch <- SearchOutcome{Results: results, Err: err}
	}()
	return ch
}

// ArchiveOutcome is the result of an asynchronous backup or restore. Path
// is the archive path for backups and the profile name for restores.
type ArchiveOutcome struct {
	Path string
	Err  error
}

// BackupAsync runs Backup without blocking the caller.
func (s *Service) BackupAsync(profileName string) <-chan ArchiveOutcome {
	ch := make(chan ArchiveOutcome, 1)
	go func() {
		path, err := s.Backup(profileName)
		ch <- ArchiveOutcome{Path: path, Err: err}
	}()
	return ch
}

// RestoreAsync runs Restore without blocking the caller.
func (s *Service) RestoreAsync(archivePath string) <-chan ArchiveOutcome {
	ch := make(chan ArchiveOutcome, 1)
	go func() {
		name, err := s.Restore(archivePath)
		ch <- ArchiveOutcome{Path: name, Err: err}
	}()
	return ch
}

// DownloadOutcome is the result of an asynchronous profile download.
type DownloadOutcome struct {
	Files []string
	Err   error
}

// DownloadProfileAsync runs DownloadProfile without blocking the caller.
func (s *Service) DownloadProfileAsync(ctx context.Context, profileName string) <-chan DownloadOutcome {
	ch := make(chan DownloadOutcome, 1)
	go func() {
		files, err := s.DownloadProfile(ctx, profileName)
		ch <- DownloadOutcome{Files: files, Err: err}
	}()
	return ch
}

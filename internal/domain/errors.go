package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileExists    = errors.New("profile already exists")
	ErrModNotFound      = errors.New("mod not found")
	ErrDuplicateMod     = errors.New("mod already in profile")
	ErrInvalidLoadOrder = errors.New("load order is not a permutation of the mod set")
	ErrCorruptProfile   = errors.New("corrupt profile document")
	ErrInvalidArchive   = errors.New("invalid backup archive")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrNotConfigured    = errors.New("collaborator not configured")
)

// RemoteError is a non-success response from the mod index.
// Status and Body are kept verbatim for diagnostics.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Body)
}

// NetworkError is a transport-level failure talking to the mod index,
// including context timeouts.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

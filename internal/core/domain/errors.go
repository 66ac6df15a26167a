package domain

import (
	"errors"
	"fmt"
)

// ErrMissingAudio indicates an ingestion request without an audio payload.
var ErrMissingAudio = errors.New("domain: missing audio payload")

// ErrStorage indicates the blob store rejected or could not complete a store.
var ErrStorage = errors.New("blob storage failed")

// ErrPersist indicates the catalog insert failed after a successful store.
var ErrPersist = errors.New("catalog persistence failed")

// ErrQuery indicates a catalog lookup failed.
var ErrQuery = errors.New("catalog query failed")

// StorageError provides context for a failed blob store operation.
// The request is safe to retry: no catalog write has happened.
type StorageError struct {
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing blob %q: %v", e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// PersistError provides context for a failed catalog insert. AudioURL points
// at the blob that is now orphaned in storage.
type PersistError struct {
	AudioURL string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting song for blob %s: %v", e.AudioURL, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersist }

// QueryError provides context for a failed catalog lookup.
type QueryError struct {
	Mood string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querying songs for mood %q: %v", e.Mood, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

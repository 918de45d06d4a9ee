package artifact

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an artifact for the given job / name pair does
// not exist in the underlying store.
var ErrNotFound = errors.New("artifact not found")

// Info describes a stored artifact.
type Info struct {
	Name string
	Size int64
}

// Store defines the interface for artifact persistence. Implementations must
// be safe for concurrent use and scope artifacts by job identifier. Get
// returns ErrNotFound (possibly wrapped) for missing artifacts so callers can
// distinguish absence from storage faults.
type Store interface {
	Get(ctx context.Context, jobID, name string) ([]byte, error)
	Put(ctx context.Context, jobID, name string, data []byte, contentType string) error
	List(ctx context.Context, jobID string) ([]Info, error)
	Delete(ctx context.Context, jobID, name string) error
}

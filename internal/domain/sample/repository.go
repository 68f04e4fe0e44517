package sample

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the sole mutable source of truth for the sample collection.
// The derivation engine, tree builder and filter engine are pure functions
// over snapshots returned by List.
type Repository interface {
	// List returns a snapshot of the whole collection in insertion order.
	List(ctx context.Context) ([]*Sample, error)

	// GetByID retrieves a single sample. Returns ErrSampleNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Sample, error)

	// InsertMany persists a batch atomically: either every record is added
	// or none is. Returns ErrDuplicateBarcode if any barcode collides with
	// the stored collection or within the batch.
	InsertMany(ctx context.Context, records []*Sample) ([]*Sample, error)

	// UpdateOne replaces an existing record. Returns ErrSampleNotFound if
	// absent and ErrDuplicateBarcode if the barcode collides with a
	// different sample.
	UpdateOne(ctx context.Context, record *Sample) (*Sample, error)

	// DeleteMany removes the given samples and returns the remaining
	// collection. Unknown IDs are ignored.
	DeleteMany(ctx context.Context, ids []uuid.UUID) ([]*Sample, error)
}

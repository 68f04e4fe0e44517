package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/internal/domain/sample"
)

// MemorySampleRepository keeps the collection as an immutable snapshot that
// is swapped wholesale on every write. Readers always observe either the
// pre- or post-mutation state, never a partial batch, and the copies handed
// out keep the pure engines free of shared mutable state.
type MemorySampleRepository struct {
	mu       sync.RWMutex
	snapshot []*sample.Sample
}

func NewMemorySampleRepository() *MemorySampleRepository {
	return &MemorySampleRepository{}
}

func (r *MemorySampleRepository) List(_ context.Context) ([]*sample.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.snapshot), nil
}

func (r *MemorySampleRepository) GetByID(_ context.Context, id uuid.UUID) (*sample.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.snapshot {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return nil, sample.ErrSampleNotFound
}

func (r *MemorySampleRepository) InsertMany(_ context.Context, records []*sample.Sample) ([]*sample.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := make(map[string]bool, len(r.snapshot)+len(records))
	for _, s := range r.snapshot {
		taken[s.Barcode] = true
	}

	inserted := make([]*sample.Sample, 0, len(records))
	for _, rec := range records {
		if taken[rec.Barcode] {
			return nil, fmt.Errorf("%w: %s", sample.ErrDuplicateBarcode, rec.Barcode)
		}
		taken[rec.Barcode] = true

		c := rec.Clone()
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		inserted = append(inserted, c)
	}

	next := make([]*sample.Sample, 0, len(r.snapshot)+len(inserted))
	next = append(next, r.snapshot...)
	next = append(next, inserted...)
	r.snapshot = next

	return cloneAll(inserted), nil
}

func (r *MemorySampleRepository) UpdateOne(_ context.Context, record *sample.Sample) (*sample.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.snapshot {
		if s.ID == record.ID {
			idx = i
		} else if s.Barcode == record.Barcode {
			return nil, fmt.Errorf("%w: %s", sample.ErrDuplicateBarcode, record.Barcode)
		}
	}
	if idx < 0 {
		return nil, sample.ErrSampleNotFound
	}

	next := make([]*sample.Sample, len(r.snapshot))
	copy(next, r.snapshot)
	next[idx] = record.Clone()
	r.snapshot = next

	return record.Clone(), nil
}

func (r *MemorySampleRepository) DeleteMany(_ context.Context, ids []uuid.UUID) ([]*sample.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	next := make([]*sample.Sample, 0, len(r.snapshot))
	for _, s := range r.snapshot {
		if !drop[s.ID] {
			next = append(next, s)
		}
	}
	r.snapshot = next

	return cloneAll(next), nil
}

// MemoryAuditRepository keeps system log entries in memory, newest first on
// read. Used by the memory driver and in tests.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *entry
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	r.entries = append(r.entries, &e)
	return nil
}

func (r *MemoryAuditRepository) ListRecent(_ context.Context, limit int) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]*domain.AuditLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := *r.entries[i]
		out = append(out, &e)
	}
	return out, nil
}

func cloneAll(samples []*sample.Sample) []*sample.Sample {
	out := make([]*sample.Sample, len(samples))
	for i, s := range samples {
		out[i] = s.Clone()
	}
	return out
}

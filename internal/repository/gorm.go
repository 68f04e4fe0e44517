package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oncolab/sampletrack/internal/domain/sample"
)

// GormSampleRepository persists the collection through gorm (postgres or
// sqlite, see pkg/database). Batch inserts run in one transaction so the
// atomicity contract matches the in-memory repository.
type GormSampleRepository struct {
	db *gorm.DB
}

func NewGormSampleRepository(db *gorm.DB) *GormSampleRepository {
	return &GormSampleRepository{db: db}
}

func (r *GormSampleRepository) List(ctx context.Context) ([]*sample.Sample, error) {
	var samples []*sample.Sample
	if err := r.db.WithContext(ctx).Order("created_at ASC, barcode ASC").Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return samples, nil
}

func (r *GormSampleRepository) GetByID(ctx context.Context, id uuid.UUID) (*sample.Sample, error) {
	var s sample.Sample
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sample.ErrSampleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching sample: %w", err)
	}
	return &s, nil
}

func (r *GormSampleRepository) InsertMany(ctx context.Context, records []*sample.Sample) ([]*sample.Sample, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]bool, len(records))
		for _, rec := range records {
			if seen[rec.Barcode] {
				return fmt.Errorf("%w: %s", sample.ErrDuplicateBarcode, rec.Barcode)
			}
			seen[rec.Barcode] = true

			var count int64
			if err := tx.Model(&sample.Sample{}).Where("barcode = ?", rec.Barcode).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: %s", sample.ErrDuplicateBarcode, rec.Barcode)
			}

			if rec.ID == uuid.Nil {
				rec.ID = uuid.New()
			}
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, sample.ErrDuplicateBarcode
		}
		return nil, err
	}
	return records, nil
}

func (r *GormSampleRepository) UpdateOne(ctx context.Context, record *sample.Sample) (*sample.Sample, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&sample.Sample{}).
			Where("barcode = ? AND id <> ?", record.Barcode, record.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", sample.ErrDuplicateBarcode, record.Barcode)
		}

		res := tx.Model(&sample.Sample{}).Where("id = ?", record.ID).Select("*").
			Omit("id", "created_at").Updates(record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return sample.ErrSampleNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *GormSampleRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) ([]*sample.Sample, error) {
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Delete(&sample.Sample{}, "id IN ?", ids).Error; err != nil {
			return nil, fmt.Errorf("deleting samples: %w", err)
		}
	}
	return r.List(ctx)
}

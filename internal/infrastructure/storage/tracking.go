package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/ports"
)

// TrackingRepository stores the batch ingestion offset.
type TrackingRepository struct {
	db *gorm.DB
}

var _ ports.TrackingRepository = (*TrackingRepository)(nil)

func NewTrackingRepository(db *gorm.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// Offset returns the next offset, creating the tracking row at zero if needed.
func (r *TrackingRepository) Offset(ctx context.Context) (int, error) {
	m, err := r.ensure(r.db.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return m.NextOffset, nil
}

// AdvanceOffset atomically adds by to the stored offset and returns the new value.
func (r *TrackingRepository) AdvanceOffset(ctx context.Context, by int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.ensure(tx); err != nil {
			return err
		}
		res := tx.Model(&scrapeTrackingModel{}).Where("type = ?", domain.TrackingOffset).
			Update("next_offset", gorm.Expr("next_offset + ?", by))
		if res.Error != nil {
			return fmt.Errorf("advance offset: %w", res.Error)
		}
		var m scrapeTrackingModel
		if err := tx.Where("type = ?", domain.TrackingOffset).Take(&m).Error; err != nil {
			return fmt.Errorf("reload offset: %w", err)
		}
		next = m.NextOffset
		return nil
	})
	return next, err
}

// ResetOffset moves the cursor back to the first page.
func (r *TrackingRepository) ResetOffset(ctx context.Context) error {
	if _, err := r.ensure(r.db.WithContext(ctx)); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&scrapeTrackingModel{}).Where("type = ?", domain.TrackingOffset).
		Update("next_offset", 0).Error
	if err != nil {
		return fmt.Errorf("reset offset: %w", err)
	}
	return nil
}

func (r *TrackingRepository) ensure(db *gorm.DB) (scrapeTrackingModel, error) {
	seed := scrapeTrackingModel{Type: domain.TrackingOffset}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return scrapeTrackingModel{}, fmt.Errorf("seed tracking: %w", err)
	}
	var m scrapeTrackingModel
	if err := db.Where("type = ?", domain.TrackingOffset).Take(&m).Error; err != nil {
		return scrapeTrackingModel{}, fmt.Errorf("load tracking: %w", err)
	}
	return m, nil
}

package postgres

import (
	"context"
	"fmt"

	"denimatch/domain"

	"gorm.io/gorm"
)

type TasteEventRepository struct {
	DB *gorm.DB
}

func NewTasteEventRepository(db *gorm.DB) *TasteEventRepository {
	return &TasteEventRepository{DB: db}
}

// SaveEvent appends one immutable event row. There is no update or delete
// path; the log is history.
func (r *TasteEventRepository) SaveEvent(ctx context.Context, event domain.TasteEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save taste event: %w", err)
	}

	return nil
}

func (r *TasteEventRepository) FindByProfile(ctx context.Context, profileID uint, limit int) ([]domain.TasteEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	var events []domain.TasteEvent
	err := r.DB.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find taste events: %w", err)
	}

	return events, nil
}

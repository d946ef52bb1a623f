package postgres

import (
	"context"
	"fmt"
	"time"

	"denimatch/domain"

	"gorm.io/gorm"
)

type TasteSnapshotRepository struct {
	DB *gorm.DB
}

func NewTasteSnapshotRepository(db *gorm.DB) *TasteSnapshotRepository {
	return &TasteSnapshotRepository{DB: db}
}

func (r *TasteSnapshotRepository) HasRecent(ctx context.Context, profileID uint, since time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.TasteVectorSnapshot{}).
		Where("profile_id = ? AND created_at >= ?", profileID, since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count snapshots: %w", err)
	}

	return count > 0, nil
}

func (r *TasteSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.TasteVectorSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *TasteSnapshotRepository) FindByProfile(ctx context.Context, profileID uint, limit int) ([]domain.TasteVectorSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}

	var snapshots []domain.TasteVectorSnapshot
	err := r.DB.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshots: %w", err)
	}

	return snapshots, nil
}

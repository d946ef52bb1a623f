package postgres

import (
	"context"
	"errors"
	"fmt"

	"denimatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) FindActive(ctx context.Context, runID string, profileID uint, recIndex int) (domain.RecommendationFeedback, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationFeedback{}, false, fmt.Errorf("context error: %w", err)
	}

	var feedback domain.RecommendationFeedback
	err := r.DB.WithContext(ctx).
		Where("run_id = ? AND profile_id = ? AND rec_index = ?", runID, profileID, recIndex).
		First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommendationFeedback{}, false, nil
	}
	if err != nil {
		return domain.RecommendationFeedback{}, false, fmt.Errorf("failed to find feedback row: %w", err)
	}

	return feedback, true, nil
}

// Upsert replaces the active action on (run, profile, rec_index). One row per
// triple; actions are mutually exclusive.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback domain.RecommendationFeedback) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{
				{Name: "run_id"},
				{Name: "profile_id"},
				{Name: "rec_index"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"action", "created_at"}),
		},
	).Create(&feedback).Error; err != nil {
		return fmt.Errorf("failed to upsert feedback row: %w", err)
	}

	return nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, runID string, profileID uint, recIndex int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Where("run_id = ? AND profile_id = ? AND rec_index = ?", runID, profileID, recIndex).
		Delete(&domain.RecommendationFeedback{}).Error; err != nil {
		return fmt.Errorf("failed to delete feedback row: %w", err)
	}

	return nil
}

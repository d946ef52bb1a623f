package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"denimatch/domain"

	"gorm.io/gorm"
)

type RunRepository struct {
	DB *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{DB: db}
}

func (r *RunRepository) SaveRun(ctx context.Context, run *domain.RecommendationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save recommendation run: %w", err)
	}

	return nil
}

func (r *RunRepository) FindByID(ctx context.Context, runID string) (domain.RecommendationRun, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationRun{}, false, fmt.Errorf("context error: %w", err)
	}

	var run domain.RecommendationRun
	err := r.DB.WithContext(ctx).Where("id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommendationRun{}, false, nil
	}
	if err != nil {
		return domain.RecommendationRun{}, false, fmt.Errorf("failed to find recommendation run: %w", err)
	}

	if len(run.RecsRaw) > 0 {
		if err := json.Unmarshal(run.RecsRaw, &run.Recommendations); err != nil {
			return domain.RecommendationRun{}, false, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
	}

	return run, true, nil
}

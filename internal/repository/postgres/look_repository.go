package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"denimatch/domain"

	"gorm.io/gorm"
)

type LookRepository struct {
	DB *gorm.DB
}

func NewLookRepository(db *gorm.DB) *LookRepository {
	return &LookRepository{DB: db}
}

func (r *LookRepository) Create(ctx context.Context, look *domain.Look) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(look).Error; err != nil {
		return fmt.Errorf("failed to create look: %w", err)
	}

	return nil
}

func (r *LookRepository) FindByID(ctx context.Context, id uint) (domain.Look, error) {
	if err := ctx.Err(); err != nil {
		return domain.Look{}, fmt.Errorf("context error: %w", err)
	}

	var look domain.Look
	err := r.DB.WithContext(ctx).First(&look, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Look{}, errors.New("look not found")
		}
		return domain.Look{}, fmt.Errorf("failed to find look: %w", err)
	}

	return look, nil
}

func (r *LookRepository) FindAll(ctx context.Context) ([]domain.Look, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var looks []domain.Look
	if err := r.DB.WithContext(ctx).Order("id").Find(&looks).Error; err != nil {
		return nil, fmt.Errorf("failed to find looks: %w", err)
	}

	return looks, nil
}

// FindVisible returns the serving catalog plus decoded embeddings keyed by
// look id. Looks without a stored embedding are served with no map entry.
func (r *LookRepository) FindVisible(ctx context.Context) ([]domain.Look, map[uint][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("context error: %w", err)
	}

	var looks []domain.Look
	err := r.DB.WithContext(ctx).Where("visible = ?", true).Order("id").Find(&looks).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find visible looks: %w", err)
	}

	embeddings := make(map[uint][]float32, len(looks))
	for _, look := range looks {
		if len(look.EmbeddingRaw) == 0 {
			continue
		}
		var embedding []float32
		if err := json.Unmarshal(look.EmbeddingRaw, &embedding); err != nil {
			// a corrupt embedding degrades that look to neutral distance
			continue
		}
		embeddings[look.ID] = embedding
	}

	return looks, embeddings, nil
}

func (r *LookRepository) Update(ctx context.Context, look *domain.Look) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Save(look).Error; err != nil {
		return fmt.Errorf("failed to update look: %w", err)
	}

	return nil
}

func (r *LookRepository) SaveEmbedding(ctx context.Context, lookID uint, embedding []float32) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal look embedding: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Model(&domain.Look{}).
		Where("id = ?", lookID).
		Update("embedding", raw).Error; err != nil {
		return fmt.Errorf("failed to save look embedding: %w", err)
	}

	return nil
}

func (r *LookRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Delete(&domain.Look{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete look: %w", err)
	}

	return nil
}

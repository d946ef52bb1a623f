package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"denimatch/business/taste"
	"denimatch/domain"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uint) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.Profile
	err := r.DB.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, taste.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.Profile
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, taste.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to find profile by email: %w", err)
	}

	return profile, nil
}

// GetTasteState decodes the taste columns. A missing profile behaves as an
// empty first-time state rather than an error.
func (r *ProfileRepository) GetTasteState(ctx context.Context, profileID uint) (taste.State, error) {
	if err := ctx.Err(); err != nil {
		return taste.State{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.Profile
	err := r.DB.WithContext(ctx).First(&profile, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return taste.State{}, nil
	}
	if err != nil {
		return taste.State{}, fmt.Errorf("failed to query profile taste state: %w", err)
	}

	state := taste.State{
		BaseDecay:     profile.TasteDecay,
		ClampMin:      profile.TasteClampMin,
		ClampMax:      profile.TasteClampMax,
		LastUpdatedAt: profile.TasteLastUpdatedAt,
	}

	if len(profile.TasteVectorRaw) > 0 {
		if err := json.Unmarshal(profile.TasteVectorRaw, &state.Vector); err != nil {
			return taste.State{}, fmt.Errorf("failed to unmarshal taste_vector: %w", err)
		}
	}

	return state, nil
}

func (r *ProfileRepository) SaveTasteVector(ctx context.Context, profileID uint, vector map[string]float64, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal taste vector: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{
			"taste_vector":          raw,
			"taste_last_updated_at": updatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save taste vector: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return taste.ErrProfileNotFound
	}

	return nil
}

func (r *ProfileRepository) SaveTasteEmbedding(ctx context.Context, profileID uint, embedding []float32) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal taste embedding: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", profileID).
		Update("taste_embedding", raw).Error; err != nil {
		return fmt.Errorf("failed to save taste embedding: %w", err)
	}

	return nil
}

func (r *ProfileRepository) GetTasteEmbedding(ctx context.Context, profileID uint) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var profile domain.Profile
	err := r.DB.WithContext(ctx).Select("taste_embedding").First(&profile, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query taste embedding: %w", err)
	}

	if len(profile.TasteEmbeddingRaw) == 0 {
		return nil, nil
	}

	var embedding []float32
	if err := json.Unmarshal(profile.TasteEmbeddingRaw, &embedding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taste embedding: %w", err)
	}

	return embedding, nil
}

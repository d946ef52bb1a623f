package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"denimatch/domain"

	"gorm.io/gorm"
)

type VibeRepository struct {
	DB *gorm.DB
}

func NewVibeRepository(db *gorm.DB) *VibeRepository {
	return &VibeRepository{DB: db}
}

func (r *VibeRepository) FindBySlug(ctx context.Context, slug string) (domain.Vibe, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Vibe{}, false, fmt.Errorf("context error: %w", err)
	}

	var vibe domain.Vibe
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&vibe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Vibe{}, false, nil
	}
	if err != nil {
		return domain.Vibe{}, false, fmt.Errorf("failed to find vibe: %w", err)
	}

	if err := decodeVibeLists(&vibe); err != nil {
		return domain.Vibe{}, false, err
	}

	return vibe, true, nil
}

func (r *VibeRepository) FindAll(ctx context.Context) ([]domain.Vibe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var vibes []domain.Vibe
	if err := r.DB.WithContext(ctx).Order("id").Find(&vibes).Error; err != nil {
		return nil, fmt.Errorf("failed to find vibes: %w", err)
	}

	for i := range vibes {
		if err := decodeVibeLists(&vibes[i]); err != nil {
			return nil, err
		}
	}

	return vibes, nil
}

func (r *VibeRepository) Upsert(ctx context.Context, vibe *domain.Vibe) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := encodeVibeLists(vibe); err != nil {
		return err
	}

	var existing domain.Vibe
	err := r.DB.WithContext(ctx).Where("slug = ?", vibe.Slug).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.DB.WithContext(ctx).Create(vibe).Error; err != nil {
			return fmt.Errorf("failed to create vibe: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query vibe: %w", err)
	default:
		vibe.ID = existing.ID
		vibe.CreatedAt = existing.CreatedAt
		if err := r.DB.WithContext(ctx).Save(vibe).Error; err != nil {
			return fmt.Errorf("failed to update vibe: %w", err)
		}
	}

	return nil
}

func (r *VibeRepository) Delete(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).Delete(&domain.Vibe{}).Error; err != nil {
		return fmt.Errorf("failed to delete vibe: %w", err)
	}

	return nil
}

func decodeVibeLists(vibe *domain.Vibe) error {
	for _, pair := range []struct {
		raw  []byte
		dest *[]string
	}{
		{vibe.AllowedFitsRaw, &vibe.AllowedFits},
		{vibe.AllowedRisesRaw, &vibe.AllowedRises},
		{vibe.PreferredWashesRaw, &vibe.PreferredWashes},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return fmt.Errorf("failed to unmarshal vibe list: %w", err)
		}
	}
	return nil
}

func encodeVibeLists(vibe *domain.Vibe) error {
	fits, err := json.Marshal(vibe.AllowedFits)
	if err != nil {
		return fmt.Errorf("failed to marshal allowed fits: %w", err)
	}
	rises, err := json.Marshal(vibe.AllowedRises)
	if err != nil {
		return fmt.Errorf("failed to marshal allowed rises: %w", err)
	}
	washes, err := json.Marshal(vibe.PreferredWashes)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred washes: %w", err)
	}

	vibe.AllowedFitsRaw = fits
	vibe.AllowedRisesRaw = rises
	vibe.PreferredWashesRaw = washes
	return nil
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Vibe is a named style preset constraining which fit/rise values are
// acceptable for a recommendation (e.g. "90s supermodel").
type Vibe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description" json:"description"`

	AllowedFitsRaw     datatypes.JSON `gorm:"column:allowed_fits;type:jsonb" json:"-"`
	AllowedRisesRaw    datatypes.JSON `gorm:"column:allowed_rises;type:jsonb" json:"-"`
	PreferredWashesRaw datatypes.JSON `gorm:"column:preferred_washes;type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	AllowedFits     []string `gorm:"-" json:"allowed_fits"`
	AllowedRises    []string `gorm:"-" json:"allowed_rises"`
	PreferredWashes []string `gorm:"-" json:"preferred_washes"`
}

func (Vibe) TableName() string {
	return "vibes"
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Profile struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FullName     string `gorm:"column:full_name;not null" json:"full_name"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         string `gorm:"column:role;not null;default:member" json:"role"`

	// Learned taste state. The vector is a sparse feature-key -> affinity map
	// stored as jsonb; decay/clamp are per-profile overrides of the server
	// defaults.
	TasteVectorRaw     datatypes.JSON `gorm:"column:taste_vector;type:jsonb" json:"-"`
	TasteDecay         float64        `gorm:"column:taste_decay" json:"taste_decay"`
	TasteClampMin      float64        `gorm:"column:taste_clamp_min" json:"taste_clamp_min"`
	TasteClampMax      float64        `gorm:"column:taste_clamp_max" json:"taste_clamp_max"`
	TasteLastUpdatedAt *time.Time     `gorm:"column:taste_last_updated_at" json:"taste_last_updated_at"`

	// Derived embedding of the profile's taste summary text, refreshed
	// best-effort after feedback. Stored as a jsonb float array.
	TasteEmbeddingRaw datatypes.JSON `gorm:"column:taste_embedding;type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

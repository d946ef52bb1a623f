package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Look is a curated celebrity reference outfit used as styling inspiration
// ("anchor") for generated recommendations.
type Look struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CelebrityName string `gorm:"column:celebrity_name;not null" json:"celebrity_name"`
	Title         string `gorm:"column:title;not null" json:"title"`
	Description   string `gorm:"column:description" json:"description"`

	// Free-text style descriptors matched against fit/rise/wash keywords.
	SilhouetteText string `gorm:"column:silhouette_text" json:"silhouette_text"`
	CanonicalText  string `gorm:"column:canonical_text" json:"canonical_text"`
	WashText       string `gorm:"column:wash_text" json:"wash_text"`

	ImageURL    string `gorm:"column:image_url" json:"image_url"`
	ImagePublic bool   `gorm:"column:image_public" json:"image_public"`
	Visible     bool   `gorm:"column:visible;default:true" json:"visible"`

	// Embedding of the look's combined descriptive text, jsonb float array.
	EmbeddingRaw datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Look) TableName() string {
	return "looks"
}

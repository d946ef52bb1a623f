package domain

import (
	"time"

	"gorm.io/datatypes"
)

// TasteEvent is one applied feedback action. Rows are append-only history
// and are never mutated or deleted, even when the feedback row that caused
// them is toggled off.
type TasteEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProfileID uint           `gorm:"column:profile_id;not null;index" json:"profile_id"`
	RunID     string         `gorm:"column:run_id;type:uuid;not null" json:"run_id"`
	RecIndex  int            `gorm:"column:rec_index;not null" json:"rec_index"`
	Action    string         `gorm:"column:action;not null" json:"action"`
	Weight    float64        `gorm:"column:weight;not null" json:"weight"`
	Features  datatypes.JSON `gorm:"column:features;type:jsonb" json:"features"`
	Delta     datatypes.JSON `gorm:"column:delta;type:jsonb" json:"delta"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TasteEvent) TableName() string {
	return "taste_events"
}

// TasteVectorSnapshot is an immutable copy of the full vector, written at
// most once per rolling 24h window per profile for drift analysis.
type TasteVectorSnapshot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProfileID uint           `gorm:"column:profile_id;not null;index" json:"profile_id"`
	Vector    datatypes.JSON `gorm:"column:vector;type:jsonb" json:"vector"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TasteVectorSnapshot) TableName() string {
	return "taste_vector_snapshots"
}

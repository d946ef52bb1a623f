package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is one generated denim pick inside a run. Confidence fields
// are filled by the deterministic scorer after generation.
type Recommendation struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	EraInspiration string `json:"era_inspiration"`
	Fit            string `json:"fit"`
	Rise           string `json:"rise"`
	Wash           string `json:"wash"`
	StretchLevel   string `json:"stretch_level"`
	WhyPick        string `json:"why_each_pick"`

	AnchorLookID   *uint    `json:"anchor_look_id,omitempty"`
	AnchorReason   string   `json:"anchor_reason,omitempty"`
	AnchorDistance *float64 `json:"anchor_distance,omitempty"`

	ConfidenceScore float64 `json:"confidence_score"`
	ConfidenceLabel string  `json:"confidence_label"`
}

// RecommendationRun is one invocation of the generator. Immutable after
// creation; feedback rows reference it by id.
type RecommendationRun struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProfileID uint   `gorm:"column:profile_id;not null;index" json:"profile_id"`
	VibeSlug  string `gorm:"column:vibe_slug" json:"vibe_slug"`

	Params          datatypes.JSON `gorm:"column:params;type:jsonb" json:"params"`
	ProfileSnapshot datatypes.JSON `gorm:"column:profile_snapshot;type:jsonb" json:"profile_snapshot"`
	RecsRaw         datatypes.JSON `gorm:"column:recommendations;type:jsonb" json:"-"`

	Degraded       bool   `gorm:"column:degraded" json:"degraded"`
	DegradedReason string `gorm:"column:degraded_reason" json:"degraded_reason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Recommendations []Recommendation `gorm:"-" json:"recommendations"`
}

func (RecommendationRun) TableName() string {
	return "recommendation_runs"
}

// RecommendationFeedback is the single active reaction a profile holds on one
// recommendation of a run. Actions are mutually exclusive per (run, rec_index):
// re-sending the same action toggles the row off, a different action replaces it.
type RecommendationFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"column:run_id;type:uuid;not null;uniqueIndex:idx_feedback_run_rec,priority:1" json:"run_id"`
	ProfileID uint      `gorm:"column:profile_id;not null;uniqueIndex:idx_feedback_run_rec,priority:2" json:"profile_id"`
	RecIndex  int       `gorm:"column:rec_index;not null;uniqueIndex:idx_feedback_run_rec,priority:3" json:"rec_index"`
	Action    string    `gorm:"column:action;not null" json:"action"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationFeedback) TableName() string {
	return "recommendation_feedback"
}

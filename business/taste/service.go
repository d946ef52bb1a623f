package taste

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"denimatch/domain"
	"denimatch/pkg/logger"
	"denimatch/pkg/metrics"
)

// snapshotWindow limits snapshots to at most one per rolling window per profile.
const snapshotWindow = 24 * time.Hour

// State is the per-profile taste state read from the store. A missing profile
// vector behaves as an empty map (first-time user).
type State struct {
	Vector        map[string]float64
	BaseDecay     float64
	ClampMin      float64
	ClampMax      float64
	LastUpdatedAt *time.Time
}

// Defaults are applied when a profile has no stored overrides.
type Defaults struct {
	BaseDecay float64
	ClampMin  float64
	ClampMax  float64
}

// ---- Repository interfaces ----

type ProfileRepository interface {
	GetTasteState(ctx context.Context, profileID uint) (State, error)
	SaveTasteVector(ctx context.Context, profileID uint, vector map[string]float64, updatedAt time.Time) error
	SaveTasteEmbedding(ctx context.Context, profileID uint, embedding []float32) error
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.TasteEvent) error
}

type SnapshotRepository interface {
	HasRecent(ctx context.Context, profileID uint, since time.Time) (bool, error)
	SaveSnapshot(ctx context.Context, snapshot domain.TasteVectorSnapshot) error
	FindByProfile(ctx context.Context, profileID uint, limit int) ([]domain.TasteVectorSnapshot, error)
}

type RunRepository interface {
	FindByID(ctx context.Context, runID string) (domain.RecommendationRun, bool, error)
}

type FeedbackRepository interface {
	FindActive(ctx context.Context, runID string, profileID uint, recIndex int) (domain.RecommendationFeedback, bool, error)
	Upsert(ctx context.Context, feedback domain.RecommendationFeedback) error
	Delete(ctx context.Context, runID string, profileID uint, recIndex int) error
}

// SummaryCache is the short-TTL per-profile summary cache. All methods are
// best-effort: a cache failure never fails the request.
type SummaryCache interface {
	GetSummary(ctx context.Context, profileID uint) (Summary, bool, error)
	SetSummary(ctx context.Context, profileID uint, summary Summary) error
	Invalidate(ctx context.Context, profileID uint) error
}

// Embedder produces a text embedding for the profile's taste summary,
// refreshed best-effort after feedback.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ---- Service ----

type Service struct {
	profileRepo  ProfileRepository
	eventRepo    EventRepository
	snapshotRepo SnapshotRepository
	runRepo      RunRepository
	feedbackRepo FeedbackRepository
	cache        SummaryCache
	embedder     Embedder
	defaults     Defaults

	now func() time.Time
}

func NewService(
	profileRepo ProfileRepository,
	eventRepo EventRepository,
	snapshotRepo SnapshotRepository,
	runRepo RunRepository,
	feedbackRepo FeedbackRepository,
	cache SummaryCache,
	embedder Embedder,
	defaults Defaults,
) *Service {
	return &Service{
		profileRepo:  profileRepo,
		eventRepo:    eventRepo,
		snapshotRepo: snapshotRepo,
		runRepo:      runRepo,
		feedbackRepo: feedbackRepo,
		cache:        cache,
		embedder:     embedder,
		defaults:     defaults,
		now:          time.Now,
	}
}

type FeedbackInput struct {
	RunID    string
	RecIndex int
	Action   string
}

type FeedbackResult struct {
	Action      string             `json:"action"`
	Weight      float64            `json:"weight"`
	ToggledOff  bool               `json:"toggled_off"`
	Features    []string           `json:"features"`
	Delta       map[string]float64 `json:"delta"`
	TasteVector map[string]float64 `json:"taste_vector"`
}

// ApplyFeedback records one feedback action and updates the profile's taste
// vector. Actions are mutually exclusive per (run, rec_index): re-sending the
// active action toggles it off without touching the vector, a different
// action replaces the row and applies a fresh event.
//
// The vector write is the one operation whose failure fails the request; the
// event log append, snapshot, embedding refresh, and cache invalidation are
// best-effort secondary writes that are logged on failure.
func (s *Service) ApplyFeedback(ctx context.Context, profileID uint, in FeedbackInput) (FeedbackResult, error) {
	if err := ctx.Err(); err != nil {
		return FeedbackResult{}, fmt.Errorf("context error: %w", err)
	}

	weight, err := WeightForAction(in.Action)
	if err != nil {
		return FeedbackResult{}, err
	}

	run, ok, err := s.runRepo.FindByID(ctx, in.RunID)
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("load run: %w", err)
	}
	if !ok || run.ProfileID != profileID {
		return FeedbackResult{}, ErrRunNotFound
	}
	if in.RecIndex < 0 || in.RecIndex >= len(run.Recommendations) {
		return FeedbackResult{}, fmt.Errorf("%w: rec_index %d out of range", ErrInvalidAction, in.RecIndex)
	}

	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return FeedbackResult{}, err
	}

	existing, found, err := s.feedbackRepo.FindActive(ctx, in.RunID, profileID, in.RecIndex)
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("load feedback row: %w", err)
	}

	if found && existing.Action == in.Action {
		// Toggle off: remove the reaction, keep the vector and the event
		// history untouched.
		if err := s.feedbackRepo.Delete(ctx, in.RunID, profileID, in.RecIndex); err != nil {
			return FeedbackResult{}, fmt.Errorf("delete feedback row: %w", err)
		}
		s.invalidateCache(ctx, profileID)
		return FeedbackResult{
			Action:      in.Action,
			Weight:      weight,
			ToggledOff:  true,
			TasteVector: state.Vector,
		}, nil
	}

	rec := run.Recommendations[in.RecIndex]
	features := ExtractFeatures(rec.EraInspiration, rec.Fit, rec.Rise, rec.Wash, rec.StretchLevel)
	delta := BuildDelta(features, weight)

	now := s.now()
	decayFactor := 1.0
	if state.LastUpdatedAt != nil {
		days := now.Sub(*state.LastUpdatedAt).Hours() / 24
		decayFactor = DecayFactor(state.BaseDecay, days)
	}

	updated := ApplyDelta(state.Vector, delta, decayFactor, state.ClampMin, state.ClampMax)

	if err := s.feedbackRepo.Upsert(ctx, domain.RecommendationFeedback{
		RunID:     in.RunID,
		ProfileID: profileID,
		RecIndex:  in.RecIndex,
		Action:    in.Action,
	}); err != nil {
		return FeedbackResult{}, fmt.Errorf("upsert feedback row: %w", err)
	}

	// Primary write: the authoritative taste vector.
	if err := s.profileRepo.SaveTasteVector(ctx, profileID, updated, now); err != nil {
		return FeedbackResult{}, fmt.Errorf("save taste vector: %w", err)
	}

	s.appendEvent(ctx, profileID, in, weight, features, delta)
	s.maybeSnapshot(ctx, profileID, updated, now)
	s.refreshEmbedding(ctx, profileID, updated)
	s.invalidateCache(ctx, profileID)

	metrics.FeedbackEventsTotal.WithLabelValues(in.Action).Inc()

	logger.Debug("taste_feedback",
		"profile_id", profileID,
		"run_id", in.RunID,
		"rec_index", in.RecIndex,
		"action", in.Action,
		"weight", weight,
		"decay_factor", decayFactor,
		"features", features,
	)

	return FeedbackResult{
		Action:      in.Action,
		Weight:      weight,
		Features:    features,
		Delta:       delta,
		TasteVector: updated,
	}, nil
}

// SummaryFor returns the grouped taste summary, using the cache when warm.
func (s *Service) SummaryFor(ctx context.Context, profileID uint) (Summary, error) {
	if s.cache != nil {
		if summary, ok, err := s.cache.GetSummary(ctx, profileID); err == nil && ok {
			return summary, nil
		}
	}

	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return Summary{}, err
	}

	summary := BuildSummary(state.Vector)

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, profileID, summary); err != nil {
			logger.Warn("taste summary cache set failed", err)
		}
	}

	return summary, nil
}

// StateFor exposes the raw vector plus its summary for the profile endpoints.
func (s *Service) StateFor(ctx context.Context, profileID uint) (State, Summary, error) {
	state, err := s.loadState(ctx, profileID)
	if err != nil {
		return State{}, Summary{}, err
	}
	return state, BuildSummary(state.Vector), nil
}

func (s *Service) loadState(ctx context.Context, profileID uint) (State, error) {
	state, err := s.profileRepo.GetTasteState(ctx, profileID)
	if err != nil {
		return State{}, fmt.Errorf("load taste state: %w", err)
	}

	if state.Vector == nil {
		state.Vector = map[string]float64{}
	}
	if state.BaseDecay <= 0 || state.BaseDecay >= 1 {
		state.BaseDecay = s.defaults.BaseDecay
	}
	if state.ClampMin == 0 && state.ClampMax == 0 {
		state.ClampMin = s.defaults.ClampMin
		state.ClampMax = s.defaults.ClampMax
	}

	return state, nil
}

// ---- best-effort secondary writes ----

func (s *Service) appendEvent(ctx context.Context, profileID uint, in FeedbackInput, weight float64, features []string, delta map[string]float64) {
	featuresRaw, _ := json.Marshal(features)
	deltaRaw, _ := json.Marshal(delta)

	err := s.eventRepo.SaveEvent(ctx, domain.TasteEvent{
		ProfileID: profileID,
		RunID:     in.RunID,
		RecIndex:  in.RecIndex,
		Action:    in.Action,
		Weight:    weight,
		Features:  featuresRaw,
		Delta:     deltaRaw,
	})
	if err != nil {
		metrics.SecondaryWriteFailures.WithLabelValues("event").Inc()
		logger.Error("taste event append failed", err)
	}
}

func (s *Service) maybeSnapshot(ctx context.Context, profileID uint, vector map[string]float64, now time.Time) {
	if s.snapshotRepo == nil {
		return
	}

	recent, err := s.snapshotRepo.HasRecent(ctx, profileID, now.Add(-snapshotWindow))
	if err != nil {
		metrics.SecondaryWriteFailures.WithLabelValues("snapshot").Inc()
		logger.Error("taste snapshot lookup failed", err)
		return
	}
	if recent {
		return
	}

	raw, _ := json.Marshal(vector)
	if err := s.snapshotRepo.SaveSnapshot(ctx, domain.TasteVectorSnapshot{
		ProfileID: profileID,
		Vector:    raw,
	}); err != nil {
		metrics.SecondaryWriteFailures.WithLabelValues("snapshot").Inc()
		logger.Error("taste snapshot insert failed", err)
	}
}

func (s *Service) refreshEmbedding(ctx context.Context, profileID uint, vector map[string]float64) {
	if s.embedder == nil {
		return
	}

	text := summaryText(BuildSummary(vector))
	if text == "" {
		return
	}

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		metrics.SecondaryWriteFailures.WithLabelValues("embedding").Inc()
		logger.Error("taste embedding refresh failed", err)
		return
	}

	if err := s.profileRepo.SaveTasteEmbedding(ctx, profileID, embedding); err != nil {
		metrics.SecondaryWriteFailures.WithLabelValues("embedding").Inc()
		logger.Error("taste embedding save failed", err)
	}
}

func (s *Service) invalidateCache(ctx context.Context, profileID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileID); err != nil {
		logger.Warn("taste summary cache invalidation failed", err)
	}
}

// summaryText flattens a summary into the text embedded for anchor matching.
func summaryText(summary Summary) string {
	var parts []string
	for _, g := range Groups {
		for _, key := range summary.Likes[g] {
			parts = append(parts, "likes "+strings.ReplaceAll(key, "_", " "))
		}
		for _, key := range summary.Dislikes[g] {
			parts = append(parts, "avoids "+strings.ReplaceAll(key, "_", " "))
		}
	}
	return strings.Join(parts, ", ")
}

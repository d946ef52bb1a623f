package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"denimatch/business/taste"
	"denimatch/domain"
	"denimatch/pkg/logger"
	"denimatch/pkg/metrics"

	"github.com/google/uuid"
)

var ErrVibeNotFound = errors.New("vibe not found")

const (
	defaultCount = 4
	maxCount     = 8

	// how many ranked anchors are offered to the generation step
	maxOfferedAnchors = 5
)

// ---- Repository interfaces ----

type LookRepository interface {
	// FindVisible returns the visible catalog plus decoded embeddings keyed
	// by look id (looks without embeddings are absent from the map).
	FindVisible(ctx context.Context) ([]domain.Look, map[uint][]float32, error)
}

type VibeRepository interface {
	FindBySlug(ctx context.Context, slug string) (domain.Vibe, bool, error)
}

type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.RecommendationRun) error
}

type ProfileRepository interface {
	GetTasteEmbedding(ctx context.Context, profileID uint) ([]float32, error)
}

type SummaryProvider interface {
	SummaryFor(ctx context.Context, profileID uint) (taste.Summary, error)
}

// GenerationRequest is the boundary shape handed to the LLM collaborator.
type GenerationRequest struct {
	VibeName        string
	VibeDescription string
	AllowedFits     []string
	AllowedRises    []string
	PreferredWashes []string
	Summary         taste.Summary
	Anchors         []AnchorCandidate
	Count           int
	Notes           string
}

// Generator produces candidate recommendations. Failures are recovered
// locally with the stub set; no retry happens here.
type Generator interface {
	GenerateCandidates(ctx context.Context, req GenerationRequest) ([]domain.Recommendation, error)
}

// ---- Service ----

type Service struct {
	lookRepo    LookRepository
	vibeRepo    VibeRepository
	runRepo     RunRepository
	profileRepo ProfileRepository
	summaries   SummaryProvider
	generator   Generator
}

func NewService(
	lookRepo LookRepository,
	vibeRepo VibeRepository,
	runRepo RunRepository,
	profileRepo ProfileRepository,
	summaries SummaryProvider,
	generator Generator,
) *Service {
	return &Service{
		lookRepo:    lookRepo,
		vibeRepo:    vibeRepo,
		runRepo:     runRepo,
		profileRepo: profileRepo,
		summaries:   summaries,
		generator:   generator,
	}
}

type GenerateInput struct {
	VibeSlug string
	Count    int
	Notes    string
}

// Generate runs one recommendation invocation: read taste state, rank
// anchors, call the generator (stubs on failure), score every candidate with
// the deterministic scorer, and persist the immutable run.
func (s *Service) Generate(ctx context.Context, profileID uint, in GenerateInput) (domain.RecommendationRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("context error: %w", err)
	}

	count := in.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	var vibe domain.Vibe
	if in.VibeSlug != "" {
		found := false
		var err error
		vibe, found, err = s.vibeRepo.FindBySlug(ctx, in.VibeSlug)
		if err != nil {
			return domain.RecommendationRun{}, fmt.Errorf("load vibe: %w", err)
		}
		if !found {
			return domain.RecommendationRun{}, ErrVibeNotFound
		}
	}

	summary, err := s.summaries.SummaryFor(ctx, profileID)
	if err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("load taste summary: %w", err)
	}

	profileEmbedding, err := s.profileRepo.GetTasteEmbedding(ctx, profileID)
	if err != nil {
		// Distances degrade to neutral without an embedding; not fatal.
		logger.Warn("taste embedding load failed", err)
		profileEmbedding = nil
	}

	looks, lookEmbeddings, err := s.lookRepo.FindVisible(ctx)
	if err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("load looks: %w", err)
	}

	anchors := RankAnchors(
		looks,
		profileEmbedding,
		lookEmbeddings,
		vibe.AllowedFits,
		vibe.AllowedRises,
		vibe.PreferredWashes,
		summary,
	)
	if len(anchors) > maxOfferedAnchors {
		anchors = anchors[:maxOfferedAnchors]
	}

	req := GenerationRequest{
		VibeName:        vibe.Name,
		VibeDescription: vibe.Description,
		AllowedFits:     vibe.AllowedFits,
		AllowedRises:    vibe.AllowedRises,
		PreferredWashes: vibe.PreferredWashes,
		Summary:         summary,
		Anchors:         anchors,
		Count:           count,
		Notes:           in.Notes,
	}

	recs, degradedReason := s.generate(ctx, req)
	recs = s.resolveAnchors(recs, anchors)

	for i := range recs {
		score, label, _ := ScoreRecommendation(
			recs[i],
			vibe.AllowedFits,
			vibe.AllowedRises,
			summary,
			recs[i].AnchorDistance,
		)
		recs[i].ConfidenceScore = score
		recs[i].ConfidenceLabel = label
	}

	run, err := s.buildRun(profileID, in, summary, recs, degradedReason)
	if err != nil {
		return domain.RecommendationRun{}, err
	}

	if err := s.runRepo.SaveRun(ctx, &run); err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("save run: %w", err)
	}

	metrics.RecommendRequests.Inc()

	logger.Debug("recommendation_run",
		"profile_id", profileID,
		"run_id", run.ID,
		"vibe", in.VibeSlug,
		"candidates", len(recs),
		"degraded", run.Degraded,
	)

	return run, nil
}

// generate calls the upstream generator once and degrades to stubs on any
// failure, surfacing the reason alongside the result.
func (s *Service) generate(ctx context.Context, req GenerationRequest) ([]domain.Recommendation, string) {
	if s.generator == nil {
		return stubCandidates(), "no generator configured"
	}

	recs, err := s.generator.GenerateCandidates(ctx, req)
	if err != nil {
		metrics.GenerationFallbacks.Inc()
		logger.Error("generation call failed, serving stubs", err)
		return stubCandidates(), err.Error()
	}
	if len(recs) == 0 {
		metrics.GenerationFallbacks.Inc()
		logger.Warn("generation returned no candidates, serving stubs")
		return stubCandidates(), "generator returned no candidates"
	}

	return recs, ""
}

// resolveAnchors validates each candidate's anchor_look_id against the
// offered anchor list and fills the matching distance. Unknown ids are
// cleared rather than trusted; candidates without an anchor get the top
// ranked one.
func (s *Service) resolveAnchors(recs []domain.Recommendation, anchors []AnchorCandidate) []domain.Recommendation {
	byID := make(map[uint]AnchorCandidate, len(anchors))
	for _, a := range anchors {
		byID[a.Look.ID] = a
	}

	for i := range recs {
		if recs[i].AnchorLookID != nil {
			if anchor, ok := byID[*recs[i].AnchorLookID]; ok {
				recs[i].AnchorDistance = anchor.Distance
				continue
			}
			recs[i].AnchorLookID = nil
			recs[i].AnchorDistance = nil
		}
		if recs[i].AnchorLookID == nil && len(anchors) > 0 {
			top := anchors[0]
			id := top.Look.ID
			recs[i].AnchorLookID = &id
			recs[i].AnchorDistance = top.Distance
			if recs[i].AnchorReason == "" {
				recs[i].AnchorReason = "closest match to your current taste profile"
			}
		}
	}

	return recs
}

func (s *Service) buildRun(
	profileID uint,
	in GenerateInput,
	summary taste.Summary,
	recs []domain.Recommendation,
	degradedReason string,
) (domain.RecommendationRun, error) {

	params, err := json.Marshal(map[string]any{
		"vibe_slug": in.VibeSlug,
		"count":     in.Count,
		"notes":     in.Notes,
	})
	if err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("marshal run params: %w", err)
	}

	snapshot, err := json.Marshal(summary)
	if err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("marshal profile snapshot: %w", err)
	}

	recsRaw, err := json.Marshal(recs)
	if err != nil {
		return domain.RecommendationRun{}, fmt.Errorf("marshal recommendations: %w", err)
	}

	return domain.RecommendationRun{
		ID:              uuid.NewString(),
		ProfileID:       profileID,
		VibeSlug:        in.VibeSlug,
		Params:          params,
		ProfileSnapshot: snapshot,
		RecsRaw:         recsRaw,
		Recommendations: recs,
		Degraded:        degradedReason != "",
		DegradedReason:  degradedReason,
	}, nil
}

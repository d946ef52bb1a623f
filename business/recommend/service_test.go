package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"denimatch/business/taste"
	"denimatch/domain"
)

// ---- fakes ----

type fakeLookRepo struct {
	looks      []domain.Look
	embeddings map[uint][]float32
	err        error
}

func (f *fakeLookRepo) FindVisible(ctx context.Context) ([]domain.Look, map[uint][]float32, error) {
	return f.looks, f.embeddings, f.err
}

type fakeVibeRepo struct {
	vibe  domain.Vibe
	found bool
}

func (f *fakeVibeRepo) FindBySlug(ctx context.Context, slug string) (domain.Vibe, bool, error) {
	return f.vibe, f.found, nil
}

type fakeRunSaver struct {
	saved *domain.RecommendationRun
	err   error
}

func (f *fakeRunSaver) SaveRun(ctx context.Context, run *domain.RecommendationRun) error {
	if f.err != nil {
		return f.err
	}
	f.saved = run
	return nil
}

type fakeEmbeddingRepo struct {
	embedding []float32
	err       error
}

func (f *fakeEmbeddingRepo) GetTasteEmbedding(ctx context.Context, profileID uint) ([]float32, error) {
	return f.embedding, f.err
}

type fakeSummaries struct {
	summary taste.Summary
}

func (f *fakeSummaries) SummaryFor(ctx context.Context, profileID uint) (taste.Summary, error) {
	return f.summary, nil
}

type fakeGenerator struct {
	recs []domain.Recommendation
	err  error
}

func (f *fakeGenerator) GenerateCandidates(ctx context.Context, req GenerationRequest) ([]domain.Recommendation, error) {
	return f.recs, f.err
}

func testVibe() domain.Vibe {
	return domain.Vibe{
		Slug:            "90s-supermodel",
		Name:            "90s Supermodel",
		AllowedFits:     []string{"Straight", "Relaxed"},
		AllowedRises:    []string{"High", "Mid"},
		PreferredWashes: []string{"Light", "Medium"},
	}
}

func newGenerateService(looks *fakeLookRepo, vibes *fakeVibeRepo, runs *fakeRunSaver, gen Generator) *Service {
	return NewService(looks, vibes, runs, &fakeEmbeddingRepo{}, &fakeSummaries{}, gen)
}

// ---- tests ----

func TestGenerateUnknownVibe(t *testing.T) {
	svc := newGenerateService(&fakeLookRepo{}, &fakeVibeRepo{}, &fakeRunSaver{}, &fakeGenerator{})

	_, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "does-not-exist"})
	if !errors.Is(err, ErrVibeNotFound) {
		t.Errorf("got %v, want ErrVibeNotFound", err)
	}
}

func TestGenerateHappyPath(t *testing.T) {
	looks := &fakeLookRepo{looks: []domain.Look{
		{ID: 1, Visible: true, SilhouetteText: "straight high rise", WashText: "light wash"},
	}}
	vibes := &fakeVibeRepo{vibe: testVibe(), found: true}
	runs := &fakeRunSaver{}
	anchorID := uint(1)
	gen := &fakeGenerator{recs: []domain.Recommendation{
		{Brand: "Levi's", Model: "501", EraInspiration: "90s", Fit: "Straight", Rise: "Mid", Wash: "Light", AnchorLookID: &anchorID, AnchorReason: "same clean straight leg"},
	}}

	svc := newGenerateService(looks, vibes, runs, gen)

	run, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "90s-supermodel", Count: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if run.ID == "" {
		t.Error("run id not assigned")
	}
	if run.ProfileID != 7 || run.VibeSlug != "90s-supermodel" {
		t.Errorf("run header = %+v", run)
	}
	if run.Degraded {
		t.Errorf("unexpected degraded run: %s", run.DegradedReason)
	}
	if len(run.Recommendations) != 1 {
		t.Fatalf("recommendations = %d", len(run.Recommendations))
	}

	rec := run.Recommendations[0]
	if rec.ConfidenceLabel == "" || rec.ConfidenceScore <= 0 || rec.ConfidenceScore > 1 {
		t.Errorf("confidence not filled: %v %q", rec.ConfidenceScore, rec.ConfidenceLabel)
	}
	if rec.AnchorLookID == nil || *rec.AnchorLookID != 1 {
		t.Errorf("anchor id = %v", rec.AnchorLookID)
	}

	if runs.saved == nil {
		t.Fatal("run not persisted")
	}
	var persisted []domain.Recommendation
	if err := json.Unmarshal(runs.saved.RecsRaw, &persisted); err != nil {
		t.Fatalf("persisted recs do not decode: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ConfidenceScore != rec.ConfidenceScore {
		t.Errorf("persisted recs diverge from response: %+v", persisted)
	}
}

func TestGenerateFallsBackToStubs(t *testing.T) {
	vibes := &fakeVibeRepo{vibe: testVibe(), found: true}
	runs := &fakeRunSaver{}
	gen := &fakeGenerator{err: errors.New("model unavailable")}

	svc := newGenerateService(&fakeLookRepo{}, vibes, runs, gen)

	run, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "90s-supermodel"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !run.Degraded || run.DegradedReason == "" {
		t.Error("stub fallback should mark the run degraded")
	}
	if len(run.Recommendations) != len(stubCandidates()) {
		t.Errorf("recommendations = %d, want stub set", len(run.Recommendations))
	}
	for _, rec := range run.Recommendations {
		if rec.ConfidenceLabel == "" {
			t.Error("stubs must still be scored")
		}
	}
}

func TestGenerateNilGeneratorServesStubs(t *testing.T) {
	vibes := &fakeVibeRepo{vibe: testVibe(), found: true}
	runs := &fakeRunSaver{}

	svc := newGenerateService(&fakeLookRepo{}, vibes, runs, nil)

	run, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "90s-supermodel"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !run.Degraded {
		t.Error("missing generator should degrade")
	}
}

func TestGenerateRejectsUnknownAnchorIDs(t *testing.T) {
	looks := &fakeLookRepo{looks: []domain.Look{
		{ID: 1, Visible: true},
	}}
	vibes := &fakeVibeRepo{vibe: testVibe(), found: true}
	runs := &fakeRunSaver{}
	bogus := uint(999)
	gen := &fakeGenerator{recs: []domain.Recommendation{
		{Brand: "X", Model: "Y", Fit: "Straight", Rise: "Mid", Wash: "Light", AnchorLookID: &bogus},
	}}

	svc := newGenerateService(looks, vibes, runs, gen)

	run, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "90s-supermodel"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	rec := run.Recommendations[0]
	// the hallucinated id is replaced by the top ranked anchor
	if rec.AnchorLookID == nil || *rec.AnchorLookID != 1 {
		t.Errorf("anchor id = %v, want 1", rec.AnchorLookID)
	}
	if rec.AnchorReason == "" {
		t.Error("fallback anchor needs a reason")
	}
}

func TestGenerateRunSaveFailureIsFatal(t *testing.T) {
	vibes := &fakeVibeRepo{vibe: testVibe(), found: true}
	runs := &fakeRunSaver{err: errors.New("insert failed")}

	svc := newGenerateService(&fakeLookRepo{}, vibes, runs, nil)

	_, err := svc.Generate(context.Background(), 7, GenerateInput{VibeSlug: "90s-supermodel"})
	if err == nil {
		t.Fatal("run persistence failure must fail the request")
	}
}

func TestGenerateNoVibeIsNeutral(t *testing.T) {
	runs := &fakeRunSaver{}
	svc := newGenerateService(&fakeLookRepo{}, &fakeVibeRepo{}, runs, nil)

	run, err := svc.Generate(context.Background(), 7, GenerateInput{})
	if err != nil {
		t.Fatalf("Generate without vibe: %v", err)
	}
	if run.VibeSlug != "" {
		t.Errorf("vibe slug = %q", run.VibeSlug)
	}
	// neutral vibe: nothing is gated, so no candidate is forced to bridge by it
	for _, rec := range run.Recommendations {
		if rec.ConfidenceScore <= 0 {
			t.Errorf("score = %v", rec.ConfidenceScore)
		}
	}
}

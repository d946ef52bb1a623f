package recommend

import (
	"testing"

	"denimatch/business/taste"
	"denimatch/domain"
)

func TestCosineDistance(t *testing.T) {
	if _, ok := CosineDistance(nil, []float32{1, 0}); ok {
		t.Error("missing vector should not produce a distance")
	}
	if _, ok := CosineDistance([]float32{1, 0}, []float32{1, 0, 0}); ok {
		t.Error("dimension mismatch should not produce a distance")
	}

	d, ok := CosineDistance([]float32{1, 0}, []float32{1, 0})
	if !ok || !almostEqual(d, 0) {
		t.Errorf("identical vectors: d=%v ok=%v", d, ok)
	}

	d, ok = CosineDistance([]float32{1, 0}, []float32{0, 1})
	if !ok || !almostEqual(d, 1) {
		t.Errorf("orthogonal vectors: d=%v ok=%v", d, ok)
	}
}

func TestRankAnchorsSkipsHidden(t *testing.T) {
	looks := []domain.Look{
		{ID: 1, Visible: true},
		{ID: 2, Visible: false},
		{ID: 3, Visible: true},
	}

	candidates := RankAnchors(looks, nil, nil, nil, nil, nil, taste.Summary{})

	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.Look.ID == 2 {
			t.Error("hidden look made it into the ranking")
		}
	}
}

func TestRankAnchorsPublicImageWins(t *testing.T) {
	looks := []domain.Look{
		{ID: 1, Visible: true},
		{ID: 2, Visible: true, ImagePublic: true, ImageURL: "https://cdn.example.com/2.jpg"},
	}

	candidates := RankAnchors(looks, nil, nil, nil, nil, nil, taste.Summary{})

	if candidates[0].Look.ID != 2 {
		t.Errorf("public-image look should rank first, got %d", candidates[0].Look.ID)
	}
}

func TestRankAnchorsVibeKeywordBonuses(t *testing.T) {
	looks := []domain.Look{
		{ID: 1, Visible: true, SilhouetteText: "tailored blazer"},
		{ID: 2, Visible: true, SilhouetteText: "baggy low rise denim", WashText: "light wash"},
	}

	candidates := RankAnchors(
		looks, nil, nil,
		[]string{"Baggy"}, []string{"Low"}, []string{"Light"},
		taste.Summary{},
	)

	if candidates[0].Look.ID != 2 {
		t.Errorf("keyword-matched look should rank first, got %d", candidates[0].Look.ID)
	}
	// 0.5 base + 0.10 fit + 0.10 rise + 0.10 wash
	if !almostEqual(candidates[0].Score, 0.8) {
		t.Errorf("score = %v, want 0.8", candidates[0].Score)
	}
}

func TestRankAnchorsDislikePenalty(t *testing.T) {
	looks := []domain.Look{
		{ID: 1, Visible: true, WashText: "acid wash"},
		{ID: 2, Visible: true, WashText: "dark wash"},
	}
	summary := taste.BuildSummary(map[string]float64{"wash_acid": -5.0})

	candidates := RankAnchors(looks, nil, nil, nil, nil, nil, summary)

	if candidates[0].Look.ID != 2 {
		t.Errorf("disliked-wash look should rank last, got %d", candidates[0].Look.ID)
	}
}

func TestRankAnchorsDistanceOrdering(t *testing.T) {
	looks := []domain.Look{
		{ID: 1, Visible: true},
		{ID: 2, Visible: true},
	}
	profile := []float32{1, 0}
	embeddings := map[uint][]float32{
		1: {0, 1},   // orthogonal, distance 1
		2: {1, 0.1}, // near, small distance
	}

	candidates := RankAnchors(looks, profile, embeddings, nil, nil, nil, taste.Summary{})

	if candidates[0].Look.ID != 2 {
		t.Errorf("closer look should rank first, got %d", candidates[0].Look.ID)
	}
	if candidates[0].Distance == nil || candidates[1].Distance == nil {
		t.Fatal("distances should be filled when embeddings exist")
	}
	if *candidates[0].Distance >= *candidates[1].Distance {
		t.Errorf("distances not ordered: %v vs %v", *candidates[0].Distance, *candidates[1].Distance)
	}
}

func TestRankAnchorsStableOnTies(t *testing.T) {
	looks := []domain.Look{
		{ID: 10, Visible: true},
		{ID: 11, Visible: true},
		{ID: 12, Visible: true},
	}

	candidates := RankAnchors(looks, nil, nil, nil, nil, nil, taste.Summary{})

	for i, want := range []uint{10, 11, 12} {
		if candidates[i].Look.ID != want {
			t.Errorf("tie order broken at %d: got %d, want %d", i, candidates[i].Look.ID, want)
		}
	}
}

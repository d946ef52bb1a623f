package recommend

import (
	"math"
	"testing"

	"denimatch/business/taste"
	"denimatch/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func baseRec() domain.Recommendation {
	return domain.Recommendation{
		Brand:          "Levi's",
		Model:          "501",
		EraInspiration: "90s",
		Fit:            "Straight",
		Rise:           "Mid",
		Wash:           "Medium",
		StretchLevel:   "Rigid",
	}
}

func TestScoreNeutralEverything(t *testing.T) {
	// no vibe constraints, no taste data, no anchor:
	// 0.12 + 0.58*0.7 + 0.22*0.5 + 0.08*0.25 = 0.656
	score, label, breakdown := ScoreRecommendation(baseRec(), nil, nil, taste.Summary{}, nil)

	if !almostEqual(score, 0.656) {
		t.Errorf("score = %v, want 0.656", score)
	}
	if label != LabelGood {
		t.Errorf("label = %q, want good", label)
	}
	if breakdown.VibeViolated || breakdown.DislikeHit || breakdown.WeakAnchor {
		t.Errorf("unexpected flags: %+v", breakdown)
	}
}

func TestScoreVibeViolationCapped(t *testing.T) {
	rec := baseRec()
	rec.Fit = "Baggy"

	score, label, breakdown := ScoreRecommendation(rec, []string{"Straight", "Slim"}, nil, taste.Summary{}, nil)

	if !breakdown.VibeViolated {
		t.Fatal("expected vibe violation")
	}
	if score > 0.25 {
		t.Errorf("violated score = %v, must not exceed 0.25", score)
	}
	if label != LabelBridge {
		t.Errorf("label = %q, want bridge", label)
	}
}

func TestScoreVibeSatisfied(t *testing.T) {
	score, _, breakdown := ScoreRecommendation(baseRec(), []string{"straight"}, []string{"mid"}, taste.Summary{}, nil)

	if breakdown.VibeScore != 1.0 {
		t.Errorf("vibe score = %v, want 1.0", breakdown.VibeScore)
	}
	// 0.12 + 0.58 + 0.11 + 0.02 = 0.83
	if !almostEqual(score, 0.83) {
		t.Errorf("score = %v, want 0.83", score)
	}
}

func TestScoreTasteLikesRaiseScore(t *testing.T) {
	summary := taste.BuildSummary(map[string]float64{
		"fit_straight": 5.0,
		"era_90s":      3.0,
	})

	_, _, breakdown := ScoreRecommendation(baseRec(), nil, nil, summary, nil)

	// two like hits in two groups: 0.5 + 2*0.1 = 0.7
	if !almostEqual(breakdown.TasteScore, 0.7) {
		t.Errorf("taste score = %v, want 0.7", breakdown.TasteScore)
	}
}

func TestScoreTasteLikeCapPerGroup(t *testing.T) {
	// three liked fits, but only the top two count and only one can match
	summary := taste.BuildSummary(map[string]float64{
		"fit_wide":     9.0,
		"fit_baggy":    8.0,
		"fit_straight": 7.0,
	})

	_, _, breakdown := ScoreRecommendation(baseRec(), nil, nil, summary, nil)

	// fit_straight is ranked third and never considered: no hits
	if !almostEqual(breakdown.TasteScore, 0.5) {
		t.Errorf("taste score = %v, want 0.5", breakdown.TasteScore)
	}
}

func TestScoreDislikeOverride(t *testing.T) {
	summary := taste.BuildSummary(map[string]float64{
		"wash_medium": -4.0,
	})

	score, label, breakdown := ScoreRecommendation(baseRec(), []string{"straight"}, nil, summary, nil)

	if !breakdown.DislikeHit {
		t.Fatal("expected dislike hit")
	}
	if score > 0.69 {
		t.Errorf("score = %v, must not exceed 0.69", score)
	}
	if label != LabelBridge {
		t.Errorf("label = %q, want bridge", label)
	}
}

func TestScoreWeakAnchorOverride(t *testing.T) {
	distance := 0.6

	score, label, breakdown := ScoreRecommendation(baseRec(), []string{"straight"}, nil, taste.Summary{}, &distance)

	if !breakdown.WeakAnchor {
		t.Fatal("expected weak anchor flag")
	}
	if score > 0.69 || label != LabelBridge {
		t.Errorf("score = %v label = %q, want ≤0.69 bridge", score, label)
	}
}

func TestAnchorStrength(t *testing.T) {
	at := func(d float64) float64 {
		return anchorStrength(&d)
	}

	if got := at(0.05); got != 1 {
		t.Errorf("distance 0.05: %v, want 1", got)
	}
	if got := at(0.10); got != 1 {
		t.Errorf("distance 0.10: %v, want 1", got)
	}
	if got := at(0.35); !almostEqual(got, 0.5) {
		t.Errorf("distance 0.35: %v, want 0.5", got)
	}
	if got := at(0.60); got != 0 {
		t.Errorf("distance 0.60: %v, want 0", got)
	}
	if got := at(0.90); got != 0 {
		t.Errorf("distance 0.90: %v, want 0", got)
	}
	if got := anchorStrength(nil); got != 0.25 {
		t.Errorf("nil distance: %v, want 0.25", got)
	}
	nan := math.NaN()
	if got := anchorStrength(&nan); got != 0.25 {
		t.Errorf("NaN distance: %v, want 0.25", got)
	}
	neg := -0.1
	if got := anchorStrength(&neg); got != 0.25 {
		t.Errorf("negative distance: %v, want 0.25", got)
	}
}

func TestLabelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		label string
	}{
		{0.78, LabelStrong},
		{0.95, LabelStrong},
		{0.779, LabelGood},
		{0.60, LabelGood},
		{0.599, LabelBridge},
		{0.0, LabelBridge},
	}
	for _, tc := range cases {
		if got := labelFor(tc.score); got != tc.label {
			t.Errorf("labelFor(%v) = %q, want %q", tc.score, got, tc.label)
		}
	}
}

func TestScoreAlwaysInRangeAndDeterministic(t *testing.T) {
	summary := taste.BuildSummary(map[string]float64{
		"fit_straight": 12.0,
		"era_90s":      8.0,
		"wash_light":   4.0,
		"rise_mid":     2.0,
		"wash_acid":    -9.0,
	})
	distance := 0.15

	first, firstLabel, _ := ScoreRecommendation(baseRec(), []string{"straight"}, []string{"mid"}, summary, &distance)
	if first < 0 || first > 1 {
		t.Errorf("score out of range: %v", first)
	}

	for i := 0; i < 10; i++ {
		again, label, _ := ScoreRecommendation(baseRec(), []string{"straight"}, []string{"mid"}, summary, &distance)
		if again != first || label != firstLabel {
			t.Fatalf("scorer not deterministic: %v/%v vs %v/%v", first, firstLabel, again, label)
		}
	}
}

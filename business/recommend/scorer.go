package recommend

import (
	"math"
	"strings"

	"denimatch/business/taste"
	"denimatch/domain"
)

const (
	LabelStrong = "strong"
	LabelGood   = "good"
	LabelBridge = "bridge"
)

// Scoring constants. The blend keeps a 0.12 floor so even a fully neutral
// candidate lands above zero, and the vibe gate dominates the weights.
const (
	weightBase   = 0.12
	weightVibe   = 0.58
	weightTaste  = 0.22
	weightAnchor = 0.08

	vibeViolationScore = 0.05
	vibeViolationCap   = 0.25
	vibeSatisfied      = 1.0
	vibeNeutral        = 0.7

	dislikePenalty = 1.2
	likeCapPerGroup    = 2
	dislikeCapPerGroup = 1
	// net taste points are mapped onto [0,1] around 0.5 at this slope
	tastePointScale = 0.1

	anchorMinDistance     = 0.10
	anchorDistanceRange   = 0.50
	anchorDefaultStrength = 0.25
	weakAnchorDistance    = 0.55

	overrideCap     = 0.69
	thresholdStrong = 0.78
	thresholdGood   = 0.60
)

// ScoreBreakdown carries the sub-scores for the debug surface.
type ScoreBreakdown struct {
	VibeScore    float64 `json:"vibe_score"`
	TasteScore   float64 `json:"taste_score"`
	AnchorScore  float64 `json:"anchor_score"`
	VibeViolated bool    `json:"vibe_violated"`
	DislikeHit   bool    `json:"dislike_hit"`
	WeakAnchor   bool    `json:"weak_anchor"`
}

// ScoreRecommendation computes the deterministic confidence score in [0,1]
// and its label for one generated candidate. Pure function: same inputs
// always produce the same output.
func ScoreRecommendation(
	rec domain.Recommendation,
	allowedFits []string,
	allowedRises []string,
	summary taste.Summary,
	anchorDistance *float64,
) (float64, string, ScoreBreakdown) {

	text := combinedText(rec)

	vibeScore, violated := vibeConstraintScore(rec, allowedFits, allowedRises)
	tasteScore := tasteMatchScore(summary, text)
	anchorScore := anchorStrength(anchorDistance)

	score := weightBase + weightVibe*vibeScore + weightTaste*tasteScore + weightAnchor*anchorScore
	if violated {
		score = math.Min(score, vibeViolationCap)
	}
	score = clamp01(score)

	// Override rules: a disliked keyword anywhere in the text, or a weak
	// anchor, can never display as better than bridge.
	dislikeHit := anyDislikeInText(summary, text)
	weakAnchor := anchorDistance != nil && *anchorDistance > weakAnchorDistance

	if dislikeHit || weakAnchor {
		score = math.Min(score, overrideCap)
	}

	label := labelFor(score)
	if dislikeHit || weakAnchor {
		label = LabelBridge
	}

	return score, label, ScoreBreakdown{
		VibeScore:    vibeScore,
		TasteScore:   tasteScore,
		AnchorScore:  anchorScore,
		VibeViolated: violated,
		DislikeHit:   dislikeHit,
		WeakAnchor:   weakAnchor,
	}
}

// vibeConstraintScore gates on the vibe's allowed fit/rise lists. An empty
// list constrains nothing.
func vibeConstraintScore(rec domain.Recommendation, allowedFits, allowedRises []string) (float64, bool) {
	if len(allowedFits) > 0 && !containsFold(allowedFits, rec.Fit) {
		return vibeViolationScore, true
	}
	if len(allowedRises) > 0 && !containsFold(allowedRises, rec.Rise) {
		return vibeViolationScore, true
	}
	if len(allowedFits) > 0 || len(allowedRises) > 0 {
		return vibeSatisfied, false
	}
	return vibeNeutral, false
}

// tasteMatchScore counts keyword hits of the top liked (2 per group) and
// disliked (1 per group) features in the candidate text, nets them at a 1.2x
// dislike penalty, and maps the total onto [0,1] around a 0.5 midpoint.
func tasteMatchScore(summary taste.Summary, text string) float64 {
	if summary.Empty() {
		return 0.5
	}

	net := 0.0
	for _, g := range taste.Groups {
		likeHits := 0
		for _, key := range capKeys(summary.Likes[g], likeCapPerGroup) {
			if taste.KeyInText(key, text) {
				likeHits++
			}
		}
		dislikeHits := 0
		for _, key := range capKeys(summary.Dislikes[g], dislikeCapPerGroup) {
			if taste.KeyInText(key, text) {
				dislikeHits++
			}
		}
		net += float64(likeHits) - dislikePenalty*float64(dislikeHits)
	}

	return clamp01(0.5 + net*tastePointScale)
}

// anchorStrength maps the anchor embedding distance onto [0,1]: distance at
// or below 0.10 is maximal, at or above 0.60 is zero, linear in between.
// Missing or invalid distance defaults to a low-but-nonzero strength.
func anchorStrength(distance *float64) float64 {
	if distance == nil || math.IsNaN(*distance) || *distance < 0 {
		return anchorDefaultStrength
	}
	return clamp01(1 - (*distance-anchorMinDistance)/anchorDistanceRange)
}

func anyDislikeInText(summary taste.Summary, text string) bool {
	for _, key := range summary.AllDislikes() {
		if taste.KeyInText(key, text) {
			return true
		}
	}
	return false
}

func labelFor(score float64) string {
	switch {
	case score >= thresholdStrong:
		return LabelStrong
	case score >= thresholdGood:
		return LabelGood
	default:
		return LabelBridge
	}
}

func combinedText(rec domain.Recommendation) string {
	return strings.Join([]string{
		rec.Brand,
		rec.Model,
		rec.EraInspiration,
		rec.Fit,
		rec.Rise,
		rec.Wash,
		rec.StretchLevel,
		rec.WhyPick,
		rec.AnchorReason,
	}, " ")
}

func capKeys(keys []string, limit int) []string {
	if len(keys) > limit {
		return keys[:limit]
	}
	return keys
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

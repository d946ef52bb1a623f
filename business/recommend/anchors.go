package recommend

import (
	"sort"
	"strings"

	"denimatch/business/taste"
	"denimatch/domain"

	"github.com/viterin/vek/vek32"
)

// Heuristic bonuses/penalties added on top of the 1-distance base when
// ranking anchor candidates.
const (
	bonusPublicImage  = 0.15
	bonusFitMatch     = 0.10
	bonusRiseMatch    = 0.10
	bonusWashMatch    = 0.10
	penaltyDislikeHit = 0.10

	// distance used when a look has no embedding to compare against
	neutralAnchorDistance = 0.5
)

// AnchorCandidate is one ranked celebrity look offered to the generation step.
type AnchorCandidate struct {
	Look     domain.Look `json:"look"`
	Distance *float64    `json:"distance,omitempty"`
	Score    float64     `json:"score"`
}

// CosineDistance returns 1 - cosine similarity of two embeddings. The second
// return is false when either vector is missing or the dimensions disagree.
func CosineDistance(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}
	sim := float64(vek32.CosineSimilarity(a, b))
	return 1 - sim, true
}

// RankAnchors scores every visible look and orders the candidates descending.
// The sort is stable, so equal scores keep catalog order. This ranking
// decides which anchor_look_id values are reachable by generation at all.
func RankAnchors(
	looks []domain.Look,
	profileEmbedding []float32,
	lookEmbeddings map[uint][]float32,
	allowedFits []string,
	allowedRises []string,
	preferredWashes []string,
	summary taste.Summary,
) []AnchorCandidate {

	candidates := make([]AnchorCandidate, 0, len(looks))

	for _, look := range looks {
		if !look.Visible {
			continue
		}

		var distance *float64
		if d, ok := CosineDistance(profileEmbedding, lookEmbeddings[look.ID]); ok {
			distance = &d
		}

		candidates = append(candidates, AnchorCandidate{
			Look:     look,
			Distance: distance,
			Score:    anchorScore(look, distance, allowedFits, allowedRises, preferredWashes, summary),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

func anchorScore(
	look domain.Look,
	distance *float64,
	allowedFits []string,
	allowedRises []string,
	preferredWashes []string,
	summary taste.Summary,
) float64 {

	d := neutralAnchorDistance
	if distance != nil {
		d = *distance
	}
	score := 1 - d

	if look.ImagePublic && look.ImageURL != "" {
		score += bonusPublicImage
	}

	styleText := strings.ToLower(look.SilhouetteText + " " + look.CanonicalText)
	washText := strings.ToLower(look.WashText + " " + look.CanonicalText)

	if containsAnyKeyword(styleText, allowedFits) {
		score += bonusFitMatch
	}
	if containsAnyKeyword(styleText, allowedRises) {
		score += bonusRiseMatch
	}
	if containsAnyKeyword(washText, preferredWashes) {
		score += bonusWashMatch
	}

	fullText := styleText + " " + washText
	for _, g := range []taste.Group{taste.GroupWash, taste.GroupFabric} {
		for _, key := range summary.Dislikes[g] {
			if taste.KeyInText(key, fullText) {
				score -= penaltyDislikeHit
			}
		}
	}

	return score
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

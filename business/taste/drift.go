package taste

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// GroupDrift is the accumulated movement of one feature group across
// consecutive snapshots.
type GroupDrift struct {
	Group      Group   `json:"group"`
	TotalShift float64 `json:"total_shift"`
	MaxShift   float64 `json:"max_shift"`
}

type DriftReport struct {
	ProfileID  uint         `json:"profile_id"`
	Snapshots  int          `json:"snapshots"`
	From       *time.Time   `json:"from,omitempty"`
	To         *time.Time   `json:"to,omitempty"`
	Volatility float64      `json:"volatility"`
	Groups     []GroupDrift `json:"groups"`
}

// Drift compares up to limit recent snapshots and reports per-group movement.
// Snapshots exist for exactly this retrospective analysis.
func (s *Service) Drift(ctx context.Context, profileID uint, limit int) (DriftReport, error) {
	if limit <= 1 {
		limit = 10
	}

	snapshots, err := s.snapshotRepo.FindByProfile(ctx, profileID, limit)
	if err != nil {
		return DriftReport{}, fmt.Errorf("load snapshots: %w", err)
	}

	report := DriftReport{ProfileID: profileID, Snapshots: len(snapshots)}
	if len(snapshots) < 2 {
		return report, nil
	}

	// FindByProfile returns newest first; walk oldest to newest.
	vectors := make([]map[string]float64, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		var vector map[string]float64
		if err := json.Unmarshal(snapshots[i].Vector, &vector); err != nil {
			return DriftReport{}, fmt.Errorf("decode snapshot vector: %w", err)
		}
		vectors = append(vectors, vector)
	}

	from := snapshots[len(snapshots)-1].CreatedAt
	to := snapshots[0].CreatedAt
	report.From = &from
	report.To = &to

	totals := make(map[Group]float64)
	maxima := make(map[Group]float64)

	for i := 1; i < len(vectors); i++ {
		prev, curr := vectors[i-1], vectors[i]

		keys := make(map[string]struct{}, len(prev)+len(curr))
		for k := range prev {
			keys[k] = struct{}{}
		}
		for k := range curr {
			keys[k] = struct{}{}
		}

		for key := range keys {
			group, ok := GroupOf(key)
			if !ok {
				continue
			}
			shift := math.Abs(curr[key] - prev[key])
			totals[group] += shift
			if shift > maxima[group] {
				maxima[group] = shift
			}
			report.Volatility += shift
		}
	}

	for _, g := range Groups {
		if totals[g] == 0 {
			continue
		}
		report.Groups = append(report.Groups, GroupDrift{
			Group:      g,
			TotalShift: totals[g],
			MaxShift:   maxima[g],
		})
	}

	return report, nil
}

package taste

import (
	"reflect"
	"testing"
)

func TestBuildSummaryGroupsAndOrders(t *testing.T) {
	vector := map[string]float64{
		"fit_baggy":    5.2,
		"fit_wide":     7.0,
		"fit_skinny":   -3.1,
		"wash_light":   2.4,
		"wash_acid":    -0.8,
		"era_y2k":      1.1,
		"fabric_rigid": 0.0, // zero == absent
	}

	summary := BuildSummary(vector)

	if want := []string{"fit_wide", "fit_baggy"}; !reflect.DeepEqual(summary.Likes[GroupFit], want) {
		t.Errorf("fit likes = %v, want %v", summary.Likes[GroupFit], want)
	}
	if want := []string{"fit_skinny"}; !reflect.DeepEqual(summary.Dislikes[GroupFit], want) {
		t.Errorf("fit dislikes = %v, want %v", summary.Dislikes[GroupFit], want)
	}
	if want := []string{"wash_light"}; !reflect.DeepEqual(summary.Likes[GroupWash], want) {
		t.Errorf("wash likes = %v, want %v", summary.Likes[GroupWash], want)
	}
	if want := []string{"wash_acid"}; !reflect.DeepEqual(summary.Dislikes[GroupWash], want) {
		t.Errorf("wash dislikes = %v, want %v", summary.Dislikes[GroupWash], want)
	}
	if len(summary.Likes[GroupFabric]) != 0 || len(summary.Dislikes[GroupFabric]) != 0 {
		t.Errorf("zero-valued key must not appear: %v / %v",
			summary.Likes[GroupFabric], summary.Dislikes[GroupFabric])
	}
}

func TestBuildSummaryTieBreaksOnKey(t *testing.T) {
	vector := map[string]float64{
		"wash_dark":  2.0,
		"wash_black": 2.0,
	}

	summary := BuildSummary(vector)

	if want := []string{"wash_black", "wash_dark"}; !reflect.DeepEqual(summary.Likes[GroupWash], want) {
		t.Errorf("tie break = %v, want %v", summary.Likes[GroupWash], want)
	}
}

func TestSummaryEmpty(t *testing.T) {
	if !BuildSummary(nil).Empty() {
		t.Error("nil vector should summarize empty")
	}
	if !BuildSummary(map[string]float64{"unknown_key": 3}).Empty() {
		t.Error("keys outside the vocabulary groups carry no taste data")
	}
	if BuildSummary(map[string]float64{"fit_flare": 0.7}).Empty() {
		t.Error("non-empty vector should not be empty")
	}
}

func TestSummaryAllDislikes(t *testing.T) {
	summary := BuildSummary(map[string]float64{
		"era_80s":      -1.0,
		"fit_skinny":   -2.0,
		"wash_acid":    -3.0,
		"fabric_rigid": 4.0,
	})

	got := summary.AllDislikes()
	want := []string{"era_80s", "fit_skinny", "wash_acid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllDislikes = %v, want %v", got, want)
	}
}

package taste

import (
	"reflect"
	"testing"
)

func TestExtractFeaturesBasics(t *testing.T) {
	got := ExtractFeatures("90s", "Straight", "High", "Light wash", "No stretch")
	want := []string{"era_90s", "fit_straight", "rise_high", "wash_light", "fabric_rigid"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatures = %v, want %v", got, want)
	}
}

func TestExtractFeaturesCaseInsensitive(t *testing.T) {
	got := ExtractFeatures("Y2K low-rise BAGGY", "", "", "", "")
	want := []string{"era_y2k", "fit_baggy", "rise_low"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatures = %v, want %v", got, want)
	}
}

func TestExtractFeaturesSpecificPatternsWin(t *testing.T) {
	// "no stretch" maps to rigid only; the contained "stretch" pattern is
	// consumed and must not fire.
	got := ExtractFeatures("rigid denim, no stretch")
	want := []string{"fabric_rigid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatures = %v, want %v", got, want)
	}

	// genuine stretch still extracts
	got = ExtractFeatures("comfort stretch denim")
	want = []string{"fabric_stretch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatures = %v, want %v", got, want)
	}
}

func TestExtractFeaturesDeduplicates(t *testing.T) {
	got := ExtractFeatures("distressed", "ripped", "distress detailing")
	want := []string{"wash_distressed"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatures = %v, want %v", got, want)
	}
}

func TestExtractFeaturesEmpty(t *testing.T) {
	if got := ExtractFeatures("", "  ", ""); got != nil {
		t.Errorf("ExtractFeatures on blank input = %v, want nil", got)
	}
}

func TestExtractFeaturesDeterministic(t *testing.T) {
	first := ExtractFeatures("light wash baggy high rise 90s")
	for i := 0; i < 20; i++ {
		again := ExtractFeatures("light wash baggy high rise 90s")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extraction order varies: %v vs %v", first, again)
		}
	}
}

func TestGroupOf(t *testing.T) {
	cases := map[string]Group{
		"era_90s":       GroupEra,
		"fit_bootcut":   GroupFit,
		"rise_low":      GroupRise,
		"wash_stone":    GroupWash,
		"fabric_rigid":  GroupFabric,
	}
	for key, want := range cases {
		got, ok := GroupOf(key)
		if !ok || got != want {
			t.Errorf("GroupOf(%q) = %v, %v; want %v", key, got, ok, want)
		}
	}

	if _, ok := GroupOf("color_blue"); ok {
		t.Error("GroupOf should reject unknown prefixes")
	}
}

func TestKeyInText(t *testing.T) {
	if !KeyInText("wash_distressed", "lightly RIPPED knees") {
		t.Error("synonym lookup should match ripped")
	}
	if !KeyInText("fit_bootcut", "a boot cut silhouette") {
		t.Error("multi-word synonym should match")
	}
	if KeyInText("wash_black", "light blue wash") {
		t.Error("unrelated text should not match")
	}
	if KeyInText("unknown_key", "anything") {
		t.Error("keys outside the vocabulary never match")
	}
}

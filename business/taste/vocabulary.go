package taste

import "strings"

// Feature groups. Every canonical feature key is namespaced by its group
// prefix (era_, fit_, rise_, wash_, fabric_).
type Group string

const (
	GroupEra    Group = "era"
	GroupFit    Group = "fit"
	GroupRise   Group = "rise"
	GroupWash   Group = "wash"
	GroupFabric Group = "fabric"
)

var Groups = []Group{GroupEra, GroupFit, GroupRise, GroupWash, GroupFabric}

type vocabEntry struct {
	pattern string
	key     string
}

// vocabulary maps case-insensitive substring patterns to canonical feature
// keys. Entries are checked in order, so more specific patterns must come
// before patterns they contain ("no stretch" before "stretch", "bootcut"
// before "boot").
var vocabulary = map[Group][]vocabEntry{
	GroupEra: {
		{"y2k", "era_y2k"},
		{"2000", "era_y2k"},
		{"90", "era_90s"},
		{"80", "era_80s"},
		{"70", "era_70s"},
		{"60", "era_60s"},
	},
	GroupFit: {
		{"skinny", "fit_skinny"},
		{"slim", "fit_slim"},
		{"straight", "fit_straight"},
		{"bootcut", "fit_bootcut"},
		{"boot cut", "fit_bootcut"},
		{"flare", "fit_flare"},
		{"baggy", "fit_baggy"},
		{"wide", "fit_wide"},
		{"barrel", "fit_barrel"},
		{"relaxed", "fit_relaxed"},
		{"loose", "fit_relaxed"},
	},
	GroupRise: {
		{"high", "rise_high"},
		{"mid", "rise_mid"},
		{"low", "rise_low"},
	},
	GroupWash: {
		{"light", "wash_light"},
		{"medium", "wash_medium"},
		{"dark", "wash_dark"},
		{"black", "wash_black"},
		{"white", "wash_white"},
		{"ecru", "wash_white"},
		{"acid", "wash_acid"},
		{"stone", "wash_stone"},
		{"distress", "wash_distressed"},
		{"ripped", "wash_distressed"},
	},
	GroupFabric: {
		{"no stretch", "fabric_rigid"},
		{"non-stretch", "fabric_rigid"},
		{"rigid", "fabric_rigid"},
		{"100% cotton", "fabric_rigid"},
		{"selvedge", "fabric_selvedge"},
		{"raw", "fabric_raw"},
		{"stretch", "fabric_stretch"},
	},
}

// GroupOf returns the group a canonical key belongs to by prefix.
func GroupOf(key string) (Group, bool) {
	for _, g := range Groups {
		if strings.HasPrefix(key, string(g)+"_") {
			return g, true
		}
	}
	return "", false
}

// ExtractFeatures derives the deduplicated canonical feature keys present in
// the given text fields. Matching is case-insensitive substring containment
// against the vocabulary; the result order follows group order then
// vocabulary order, so extraction is fully deterministic. Within a group,
// matched patterns are consumed so "no stretch" yields fabric_rigid without
// also firing the contained "stretch" pattern.
func ExtractFeatures(fields ...string) []string {
	text := strings.ToLower(strings.Join(fields, " "))
	if strings.TrimSpace(text) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var keys []string

	for _, g := range Groups {
		remaining := text
		for _, entry := range vocabulary[g] {
			if !strings.Contains(remaining, entry.pattern) {
				continue
			}
			remaining = strings.ReplaceAll(remaining, entry.pattern, " ")
			if _, ok := seen[entry.key]; ok {
				continue
			}
			seen[entry.key] = struct{}{}
			keys = append(keys, entry.key)
		}
	}

	return keys
}

// KeywordsFor returns every vocabulary pattern that maps to the given
// canonical key, i.e. the key's synonym list.
func KeywordsFor(key string) []string {
	g, ok := GroupOf(key)
	if !ok {
		return nil
	}

	var patterns []string
	for _, entry := range vocabulary[g] {
		if entry.key == key {
			patterns = append(patterns, entry.pattern)
		}
	}
	return patterns
}

// KeyInText reports whether any synonym of the canonical key appears in the
// text (case-insensitive).
func KeyInText(key, text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range KeywordsFor(key) {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

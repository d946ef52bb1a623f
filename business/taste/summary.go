package taste

import "sort"

// Summary is the grouped view of a taste vector used by the scorer and the
// generation prompt: liked and disliked canonical keys per group, strongest
// first.
type Summary struct {
	Likes    map[Group][]string `json:"likes"`
	Dislikes map[Group][]string `json:"dislikes"`
}

// BuildSummary splits a vector into per-group liked (positive) and disliked
// (negative) keys, ordered by affinity magnitude descending. Keys at or
// within epsilon of zero contribute nothing, so zero and absent are
// equivalent.
func BuildSummary(vector map[string]float64) Summary {
	summary := Summary{
		Likes:    make(map[Group][]string),
		Dislikes: make(map[Group][]string),
	}

	type entry struct {
		key       string
		magnitude float64
	}
	likes := make(map[Group][]entry)
	dislikes := make(map[Group][]entry)

	for key, value := range vector {
		group, ok := GroupOf(key)
		if !ok {
			continue
		}
		switch {
		case value > zeroEpsilon:
			likes[group] = append(likes[group], entry{key, value})
		case value < -zeroEpsilon:
			dislikes[group] = append(dislikes[group], entry{key, -value})
		}
	}

	order := func(entries []entry) []string {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].magnitude == entries[j].magnitude {
				return entries[i].key < entries[j].key
			}
			return entries[i].magnitude > entries[j].magnitude
		})
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, e.key)
		}
		return keys
	}

	for group, entries := range likes {
		summary.Likes[group] = order(entries)
	}
	for group, entries := range dislikes {
		summary.Dislikes[group] = order(entries)
	}

	return summary
}

// Empty reports whether the summary carries no taste data at all.
func (s Summary) Empty() bool {
	for _, keys := range s.Likes {
		if len(keys) > 0 {
			return false
		}
	}
	for _, keys := range s.Dislikes {
		if len(keys) > 0 {
			return false
		}
	}
	return true
}

// AllDislikes returns every disliked key across groups, used by the
// dislike-override scan which is not subject to per-group caps.
func (s Summary) AllDislikes() []string {
	var keys []string
	for _, g := range Groups {
		keys = append(keys, s.Dislikes[g]...)
	}
	return keys
}

package recommend

import "denimatch/domain"

// stubCandidates is the fixed fallback set served when the generation call
// fails or returns unusable output. Stubs still pass through the scorer, so
// the degraded response keeps honest confidence labels.
func stubCandidates() []domain.Recommendation {
	return []domain.Recommendation{
		{
			Brand:          "Levi's",
			Model:          "501 Original",
			EraInspiration: "90s minimalism",
			Fit:            "Straight",
			Rise:           "Mid rise",
			Wash:           "Medium indigo",
			StretchLevel:   "Rigid, 100% cotton",
			WhyPick:        "The default straight-leg blank canvas that works under almost any vibe.",
		},
		{
			Brand:          "Agolde",
			Model:          "Criss Cross",
			EraInspiration: "90s supermodel off-duty",
			Fit:            "Relaxed",
			Rise:           "High rise",
			Wash:           "Light vintage",
			StretchLevel:   "Rigid",
			WhyPick:        "A high-rise relaxed leg with a lived-in light wash for an effortless silhouette.",
		},
		{
			Brand:          "Citizens of Humanity",
			Model:          "Ayla Baggy",
			EraInspiration: "Y2K revival",
			Fit:            "Baggy",
			Rise:           "Mid rise",
			Wash:           "Dark rinse",
			StretchLevel:   "No stretch",
			WhyPick:        "A clean dark baggy cut for days that call for more volume.",
		},
	}
}

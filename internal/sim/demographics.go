package sim

// Demographics is the static demographic model: ideal stances, how strongly
// each segment reacts to platform fit, and the party brand archetypes.
// It is pure configuration; nothing mutates it after loading.
type Demographics struct {
	Ideals      DemoPlatforms  `yaml:"ideals"`
	Sensitivity DemoWeights    `yaml:"sensitivity"`
	Parties     PartyPlatforms `yaml:"parties"`
}

// stanceDistance returns the mean absolute axis distance normalized to 0..1.
func stanceDistance(a, b Platform) float64 {
	total := 0
	for _, axis := range AllAxes {
		diff := a[axis] - b[axis]
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return float64(total) / float64(NumAxes) / 100.0
}

// PlatformFit scores how well a platform matches a segment's ideals, in [-1,+1].
// An average-distance platform scores below zero, not neutral.
func (m *Demographics) PlatformFit(p Platform, d Demo) float64 {
	fit := 1.0 - stanceDistance(p, m.Ideals[d])
	return fit*2.0 - 1.0
}

// PartyMismatch measures how far a platform strays from its party's brand, in [0,1].
func (m *Demographics) PartyMismatch(p Platform, party Party) float64 {
	if party < PartyIndependent || party > PartyRepublican {
		party = PartyIndependent
	}
	return stanceDistance(p, m.Parties[party])
}

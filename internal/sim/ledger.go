package sim

import (
	"fmt"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// Pct formats a fraction as a percentage with one decimal.
func Pct(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}

// OverallSupport is the district-weighted sum of per-demographic support.
// With weights summing to 1 it is a convex combination of the ledger.
func OverallSupport(d *District, support DemoWeights) float64 {
	total := 0.0
	for _, demo := range AllDemos {
		total += d.Demos[demo] * support[demo]
	}
	return total
}

// ShiftSupport returns the ledger after one headline shift. Every demographic
// moves by delta*amp*weight plus a structural pull toward the district's lean,
// then is clamped to the support bounds.
func ShiftSupport(t SupportTuning, d *District, support DemoWeights, delta float64, weights DemoWeights) DemoWeights {
	amp := d.Volatility * (1.0 + t.MediaAmp*d.MediaIntensity)
	pull := d.PartisanLean * t.LeanPull

	out := support
	for _, demo := range AllDemos {
		shift := delta*amp*weights[demo] + pull*d.Demos[demo]
		out[demo] = clampf(out[demo]+shift, t.Floor, t.Ceiling)
	}
	return out
}

// InitialSupportByDemo computes a fresh ledger from the district lean, the
// candidate's platform fit per segment, and the party-brand penalty.
func InitialSupportByDemo(t *Tuning, d *District, c *Candidate) DemoWeights {
	st := t.Support
	base := st.InitialBase + d.PartisanLean*st.InitialLean
	penalty := st.PartyMismatchPenalty * t.Demographics.PartyMismatch(c.Platform, c.Party)

	var out DemoWeights
	for _, demo := range AllDemos {
		fit := t.Demographics.PlatformFit(c.Platform, demo) * t.Demographics.Sensitivity[demo]
		out[demo] = clampf(base+st.FitEffect*fit-penalty, st.Floor, st.Ceiling)
	}
	return out
}

// ApplySupportShift is the only path by which the ledger changes.
// It logs the reason together with the resulting overall support.
func (c *Campaign) ApplySupportShift(delta float64, reason string, weights DemoWeights) {
	s := c.State
	s.Support = ShiftSupport(c.tuning.Support, s.District, s.Support, delta, weights)
	s.Logf(log.EventSupportShift, "%s => support %s", reason, Pct(s.OverallSupport()))
}

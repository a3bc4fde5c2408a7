package sim

import (
	"fmt"
	"math"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// earnedMediaTick converts lingering earned media into a small support bump.
// The decay itself happens once, in weeklyDecay.
func (c *Campaign) earnedMediaTick() {
	s := c.State
	if s.EarnedMedia <= 0 {
		return
	}
	bump := c.tuning.EarnedMedia.Bump * s.EarnedMedia
	c.ApplySupportShift(bump, "Earned media tailwind", UniformWeights())
	s.Logf(log.EventEarnedMedia, "Earned media effect this week: +%s support-ish (small but real).", Pct(bump))
}

// PaidMediaSpend returns what the ad buy costs this week: a fraction of cash,
// never above the cap, never dipping below the cash floor, and zero when the
// result is not worth running.
func PaidMediaSpend(t PaidMediaTuning, cash int) int {
	spend := min(t.Cap, int(float64(cash)*t.SpendFraction), cash-t.CashFloor)
	if spend < t.MinSpend || spend <= 0 {
		return 0
	}
	return spend
}

func (c *Campaign) paidMedia() {
	s, pt := c.State, c.tuning.PaidMedia
	spend := PaidMediaSpend(pt, s.You.Cash)
	if spend == 0 {
		return
	}
	s.You.Cash -= spend
	s.You.Clamp()
	eff := (pt.BaseEffect + float64(spend)*pt.PerThousand) * (1.0 + s.NameID*pt.NameIDFactor)
	c.ApplySupportShift(eff, fmt.Sprintf("Paid media ($%dk)", spend), UniformWeights())
	s.Logf(log.EventPaidMedia, "Ads run: spent $%dk.", spend)
}

// scandalCheck runs two independent trials: one against the candidate, one
// against the opponent. Both can fire in the same week.
func (c *Campaign) scandalCheck() {
	s, st := c.State, c.tuning.Scandal
	media := s.District.MediaIntensity

	youRisk := st.CandidateMedia*media + st.CandidateFatigue*(s.You.Fatigue/MaxFatigue)
	if chance(c.rng, youRisk) {
		dmg := math.Abs(roll(c.rng, st.DamageMean, st.DamageSigma))
		c.ApplySupportShift(-dmg, "Minor scandal hits you", UniformWeights())
		s.You.Momentum += st.CandidateMomentum
		s.You.Clamp()
		s.Log(log.EventScandal, "A sloppy old quote resurfaces. It's not fatal, but it's annoying.")
	}

	oppRisk := st.OpponentMedia * media * s.Opponent.ScandalRisk
	if chance(c.rng, oppRisk) {
		gain := math.Abs(roll(c.rng, st.GainMean, st.GainSigma))
		c.ApplySupportShift(gain, "Opponent stumbles", UniformWeights())
		s.You.Momentum += st.OpponentMomentum
		s.You.Clamp()
		s.Log(log.EventOpponentStumble, "Your opponent steps on a rake. You don't even have to swing.")
	}
}

// weeklyDecay fades transient state. Fatigue drifts up by a fixed amount and
// is pulled back by stamina, so high-stamina candidates recover on their own.
func (c *Campaign) weeklyDecay() {
	s, dt := c.State, c.tuning.Decay
	s.EarnedMedia *= dt.EarnedMedia
	s.Enthusiasm -= dt.Enthusiasm
	s.You.Momentum *= dt.Momentum
	s.You.Fatigue += dt.FatigueDrift - float64(s.You.Stamina)*dt.StaminaRelief
	s.clamp(c.tuning)
}

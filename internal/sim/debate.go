package sim

import (
	"sort"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// DebateWeeks returns the phase's scheduled debate weeks that fall inside the
// phase, ascending.
func DebateWeeks(t *Tuning, phase Phase, weeksInPhase int) []int {
	sched := t.Debate.PrimaryWeeks
	if phase == PhaseGeneral {
		sched = t.Debate.GeneralWeeks
	}
	out := make([]int, 0, len(sched))
	for _, w := range sched {
		if w >= 1 && w <= weeksInPhase {
			out = append(out, w)
		}
	}
	sort.Ints(out)
	return out
}

// NextDebateWeek returns the first debate week at or after week, or 0 when
// none remain in the phase.
func NextDebateWeek(t *Tuning, phase Phase, week, weeksInPhase int) int {
	for _, w := range DebateWeeks(t, phase, weeksInPhase) {
		if w >= week {
			return w
		}
	}
	return 0
}

func isDebateWeek(t *Tuning, s *State) bool {
	for _, w := range DebateWeeks(t, s.Phase, s.WeeksInPhase) {
		if w == s.Week {
			return true
		}
	}
	return false
}

// DebateReport describes one debate night.
type DebateReport struct {
	Week      int
	Phase     Phase
	Opponent  string
	YouPower  float64
	OppPower  float64
	Perf      float64
	Prepared  bool // prep bonus applied
	Band      DebateBand
	Headline  string
	Zinger    bool
	Viral     float64
	Backfire  bool
	Delta     float64 // headline delta passed to the ledger
	Momentum  float64 // momentum change from the band
	SupportAt float64 // overall support after the debate
}

// ClassifyDebate maps a performance draw onto its outcome band.
func ClassifyDebate(d DebateTuning, perf float64) DebateBand {
	switch {
	case perf > d.Dominate.Above:
		return BandDominate
	case perf > d.Win.Above:
		return BandWin
	case perf > d.Wash.Above:
		return BandWash
	case perf > d.Lose.Above:
		return BandLose
	default:
		return BandFaceplant
	}
}

// debatePower is the candidate's pre-noise strength on stage.
func debatePower(d DebateTuning, you *Candidate, prepared bool) float64 {
	p := d.CharismaWeight*float64(you.Charisma) +
		d.DisciplineWeight*float64(you.Discipline) +
		d.EmpathyWeight*float64(you.Empathy) +
		d.MomentumWeight*you.Momentum -
		d.FatiguePenalty*you.Fatigue
	if prepared {
		p += d.PrepBonus
	}
	return p
}

// debate resolves a scheduled debate. The prepared flag is consumed whatever
// the outcome.
func (c *Campaign) debate() *DebateReport {
	s, dt := c.State, c.tuning.Debate
	zt := dt.Zinger
	media := s.District.MediaIntensity

	s.Log(log.EventDebate, "--- DEBATE NIGHT ---")

	r := &DebateReport{
		Week:     s.Week,
		Phase:    s.Phase,
		Opponent: s.Opponent.Name,
		Prepared: s.Prepared,
	}
	r.YouPower = debatePower(dt, s.You, s.Prepared)
	s.Prepared = false

	r.OppPower = float64(s.Opponent.Skill) + roll(c.rng, 0, dt.OpponentSigma)
	r.Perf = roll(c.rng, r.YouPower-r.OppPower, dt.Sigma)

	zingerChance := clampf(
		zt.Base+float64(s.You.Charisma)/zt.CharismaDivisor+float64(s.You.Platform[AxisTone])/zt.ToneDivisor+zt.MediaFactor*(media-1.0),
		zt.MinChance, zt.MaxChance)
	r.Zinger = chance(c.rng, zingerChance) && r.Perf > zt.PerfFloor

	r.Band = ClassifyDebate(dt, r.Perf)
	band := dt.Band(r.Band)
	r.Headline = band.Headline
	r.Delta = band.Delta
	r.Momentum = band.Momentum
	s.You.Momentum += band.Momentum

	if r.Zinger {
		tone := float64(s.You.Platform[AxisTone])
		r.Viral = clampf(zt.ViralBase+tone/zt.ViralToneDivisor+(media-1.0)*zt.ViralMediaFactor, zt.ViralMin, zt.ViralMax)
		s.EarnedMedia += r.Viral

		backfireChance := clampf(zt.BackfireBase+tone/zt.BackfireToneDivisor-float64(s.You.Empathy)/zt.BackfireEmpathyDivisor,
			zt.BackfireMin, zt.BackfireMax)
		r.Backfire = chance(c.rng, backfireChance)
		if r.Backfire {
			r.Delta += zt.BackfireDelta
			s.Enthusiasm += zt.BackfireEnthusiasm
			s.Log(log.EventZinger, "Your zinger goes viral, but people also call it mean. Some soft support leaks.")
		} else {
			r.Delta += zt.SuccessDelta
			s.Enthusiasm += zt.SuccessEnthusiasm
			s.Log(log.EventZinger, "You land a zinger that becomes a clip machine. Earned media surges.")
		}
	}
	s.clamp(c.tuning)

	c.ApplySupportShift(r.Delta, "Debate night: "+r.Headline, dt.Weights)
	s.You.Fatigue += dt.Fatigue
	s.clamp(c.tuning)

	r.SupportAt = s.OverallSupport()
	return r
}

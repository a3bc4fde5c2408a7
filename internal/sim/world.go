package sim

import (
	"fmt"
	"sort"
	"strings"
)

// District is the electorate for one campaign. It is only replaced by the
// world generator.
type District struct {
	Name           string
	PartisanLean   float64 // + favors your party, - favors the opponent
	MediaIntensity float64
	Volatility     float64
	Demos          DemoWeights // sums to 1
	TurnoutBase    float64
}

// Opponent is the rival for the current phase.
type Opponent struct {
	Name        string
	Archetype   string
	Skill       int
	ScandalRisk float64
}

func (o *Opponent) String() string {
	return fmt.Sprintf("%s (%s, skill %d)", o.Name, o.Archetype, o.Skill)
}

// DemoShare is one segment's share of the district.
type DemoShare struct {
	Demo  Demo
	Share float64
}

// RankedDemos returns the district's segments by share, largest first.
// Ties keep canonical order.
func (d *District) RankedDemos() []DemoShare {
	out := make([]DemoShare, 0, NumDemos)
	for _, demo := range AllDemos {
		out = append(out, DemoShare{Demo: demo, Share: d.Demos[demo]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Share > out[j].Share })
	return out
}

// LeanLabel summarizes the partisan lean.
func (d *District) LeanLabel() string {
	switch {
	case d.PartisanLean > 0.05:
		return "leans you"
	case d.PartisanLean < -0.05:
		return "leans opponent"
	default:
		return "toss-up"
	}
}

// Describe returns a multi-line summary of the district.
func (d *District) Describe() string {
	ranked := d.RankedDemos()
	top := make([]string, 0, 3)
	for _, ds := range ranked[:3] {
		top = append(top, fmt.Sprintf("%s:%d%%", ds.Demo, int(ds.Share*100)))
	}
	return fmt.Sprintf("District: %s (%s)\n  Top demos: %s\n  Media intensity: %.2f | Volatility: %.2f | Turnout base: %.2f",
		d.Name, d.LeanLabel(), strings.Join(top, ", "), d.MediaIntensity, d.Volatility, d.TurnoutBase)
}

// GenDistrict rolls a district for the given difficulty.
func GenDistrict(rng Rand, t *Tuning, diff Difficulty) *District {
	ranges, ok := t.World.Difficulty[diff.String()]
	if !ok {
		ranges = t.World.Difficulty[DifficultyNormal.String()]
	}

	d := &District{
		PartisanLean:   uniform(rng, ranges.PartisanLean),
		MediaIntensity: uniform(rng, ranges.MediaIntensity),
		Volatility:     uniform(rng, ranges.Volatility),
		TurnoutBase:    uniform(rng, ranges.TurnoutBase),
	}

	var raw DemoWeights
	for _, demo := range AllDemos {
		raw[demo] = rng.Float64()
	}
	sum := raw.Sum()
	for _, demo := range AllDemos {
		if sum > 0 {
			d.Demos[demo] = raw[demo] / sum
		} else {
			d.Demos[demo] = 1.0 / float64(NumDemos)
		}
	}

	d.Name = t.World.DistrictNames[rng.Intn(len(t.World.DistrictNames))]
	return d
}

// GenOpponent draws an opponent from the phase's archetype table.
// Primary rivals come from the weaker table.
func GenOpponent(rng Rand, t *Tuning, phase Phase) *Opponent {
	table := t.World.PrimaryOpponents
	if phase == PhaseGeneral {
		table = t.World.GeneralOpponents
	}
	a := table[rng.Intn(len(table))]
	return &Opponent{
		Name:        t.World.OpponentNames[rng.Intn(len(t.World.OpponentNames))],
		Archetype:   a.Archetype,
		Skill:       a.Skill,
		ScandalRisk: a.ScandalRisk,
	}
}

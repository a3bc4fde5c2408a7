package sim

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Phase int

const (
	PhasePrimary Phase = iota
	PhaseGeneral
)

func (p Phase) String() string {
	switch p {
	case PhasePrimary:
		return "Primary"
	case PhaseGeneral:
		return "General"
	default:
		return "Unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "primary":
		*p = PhasePrimary
	case "general":
		*p = PhaseGeneral
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// Demo is one of the six fixed demographic segments.
type Demo int

const (
	DemoWorking Demo = iota
	DemoCollege
	DemoRural
	DemoUrban
	DemoSeniors
	DemoYouth
	NumDemos
)

// AllDemos lists every segment in canonical order. All ledger iteration uses it.
var AllDemos = [NumDemos]Demo{DemoWorking, DemoCollege, DemoRural, DemoUrban, DemoSeniors, DemoYouth}

func (d Demo) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Demo) UnmarshalText(b []byte) error {
	demo, ok := ParseDemo(string(b))
	if !ok {
		return fmt.Errorf("unknown demographic %q", b)
	}
	*d = demo
	return nil
}

func (d Demo) String() string {
	switch d {
	case DemoWorking:
		return "working"
	case DemoCollege:
		return "college"
	case DemoRural:
		return "rural"
	case DemoUrban:
		return "urban"
	case DemoSeniors:
		return "seniors"
	case DemoYouth:
		return "youth"
	default:
		return "unknown"
	}
}

// ParseDemo looks up a demographic by its key.
func ParseDemo(s string) (Demo, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllDemos {
		if d.String() == key {
			return d, true
		}
	}
	return 0, false
}

// DemoWeights holds one value per demographic, indexed by Demo.
type DemoWeights [NumDemos]float64

// Sum returns the total of all entries.
func (w DemoWeights) Sum() float64 {
	total := 0.0
	for _, d := range AllDemos {
		total += w[d]
	}
	return total
}

// UniformWeights spreads weight evenly over all demographics.
func UniformWeights() DemoWeights {
	var w DemoWeights
	for _, d := range AllDemos {
		w[d] = 1.0 / float64(NumDemos)
	}
	return w
}

// Axis is one of the four platform dimensions.
type Axis int

const (
	AxisEcon Axis = iota
	AxisSocial
	AxisGovernance
	AxisTone
	NumAxes
)

var AllAxes = [NumAxes]Axis{AxisEcon, AxisSocial, AxisGovernance, AxisTone}

func (a Axis) String() string {
	switch a {
	case AxisEcon:
		return "econ"
	case AxisSocial:
		return "social"
	case AxisGovernance:
		return "governance"
	case AxisTone:
		return "tone"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the four platform axes.
func (a Axis) Valid() bool {
	return a >= AxisEcon && a < NumAxes
}

// ParseAxis looks up an axis by name. Unknown names return an invalid axis.
func ParseAxis(s string) Axis {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, a := range AllAxes {
		if a.String() == key {
			return a
		}
	}
	return NumAxes
}

// Platform holds the candidate's (or an archetype's) stance on each axis, 0..100.
type Platform [NumAxes]int

type Party int

const (
	PartyIndependent Party = iota
	PartyDemocrat
	PartyRepublican
)

func (p Party) String() string {
	switch p {
	case PartyDemocrat:
		return "democrat"
	case PartyRepublican:
		return "republican"
	default:
		return "independent"
	}
}

// ParseParty accepts the usual abbreviations. Anything else is independent.
func ParseParty(s string) Party {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "dem", "democrat", "democratic":
		return PartyDemocrat
	case "r", "rep", "gop", "republican":
		return PartyRepublican
	default:
		return PartyIndependent
	}
}

type Difficulty int

const (
	DifficultyNormal Difficulty = iota
	DifficultyEasy
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "normal"
	}
}

// ParseDifficulty maps unrecognized input to normal.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyNormal
	}
}

// DonorKind selects the fundraising flavor.
type DonorKind int

const (
	DonorMixed DonorKind = iota
	DonorCorporate
	DonorGrassroots
)

func (k DonorKind) String() string {
	switch k {
	case DonorCorporate:
		return "corporate"
	case DonorGrassroots:
		return "grassroots"
	default:
		return "mixed"
	}
}

// DebateBand classifies a debate performance.
type DebateBand int

const (
	BandDominate DebateBand = iota
	BandWin
	BandWash
	BandLose
	BandFaceplant
)

func (b DebateBand) String() string {
	switch b {
	case BandDominate:
		return "dominate"
	case BandWin:
		return "win"
	case BandWash:
		return "wash"
	case BandLose:
		return "lose"
	case BandFaceplant:
		return "faceplant"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a campaign.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePrimaryLoss
	OutcomeGeneralWin
	OutcomeGeneralLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomePrimaryLoss:
		return "primary_loss"
	case OutcomeGeneralWin:
		return "general_win"
	case OutcomeGeneralLoss:
		return "general_loss"
	default:
		return "none"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for _, cand := range []Outcome{OutcomeNone, OutcomePrimaryLoss, OutcomeGeneralWin, OutcomeGeneralLoss} {
		if cand.String() == string(b) {
			*o = cand
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Terminal reports whether the outcome ends the campaign.
func (o Outcome) Terminal() bool {
	return o != OutcomeNone
}

package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peterkuimelis/campaignx/internal/log"
)

const (
	MaxMomentum   = 10.0
	MaxFatigue    = 10.0
	MinEnthusiasm = 0.2
	MaxEnthusiasm = 0.9
	AxisMin       = 0
	AxisMax       = 100
	DefaultName   = "Alex Candidate"
)

// ErrInvalidSetup is returned when candidate creation input is out of bounds.
var ErrInvalidSetup = errors.New("invalid candidate setup")

// Setup is the operator's candidate creation input. Stat fields are points
// allocated on top of the base value.
type Setup struct {
	Name       string
	Party      Party
	Charisma   int
	Discipline int
	Empathy    int
	Stamina    int
	Platform   Platform
	Difficulty Difficulty
}

// DefaultSetup spreads the stat budget evenly and starts every axis centered.
func DefaultSetup(t *Tuning) Setup {
	each := t.Campaign.StatPoints / 4
	return Setup{
		Name:       DefaultName,
		Party:      PartyIndependent,
		Charisma:   each,
		Discipline: each,
		Empathy:    each,
		Stamina:    t.Campaign.StatPoints - 3*each,
		Platform:   Platform{50, 50, 50, 50},
		Difficulty: DifficultyNormal,
	}
}

// Candidate is the player's candidate.
type Candidate struct {
	Name       string
	Party      Party
	Charisma   int
	Discipline int
	Empathy    int
	Stamina    int
	Platform   Platform
	Cash       int // thousands
	Momentum   float64
	Fatigue    float64
}

// NewCandidate validates a setup and builds the candidate.
func NewCandidate(t *Tuning, s Setup) (*Candidate, error) {
	spent := 0
	for _, pts := range []int{s.Charisma, s.Discipline, s.Empathy, s.Stamina} {
		if pts < 0 {
			return nil, fmt.Errorf("%w: stat points must not be negative", ErrInvalidSetup)
		}
		spent += pts
	}
	if spent > t.Campaign.StatPoints {
		return nil, fmt.Errorf("%w: %d stat points allocated, budget is %d", ErrInvalidSetup, spent, t.Campaign.StatPoints)
	}
	for _, a := range AllAxes {
		if v := s.Platform[a]; v < AxisMin || v > AxisMax {
			return nil, fmt.Errorf("%w: %s must be within %d..%d, got %d", ErrInvalidSetup, a, AxisMin, AxisMax, v)
		}
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = DefaultName
	}
	base := t.Campaign.StatBase
	return &Candidate{
		Name:       name,
		Party:      s.Party,
		Charisma:   base + s.Charisma,
		Discipline: base + s.Discipline,
		Empathy:    base + s.Empathy,
		Stamina:    base + s.Stamina,
		Platform:   s.Platform,
		Cash:       t.Campaign.StartingCash,
	}, nil
}

// Clamp enforces every candidate bound. Resolvers call it after each mutation.
func (c *Candidate) Clamp() {
	if c.Cash < 0 {
		c.Cash = 0
	}
	c.Momentum = clampf(c.Momentum, -MaxMomentum, MaxMomentum)
	c.Fatigue = clampf(c.Fatigue, 0, MaxFatigue)
	for _, a := range AllAxes {
		c.Platform[a] = clampi(c.Platform[a], AxisMin, AxisMax)
	}
}

// State is the sole mutable aggregate of a campaign.
type State struct {
	District *District
	You      *Candidate
	Opponent *Opponent

	Week         int // 1-based week within the phase
	Phase        Phase
	WeeksInPhase int

	Support     DemoWeights // per-demographic support fraction
	NameID      float64
	Enthusiasm  float64
	EarnedMedia float64
	Prepared    bool // consumed by the next debate

	History []string // append-only

	Over   bool
	Result *Result

	logger log.EventLogger
}

// Log appends a history line and mirrors it to the event logger.
func (s *State) Log(t log.EventType, msg string) {
	s.History = append(s.History, msg)
	if s.logger != nil {
		s.logger.Log(log.NewEvent(s.Week, s.Phase.String(), t, msg))
	}
}

// emit sends an event to the logger without recording it in history.
func (s *State) emit(e log.CampaignEvent) {
	if s.logger != nil {
		s.logger.Log(e)
	}
}

// Logf is Log with formatting.
func (s *State) Logf(t log.EventType, format string, args ...any) {
	s.Log(t, fmt.Sprintf(format, args...))
}

// RecentHistory returns the last n history lines. The full history is kept.
func (s *State) RecentHistory(n int) []string {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if n > len(s.History) {
		n = len(s.History)
	}
	out := make([]string, n)
	copy(out, s.History[len(s.History)-n:])
	return out
}

// OverallSupport returns the district-weighted support.
func (s *State) OverallSupport() float64 {
	return OverallSupport(s.District, s.Support)
}

// clamp enforces the campaign-level bounds and the candidate's.
func (s *State) clamp(t *Tuning) {
	s.NameID = clampf(s.NameID, 0, 1)
	s.Enthusiasm = clampf(s.Enthusiasm, MinEnthusiasm, MaxEnthusiasm)
	s.EarnedMedia = clampf(s.EarnedMedia, 0, t.Debate.Zinger.EarnedMediaCap)
	s.You.Clamp()
}

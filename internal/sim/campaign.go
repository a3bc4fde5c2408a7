package sim

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// Controller is the operator boundary. Terminal, TCP, MCP and WebSocket
// players all implement it.
type Controller interface {
	// ChooseAction presents the week's status and legal actions and waits for one pick.
	ChooseAction(ctx context.Context, status Status, actions []Action) (Action, error)

	// PublishStatus sends the start-of-week snapshot.
	PublishStatus(ctx context.Context, status Status) error

	// PublishMemo sends a purchased polling memo.
	PublishMemo(ctx context.Context, memo PollingMemo) error

	// PublishEvents sends the most recent history lines.
	PublishEvents(ctx context.Context, lines []string) error

	// PublishResult sends the terminal outcome.
	PublishResult(ctx context.Context, result Result) error
}

// Config holds configuration for creating a new campaign.
type Config struct {
	Tuning       *Tuning // nil uses the embedded table
	Setup        Setup
	Logger       log.EventLogger
	Seed         int64 // RNG seed (0 for random)
	Rand         Rand  // overrides Seed when set
	RecentEvents int   // history lines published per week (0 uses the tuning value)
}

// Status is the display snapshot published at the start of each week.
type Status struct {
	Candidate    string   `json:"candidate"`
	Party        string   `json:"party"`
	Week         int      `json:"week"`
	WeeksInPhase int      `json:"weeks_in_phase"`
	WeeksLeft    int      `json:"weeks_left"`
	Phase        Phase    `json:"phase"`
	Support      float64  `json:"support"`
	Cash         int      `json:"cash"`
	NameID       float64  `json:"name_id"`
	Momentum     float64  `json:"momentum"`
	Fatigue      float64  `json:"fatigue"`
	Enthusiasm   float64  `json:"enthusiasm"`
	EarnedMedia  float64  `json:"earned_media"`
	Prepared     bool     `json:"prepared"`
	NextDebate   int      `json:"next_debate"` // 0 when no debate remains this phase
	DebateWeeks  []int    `json:"debate_weeks"`
	Opponent     string   `json:"opponent"`
	District     string   `json:"district"`
	Platform     Platform `json:"platform"`
}

// Result is the terminal outcome of a campaign.
type Result struct {
	Outcome        Outcome `json:"outcome"`
	PrimarySupport float64 `json:"primary_support"`
	FinalSupport   float64 `json:"final_support"`
	Turnout        float64 `json:"turnout,omitempty"`
	FinalVote      float64 `json:"final_vote,omitempty"`
	WeeksPlayed    int     `json:"weeks_played"`
	Seed           int64   `json:"seed"`
}

// Campaign orchestrates an entire campaign for one candidate.
type Campaign struct {
	State      *State
	Controller Controller
	Logger     log.EventLogger

	tuning      *Tuning
	rng         Rand
	seed        int64
	recent      int
	weeksPlayed int
	primary     float64
}

// NewCampaign validates the setup, rolls the district and primary opponent,
// and seeds the support ledger.
func NewCampaign(cfg Config, ctrl Controller) (*Campaign, error) {
	t := cfg.Tuning
	if t == nil {
		t = DefaultTuning()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	you, err := NewCandidate(t, cfg.Setup)
	if err != nil {
		return nil, err
	}

	rng, seed := cfg.Rand, cfg.Seed
	if rng == nil {
		rng, seed = NewSeededRNG(cfg.Seed)
	}

	recent := cfg.RecentEvents
	if recent <= 0 {
		recent = t.Campaign.RecentEvents
	}

	district := GenDistrict(rng, t, cfg.Setup.Difficulty)
	s := &State{
		District:     district,
		You:          you,
		Opponent:     GenOpponent(rng, t, PhasePrimary),
		Week:         1,
		Phase:        PhasePrimary,
		WeeksInPhase: t.Campaign.PrimaryWeeks,
		Support:      InitialSupportByDemo(t, district, you),
		NameID:       t.Campaign.StartingNameID,
		Enthusiasm:   t.Campaign.StartingEnthusiasm,
		logger:       logger,
	}
	s.clamp(t)

	c := &Campaign{
		State:      s,
		Controller: ctrl,
		Logger:     logger,
		tuning:     t,
		rng:        rng,
		seed:       seed,
		recent:     recent,
	}
	s.Logf(log.EventCampaignStart, "%s (%s) launches a campaign in %s.", you.Name, you.Party, district.Name)
	s.Logf(log.EventCampaignStart, "Primary opponent: %s", s.Opponent)
	return c, nil
}

// Seed returns the seed that reproduces this campaign (0 when an explicit Rand was supplied).
func (c *Campaign) Seed() int64 { return c.seed }

// Tuning returns the balance table in use.
func (c *Campaign) Tuning() *Tuning { return c.tuning }

// Run drives weeks until a terminal outcome, then publishes the result.
func (c *Campaign) Run(ctx context.Context) (*Result, error) {
	if c.Controller == nil {
		return nil, fmt.Errorf("campaign has no controller")
	}
	s := c.State
	for !s.Over {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.runWeek(ctx); err != nil {
			return nil, err
		}
	}
	if err := c.Controller.PublishResult(ctx, *s.Result); err != nil {
		return s.Result, fmt.Errorf("publish result: %w", err)
	}
	return s.Result, nil
}

func (c *Campaign) runWeek(ctx context.Context) error {
	s := c.State
	s.emit(log.NewWeekEvent(s.Week, s.WeeksInPhase, s.Phase.String()))

	status := c.Status()
	if err := c.Controller.PublishStatus(ctx, status); err != nil {
		return fmt.Errorf("publish status: %w", err)
	}
	action, err := c.Controller.ChooseAction(ctx, status, LegalActions())
	if err != nil {
		return fmt.Errorf("choose action: %w", err)
	}

	memo := c.ResolveWeek(action)
	if memo != nil {
		if err := c.Controller.PublishMemo(ctx, *memo); err != nil {
			return fmt.Errorf("publish memo: %w", err)
		}
	}
	if err := c.Controller.PublishEvents(ctx, s.RecentHistory(c.recent)); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

// ResolveWeek runs one full week: the chosen action, the passive resolvers
// in fixed order, a scheduled debate, weekly decay, then the week advance.
// Debate night reaches the controller as history lines. It does nothing
// once the campaign is over.
func (c *Campaign) ResolveWeek(a Action) *PollingMemo {
	s := c.State
	if s.Over {
		return nil
	}

	memo := c.resolveAction(a)

	c.earnedMediaTick()
	c.paidMedia()
	c.scandalCheck()

	if isDebateWeek(c.tuning, s) {
		c.debate()
	}

	c.weeklyDecay()
	c.AdvanceWeek()
	return memo
}

// AdvanceWeek increments the week and runs the phase transition when the
// phase is exhausted.
func (c *Campaign) AdvanceWeek() {
	s := c.State
	if s.Over {
		return
	}
	c.weeksPlayed++
	s.Week++
	if s.Week <= s.WeeksInPhase {
		return
	}
	switch s.Phase {
	case PhasePrimary:
		c.endPrimary()
	case PhaseGeneral:
		c.electionDay()
	}
}

func (c *Campaign) endPrimary() {
	s, t := c.State, c.tuning
	c.primary = s.OverallSupport()
	s.Logf(log.EventPrimaryResult, "PRIMARY RESULTS: final primary support estimate %s.", Pct(c.primary))
	if c.primary < t.Election.PrimaryThreshold {
		s.Log(log.EventPrimaryResult, "You lose the primary. Campaign over.")
		c.finish(Result{Outcome: OutcomePrimaryLoss})
		return
	}
	s.Log(log.EventPrimaryResult, "You win the primary and advance to the general election.")

	s.emit(log.NewPhaseChangeEvent(1, PhasePrimary.String(), PhaseGeneral.String()))
	s.Phase = PhaseGeneral
	s.Week = 1
	s.WeeksInPhase = t.Campaign.GeneralWeeks
	s.Opponent = GenOpponent(c.rng, t, PhaseGeneral)
	s.Support = InitialSupportByDemo(t, s.District, s.You)
	s.EarnedMedia = 0
	s.Logf(log.EventPhaseChange, "New opponent: %s", s.Opponent)
}

func (c *Campaign) electionDay() {
	s, et := c.State, c.tuning.Election
	s.Log(log.EventElection, "ELECTION DAY")

	turnout := clampf(s.District.TurnoutBase+(s.Enthusiasm-0.5)*et.TurnoutEnthusiasm+roll(c.rng, 0, et.TurnoutSigma),
		et.TurnoutMin, et.TurnoutMax)
	vote := clampf(s.OverallSupport()+roll(c.rng, 0, et.VoteSigma), 0, 1)
	s.Logf(log.EventElection, "Turnout: %s. Final vote estimate: %s.", Pct(turnout), Pct(vote))

	outcome := OutcomeGeneralLoss
	if vote >= et.WinThreshold {
		outcome = OutcomeGeneralWin
		s.Log(log.EventElection, "You win! Congratulations, Representative.")
	} else {
		s.Log(log.EventElection, "You lose. The district wasn't ready, or you weren't.")
	}
	c.finish(Result{Outcome: outcome, Turnout: turnout, FinalVote: vote})
}

func (c *Campaign) finish(r Result) {
	s := c.State
	r.PrimarySupport = c.primary
	r.FinalSupport = s.OverallSupport()
	r.WeeksPlayed = c.weeksPlayed
	r.Seed = c.seed
	s.Over = true
	s.Result = &r
}

// Status snapshots the campaign for display.
func (c *Campaign) Status() Status {
	s := c.State
	return Status{
		Candidate:    s.You.Name,
		Party:        s.You.Party.String(),
		Week:         s.Week,
		WeeksInPhase: s.WeeksInPhase,
		WeeksLeft:    s.WeeksInPhase - s.Week + 1,
		Phase:        s.Phase,
		Support:      s.OverallSupport(),
		Cash:         s.You.Cash,
		NameID:       s.NameID,
		Momentum:     s.You.Momentum,
		Fatigue:      s.You.Fatigue,
		Enthusiasm:   s.Enthusiasm,
		EarnedMedia:  s.EarnedMedia,
		Prepared:     s.Prepared,
		NextDebate:   NextDebateWeek(c.tuning, s.Phase, s.Week, s.WeeksInPhase),
		DebateWeeks:  DebateWeeks(c.tuning, s.Phase, s.WeeksInPhase),
		Opponent:     s.Opponent.String(),
		District:     s.District.Describe(),
		Platform:     s.You.Platform,
	}
}

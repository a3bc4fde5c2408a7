package sim

import (
	"fmt"
	"strings"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// ActionType identifies the weekly action the operator picks.
type ActionType int

const (
	ActionFundraise ActionType = iota
	ActionCanvass
	ActionPolicyShift
	ActionDebatePrep
	ActionRest
	ActionPoll
)

func (a ActionType) String() string {
	switch a {
	case ActionFundraise:
		return "Fundraise"
	case ActionCanvass:
		return "Canvass"
	case ActionPolicyShift:
		return "Policy Shift"
	case ActionDebatePrep:
		return "Debate Prep"
	case ActionRest:
		return "Rest"
	case ActionPoll:
		return "Polling Memo"
	default:
		return "Unknown"
	}
}

// Action is one operator decision. Donor is read for fundraising, Axis and
// Direction for policy shifts.
type Action struct {
	Type      ActionType
	Donor     DonorKind
	Axis      Axis
	Direction int // +1 toward 100, -1 toward 0
	Desc      string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// Key is the stable wire name of an action, e.g. "fundraise:grassroots" or
// "policy:tone:+".
func (a Action) Key() string {
	switch a.Type {
	case ActionFundraise:
		return "fundraise:" + a.Donor.String()
	case ActionCanvass:
		return "canvass"
	case ActionPolicyShift:
		sign := "+"
		if a.Direction < 0 {
			sign = "-"
		}
		return "policy:" + a.Axis.String() + ":" + sign
	case ActionDebatePrep:
		return "prep"
	case ActionRest:
		return "rest"
	case ActionPoll:
		return "poll"
	default:
		return "unknown"
	}
}

// ParseAction is the inverse of Key. A policy shift naming an unknown axis
// parses successfully; resolving it is a logged no-op.
func ParseAction(key string) (Action, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), ":")
	switch parts[0] {
	case "fundraise":
		if len(parts) != 2 {
			return Action{}, fmt.Errorf("fundraise needs a donor kind: %q", key)
		}
		var donor DonorKind
		switch parts[1] {
		case "corporate":
			donor = DonorCorporate
		case "grassroots":
			donor = DonorGrassroots
		case "mixed":
			donor = DonorMixed
		default:
			return Action{}, fmt.Errorf("unknown donor kind %q", parts[1])
		}
		return fundraiseAction(donor), nil
	case "canvass":
		return Action{Type: ActionCanvass, Desc: "Canvass / field operation"}, nil
	case "policy":
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("policy needs axis and direction: %q", key)
		}
		dir := 1
		switch parts[2] {
		case "+", "up", "1":
		case "-", "down", "-1":
			dir = -1
		default:
			return Action{}, fmt.Errorf("unknown direction %q", parts[2])
		}
		return policyAction(ParseAxis(parts[1]), dir), nil
	case "prep":
		return Action{Type: ActionDebatePrep, Desc: "Debate prep"}, nil
	case "rest":
		return Action{Type: ActionRest, Desc: "Rest"}, nil
	case "poll":
		return Action{Type: ActionPoll, Desc: "Polling memo"}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", key)
	}
}

func fundraiseAction(k DonorKind) Action {
	return Action{Type: ActionFundraise, Donor: k, Desc: fmt.Sprintf("Fundraise (%s)", k)}
}

func policyAction(a Axis, dir int) Action {
	word := "up"
	if dir < 0 {
		word = "down"
	}
	return Action{Type: ActionPolicyShift, Axis: a, Direction: dir, Desc: fmt.Sprintf("Policy shift: %s %s", a, word)}
}

// LegalActions returns every action the operator may pick. Affordability is
// not a precondition: broke canvassing and polling resolve as soft failures.
func LegalActions() []Action {
	actions := []Action{
		fundraiseAction(DonorCorporate),
		fundraiseAction(DonorGrassroots),
		fundraiseAction(DonorMixed),
		{Type: ActionCanvass, Desc: "Canvass / field operation"},
	}
	for _, a := range AllAxes {
		actions = append(actions, policyAction(a, 1), policyAction(a, -1))
	}
	actions = append(actions,
		Action{Type: ActionDebatePrep, Desc: "Debate prep"},
		Action{Type: ActionRest, Desc: "Rest"},
		Action{Type: ActionPoll, Desc: "Polling memo"},
	)
	return actions
}

// resolveAction dispatches the week's chosen action. The memo is non-nil only
// for a successful poll.
func (c *Campaign) resolveAction(a Action) *PollingMemo {
	switch a.Type {
	case ActionFundraise:
		c.fundraise(a.Donor)
	case ActionCanvass:
		c.canvass()
	case ActionPolicyShift:
		c.adjustPolicy(a.Axis, a.Direction)
	case ActionDebatePrep:
		c.prepDebate()
	case ActionRest:
		c.rest()
	case ActionPoll:
		return c.poll()
	default:
		c.State.Logf(log.EventNote, "Staff can't parse the plan (%d). The week slips by.", a.Type)
	}
	return nil
}

func (c *Campaign) fundraise(kind DonorKind) {
	s, ft := c.State, c.tuning.Fundraise
	donor := ft.Donor(kind)
	base := ft.Base + float64(s.You.Discipline)*ft.DisciplineFactor + s.NameID*ft.NameIDFactor
	raised := int(max(0, roll(c.rng, base+donor.Offset, donor.Sigma)))

	s.You.Cash += raised
	s.You.Momentum += donor.Momentum
	s.Enthusiasm += donor.Enthusiasm
	s.You.Fatigue += ft.Fatigue
	s.clamp(c.tuning)

	switch kind {
	case DonorCorporate:
		s.Logf(log.EventFundraise, "Fundraising (corporate): +$%dk, enthusiasm down a bit.", raised)
	case DonorGrassroots:
		s.Logf(log.EventFundraise, "Fundraising (grassroots): +$%dk, enthusiasm up.", raised)
	default:
		s.Logf(log.EventFundraise, "Fundraising (mixed): +$%dk.", raised)
	}
}

func (c *Campaign) canvass() {
	s, ct := c.State, c.tuning.Canvass
	if s.You.Cash < ct.Cost {
		s.Log(log.EventCanvass, "Tried to canvass, but you're too broke to field a ground operation.")
		c.ApplySupportShift(ct.BrokeDelta, "Ground game fizzles", UniformWeights())
		return
	}

	s.You.Cash -= ct.Cost
	gain := (ct.BaseGain + s.Enthusiasm*ct.EnthusiasmGain) * (1.0 + float64(s.You.Empathy)/ct.EmpathyDivisor)
	s.NameID += ct.NameID
	s.Enthusiasm += ct.Enthusiasm
	s.You.Momentum += ct.Momentum
	s.You.Fatigue += ct.Fatigue
	s.clamp(c.tuning)

	c.ApplySupportShift(gain, "Canvassing + field", ct.Weights)
	s.Logf(log.EventCanvass, "Canvassing cost $%dk. Name ID now %s.", ct.Cost, Pct(s.NameID))
}

func (c *Campaign) adjustPolicy(axis Axis, direction int) {
	s, pt := c.State, c.tuning.Policy
	if !axis.Valid() {
		s.Log(log.EventPolicyShift, "Policy team is confused. Nothing changes.")
		return
	}
	if direction >= 0 {
		direction = 1
	} else {
		direction = -1
	}

	old := s.You.Platform[axis]
	s.You.Platform[axis] = old + pt.Step*direction
	s.You.Momentum += pt.Momentum
	s.You.Fatigue += pt.Fatigue
	s.clamp(c.tuning)

	switch {
	case axis == AxisTone && direction > 0:
		s.Log(log.EventPolicyShift, "You lean sharper and more combative. Clip potential rises, and so does backlash risk.")
	case axis == AxisTone:
		s.Log(log.EventPolicyShift, "You lean more hopeful and unifying. Fewer dunks, more trust.")
	default:
		s.Logf(log.EventPolicyShift, "Policy shift on %s: %d -> %d.", axis, old, s.You.Platform[axis])
	}
}

func (c *Campaign) prepDebate() {
	s := c.State
	s.You.Momentum += c.tuning.Prep.Momentum
	s.You.Fatigue += c.tuning.Prep.Fatigue
	s.Prepared = true
	s.clamp(c.tuning)
	s.Log(log.EventDebatePrep, "Debate prep: message drills, oppo research, and rehearsed pivots.")
}

func (c *Campaign) rest() {
	s := c.State
	s.You.Fatigue -= c.tuning.Rest.FatigueRelief
	s.You.Momentum += c.tuning.Rest.Momentum
	s.clamp(c.tuning)
	s.Log(log.EventRest, "You rest, reset, and make fewer self-inflicted errors this week.")
}

// PollRow is one demographic line of a polling memo.
type PollRow struct {
	Demo         Demo    `json:"demo"`
	Share        float64 `json:"share"`
	Support      float64 `json:"support"`
	Contribution float64 `json:"contribution"`
}

// PollingMemo is a read-only demographic breakdown, rows sorted by district
// share, largest first.
type PollingMemo struct {
	Phase    Phase     `json:"phase"`
	District string    `json:"district"`
	Cost     int       `json:"cost"`
	Overall  float64   `json:"overall"`
	Rows     []PollRow `json:"rows"`
}

// NewPollingMemo snapshots the ledger without charging for it.
func NewPollingMemo(s *State, cost int) *PollingMemo {
	memo := &PollingMemo{
		Phase:    s.Phase,
		District: s.District.Name,
		Cost:     cost,
		Overall:  s.OverallSupport(),
	}
	for _, ds := range s.District.RankedDemos() {
		sup := s.Support[ds.Demo]
		memo.Rows = append(memo.Rows, PollRow{
			Demo:         ds.Demo,
			Share:        ds.Share,
			Support:      sup,
			Contribution: ds.Share * sup,
		})
	}
	return memo
}

func (c *Campaign) poll() *PollingMemo {
	s, cost := c.State, c.tuning.Poll.Cost
	if s.You.Cash < cost {
		s.Log(log.EventPoll, "Polling: you can't afford a real poll. You rely on vibes and anecdotes.")
		return nil
	}
	s.You.Cash -= cost
	memo := NewPollingMemo(s, cost)
	s.Logf(log.EventPoll, "Polling conducted (-$%dk). You review a demographic memo.", cost)
	return memo
}

package net

import (
	"fmt"
	"strings"

	"github.com/peterkuimelis/campaignx/internal/sim"
)

// Message types for the JSON protocol over TCP. The WebSocket and MCP
// shells reuse the same envelopes.

// Server → client message types.
const (
	MsgHello        = "hello"
	MsgWelcome      = "welcome"
	MsgStatus       = "status"
	MsgChooseAction = "choose_action"
	MsgMemo         = "memo"
	MsgEvents       = "events"
	MsgResult       = "result"
	MsgError        = "error"
)

// Client → server message types.
const (
	MsgJoin   = "join"
	MsgAction = "action"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "hello"
	Rules *RulesView `json:"rules,omitempty"`

	// For "welcome"
	CampaignID string `json:"campaign_id,omitempty"`

	// For "status" and "choose_action"
	Status  *sim.Status  `json:"status,omitempty"`
	Actions []ActionView `json:"actions,omitempty"`

	// For "memo"
	Memo *sim.PollingMemo `json:"memo,omitempty"`

	// For "events"
	Events []string `json:"events,omitempty"`

	// For "result"
	Result *sim.Result `json:"result,omitempty"`

	// For "welcome" and "error"
	Message string `json:"message,omitempty"`
}

// RulesView tells a client how to build a candidate before joining.
type RulesView struct {
	StatBase     int      `json:"stat_base"`
	StatPoints   int      `json:"stat_points"`
	AxisMin      int      `json:"axis_min"`
	AxisMax      int      `json:"axis_max"`
	Axes         []string `json:"axes"`
	Parties      []string `json:"parties"`
	Difficulties []string `json:"difficulties"`
	PrimaryWeeks int      `json:"primary_weeks"`
	GeneralWeeks int      `json:"general_weeks"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Desc  string `json:"desc"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action": Key wins when set, otherwise Index picks from the list.
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`

	// For "join" (initial handshake)
	Setup *SetupView `json:"setup,omitempty"`
}

// SetupView is candidate creation input as sent over the wire. Stats are
// points spent above the base value; missing platform axes default to center.
type SetupView struct {
	Name       string         `json:"name"`
	Party      string         `json:"party"`
	Charisma   int            `json:"charisma"`
	Discipline int            `json:"discipline"`
	Empathy    int            `json:"empathy"`
	Stamina    int            `json:"stamina"`
	Platform   map[string]int `json:"platform,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
}

// NewRulesView describes candidate creation limits for the given tuning.
func NewRulesView(t *sim.Tuning) *RulesView {
	rv := &RulesView{
		StatBase:     t.Campaign.StatBase,
		StatPoints:   t.Campaign.StatPoints,
		AxisMin:      sim.AxisMin,
		AxisMax:      sim.AxisMax,
		Parties:      []string{"D", "R", "Ind"},
		Difficulties: []string{"easy", "normal", "hard"},
		PrimaryWeeks: t.Campaign.PrimaryWeeks,
		GeneralWeeks: t.Campaign.GeneralWeeks,
	}
	for _, a := range sim.AllAxes {
		rv.Axes = append(rv.Axes, a.String())
	}
	return rv
}

// Setup converts the wire form into engine input. Range checks happen in
// sim.NewCandidate; only unknown axis names are rejected here.
func (v SetupView) Setup(t *sim.Tuning) (sim.Setup, error) {
	s := sim.DefaultSetup(t)
	s.Name = v.Name
	s.Party = sim.ParseParty(v.Party)
	s.Charisma = v.Charisma
	s.Discipline = v.Discipline
	s.Empathy = v.Empathy
	s.Stamina = v.Stamina
	s.Difficulty = sim.ParseDifficulty(v.Difficulty)
	for name, val := range v.Platform {
		a := sim.ParseAxis(name)
		if !a.Valid() {
			return sim.Setup{}, fmt.Errorf("%w: unknown platform axis %q", sim.ErrInvalidSetup, name)
		}
		s.Platform[a] = val
	}
	return s, nil
}

// NewActionViews numbers the legal actions for display.
func NewActionViews(actions []sim.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Key: a.Key(), Desc: a.String()})
	}
	return views
}

// ResolveChoice turns an "action" message into an engine action. A key may
// name any parseable action, including a policy shift on an unknown axis;
// an index must fall inside the offered list.
func ResolveChoice(actions []sim.Action, msg ClientMessage) (sim.Action, error) {
	if msg.Type != MsgAction {
		return sim.Action{}, fmt.Errorf("expected %q message, got %q", MsgAction, msg.Type)
	}
	if key := strings.TrimSpace(msg.Key); key != "" {
		return sim.ParseAction(key)
	}
	if msg.Index < 0 || msg.Index >= len(actions) {
		return sim.Action{}, fmt.Errorf("invalid index %d, must be 0-%d", msg.Index, len(actions)-1)
	}
	return actions[msg.Index], nil
}

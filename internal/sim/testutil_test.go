package sim

import (
	"context"
	"testing"

	"github.com/peterkuimelis/campaignx/internal/log"
)

// ScriptedController is a Controller that follows a predefined list of action keys.
// Once the script runs out it rests every week.
type ScriptedController struct {
	t       *testing.T
	actions []string
	pos     int

	Statuses []Status
	Memos    []PollingMemo
	Events   [][]string
	Results  []Result
}

func NewScriptedController(t *testing.T, keys ...string) *ScriptedController {
	return &ScriptedController{t: t, actions: keys}
}

func (sc *ScriptedController) Add(keys ...string) *ScriptedController {
	sc.actions = append(sc.actions, keys...)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, status Status, actions []Action) (Action, error) {
	key := "rest"
	if sc.pos < len(sc.actions) {
		key = sc.actions[sc.pos]
		sc.pos++
	}
	for _, a := range actions {
		if a.Key() == key {
			return a, nil
		}
	}
	sc.t.Fatalf("week %d: scripted action %q not among legal actions", status.Week, key)
	return Action{}, nil
}

func (sc *ScriptedController) PublishStatus(ctx context.Context, status Status) error {
	sc.Statuses = append(sc.Statuses, status)
	return nil
}

func (sc *ScriptedController) PublishMemo(ctx context.Context, memo PollingMemo) error {
	sc.Memos = append(sc.Memos, memo)
	return nil
}

func (sc *ScriptedController) PublishEvents(ctx context.Context, lines []string) error {
	sc.Events = append(sc.Events, lines)
	return nil
}

func (sc *ScriptedController) PublishResult(ctx context.Context, result Result) error {
	sc.Results = append(sc.Results, result)
	return nil
}

// scriptedRand replays fixed draws. Exhausted streams fall back to neutral
// values: 0.5 for Float64, 0 for NormFloat64 and Intn.
type scriptedRand struct {
	floats []float64
	norms  []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) NormFloat64() float64 {
	if len(r.norms) == 0 {
		return 0
	}
	v := r.norms[0]
	r.norms = r.norms[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

// testDistrict is a neutral district: no lean, unit amplifiers, uniform demos.
func testDistrict() *District {
	return &District{
		Name:           "TEST-01",
		PartisanLean:   0,
		MediaIntensity: 1.0,
		Volatility:     1.0,
		Demos:          UniformWeights(),
		TurnoutBase:    0.55,
	}
}

// newTestCampaign builds a campaign on the neutral district with a scripted
// random source, so resolver tests control every draw.
func newTestCampaign(t *testing.T, rng *scriptedRand) (*Campaign, *log.MemoryLogger) {
	t.Helper()
	tuning := DefaultTuning()
	logger := log.NewMemoryLogger()
	c, err := NewCampaign(Config{
		Tuning: tuning,
		Setup:  DefaultSetup(tuning),
		Logger: logger,
		Rand:   &scriptedRand{},
	}, nil)
	if err != nil {
		t.Fatalf("NewCampaign: %v", err)
	}
	c.State.District = testDistrict()
	c.State.Support = InitialSupportByDemo(tuning, c.State.District, c.State.You)
	c.rng = rng
	return c, logger
}

// checkBounds fails the test if any documented bound is violated.
func checkBounds(t *testing.T, s *State) {
	t.Helper()
	for _, d := range AllDemos {
		if v := s.Support[d]; v < 0.20 || v > 0.80 {
			t.Errorf("support[%s] = %v out of [0.20,0.80]", d, v)
		}
	}
	if v := s.OverallSupport(); v < 0.20 || v > 0.80 {
		t.Errorf("overall support %v out of [0.20,0.80]", v)
	}
	c := s.You
	if c.Cash < 0 {
		t.Errorf("cash %d is negative", c.Cash)
	}
	if c.Momentum < -MaxMomentum || c.Momentum > MaxMomentum {
		t.Errorf("momentum %v out of bounds", c.Momentum)
	}
	if c.Fatigue < 0 || c.Fatigue > MaxFatigue {
		t.Errorf("fatigue %v out of bounds", c.Fatigue)
	}
	for _, a := range AllAxes {
		if v := c.Platform[a]; v < AxisMin || v > AxisMax {
			t.Errorf("%s = %d out of bounds", a, v)
		}
	}
	if s.NameID < 0 || s.NameID > 1 {
		t.Errorf("name ID %v out of bounds", s.NameID)
	}
	if s.Enthusiasm < MinEnthusiasm || s.Enthusiasm > MaxEnthusiasm {
		t.Errorf("enthusiasm %v out of bounds", s.Enthusiasm)
	}
	if s.EarnedMedia < 0 || s.EarnedMedia > 0.70 {
		t.Errorf("earned media %v out of bounds", s.EarnedMedia)
	}
}

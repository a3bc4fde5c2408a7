package sim

import (
	"strings"
	"testing"
)

func TestOverallSupportTwoDemoScenario(t *testing.T) {
	d := &District{Volatility: 1, MediaIntensity: 1}
	d.Demos[DemoWorking] = 0.5
	d.Demos[DemoCollege] = 0.5

	var support DemoWeights
	support[DemoWorking] = 0.60
	support[DemoCollege] = 0.40

	if got := OverallSupport(d, support); got != 0.50 {
		t.Fatalf("overall support = %v, want exactly 0.50", got)
	}
}

func TestOverallSupportIsConvex(t *testing.T) {
	tuning := DefaultTuning()
	rng, _ := NewSeededRNG(7)
	for i := 0; i < 200; i++ {
		d := GenDistrict(rng, tuning, DifficultyNormal)
		var support DemoWeights
		for _, demo := range AllDemos {
			support[demo] = 0.20 + 0.60*rng.Float64()
		}
		got := OverallSupport(d, support)
		// Allow for rounding in the normalized weights.
		if got < 0.20-1e-9 || got > 0.80+1e-9 {
			t.Fatalf("iteration %d: overall support %v out of [0.20,0.80]", i, got)
		}
	}
}

func TestShiftSupportStaysInBounds(t *testing.T) {
	tuning := DefaultTuning()
	d := &District{PartisanLean: 0.25, MediaIntensity: 1.3, Volatility: 1.3, Demos: UniformWeights()}

	support := InitialSupportByDemo(tuning, d, &Candidate{Platform: Platform{50, 50, 50, 50}})
	for _, delta := range []float64{5, 5, -20, 0.01, -0.01, 100, -100} {
		support = ShiftSupport(tuning.Support, d, support, delta, tuning.Debate.Weights)
		for _, demo := range AllDemos {
			if v := support[demo]; v < 0.20 || v > 0.80 {
				t.Fatalf("delta %v: support[%s] = %v", delta, demo, v)
			}
		}
	}
}

func TestShiftSupportAmplifiesAndPulls(t *testing.T) {
	tuning := DefaultTuning()
	d := &District{PartisanLean: 0.10, MediaIntensity: 1.0, Volatility: 1.0, Demos: UniformWeights()}

	var start DemoWeights
	for _, demo := range AllDemos {
		start[demo] = 0.50
	}

	// Zero delta still moves support by the lean pull.
	got := ShiftSupport(tuning.Support, d, start, 0, UniformWeights())
	wantPull := 0.10 * tuning.Support.LeanPull / float64(NumDemos)
	for _, demo := range AllDemos {
		if diff := got[demo] - 0.50; diff < wantPull-1e-12 || diff > wantPull+1e-12 {
			t.Errorf("support[%s] moved %v, want lean pull %v", demo, diff, wantPull)
		}
	}

	// A weighted delta only moves demographics with weight (plus the pull).
	var weights DemoWeights
	weights[DemoYouth] = 1
	got = ShiftSupport(tuning.Support, d, start, 0.01, weights)
	amp := 1.0 * (1 + tuning.Support.MediaAmp)
	if diff := got[DemoYouth] - 0.50 - wantPull; diff < 0.01*amp-1e-12 || diff > 0.01*amp+1e-12 {
		t.Errorf("youth moved %v beyond pull, want %v", diff, 0.01*amp)
	}
	if diff := got[DemoSeniors] - 0.50; diff > wantPull+1e-12 {
		t.Errorf("seniors moved %v, want only the pull", diff)
	}
}

func TestApplySupportShiftLogsOverall(t *testing.T) {
	c, _ := newTestCampaign(t, &scriptedRand{})
	before := len(c.State.History)

	c.ApplySupportShift(0.01, "Town hall", UniformWeights())

	if len(c.State.History) != before+1 {
		t.Fatalf("history grew by %d, want 1", len(c.State.History)-before)
	}
	line := c.State.History[len(c.State.History)-1]
	want := "Town hall => support " + Pct(c.State.OverallSupport())
	if line != want {
		t.Errorf("log line = %q, want %q", line, want)
	}
	if !strings.HasSuffix(line, "%") {
		t.Errorf("log line %q should end with a percentage", line)
	}
}

func TestInitialSupportPartyMismatchPenalty(t *testing.T) {
	tuning := DefaultTuning()
	d := testDistrict()
	// A platform right on the Democratic brand.
	platform := tuning.Demographics.Parties[PartyDemocrat]

	dem := InitialSupportByDemo(tuning, d, &Candidate{Party: PartyDemocrat, Platform: platform})
	rep := InitialSupportByDemo(tuning, d, &Candidate{Party: PartyRepublican, Platform: platform})

	for _, demo := range AllDemos {
		if rep[demo] >= dem[demo] {
			t.Errorf("%s: off-brand support %v should be below on-brand %v", demo, rep[demo], dem[demo])
		}
	}
}

func TestInitialSupportFollowsPlatformFit(t *testing.T) {
	tuning := DefaultTuning()
	d := testDistrict()
	youthIdeal := tuning.Demographics.Ideals[DemoYouth]

	support := InitialSupportByDemo(tuning, d, &Candidate{Platform: youthIdeal})
	for _, demo := range AllDemos {
		if demo == DemoYouth {
			continue
		}
		if support[demo] > support[DemoYouth] {
			t.Errorf("%s support %v exceeds youth %v for a youth-ideal platform", demo, support[demo], support[DemoYouth])
		}
	}
}

package sim

import (
	"math"
	"strings"
	"testing"
)

func TestGenDistrictRanges(t *testing.T) {
	tuning := DefaultTuning()
	rng, _ := NewSeededRNG(11)
	for _, diff := range []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		r := tuning.World.Difficulty[diff.String()]
		for i := 0; i < 50; i++ {
			d := GenDistrict(rng, tuning, diff)
			if math.Abs(d.Demos.Sum()-1) > 1e-9 {
				t.Fatalf("%s: demo weights sum to %v", diff, d.Demos.Sum())
			}
			if d.PartisanLean < r.PartisanLean.Min || d.PartisanLean > r.PartisanLean.Max {
				t.Errorf("%s: lean %v outside %v", diff, d.PartisanLean, r.PartisanLean)
			}
			if d.MediaIntensity < 0.8 || d.MediaIntensity > 1.3 || d.Volatility < 0.8 || d.Volatility > 1.3 {
				t.Errorf("%s: amplifiers %v/%v out of range", diff, d.MediaIntensity, d.Volatility)
			}
			if d.TurnoutBase < 0.45 || d.TurnoutBase > 0.65 {
				t.Errorf("%s: turnout base %v", diff, d.TurnoutBase)
			}
			if d.Name == "" {
				t.Errorf("%s: unnamed district", diff)
			}
		}
	}
}

func TestDifficultyLeans(t *testing.T) {
	tuning := DefaultTuning()
	rng, _ := NewSeededRNG(5)
	for i := 0; i < 20; i++ {
		if d := GenDistrict(rng, tuning, ParseDifficulty("easy")); d.PartisanLean <= 0 {
			t.Errorf("easy district leans %v, want toward you", d.PartisanLean)
		}
		if d := GenDistrict(rng, tuning, ParseDifficulty("HARD")); d.PartisanLean >= 0 {
			t.Errorf("hard district leans %v, want toward the opponent", d.PartisanLean)
		}
	}
	if ParseDifficulty("nightmare") != DifficultyNormal {
		t.Error("unknown difficulty should map to normal")
	}
}

func TestGenOpponentByPhase(t *testing.T) {
	tuning := DefaultTuning()
	rng, _ := NewSeededRNG(9)
	for i := 0; i < 30; i++ {
		if o := GenOpponent(rng, tuning, PhasePrimary); o.Skill < 45 || o.Skill > 55 {
			t.Errorf("primary opponent skill %d", o.Skill)
		}
		o := GenOpponent(rng, tuning, PhaseGeneral)
		if o.Skill < 62 || o.Skill > 68 {
			t.Errorf("general opponent skill %d", o.Skill)
		}
		if o.ScandalRisk <= 0 || o.ScandalRisk > 1 {
			t.Errorf("scandal risk %v", o.ScandalRisk)
		}
	}
}

func TestDistrictDescribe(t *testing.T) {
	d := &District{Name: "XX-01 Test", PartisanLean: 0.1, MediaIntensity: 1, Volatility: 1, TurnoutBase: 0.5}
	d.Demos = DemoWeights{0.05, 0.30, 0.05, 0.20, 0.15, 0.25}

	got := d.Describe()
	if !strings.Contains(got, "XX-01 Test (leans you)") {
		t.Errorf("describe = %q", got)
	}
	if !strings.Contains(got, "college:30%, youth:25%, urban:20%") {
		t.Errorf("top demos missing from %q", got)
	}
}

func TestParsers(t *testing.T) {
	if ParseParty("GOP") != PartyRepublican || ParseParty(" dem ") != PartyDemocrat || ParseParty("green") != PartyIndependent {
		t.Error("party parsing")
	}
	if a := ParseAxis("Tone"); a != AxisTone {
		t.Errorf("ParseAxis(Tone) = %v", a)
	}
	if d, ok := ParseDemo("seniors"); !ok || d != DemoSeniors {
		t.Error("ParseDemo(seniors)")
	}
	if _, ok := ParseDemo("boomers"); ok {
		t.Error("ParseDemo should reject unknown keys")
	}
}

package sim

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTuningLoads(t *testing.T) {
	tuning := DefaultTuning()
	if tuning.Campaign.PrimaryWeeks != 6 || tuning.Campaign.GeneralWeeks != 8 {
		t.Errorf("phase lengths = %d/%d, want 6/8", tuning.Campaign.PrimaryWeeks, tuning.Campaign.GeneralWeeks)
	}
	if got := tuning.Demographics.Ideals[DemoRural]; got != (Platform{55, 70, 60, 70}) {
		t.Errorf("rural ideals = %v", got)
	}
	if got := tuning.Demographics.Parties[PartyIndependent]; got != (Platform{50, 50, 50, 50}) {
		t.Errorf("independent archetype = %v", got)
	}
	if sum := tuning.Canvass.Weights.Sum(); sum < 0.999 || sum > 1.001 {
		t.Errorf("canvass weights sum to %v", sum)
	}
	if sum := tuning.Debate.Weights.Sum(); sum < 0.999 || sum > 1.001 {
		t.Errorf("debate weights sum to %v", sum)
	}
	if tuning.Debate.Band(BandDominate).Headline != "You dominated the debate." {
		t.Errorf("dominate headline = %q", tuning.Debate.Band(BandDominate).Headline)
	}
}

func TestDefaultTuningIsACopy(t *testing.T) {
	a := DefaultTuning()
	a.Campaign.StartingCash = 1
	if b := DefaultTuning(); b.Campaign.StartingCash != 50 {
		t.Errorf("mutating one table leaked into another: %d", b.Campaign.StartingCash)
	}
}

func TestParseTuningRejects(t *testing.T) {
	tests := []struct {
		name    string
		find    string
		replace string
		invalid bool // wraps ErrInvalidTuning rather than a YAML error
	}{
		{"unknown demographic", "    rural: 1.00", "    farmers: 1.00", false},
		{"missing axis", "working: {econ: 35, social: 55, governance: 65, tone: 65}", "working: {econ: 35, social: 55, governance: 65}", false},
		{"missing party", "    independent: {econ: 50, social: 50, governance: 50, tone: 50}\n", "", false},
		{"zero sensitivity", "    youth: 1.10", "    youth: 0", true},
		{"inverted band", "win:       {above: 6,", "win:       {above: 30,", true},
		{"floor above ceiling", "  floor: 0.20", "  floor: 0.90", true},
		{"empty primary", "  primary_weeks: 6", "  primary_weeks: 0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := string(defaultTuningYAML)
			if !strings.Contains(src, tt.find) {
				t.Fatalf("fixture text %q not found", tt.find)
			}
			_, err := ParseTuning([]byte(strings.Replace(src, tt.find, tt.replace, 1)))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrInvalidTuning); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidTuning) = %v for %v", got, err)
			}
		})
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	src := strings.Replace(string(defaultTuningYAML), "  starting_cash: 50", "  starting_cash: 75", 1)
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.Campaign.StartingCash != 75 {
		t.Errorf("starting cash = %d, want 75", tuning.Campaign.StartingCash)
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestPlatformFit(t *testing.T) {
	m := DefaultTuning().Demographics
	if got := m.PlatformFit(m.Ideals[DemoCollege], DemoCollege); got != 1 {
		t.Errorf("perfect match fit = %v, want 1", got)
	}
	// 25 points off on every axis still fits; only larger gaps turn negative.
	off := m.Ideals[DemoSeniors]
	for i := range off {
		off[i] += 25
	}
	if got := m.PlatformFit(off, DemoSeniors); got != 0.5 {
		t.Errorf("fit 25 off = %v, want 0.5", got)
	}
	if got := m.PlatformFit(Platform{100, 100, 100, 0}, DemoYouth); got >= 0 {
		t.Errorf("far platform fit = %v, want negative", got)
	}
	if got := m.PartyMismatch(Platform{50, 50, 50, 50}, Party(99)); got != 0 {
		t.Errorf("unknown party should use the centrist archetype, mismatch = %v", got)
	}
}

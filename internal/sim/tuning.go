package sim

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tuning.yaml
var defaultTuningYAML []byte

// ErrInvalidTuning is returned when a balance table fails validation.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning is the full balance table. It is loaded once and treated as
// read-only configuration by every resolver.
type Tuning struct {
	Campaign     CampaignTuning    `yaml:"campaign"`
	Demographics Demographics      `yaml:"demographics"`
	World        WorldTuning       `yaml:"world"`
	Support      SupportTuning     `yaml:"support"`
	Fundraise    FundraiseTuning   `yaml:"fundraise"`
	Canvass      CanvassTuning     `yaml:"canvass"`
	Policy       PolicyTuning      `yaml:"policy"`
	Prep         PrepTuning        `yaml:"prep"`
	Rest         RestTuning        `yaml:"rest"`
	Poll         PollTuning        `yaml:"poll"`
	EarnedMedia  EarnedMediaTuning `yaml:"earned_media"`
	PaidMedia    PaidMediaTuning   `yaml:"paid_media"`
	Scandal      ScandalTuning     `yaml:"scandal"`
	Decay        DecayTuning       `yaml:"decay"`
	Debate       DebateTuning      `yaml:"debate"`
	Election     ElectionTuning    `yaml:"election"`
}

type CampaignTuning struct {
	PrimaryWeeks       int     `yaml:"primary_weeks"`
	GeneralWeeks       int     `yaml:"general_weeks"`
	StartingCash       int     `yaml:"starting_cash"`
	StartingNameID     float64 `yaml:"starting_name_id"`
	StartingEnthusiasm float64 `yaml:"starting_enthusiasm"`
	StatBase           int     `yaml:"stat_base"`
	StatPoints         int     `yaml:"stat_points"`
	RecentEvents       int     `yaml:"recent_events"`
}

// Range is an inclusive-exclusive uniform draw interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type DistrictRanges struct {
	PartisanLean   Range `yaml:"partisan_lean"`
	MediaIntensity Range `yaml:"media_intensity"`
	Volatility     Range `yaml:"volatility"`
	TurnoutBase    Range `yaml:"turnout_base"`
}

type Archetype struct {
	Archetype   string  `yaml:"archetype"`
	Skill       int     `yaml:"skill"`
	ScandalRisk float64 `yaml:"scandal_risk"`
}

type WorldTuning struct {
	DistrictNames    []string                  `yaml:"district_names"`
	OpponentNames    []string                  `yaml:"opponent_names"`
	Difficulty       map[string]DistrictRanges `yaml:"difficulty"`
	PrimaryOpponents []Archetype               `yaml:"primary_opponents"`
	GeneralOpponents []Archetype               `yaml:"general_opponents"`
}

type SupportTuning struct {
	Floor                float64 `yaml:"floor"`
	Ceiling              float64 `yaml:"ceiling"`
	MediaAmp             float64 `yaml:"media_amp"`
	LeanPull             float64 `yaml:"lean_pull"`
	InitialBase          float64 `yaml:"initial_base"`
	InitialLean          float64 `yaml:"initial_lean"`
	FitEffect            float64 `yaml:"fit_effect"`
	PartyMismatchPenalty float64 `yaml:"party_mismatch_penalty"`
}

type DonorTuning struct {
	Offset     float64 `yaml:"offset"`
	Sigma      float64 `yaml:"sigma"`
	Momentum   float64 `yaml:"momentum"`
	Enthusiasm float64 `yaml:"enthusiasm"`
}

type FundraiseTuning struct {
	Base             float64     `yaml:"base"`
	DisciplineFactor float64     `yaml:"discipline_factor"`
	NameIDFactor     float64     `yaml:"name_id_factor"`
	Fatigue          float64     `yaml:"fatigue"`
	Corporate        DonorTuning `yaml:"corporate"`
	Grassroots       DonorTuning `yaml:"grassroots"`
	Mixed            DonorTuning `yaml:"mixed"`
}

// Donor returns the tuning row for a donor kind.
func (f FundraiseTuning) Donor(k DonorKind) DonorTuning {
	switch k {
	case DonorCorporate:
		return f.Corporate
	case DonorGrassroots:
		return f.Grassroots
	default:
		return f.Mixed
	}
}

type CanvassTuning struct {
	Cost           int         `yaml:"cost"`
	BrokeDelta     float64     `yaml:"broke_delta"`
	BaseGain       float64     `yaml:"base_gain"`
	EnthusiasmGain float64     `yaml:"enthusiasm_gain"`
	EmpathyDivisor float64     `yaml:"empathy_divisor"`
	NameID         float64     `yaml:"name_id"`
	Enthusiasm     float64     `yaml:"enthusiasm"`
	Momentum       float64     `yaml:"momentum"`
	Fatigue        float64     `yaml:"fatigue"`
	Weights        DemoWeights `yaml:"weights"`
}

type PolicyTuning struct {
	Step     int     `yaml:"step"`
	Momentum float64 `yaml:"momentum"`
	Fatigue  float64 `yaml:"fatigue"`
}

type PrepTuning struct {
	Momentum float64 `yaml:"momentum"`
	Fatigue  float64 `yaml:"fatigue"`
}

type RestTuning struct {
	FatigueRelief float64 `yaml:"fatigue_relief"`
	Momentum      float64 `yaml:"momentum"`
}

type PollTuning struct {
	Cost int `yaml:"cost"`
}

type EarnedMediaTuning struct {
	Bump float64 `yaml:"bump"`
}

type PaidMediaTuning struct {
	SpendFraction float64 `yaml:"spend_fraction"`
	Cap           int     `yaml:"cap"`
	CashFloor     int     `yaml:"cash_floor"`
	MinSpend      int     `yaml:"min_spend"`
	BaseEffect    float64 `yaml:"base_effect"`
	PerThousand   float64 `yaml:"per_thousand"`
	NameIDFactor  float64 `yaml:"name_id_factor"`
}

type ScandalTuning struct {
	CandidateMedia    float64 `yaml:"candidate_media"`
	CandidateFatigue  float64 `yaml:"candidate_fatigue"`
	DamageMean        float64 `yaml:"damage_mean"`
	DamageSigma       float64 `yaml:"damage_sigma"`
	CandidateMomentum float64 `yaml:"candidate_momentum"`
	OpponentMedia     float64 `yaml:"opponent_media"`
	GainMean          float64 `yaml:"gain_mean"`
	GainSigma         float64 `yaml:"gain_sigma"`
	OpponentMomentum  float64 `yaml:"opponent_momentum"`
}

type DecayTuning struct {
	EarnedMedia   float64 `yaml:"earned_media"`
	Enthusiasm    float64 `yaml:"enthusiasm"`
	Momentum      float64 `yaml:"momentum"`
	FatigueDrift  float64 `yaml:"fatigue_drift"`
	StaminaRelief float64 `yaml:"stamina_relief"`
}

type BandTuning struct {
	Above    float64 `yaml:"above"`
	Delta    float64 `yaml:"delta"`
	Momentum float64 `yaml:"momentum"`
	Headline string  `yaml:"headline"`
}

type ZingerTuning struct {
	Base                   float64 `yaml:"base"`
	CharismaDivisor        float64 `yaml:"charisma_divisor"`
	ToneDivisor            float64 `yaml:"tone_divisor"`
	MediaFactor            float64 `yaml:"media_factor"`
	MinChance              float64 `yaml:"min_chance"`
	MaxChance              float64 `yaml:"max_chance"`
	PerfFloor              float64 `yaml:"perf_floor"`
	ViralBase              float64 `yaml:"viral_base"`
	ViralToneDivisor       float64 `yaml:"viral_tone_divisor"`
	ViralMediaFactor       float64 `yaml:"viral_media_factor"`
	ViralMin               float64 `yaml:"viral_min"`
	ViralMax               float64 `yaml:"viral_max"`
	EarnedMediaCap         float64 `yaml:"earned_media_cap"`
	BackfireBase           float64 `yaml:"backfire_base"`
	BackfireToneDivisor    float64 `yaml:"backfire_tone_divisor"`
	BackfireEmpathyDivisor float64 `yaml:"backfire_empathy_divisor"`
	BackfireMin            float64 `yaml:"backfire_min"`
	BackfireMax            float64 `yaml:"backfire_max"`
	BackfireDelta          float64 `yaml:"backfire_delta"`
	BackfireEnthusiasm     float64 `yaml:"backfire_enthusiasm"`
	SuccessDelta           float64 `yaml:"success_delta"`
	SuccessEnthusiasm      float64 `yaml:"success_enthusiasm"`
}

type DebateTuning struct {
	PrimaryWeeks     []int        `yaml:"primary_weeks"`
	GeneralWeeks     []int        `yaml:"general_weeks"`
	CharismaWeight   float64      `yaml:"charisma_weight"`
	DisciplineWeight float64      `yaml:"discipline_weight"`
	EmpathyWeight    float64      `yaml:"empathy_weight"`
	MomentumWeight   float64      `yaml:"momentum_weight"`
	FatiguePenalty   float64      `yaml:"fatigue_penalty"`
	PrepBonus        float64      `yaml:"prep_bonus"`
	OpponentSigma    float64      `yaml:"opponent_sigma"`
	Sigma            float64      `yaml:"sigma"`
	Fatigue          float64      `yaml:"fatigue"`
	Dominate         BandTuning   `yaml:"dominate"`
	Win              BandTuning   `yaml:"win"`
	Wash             BandTuning   `yaml:"wash"`
	Lose             BandTuning   `yaml:"lose"`
	Faceplant        BandTuning   `yaml:"faceplant"`
	Weights          DemoWeights  `yaml:"weights"`
	Zinger           ZingerTuning `yaml:"zinger"`
}

// Band returns the tuning row for an outcome band.
func (d DebateTuning) Band(b DebateBand) BandTuning {
	switch b {
	case BandDominate:
		return d.Dominate
	case BandWin:
		return d.Win
	case BandWash:
		return d.Wash
	case BandLose:
		return d.Lose
	default:
		return d.Faceplant
	}
}

type ElectionTuning struct {
	PrimaryThreshold  float64 `yaml:"primary_threshold"`
	WinThreshold      float64 `yaml:"win_threshold"`
	TurnoutEnthusiasm float64 `yaml:"turnout_enthusiasm"`
	TurnoutSigma      float64 `yaml:"turnout_sigma"`
	TurnoutMin        float64 `yaml:"turnout_min"`
	TurnoutMax        float64 `yaml:"turnout_max"`
	VoteSigma         float64 `yaml:"vote_sigma"`
}

// DefaultTuning returns a fresh copy of the embedded balance table.
// Panics if the embedded file is broken, which is a build defect.
func DefaultTuning() *Tuning {
	t, err := ParseTuning(defaultTuningYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded tuning.yaml: %v", err))
	}
	return t
}

// LoadTuning reads a balance table from a YAML file.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTuning(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes and validates a YAML balance table.
func ParseTuning(data []byte) (*Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tuning YAML: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tuning) validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, fmt.Sprintf(format, args...))
	}

	if t.Campaign.PrimaryWeeks < 1 || t.Campaign.GeneralWeeks < 1 {
		return invalid("phase lengths must be positive")
	}
	if t.Campaign.StatPoints < 0 || t.Campaign.StatBase < 0 {
		return invalid("stat budget must not be negative")
	}
	for _, d := range AllDemos {
		if t.Demographics.Sensitivity[d] <= 0 {
			return invalid("sensitivity for %s must be positive", d)
		}
	}
	if len(t.World.DistrictNames) == 0 || len(t.World.OpponentNames) == 0 {
		return invalid("name pools must not be empty")
	}
	if len(t.World.PrimaryOpponents) == 0 || len(t.World.GeneralOpponents) == 0 {
		return invalid("opponent archetype tables must not be empty")
	}
	for _, diff := range []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		r, ok := t.World.Difficulty[diff.String()]
		if !ok {
			return invalid("missing difficulty %q", diff)
		}
		for _, rng := range []Range{r.PartisanLean, r.MediaIntensity, r.Volatility, r.TurnoutBase} {
			if rng.Min > rng.Max {
				return invalid("difficulty %q has an inverted range", diff)
			}
		}
	}
	if t.Support.Floor >= t.Support.Ceiling {
		return invalid("support floor must be below ceiling")
	}
	if t.PaidMedia.Cap < 0 || t.PaidMedia.CashFloor < 0 || t.PaidMedia.MinSpend < 0 {
		return invalid("paid media limits must not be negative")
	}
	d := t.Debate
	if !(d.Dominate.Above > d.Win.Above && d.Win.Above > d.Wash.Above && d.Wash.Above > d.Lose.Above) {
		return invalid("debate band thresholds must be strictly decreasing")
	}
	return nil
}

// --- YAML decoding for demographic- and axis-keyed tables ---

// UnmarshalYAML decodes a mapping of demographic key to value. Missing keys are zero.
func (w *DemoWeights) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]float64
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var out DemoWeights
	for k, v := range raw {
		d, ok := ParseDemo(k)
		if !ok {
			return fmt.Errorf("line %d: unknown demographic %q", node.Line, k)
		}
		out[d] = v
	}
	*w = out
	return nil
}

// UnmarshalYAML decodes a mapping of axis name to stance. All four axes are required.
func (p *Platform) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var out Platform
	for k, v := range raw {
		a := ParseAxis(k)
		if !a.Valid() {
			return fmt.Errorf("line %d: unknown axis %q", node.Line, k)
		}
		out[a] = v
	}
	if len(raw) != int(NumAxes) {
		return fmt.Errorf("line %d: stance needs all %d axes, got %d", node.Line, NumAxes, len(raw))
	}
	*p = out
	return nil
}

// DemoPlatforms holds one ideal stance per demographic.
type DemoPlatforms [NumDemos]Platform

func (dp *DemoPlatforms) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]Platform
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var out DemoPlatforms
	for k, v := range raw {
		d, ok := ParseDemo(k)
		if !ok {
			return fmt.Errorf("line %d: unknown demographic %q", node.Line, k)
		}
		out[d] = v
	}
	if len(raw) != int(NumDemos) {
		return fmt.Errorf("line %d: ideals need all %d demographics, got %d", node.Line, NumDemos, len(raw))
	}
	*dp = out
	return nil
}

// PartyPlatforms holds the brand archetype stance of each party.
type PartyPlatforms [3]Platform

var allParties = [3]Party{PartyIndependent, PartyDemocrat, PartyRepublican}

func (pp *PartyPlatforms) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]Platform
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var out PartyPlatforms
	for _, p := range allParties {
		stance, ok := raw[p.String()]
		if !ok {
			return fmt.Errorf("line %d: missing party archetype %q", node.Line, p)
		}
		out[p] = stance
	}
	*pp = out
	return nil
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cosmoclicker/internal/economy"
)

// Scenario defines a deterministic gameplay scenario.
// A scenario seeds the economy, plays a list of steps against a Session and
// asserts on the resulting trace and final snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed feeds the random fallback once scripted rolls run out. Zero means
	// no fallback: every unscripted roll misses.
	Seed uint64 `yaml:"seed,omitempty"`

	// State overrides fields of the initial state before the first step.
	State *StateOverrides `yaml:"state,omitempty"`

	// Steps are played in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: field, cue_count, achievement, quest
	Assertions []Assertion `yaml:"assertions"`
}

// StateOverrides replaces individual starting values. Unset fields keep
// their defaults.
type StateOverrides struct {
	Balance            *float64 `yaml:"balance,omitempty"`
	TotalEarned        *float64 `yaml:"total_earned,omitempty"`
	TotalClicks        *int64   `yaml:"total_clicks,omitempty"`
	BaseClickPower     *float64 `yaml:"base_click_power,omitempty"`
	BasePassiveIncome  *float64 `yaml:"base_passive_income,omitempty"`
	CriticalChance     *float64 `yaml:"critical_chance,omitempty"`
	CriticalMultiplier *float64 `yaml:"critical_multiplier,omitempty"`
	PrestigePoints     *int     `yaml:"prestige_points,omitempty"`
	PrestigeMultiplier *float64 `yaml:"prestige_multiplier,omitempty"`
	PrestigeCost       *float64 `yaml:"prestige_cost,omitempty"`
	TalentPoints       *int     `yaml:"talent_points,omitempty"`
	ResearchPoints     *float64 `yaml:"research_points,omitempty"`
}

func (o *StateOverrides) apply(s *economy.State) {
	if o == nil {
		return
	}
	setFloat(&s.Balance, o.Balance)
	setFloat(&s.TotalEarned, o.TotalEarned)
	setFloat(&s.BaseClickPower, o.BaseClickPower)
	setFloat(&s.BasePassiveIncome, o.BasePassiveIncome)
	setFloat(&s.CriticalChance, o.CriticalChance)
	setFloat(&s.CriticalMultiplier, o.CriticalMultiplier)
	setFloat(&s.PrestigeMultiplier, o.PrestigeMultiplier)
	setFloat(&s.PrestigeCost, o.PrestigeCost)
	setFloat(&s.ResearchPoints, o.ResearchPoints)
	if o.TotalClicks != nil {
		s.TotalClicks = *o.TotalClicks
	}
	if o.PrestigePoints != nil {
		s.PrestigePoints = *o.PrestigePoints
	}
	if o.TalentPoints != nil {
		s.TalentPoints = *o.TalentPoints
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Step is one player action. Which fields apply depends on Action.
type Step struct {
	// Action is one of the Step* constants.
	Action string `yaml:"action"`

	// Count repeats click, auto_click and tick. Zero means once.
	Count int `yaml:"count,omitempty"`

	// Crit scripts the critical roll of click and auto_click:
	// "hit", "miss" or "auto" (the default, which defers to the seed).
	Crit string `yaml:"crit,omitempty"`

	Upgrade string  `yaml:"upgrade,omitempty"`
	Pet     string  `yaml:"pet,omitempty"`
	Talent  string  `yaml:"talent,omitempty"`
	Quest   string  `yaml:"quest,omitempty"`
	Event   string  `yaml:"event,omitempty"`
	Amount  float64 `yaml:"amount,omitempty"`
	Source  string  `yaml:"source,omitempty"`
	Points  int     `yaml:"points,omitempty"`
	Game    string  `yaml:"game,omitempty"`
	Score   int     `yaml:"score,omitempty"`

	// Expect optionally pins the outcome of every repetition:
	// "applied" or "rejected".
	Expect string `yaml:"expect,omitempty"`
}

// Step actions.
const (
	StepClick             = "click"
	StepAutoClick         = "auto_click"
	StepBuy               = "buy"
	StepTick              = "tick"
	StepPrestige          = "prestige"
	StepCredit            = "credit"
	StepEvent             = "event"
	StepGrantPet          = "grant_pet"
	StepSelectPet         = "select_pet"
	StepClearPet          = "clear_pet"
	StepGrantTalentPoints = "grant_talent_points"
	StepInvest            = "invest"
	StepClaim             = "claim"
	StepPlay              = "play"
)

// Crit scripts.
const (
	CritAuto = "auto"
	CritHit  = "hit"
	CritMiss = "miss"
)

// Outcomes of an action.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "field": compare a snapshot field
	// - "cue_count": compare how many times a cue fired
	// - "achievement": check an achievement flag
	// - "quest": check a quest's lifecycle status
	Type string `yaml:"type"`

	// Field is a snapshot field name (used by field).
	Field string `yaml:"field,omitempty"`

	// Cue is the cue name (used by cue_count).
	Cue string `yaml:"cue,omitempty"`

	// Numeric comparisons (used by field and cue_count). At least one is
	// required; all given ones must hold.
	Equals  *float64 `yaml:"equals,omitempty"`
	AtLeast *float64 `yaml:"at_least,omitempty"`
	AtMost  *float64 `yaml:"at_most,omitempty"`

	// Is compares a string field such as activePet (used by field).
	Is *string `yaml:"is,omitempty"`

	// Achievement is the achievement id (used by achievement).
	Achievement string `yaml:"achievement,omitempty"`

	// Unlocked is the expected achievement flag. Default: true.
	Unlocked *bool `yaml:"unlocked,omitempty"`

	// Quest is the quest id and Status one of locked, unlocked, completed,
	// claimed (used by quest).
	Quest  string `yaml:"quest,omitempty"`
	Status string `yaml:"status,omitempty"`
}

// Assertion type constants.
const (
	AssertField       = "field"
	AssertCueCount    = "cue_count"
	AssertAchievement = "achievement"
	AssertQuest       = "quest"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML with strict field checking and
// validates it.
func ParseScenario(data []byte) (*Scenario, error) {
	// Unknown fields are rejected so "assertion:" vs "assertions:" fails loudly.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	switch step.Crit {
	case "", CritAuto, CritHit, CritMiss:
	default:
		return fmt.Errorf("crit must be hit, miss or auto, got %q", step.Crit)
	}
	switch step.Expect {
	case "", OutcomeApplied, OutcomeRejected:
	default:
		return fmt.Errorf("expect must be applied or rejected, got %q", step.Expect)
	}

	require := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s requires %s", step.Action, field)
		}
		return nil
	}

	switch step.Action {
	case StepClick, StepAutoClick, StepTick, StepPrestige, StepClearPet:
		return nil
	case StepBuy:
		return require("upgrade", step.Upgrade)
	case StepGrantPet, StepSelectPet:
		return require("pet", step.Pet)
	case StepInvest:
		return require("talent", step.Talent)
	case StepClaim:
		return require("quest", step.Quest)
	case StepEvent:
		return require("event", step.Event)
	case StepPlay:
		return require("game", step.Game)
	case StepCredit:
		if step.Amount == 0 {
			return fmt.Errorf("credit requires amount")
		}
		return nil
	case StepGrantTalentPoints:
		if step.Points == 0 {
			return fmt.Errorf("grant_talent_points requires points")
		}
		return nil
	case "":
		return fmt.Errorf("action is required")
	}
	return fmt.Errorf("unknown action %q", step.Action)
}

func validateAssertion(a Assertion) error {
	numeric := a.Equals != nil || a.AtLeast != nil || a.AtMost != nil

	switch a.Type {
	case AssertField:
		if a.Field == "" {
			return fmt.Errorf("field assertion requires field")
		}
		if _, ok := numericFields[a.Field]; ok {
			if !numeric {
				return fmt.Errorf("field %q requires equals, at_least or at_most", a.Field)
			}
			return nil
		}
		if _, ok := stringFields[a.Field]; ok {
			if a.Is == nil {
				return fmt.Errorf("field %q requires is", a.Field)
			}
			return nil
		}
		return fmt.Errorf("unknown field %q", a.Field)
	case AssertCueCount:
		if a.Cue == "" {
			return fmt.Errorf("cue_count assertion requires cue")
		}
		if !numeric {
			return fmt.Errorf("cue_count requires equals, at_least or at_most")
		}
		return nil
	case AssertAchievement:
		if a.Achievement == "" {
			return fmt.Errorf("achievement assertion requires achievement")
		}
		return nil
	case AssertQuest:
		if a.Quest == "" {
			return fmt.Errorf("quest assertion requires quest")
		}
		switch a.Status {
		case QuestLocked, QuestUnlocked, QuestCompleted, QuestClaimed:
			return nil
		}
		return fmt.Errorf("quest status must be locked, unlocked, completed or claimed, got %q", a.Status)
	case "":
		return fmt.Errorf("type is required")
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

package harness

import (
	"fmt"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/progress"
)

// AssertionError provides detailed context for assertion failures.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s assertion failed:\n  expected: %s\n  actual: %s",
		e.Type, e.Expected, e.Actual)
}

// numericFields are the snapshot fields a field assertion can compare
// numerically. Names match the snapshot's JSON keys.
var numericFields = map[string]func(economy.Snapshot) float64{
	"totalClicks":        func(s economy.Snapshot) float64 { return float64(s.TotalClicks) },
	"balance":            func(s economy.Snapshot) float64 { return s.Balance },
	"passiveIncome":      func(s economy.Snapshot) float64 { return s.PassiveIncome },
	"totalEarned":        func(s economy.Snapshot) float64 { return s.TotalEarned },
	"prestigePoints":     func(s economy.Snapshot) float64 { return float64(s.PrestigePoints) },
	"upgradesOwned":      func(s economy.Snapshot) float64 { return float64(s.UpgradesOwned) },
	"clickPower":         func(s economy.Snapshot) float64 { return s.ClickPower },
	"prestigeMultiplier": func(s economy.Snapshot) float64 { return s.PrestigeMultiplier },
	"prestigeCost":       func(s economy.Snapshot) float64 { return s.PrestigeCost },
	"potentialPrestige":  func(s economy.Snapshot) float64 { return float64(s.PotentialPrestige) },
	"criticalChance":     func(s economy.Snapshot) float64 { return s.CriticalChance },
	"criticalMultiplier": func(s economy.Snapshot) float64 { return s.CriticalMultiplier },
	"comboMultiplier":    func(s economy.Snapshot) float64 { return s.ComboMultiplier },
	"comboTimer":         func(s economy.Snapshot) float64 { return float64(s.ComboTimer) },
	"autoClickSpeed":     func(s economy.Snapshot) float64 { return s.AutoClickSpeed },
	"eventRemaining":     func(s economy.Snapshot) float64 { return float64(s.EventRemaining) },
	"petsOwned":          func(s economy.Snapshot) float64 { return float64(s.PetsOwned) },
	"talentPoints":       func(s economy.Snapshot) float64 { return float64(s.TalentPoints) },
	"researchPoints":     func(s economy.Snapshot) float64 { return s.ResearchPoints },
	"criticalHits":       func(s economy.Snapshot) float64 { return float64(s.CriticalHits) },
	"upgradesPurchased":  func(s economy.Snapshot) float64 { return float64(s.UpgradesPurchased) },
	"miniGamesPlayed":    func(s economy.Snapshot) float64 { return float64(s.MiniGamesPlayed) },
}

var stringFields = map[string]func(economy.Snapshot) string{
	"activeEvent": func(s economy.Snapshot) string { return string(s.ActiveEvent) },
	"activePet":   func(s economy.Snapshot) string { return string(s.ActivePet) },
}

// Quest statuses a quest assertion can expect.
const (
	QuestLocked    = "locked"
	QuestUnlocked  = "unlocked"
	QuestCompleted = "completed"
	QuestClaimed   = "claimed"
)

// floatTolerance absorbs rounding in compounded multipliers such as 1 + 2*0.1.
const floatTolerance = 1e-9

// assertField compares one snapshot field.
func assertField(snap economy.Snapshot, a Assertion) error {
	if get, ok := stringFields[a.Field]; ok {
		if a.Is == nil {
			return fmt.Errorf("field %q requires is", a.Field)
		}
		if actual := get(snap); actual != *a.Is {
			return &AssertionError{
				Type:     AssertField,
				Expected: fmt.Sprintf("%s = %q", a.Field, *a.Is),
				Actual:   fmt.Sprintf("%s = %q", a.Field, actual),
			}
		}
		return nil
	}

	get, ok := numericFields[a.Field]
	if !ok {
		return fmt.Errorf("unknown field %q", a.Field)
	}
	return compare(AssertField, a.Field, get(snap), a)
}

// assertCueCount checks how many times a cue was raised.
func assertCueCount(result *Result, a Assertion) error {
	return compare(AssertCueCount, "count("+a.Cue+")", float64(result.CueCount(a.Cue)), a)
}

// assertAchievement checks one achievement flag.
func assertAchievement(ps progress.State, a Assertion) error {
	want := true
	if a.Unlocked != nil {
		want = *a.Unlocked
	}
	if got := ps.Achievements[catalog.AchievementID(a.Achievement)]; got != want {
		return &AssertionError{
			Type:     AssertAchievement,
			Expected: fmt.Sprintf("%s unlocked=%t", a.Achievement, want),
			Actual:   fmt.Sprintf("%s unlocked=%t", a.Achievement, got),
		}
	}
	return nil
}

// assertQuest checks the furthest lifecycle stage a quest has reached.
func assertQuest(ps progress.State, a Assertion) error {
	if got := questStatus(ps.Quests[catalog.QuestID(a.Quest)]); got != a.Status {
		return &AssertionError{
			Type:     AssertQuest,
			Expected: fmt.Sprintf("%s %s", a.Quest, a.Status),
			Actual:   fmt.Sprintf("%s %s", a.Quest, got),
		}
	}
	return nil
}

func questStatus(q progress.QuestStatus) string {
	switch {
	case q.Claimed:
		return QuestClaimed
	case q.Completed:
		return QuestCompleted
	case q.Unlocked:
		return QuestUnlocked
	}
	return QuestLocked
}

// compare applies every numeric bound the assertion sets.
func compare(typ, label string, actual float64, a Assertion) error {
	fail := func(expected string) error {
		return &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("%s %s", label, expected),
			Actual:   fmt.Sprintf("%s = %v", label, actual),
		}
	}

	if a.Equals != nil && !approxEqual(actual, *a.Equals) {
		return fail(fmt.Sprintf("= %v", *a.Equals))
	}
	if a.AtLeast != nil && actual < *a.AtLeast-floatTolerance {
		return fail(fmt.Sprintf(">= %v", *a.AtLeast))
	}
	if a.AtMost != nil && actual > *a.AtMost+floatTolerance {
		return fail(fmt.Sprintf("<= %v", *a.AtMost))
	}
	return nil
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < floatTolerance && d > -floatTolerance
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertField:
			err = assertField(result.Final, assertion)
		case AssertCueCount:
			err = assertCueCount(result, assertion)
		case AssertAchievement:
			err = assertAchievement(result.Progress, assertion)
		case AssertQuest:
			err = assertQuest(result.Progress, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

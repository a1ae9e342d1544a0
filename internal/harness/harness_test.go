package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
)

func defaultState() economy.State {
	return economy.Initial(catalog.Default(), config.Default())
}

func floatPtr(v float64) *float64 { return &v }

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "One click",
		Steps:       []Step{{Action: StepClick, Crit: CritMiss}},
		Assertions: []Assertion{
			{Type: AssertField, Field: "balance", Equals: floatPtr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)

	// The click action, its click cue and the firstClick unlock.
	require.Len(t, result.Trace, 3)
	assert.Equal(t, TraceEvent{Seq: 1, Step: 1, Type: EventAction, Name: StepClick, Outcome: OutcomeApplied, Value: 1}, result.Trace[0])
	assert.Equal(t, "click", result.Trace[1].Name)
	assert.Equal(t, EventCue, result.Trace[1].Type)
	assert.Equal(t, "achievementUnlocked", result.Trace[2].Name)
	assert.Equal(t, "firstClick", result.Trace[2].Attrs["achievement"])
}

func TestRun_CountRepeatsStep(t *testing.T) {
	scenario := &Scenario{
		Name:        "repeat",
		Description: "Five clicks",
		Steps:       []Step{{Action: StepClick, Count: 5}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Final.TotalClicks)
	assert.Equal(t, 5, result.CueCount("click"))
	assert.InDelta(t, 1.5, result.Final.ComboMultiplier, 1e-9)
}

func TestRun_CritScript(t *testing.T) {
	scenario := &Scenario{
		Name:        "crit",
		Description: "hit then miss",
		Steps: []Step{
			{Action: StepClick, Crit: CritHit},
			{Action: StepClick, Crit: CritMiss},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Final.CriticalHits)
	assert.Equal(t, 1, result.CueCount("criticalClick"))
	assert.Equal(t, 2.0, result.Trace[0].Value)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "expect",
		Description: "cannot afford the sword",
		Steps:       []Step{{Action: StepBuy, Upgrade: string(catalog.Sword), Expect: OutcomeApplied}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected applied, got rejected")
	assert.Equal(t, OutcomeRejected, result.Trace[0].Outcome)
}

func TestRun_FailingAssertion(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "balance is not 100",
		Steps:       []Step{{Action: StepClick}},
		Assertions: []Assertion{
			{Type: AssertField, Field: "balance", Equals: floatPtr(100)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "field assertion failed")
}

func TestRun_StateOverridesSettleSilently(t *testing.T) {
	scenario := &Scenario{
		Name:        "settled",
		Description: "seeded balance unlocks quietly",
		State:       &StateOverrides{Balance: floatPtr(5000)},
		Steps:       []Step{{Action: StepTick}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Zero(t, result.CueCount("achievementUnlocked"))
	assert.True(t, result.Progress.Achievements[catalog.Score1000])
}

func TestRun_UnknownMiniGame(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_game",
		Description: "no such game",
		Steps:       []Step{{Action: StepPlay, Game: "pinball"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (play)")
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/scenario_e_event_revert.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Final, second.Final)
}

func TestRun_ShippedScenariosPass(t *testing.T) {
	files := []string{
		"scenario_a_manual_click",
		"scenario_b_buy_sword",
		"scenario_c_prestige",
		"scenario_d_passive_tick",
		"scenario_e_event_revert",
		"quest_chain",
		"pets_and_crits",
	}

	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_QuestChainClaimsRewards(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/quest_chain.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	// The claim on step 2 is applied, the repeat on step 3 is not.
	var claims []string
	for _, e := range result.Trace {
		if e.Type == EventAction && e.Name == StepClaim {
			claims = append(claims, e.Outcome)
		}
	}
	assert.Equal(t, []string{OutcomeApplied, OutcomeRejected}, claims)
}

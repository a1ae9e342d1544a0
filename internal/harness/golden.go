package harness

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/progress"
)

// TraceSnapshot captures everything a scenario run produced.
// encoding/json sorts map keys, so the same run always marshals to the same
// bytes.
type TraceSnapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Trace        []TraceEvent      `json:"trace"`
	Final        economy.Snapshot  `json:"final"`
	Achievements []string          `json:"achievements"`
	Quests       map[string]string `json:"quests"`
}

// NewTraceSnapshot builds the golden view of a result. Achievements are
// listed sorted and quests are reduced to their lifecycle status.
func NewTraceSnapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Final:        result.Final,
		Achievements: unlockedAchievements(result.Progress),
		Quests:       questStatuses(result.Progress),
	}
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s TraceSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func unlockedAchievements(ps progress.State) []string {
	out := []string{}
	for id, ok := range ps.Achievements {
		if ok {
			out = append(out, string(id))
		}
	}
	slices.Sort(out)
	return out
}

func questStatuses(ps progress.State) map[string]string {
	out := make(map[string]string, len(ps.Quests))
	for id, q := range ps.Quests {
		out[string(id)] = questStatus(q)
	}
	return out
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

package harness

import (
	"context"
	"fmt"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/engine"
	"github.com/roach88/cosmoclicker/internal/minigame"
	"github.com/roach88/cosmoclicker/internal/notify"
	"github.com/roach88/cosmoclicker/internal/progress"
	"github.com/roach88/cosmoclicker/internal/savegame"
	"github.com/roach88/cosmoclicker/internal/store"
	"github.com/roach88/cosmoclicker/internal/testutil"
)

// Harness plays one scenario against a real Session.
// Rolls are scripted, sequence numbers come from a rewindable testutil.Sequence and
// the session id is fixed, so a scenario traces identically on every run.
type Harness struct {
	session  *engine.Session
	roller   *testutil.ScriptedRoller
	recorder *notify.Recorder
	clock    *testutil.Sequence
	result   *Result
}

// Run executes a scenario with the default catalog and balance.
//
// Each scenario runs against a fresh in-memory store.
//
// Execution flow:
// 1. Seed the store with the initial state plus overrides
// 2. Open a session on it (restored progress is settled silently)
// 3. Play every step, tracing actions and the cues they raise
// 4. Check step expectations and assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWith(scenario, catalog.Default(), config.Default())
}

// RunWith executes a scenario against a specific catalog and balance.
func RunWith(scenario *Scenario, cat *catalog.Catalog, bal config.Balance) (*Result, error) {
	ctx := context.Background()
	kv := store.NewMemoryKV(nil)

	es := economy.Initial(cat, bal)
	scenario.State.apply(&es)
	if err := savegame.Save(ctx, kv, es, progress.Initial(cat)); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	roller := testutil.NewScriptedRoller()
	if scenario.Seed != 0 {
		roller.WithFallback(economy.NewRoller(scenario.Seed))
	}
	recorder := notify.NewRecorder()

	session, err := engine.OpenSession(ctx, kv, cat, bal, roller,
		engine.WithNotifier(recorder),
		engine.WithSessionIDs(testutil.NewFixedSessionGenerator("scenario-"+scenario.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	h := &Harness{
		session:  session,
		roller:   roller,
		recorder: recorder,
		clock:    testutil.NewSequence(),
		result:   NewResult(),
	}

	for i, step := range scenario.Steps {
		if err := h.play(ctx, i+1, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}

	h.result.Final = session.Snapshot()
	h.result.Progress = session.Progress()

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

// play runs one step, repeating it Count times.
func (h *Harness) play(ctx context.Context, n int, step Step) error {
	times := 1
	if step.Count > 0 {
		times = step.Count
	}

	for range times {
		h.recorder.Reset()
		applied, value, err := h.apply(ctx, step)
		if err != nil {
			return err
		}

		outcome := OutcomeRejected
		if applied {
			outcome = OutcomeApplied
		}
		h.trace(TraceEvent{Step: n, Type: EventAction, Name: step.Action, Outcome: outcome, Value: value})
		for _, e := range h.recorder.Entries() {
			h.trace(TraceEvent{Step: n, Type: EventCue, Name: string(e.Cue), Attrs: cueAttrs(e.Attrs)})
		}

		if step.Expect != "" && step.Expect != outcome {
			h.result.AddError(fmt.Sprintf("step %d (%s): expected %s, got %s", n, step.Action, step.Expect, outcome))
		}
	}
	return nil
}

// apply dispatches one repetition of a step to the session.
func (h *Harness) apply(ctx context.Context, step Step) (bool, float64, error) {
	s := h.session

	switch step.Action {
	case StepClick:
		h.script(step.Crit)
		r, err := s.Click(ctx)
		return true, r.Value, err
	case StepAutoClick:
		h.script(step.Crit)
		r, err := s.AutoClick(ctx)
		return true, r.Value, err
	case StepTick:
		r, err := s.Tick(ctx)
		return true, r.Passive, err
	case StepBuy:
		ok, err := s.Buy(ctx, catalog.UpgradeID(step.Upgrade))
		return ok, 0, err
	case StepPrestige:
		r, ok, err := s.Prestige(ctx)
		return ok, float64(r.Points), err
	case StepCredit:
		ok, err := s.Credit(ctx, step.Amount, step.Source)
		if !ok {
			return false, 0, err
		}
		return true, step.Amount, err
	case StepEvent:
		ok, err := s.ActivateEvent(ctx, catalog.EventID(step.Event))
		return ok, 0, err
	case StepGrantPet:
		ok, err := s.GrantPet(ctx, catalog.PetID(step.Pet))
		return ok, 0, err
	case StepSelectPet:
		ok, err := s.SelectPet(ctx, catalog.PetID(step.Pet))
		return ok, 0, err
	case StepClearPet:
		return true, 0, s.ClearPet(ctx)
	case StepGrantTalentPoints:
		ok, err := s.GrantTalentPoints(ctx, step.Points)
		return ok, 0, err
	case StepInvest:
		ok, err := s.InvestTalent(ctx, catalog.TalentID(step.Talent))
		return ok, 0, err
	case StepClaim:
		ok, err := s.ClaimQuest(ctx, catalog.QuestID(step.Quest))
		return ok, 0, err
	case StepPlay:
		g, err := minigame.New(step.Game, h.roller, step.Score)
		if err != nil {
			return false, 0, err
		}
		reward, err := s.PlayMiniGame(ctx, g)
		if err != nil {
			return false, 0, err
		}
		return true, reward, nil
	}
	return false, 0, fmt.Errorf("unknown action %q", step.Action)
}

// script queues the critical roll for the next click. "auto" leaves it to
// the fallback source.
func (h *Harness) script(crit string) {
	switch crit {
	case CritHit:
		h.roller.Push(testutil.Hit)
	case CritMiss:
		h.roller.Push(testutil.Miss)
	}
}

func (h *Harness) trace(e TraceEvent) {
	e.Seq = h.clock.Next()
	h.result.Trace = append(h.result.Trace, e)
}

// cueAttrs folds slog-style key/value pairs into a map.
func cueAttrs(attrs []any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]any, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		if key, ok := attrs[i].(string); ok {
			m[key] = attrs[i+1]
		}
	}
	return m
}

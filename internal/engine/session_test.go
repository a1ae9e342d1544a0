package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/minigame"
	"github.com/roach88/cosmoclicker/internal/notify"
	"github.com/roach88/cosmoclicker/internal/progress"
	"github.com/roach88/cosmoclicker/internal/savegame"
	"github.com/roach88/cosmoclicker/internal/store"
	"github.com/roach88/cosmoclicker/internal/testutil"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// sessionFixture is a session wired to a SQLite store, a recorder and a
// deterministic clock.
type sessionFixture struct {
	session *Session
	store   *store.Store
	cues    *notify.Recorder
	rng     *testutil.ScriptedRoller
}

// newFixture builds a session from the initial state adjusted by mutate.
// With no rolls every sample misses.
func newFixture(t *testing.T, mutate func(*economy.State), rolls ...float64) *sessionFixture {
	t.Helper()
	cat := catalog.Default()
	bal := config.Default()

	es := economy.Initial(cat, bal)
	if mutate != nil {
		mutate(&es)
	}

	f := &sessionFixture{
		store: setupTestStore(t),
		cues:  notify.NewRecorder(),
		rng:   testutil.NewScriptedRoller(rolls...),
	}
	game := economy.Restore(cat, bal, f.rng, es)
	f.session = NewSession(game, progress.NewTracker(cat), f.store,
		WithNotifier(f.cues),
		WithJournal(f.store),
		WithSequencer(testutil.NewSequence()),
		WithSessionIDs(NewFixedGenerator("session-1")),
	)
	return f
}

func (f *sessionFixture) journal(t *testing.T) []store.JournalEntry {
	t.Helper()
	entries, err := f.store.ReadJournal(context.Background(), "session-1")
	require.NoError(t, err)
	return entries
}

func TestSession_ClickPipeline(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	r, err := f.session.Click(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Value)
	assert.False(t, r.Critical)

	assert.Equal(t, []notify.Cue{notify.CueClick, notify.CueAchievementUnlocked}, f.cues.Cues())

	v, ok, err := f.store.Get(ctx, savegame.KeyBalance)
	require.NoError(t, err)
	require.True(t, ok, "state is written through")
	assert.Equal(t, "1", v)

	entries := f.journal(t)
	require.Len(t, entries, 3)
	assert.Equal(t, store.KindAction, entries[0].Kind)
	assert.Equal(t, "click", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, "click", entries[1].Name)
	assert.Equal(t, store.KindCue, entries[1].Kind)
	assert.Equal(t, "achievementUnlocked", entries[2].Name)
	assert.Equal(t, "firstClick", entries[2].Detail["achievement"])
}

func TestSession_CriticalClickCue(t *testing.T) {
	f := newFixture(t, nil, testutil.Hit)

	r, err := f.session.Click(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Critical)
	assert.Equal(t, 2.0, r.Value)
	assert.Equal(t, 1, f.cues.Count(notify.CueClick))
	assert.Equal(t, 1, f.cues.Count(notify.CueCriticalClick))
}

func TestSession_AutoClickHasNoClickCue(t *testing.T) {
	f := newFixture(t, nil)

	r, err := f.session.AutoClick(context.Background())
	require.NoError(t, err)
	assert.False(t, r.Manual)
	assert.Equal(t, 0, f.cues.Count(notify.CueClick))
	assert.Equal(t, int64(0), f.session.Snapshot().TotalClicks)
	assert.Equal(t, 1.0, f.session.Snapshot().Balance)
}

func TestSession_FailedPurchaseIsInert(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	ok, err := f.session.Buy(ctx, catalog.Sword)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, f.cues.Cues())
	assert.Empty(t, f.journal(t))
	_, saved, err := f.store.Get(ctx, savegame.KeyBalance)
	require.NoError(t, err)
	assert.False(t, saved, "nothing is written for a no-op")
}

func TestSession_Buy(t *testing.T) {
	f := newFixture(t, func(s *economy.State) { s.Balance = 10 })

	ok, err := f.session.Buy(context.Background(), catalog.Sword)
	require.NoError(t, err)
	require.True(t, ok)

	st := f.session.Game().State()
	assert.Equal(t, 0.0, st.Balance)
	assert.Equal(t, economy.UpgradeState{Owned: 1, Cost: 15}, st.Upgrades[catalog.Sword])
	assert.Equal(t, []notify.Cue{notify.CuePurchase}, f.cues.Cues())

	entries := f.journal(t)
	require.NotEmpty(t, entries)
	assert.Equal(t, "buy", entries[0].Name)
	assert.Equal(t, "sword", entries[0].Detail["upgrade"])
	assert.Equal(t, 15.0, entries[0].Detail["next_cost"])
}

func TestSession_Prestige(t *testing.T) {
	f := newFixture(t, func(s *economy.State) {
		s.TotalEarned = 4000
		s.Balance = 10000
	})

	r, ok, err := f.session.Prestige(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, r.Points)
	assert.Equal(t, 1, f.cues.Count(notify.CuePrestige))
	assert.Equal(t, 1, f.cues.Count(notify.CueAchievementUnlocked), "prestige1")
	assert.True(t, f.session.Progress().Achievements[catalog.Prestige1])
}

func TestSession_EventLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	before := f.session.Game().State().BaseClickPower

	ok, err := f.session.ActivateEvent(ctx, catalog.MeteorShower)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before*2, f.session.Game().State().BaseClickPower)

	for i := 0; i < 29; i++ {
		r, err := f.session.Tick(ctx)
		require.NoError(t, err)
		require.Empty(t, r.EventEnded, "tick %d", i+1)
	}
	r, err := f.session.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.MeteorShower, r.EventEnded)

	assert.Equal(t, before, f.session.Game().State().BaseClickPower)
	assert.Equal(t, 1, f.cues.Count(notify.CueEventStarted))
	assert.Equal(t, 1, f.cues.Count(notify.CueEventEnded))
}

func TestSession_PlayMiniGame(t *testing.T) {
	f := newFixture(t, nil)

	reward, err := f.session.PlayMiniGame(context.Background(), minigame.NewAsteroids(minigame.FixedScore(52)))
	require.NoError(t, err)
	assert.Equal(t, 10.0, reward)

	snap := f.session.Snapshot()
	assert.Equal(t, 10.0, snap.Balance)
	assert.Equal(t, 10.0, snap.TotalEarned)
	assert.Equal(t, int64(1), snap.MiniGamesPlayed)
}

func TestSession_PlayMiniGameFailureChangesNothing(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.session.PlayMiniGame(context.Background(), minigame.NewAsteroids(minigame.FixedScore(-1)))
	require.Error(t, err)
	assert.False(t, IsPersistenceError(err))

	snap := f.session.Snapshot()
	assert.Equal(t, 0.0, snap.Balance)
	assert.Equal(t, int64(0), snap.MiniGamesPlayed)
	assert.Empty(t, f.journal(t))
}

func TestSession_ClaimFirstQuest(t *testing.T) {
	f := newFixture(t, func(s *economy.State) {
		s.TotalClicks = 99
		s.Balance = 600
	})
	ctx := context.Background()

	ok, err := f.session.ClaimQuest(ctx, catalog.FirstProbe)
	require.NoError(t, err)
	assert.False(t, ok, "incomplete quest cannot be claimed")

	_, err = f.session.Click(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cues.Count(notify.CueQuestCompleted))
	assert.True(t, f.session.Progress().Quests[catalog.DefendStation].Unlocked)
	pending := f.session.Game().State()
	assert.Zero(t, pending.TalentPoints, "completion alone pays nothing")
	assert.Zero(t, pending.ResearchPoints)

	balance := f.session.Snapshot().Balance
	ok, err = f.session.ClaimQuest(ctx, catalog.FirstProbe)
	require.NoError(t, err)
	require.True(t, ok)

	st := f.session.Game().State()
	assert.Equal(t, balance+1000, st.Balance)
	assert.Equal(t, 50.0, st.ResearchPoints)
	assert.Equal(t, 1, st.TalentPoints)

	ok, err = f.session.ClaimQuest(ctx, catalog.FirstProbe)
	require.NoError(t, err)
	assert.False(t, ok, "claims are one-shot")
}

func TestSession_SpecialRewardGrantsNextPet(t *testing.T) {
	cat := catalog.Default()
	bal := config.Default()
	kv := store.NewMemoryKV(nil)
	ctx := context.Background()

	es := economy.Initial(cat, bal)
	es.TotalClicks = 500
	es.Upgrades[catalog.Sword] = economy.UpgradeState{Owned: 3, Cost: 33}
	ps := progress.Initial(cat)
	ps.Quests[catalog.FirstProbe] = progress.QuestStatus{Unlocked: true, Completed: true, Claimed: true}

	game := economy.Restore(cat, bal, testutil.NewScriptedRoller(), es)
	s := NewSession(game, progress.RestoreTracker(cat, ps), kv, WithSessionIDs(NewFixedGenerator("s")))

	ok, err := s.Credit(ctx, 1, "test")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, s.Progress().Quests[catalog.DefendStation].Completed)

	ok, err = s.ClaimQuest(ctx, catalog.DefendStation)
	require.NoError(t, err)
	require.True(t, ok)

	st := s.Game().State()
	assert.True(t, st.Pets[catalog.RoboCat], "first unowned pet in catalog order")
	assert.Equal(t, 2, st.TalentPoints)
	assert.Equal(t, 2001.0, st.Balance)
}

func TestSession_PetsAndTalents(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	ok, err := f.session.SelectPet(ctx, catalog.RoboCat)
	require.NoError(t, err)
	assert.False(t, ok, "unowned pet")

	ok, err = f.session.GrantPet(ctx, catalog.RoboCat)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.session.SelectPet(ctx, catalog.RoboCat)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.25, f.session.Effective().ClickPower)

	require.NoError(t, f.session.ClearPet(ctx))
	assert.Equal(t, 1.0, f.session.Effective().ClickPower)

	ok, err = f.session.InvestTalent(ctx, catalog.ClickMastery)
	require.NoError(t, err)
	assert.False(t, ok, "no points")

	ok, err = f.session.GrantTalentPoints(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.session.InvestTalent(ctx, catalog.ClickMastery)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, f.session.Game().State().Talents[catalog.ClickMastery])
}

func TestSession_PersistenceFailureKeepsMutation(t *testing.T) {
	cat := catalog.Default()
	kv := store.NewMemoryKV(nil)
	boom := errors.New("disk full")
	kv.FailWith(boom)

	game := economy.New(cat, config.Default(), testutil.NewScriptedRoller())
	s := NewSession(game, progress.NewTracker(cat), kv, WithSessionIDs(NewFixedGenerator("s")))

	_, err := s.Click(context.Background())
	require.Error(t, err)
	assert.True(t, IsPersistenceError(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, s.Snapshot().Balance)

	kv.FailWith(nil)
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, "1", kv.Snapshot()[savegame.KeyBalance])
}

func TestOpenSession_RestoresSaveAndSettlesProgress(t *testing.T) {
	cat := catalog.Default()
	ctx := context.Background()
	kv := store.NewMemoryKV(map[string]string{
		savegame.KeyBalance:     "42",
		savegame.KeyTotalClicks: "5",
		savegame.KeyClickPower:  "garbage",
	})
	rec := notify.NewRecorder()

	s, err := OpenSession(ctx, kv, cat, config.Default(), testutil.NewScriptedRoller(),
		WithNotifier(rec),
		WithSessionIDs(NewFixedGenerator("restored")),
	)
	require.NoError(t, err)
	assert.Equal(t, "restored", s.ID())

	snap := s.Snapshot()
	assert.Equal(t, 42.0, snap.Balance)
	assert.Equal(t, 1.0, snap.ClickPower, "malformed field falls back")
	assert.True(t, s.Progress().Achievements[catalog.FirstClick], "settled on open")

	_, err = s.Click(ctx)
	require.NoError(t, err)
	assert.Equal(t, []notify.Cue{notify.CueClick}, rec.Cues(), "no stale unlock cue")
}

func TestOpenSession_StoreError(t *testing.T) {
	kv := store.NewMemoryKV(nil)
	kv.FailWith(errors.New("locked"))

	_, err := OpenSession(context.Background(), kv, catalog.Default(), config.Default(), testutil.NewScriptedRoller())
	assert.Error(t, err)
}

func TestSession_ContinuesJournal(t *testing.T) {
	st := setupTestStore(t)
	cat := catalog.Default()
	ctx := context.Background()

	first := NewSession(economy.New(cat, config.Default(), testutil.NewScriptedRoller()),
		progress.NewTracker(cat), st, WithJournal(st), WithSessionID("shared"))
	_, err := first.Credit(ctx, 5, "test")
	require.NoError(t, err)

	sessions, err := st.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	second, err := OpenSession(ctx, st, cat, config.Default(), testutil.NewScriptedRoller(),
		WithJournal(st),
		WithSessionID("shared"),
		WithSequencer(NewClockAt(sessions[0].LastSeq)),
	)
	require.NoError(t, err)
	_, err = second.Credit(ctx, 5, "test")
	require.NoError(t, err)

	entries, err := st.ReadJournal(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, int64(2), entries[1].Seq)
	assert.Equal(t, 10.0, second.Snapshot().Balance)
}

func TestAttrsToDetail(t *testing.T) {
	assert.Nil(t, attrsToDetail(nil))
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, attrsToDetail([]any{"a", 1, "b", "x"}))
	assert.Equal(t, map[string]any{"a": 1, "!BADKEY": "dangling"}, attrsToDetail([]any{"a", 1, "dangling"}))
}

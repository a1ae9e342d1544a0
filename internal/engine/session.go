package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/minigame"
	"github.com/roach88/cosmoclicker/internal/notify"
	"github.com/roach88/cosmoclicker/internal/progress"
	"github.com/roach88/cosmoclicker/internal/savegame"
	"github.com/roach88/cosmoclicker/internal/store"
)

// Sequencer hands out journal seq numbers. Implemented by Clock and
// testutil.Sequence.
type Sequencer interface {
	Next() int64
}

// Session binds one economy.Game and its progress.Tracker to the
// collaborators around them: the notifier, the key/value save and the
// journal.
//
// Every mutating method runs the same pipeline:
//
//  1. mutate the game
//  2. evaluate achievements and quests against a fresh snapshot
//  3. emit cues
//  4. write the full state through to the KV store
//  5. journal the action and its cues
//
// An operation whose precondition fails changes nothing and skips steps
// 2-5. A failed write is returned as a persistence RuntimeError after the
// in-memory mutation has already happened; the next successful save carries
// it.
//
// Session is not safe for concurrent use. Inside an Engine only the Run loop
// touches it.
type Session struct {
	id      string
	game    *economy.Game
	tracker *progress.Tracker
	kv      store.KV
	journal store.Journal
	notify  notify.Notifier
	seq     Sequencer
	ids     SessionIDGenerator

	pending []raised
}

type raised struct {
	cue   notify.Cue
	attrs []any
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNotifier sets where cues go. Default: notify.Discard.
func WithNotifier(n notify.Notifier) SessionOption {
	return func(s *Session) {
		s.notify = n
	}
}

// WithJournal enables journaling. Default: no journal.
func WithJournal(j store.Journal) SessionOption {
	return func(s *Session) {
		s.journal = j
	}
}

// WithSequencer sets the journal seq source. Default: a fresh Clock.
func WithSequencer(seq Sequencer) SessionOption {
	return func(s *Session) {
		s.seq = seq
	}
}

// WithSessionIDs sets the session id source. Default: UUIDv7Generator.
func WithSessionIDs(gen SessionIDGenerator) SessionOption {
	return func(s *Session) {
		s.ids = gen
	}
}

// WithSessionID pins the session id, for continuing an existing journal.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession wraps an existing game and tracker.
func NewSession(game *economy.Game, tracker *progress.Tracker, kv store.KV, opts ...SessionOption) *Session {
	s := &Session{
		game:    game,
		tracker: tracker,
		kv:      kv,
		notify:  notify.Discard,
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seq == nil {
		s.seq = NewClock()
	}
	if s.id == "" {
		s.id = s.ids.Generate()
	}
	return s
}

// OpenSession loads the saved state from kv and wraps it in a Session.
// Malformed fields fall back to defaults; only a store read failure is an
// error.
func OpenSession(
	ctx context.Context,
	kv store.KV,
	cat *catalog.Catalog,
	bal config.Balance,
	rng economy.Roller,
	opts ...SessionOption,
) (*Session, error) {
	es, ps, err := savegame.Load(ctx, kv, cat, bal)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	game := economy.Restore(cat, bal, rng, es)
	tracker := progress.RestoreTracker(cat, ps)
	s := NewSession(game, tracker, kv, opts...)

	// A restored state may already satisfy conditions it was saved before
	// reaching; settle them silently so the first action does not report
	// stale unlocks.
	tracker.Evaluate(game.Snapshot())

	slog.Debug("session opened",
		"session", s.id,
		"balance", es.Balance,
		"total_clicks", es.TotalClicks,
	)
	return s, nil
}

// ID returns the session id journal entries are written under.
func (s *Session) ID() string {
	return s.id
}

// Game returns the owned game. Callers must respect the single-owner rule.
func (s *Session) Game() *economy.Game {
	return s.game
}

// Snapshot returns the collaborator view of the current state.
func (s *Session) Snapshot() economy.Snapshot {
	return s.game.Snapshot()
}

// Effective returns the current effective modifiers.
func (s *Session) Effective() economy.Effective {
	return s.game.Effective()
}

// Progress returns a copy of the achievement and quest flags.
func (s *Session) Progress() progress.State {
	return s.tracker.State()
}

// AchievementPercent is the share of unlocked achievements.
func (s *Session) AchievementPercent() float64 {
	return s.tracker.AchievementPercent()
}

// Save writes the current state without journaling anything.
func (s *Session) Save(ctx context.Context) error {
	if err := savegame.Save(ctx, s.kv, s.game.State(), s.tracker.State()); err != nil {
		return NewPersistenceError(s.id, "save", err)
	}
	return nil
}

// Click resolves one manual click.
func (s *Session) Click(ctx context.Context) (economy.ClickResult, error) {
	r := s.game.Click(true)
	s.raise(notify.CueClick, "value", r.Value, "combo", r.Combo)
	if r.Critical {
		s.raise(notify.CueCriticalClick, "value", r.Value)
	}
	return r, s.commit(ctx, "click", map[string]any{
		"value":    r.Value,
		"critical": r.Critical,
		"combo":    r.Combo,
	})
}

// AutoClick resolves one synthetic auto-click. It emits no click cue, only
// criticalClick when it crits.
func (s *Session) AutoClick(ctx context.Context) (economy.ClickResult, error) {
	r := s.game.Click(false)
	if r.Critical {
		s.raise(notify.CueCriticalClick, "value", r.Value, "auto", true)
	}
	return r, s.commit(ctx, "auto_click", map[string]any{
		"value":    r.Value,
		"critical": r.Critical,
	})
}

// Tick advances the economy by one tick interval.
func (s *Session) Tick(ctx context.Context) (economy.TickResult, error) {
	r := s.game.Tick()
	if r.EventEnded != "" {
		s.raise(notify.CueEventEnded, "event", string(r.EventEnded))
	}
	if r.EventStarted != "" {
		s.raise(notify.CueEventStarted, "event", string(r.EventStarted))
	}

	detail := map[string]any{"passive": r.Passive}
	if r.ComboExpired {
		detail["combo_expired"] = true
	}
	return r, s.commit(ctx, "tick", detail)
}

// Buy purchases one level of an upgrade.
func (s *Session) Buy(ctx context.Context, id catalog.UpgradeID) (bool, error) {
	if !s.game.Purchase(id) {
		return false, nil
	}
	st := s.game.State().Upgrades[id]
	s.raise(notify.CuePurchase, "upgrade", string(id), "owned", st.Owned)
	return true, s.commit(ctx, "buy", map[string]any{
		"upgrade":   string(id),
		"owned":     st.Owned,
		"next_cost": st.Cost,
	})
}

// Prestige performs a prestige reset when the game allows it.
func (s *Session) Prestige(ctx context.Context) (economy.PrestigeResult, bool, error) {
	r, ok := s.game.Prestige()
	if !ok {
		return economy.PrestigeResult{}, false, nil
	}
	s.raise(notify.CuePrestige, "points", r.Points, "multiplier", r.Multiplier)
	return r, true, s.commit(ctx, "prestige", map[string]any{
		"points":     r.Points,
		"multiplier": r.Multiplier,
		"next_cost":  r.NextCost,
	})
}

// Credit pays an external reward. source names where it came from.
func (s *Session) Credit(ctx context.Context, amount float64, source string) (bool, error) {
	if !s.game.Credit(amount) {
		return false, nil
	}
	return true, s.commit(ctx, "credit", map[string]any{
		"amount": amount,
		"source": source,
	})
}

// PlayMiniGame plays g to completion and credits its reward. A game that
// fails to complete changes nothing and its error is returned as is.
func (s *Session) PlayMiniGame(ctx context.Context, g minigame.Game) (float64, error) {
	reward, err := g.Play(ctx)
	if err != nil {
		return 0, fmt.Errorf("play %s: %w", g.ID(), err)
	}
	s.game.Credit(reward)
	s.game.RecordMiniGame()
	return reward, s.commit(ctx, "play", map[string]any{
		"game":   g.ID(),
		"reward": reward,
	})
}

// ClaimQuest pays out a completed quest's rewards. Completion itself pays
// nothing; rewards wait here until claimed, once.
func (s *Session) ClaimQuest(ctx context.Context, id catalog.QuestID) (bool, error) {
	rewards, ok := s.tracker.Claim(id)
	if !ok {
		return false, nil
	}

	paid := make([]map[string]any, 0, len(rewards))
	for _, r := range rewards {
		entry := map[string]any{"type": string(r.Type), "amount": r.Amount}
		switch r.Type {
		case catalog.RewardCoins:
			s.game.Credit(r.Amount)
		case catalog.RewardResearch:
			s.game.GrantResearch(r.Amount)
		case catalog.RewardTalent:
			s.game.GrantTalentPoints(int(r.Amount))
		case catalog.RewardSpecial:
			if pet, ok := s.game.NextUnownedPet(); ok {
				s.game.GrantPet(pet)
				entry["pet"] = string(pet)
			}
		}
		paid = append(paid, entry)
	}
	return true, s.commit(ctx, "claim", map[string]any{
		"quest":   string(id),
		"rewards": paid,
	})
}

// GrantPet adds a pet to the collection.
func (s *Session) GrantPet(ctx context.Context, id catalog.PetID) (bool, error) {
	if !s.game.GrantPet(id) {
		return false, nil
	}
	return true, s.commit(ctx, "grant_pet", map[string]any{"pet": string(id)})
}

// SelectPet makes an owned pet the active one.
func (s *Session) SelectPet(ctx context.Context, id catalog.PetID) (bool, error) {
	if !s.game.SelectPet(id) {
		return false, nil
	}
	return true, s.commit(ctx, "select_pet", map[string]any{"pet": string(id)})
}

// ClearPet deactivates the active pet.
func (s *Session) ClearPet(ctx context.Context) error {
	s.game.ClearPet()
	return s.commit(ctx, "clear_pet", nil)
}

// GrantTalentPoints adds unspent talent points.
func (s *Session) GrantTalentPoints(ctx context.Context, n int) (bool, error) {
	if !s.game.GrantTalentPoints(n) {
		return false, nil
	}
	return true, s.commit(ctx, "grant_talent_points", map[string]any{"points": n})
}

// InvestTalent spends one talent point.
func (s *Session) InvestTalent(ctx context.Context, id catalog.TalentID) (bool, error) {
	if !s.game.InvestTalent(id) {
		return false, nil
	}
	return true, s.commit(ctx, "invest", map[string]any{
		"talent": string(id),
		"level":  s.game.State().Talents[id],
	})
}

// ActivateEvent forces an event through the scheduler's activation path.
func (s *Session) ActivateEvent(ctx context.Context, id catalog.EventID) (bool, error) {
	if !s.game.ActivateEvent(id) {
		return false, nil
	}
	s.raise(notify.CueEventStarted, "event", string(id))
	return true, s.commit(ctx, "event", map[string]any{"event": string(id)})
}

func (s *Session) raise(c notify.Cue, attrs ...any) {
	s.pending = append(s.pending, raised{cue: c, attrs: attrs})
}

// commit runs steps 2-5 of the pipeline for an applied mutation.
func (s *Session) commit(ctx context.Context, action string, detail map[string]any) error {
	upd := s.tracker.Evaluate(s.game.Snapshot())
	for _, id := range upd.Achievements {
		s.raise(notify.CueAchievementUnlocked, "achievement", string(id))
	}
	for _, id := range upd.CompletedQuests {
		s.raise(notify.CueQuestCompleted, "quest", string(id))
	}
	if len(upd.UnlockedQuests) > 0 {
		slog.Debug("quests unlocked", "session", s.id, "quests", upd.UnlockedQuests)
	}

	cues := s.pending
	s.pending = nil
	for _, c := range cues {
		s.notify.Notify(c.cue, c.attrs...)
	}

	var errs []error
	if err := savegame.Save(ctx, s.kv, s.game.State(), s.tracker.State()); err != nil {
		errs = append(errs, err)
	}
	if s.journal != nil {
		if err := s.record(ctx, action, detail, cues); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return NewPersistenceError(s.id, action, errors.Join(errs...))
	}
	return nil
}

func (s *Session) record(ctx context.Context, action string, detail map[string]any, cues []raised) error {
	entries := make([]store.JournalEntry, 0, 1+len(cues))
	entries = append(entries, store.JournalEntry{
		Kind:   store.KindAction,
		Name:   action,
		Detail: detail,
	})
	for _, c := range cues {
		entries = append(entries, store.JournalEntry{
			Kind:   store.KindCue,
			Name:   string(c.cue),
			Detail: attrsToDetail(c.attrs),
		})
	}

	for _, e := range entries {
		e.SessionID = s.id
		e.Seq = s.seq.Next()
		if err := s.journal.AppendJournal(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// attrsToDetail folds slog-style key/value pairs into a map. A dangling key
// or a non-string key is kept under "!BADKEY", as slog does.
func attrsToDetail(attrs []any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	detail := make(map[string]any, len(attrs)/2)
	for i := 0; i < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok || i+1 >= len(attrs) {
			detail["!BADKEY"] = attrs[i]
			i--
			continue
		}
		detail[key] = attrs[i+1]
	}
	return detail
}

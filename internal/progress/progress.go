// Package progress tracks achievements and the story quest chain.
//
// Conditions are (metric, threshold) pairs from the catalog evaluated
// against a fresh snapshot after every mutating operation. Only the
// resulting flags are stored. Unlocks are sticky: nothing, prestige
// included, ever clears them.
package progress

import (
	"maps"

	"github.com/roach88/cosmoclicker/internal/catalog"
)

// Metrics is the read-only view conditions are evaluated against.
// economy.Snapshot implements it.
type Metrics interface {
	Metric(m catalog.Metric) float64
}

// QuestStatus is the persisted lifecycle of one story quest.
type QuestStatus struct {
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	Claimed   bool `json:"claimed"`
}

// State is the persisted flag set.
type State struct {
	Achievements map[catalog.AchievementID]bool  `json:"achievements"`
	Quests       map[catalog.QuestID]QuestStatus `json:"quests"`
}

// Initial returns a state with nothing unlocked except the first quest of
// the chain.
func Initial(cat *catalog.Catalog) State {
	s := State{
		Achievements: make(map[catalog.AchievementID]bool),
		Quests:       make(map[catalog.QuestID]QuestStatus),
	}
	if len(cat.Quests) > 0 {
		s.Quests[cat.Quests[0].ID] = QuestStatus{Unlocked: true}
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		Achievements: maps.Clone(s.Achievements),
		Quests:       maps.Clone(s.Quests),
	}
}

// Update lists what changed in one evaluation.
type Update struct {
	Achievements    []catalog.AchievementID
	CompletedQuests []catalog.QuestID
	UnlockedQuests  []catalog.QuestID
}

// Empty reports whether the evaluation changed nothing.
func (u Update) Empty() bool {
	return len(u.Achievements) == 0 && len(u.CompletedQuests) == 0 && len(u.UnlockedQuests) == 0
}

// Tracker evaluates conditions and owns the flag State. Like economy.Game it
// has exactly one owner.
type Tracker struct {
	cat *catalog.Catalog
	s   State
}

// NewTracker creates a tracker at the initial state.
func NewTracker(cat *catalog.Catalog) *Tracker {
	return &Tracker{cat: cat, s: Initial(cat)}
}

// RestoreTracker creates a tracker from saved flags. Unknown ids are
// dropped, and the unlocked flags are rebuilt from the chain: a quest is
// unlocked exactly when it is first or its predecessor is completed.
func RestoreTracker(cat *catalog.Catalog, s State) *Tracker {
	base := Initial(cat)
	for _, a := range cat.Achievements {
		if s.Achievements[a.ID] {
			base.Achievements[a.ID] = true
		}
	}
	for i, q := range cat.Quests {
		st := s.Quests[q.ID]
		st.Unlocked = i == 0 || base.Quests[cat.Quests[i-1].ID].Completed
		if !st.Unlocked {
			continue
		}
		if !st.Completed {
			st.Claimed = false
		}
		base.Quests[q.ID] = st
	}
	return &Tracker{cat: cat, s: base}
}

// State returns a deep copy of the flags.
func (t *Tracker) State() State {
	return t.s.Clone()
}

// Evaluate checks every locked achievement and every unlocked, incomplete
// quest against m, in catalog order.
func (t *Tracker) Evaluate(m Metrics) Update {
	var u Update

	for _, a := range t.cat.Achievements {
		if t.s.Achievements[a.ID] {
			continue
		}
		if m.Metric(a.Metric) >= a.Threshold {
			t.s.Achievements[a.ID] = true
			u.Achievements = append(u.Achievements, a.ID)
		}
	}

	for i, q := range t.cat.Quests {
		st := t.s.Quests[q.ID]
		if !st.Unlocked || st.Completed || !requirementsMet(q, m) {
			continue
		}
		st.Completed = true
		t.s.Quests[q.ID] = st
		u.CompletedQuests = append(u.CompletedQuests, q.ID)

		if i+1 < len(t.cat.Quests) {
			next := t.cat.Quests[i+1].ID
			ns := t.s.Quests[next]
			if !ns.Unlocked {
				ns.Unlocked = true
				t.s.Quests[next] = ns
				u.UnlockedQuests = append(u.UnlockedQuests, next)
			}
		}
	}

	return u
}

func requirementsMet(q catalog.Quest, m Metrics) bool {
	for _, r := range q.Requirements {
		if m.Metric(r.Metric) < r.Amount {
			return false
		}
	}
	return true
}

// Claim marks a completed quest as claimed and returns its rewards. It fails
// for unknown, incomplete or already claimed quests.
func (t *Tracker) Claim(id catalog.QuestID) ([]catalog.Reward, bool) {
	q, ok := t.cat.Quest(id)
	if !ok {
		return nil, false
	}
	st := t.s.Quests[id]
	if !st.Completed || st.Claimed {
		return nil, false
	}
	st.Claimed = true
	t.s.Quests[id] = st
	return append([]catalog.Reward(nil), q.Rewards...), true
}

// Quest returns the status of one quest.
func (t *Tracker) Quest(id catalog.QuestID) QuestStatus {
	return t.s.Quests[id]
}

// Achieved reports whether an achievement is unlocked.
func (t *Tracker) Achieved(id catalog.AchievementID) bool {
	return t.s.Achievements[id]
}

// AchievementPercent is the share of unlocked achievements in [0, 100].
// It is derived on every call and never stored.
func (t *Tracker) AchievementPercent() float64 {
	if len(t.cat.Achievements) == 0 {
		return 0
	}
	n := 0
	for _, a := range t.cat.Achievements {
		if t.s.Achievements[a.ID] {
			n++
		}
	}
	return float64(n) / float64(len(t.cat.Achievements)) * 100
}

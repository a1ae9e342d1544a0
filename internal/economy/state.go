package economy

import (
	"log/slog"
	"maps"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
)

// UpgradeState is the live part of an upgrade: how many are owned and the
// current price. The definition itself stays in the catalog.
type UpgradeState struct {
	Owned int     `json:"owned"`
	Cost  float64 `json:"cost"`
}

// ActiveEvent is the record of the single running event.
//
// Applied is the delta added to the target base value at activation. Expiry
// subtracts it; no closure or captured getter is involved.
type ActiveEvent struct {
	ID        catalog.EventID `json:"id"`
	Remaining int             `json:"remaining"` // seconds
	Applied   float64         `json:"applied"`
}

// State is the full persisted ledger of one player.
//
// Values of State are plain data. A Game never hands out its own State; the
// State method returns a deep copy.
type State struct {
	// Economy
	Balance            float64 `json:"balance"`
	TotalEarned        float64 `json:"totalEarned"`
	TotalClicks        int64   `json:"totalClicks"`
	BaseClickPower     float64 `json:"baseClickPower"`
	BasePassiveIncome  float64 `json:"basePassiveIncome"`
	PrestigeMultiplier float64 `json:"prestigeMultiplier"`
	PrestigePoints     int     `json:"prestigePoints"`
	PrestigeCost       float64 `json:"prestigeCost"`

	// Critical hits
	CriticalChance     float64 `json:"criticalChance"` // percent
	CriticalMultiplier float64 `json:"criticalMultiplier"`

	// Combo
	ComboMultiplier float64 `json:"comboMultiplier"`
	ComboTimer      int     `json:"comboTimer"`

	// Auto-clicker
	AutoClickActive bool    `json:"autoClickerActive"`
	AutoClickSpeed  float64 `json:"autoClickerSpeed"`

	Upgrades map[catalog.UpgradeID]UpgradeState `json:"upgrades"`

	// Prestige-immune collections
	Pets           map[catalog.PetID]bool   `json:"pets"`
	ActivePet      catalog.PetID            `json:"activePet,omitempty"`
	Talents        map[catalog.TalentID]int `json:"talents"`
	TalentPoints   int                      `json:"talentPoints"`
	ResearchPoints float64                  `json:"researchPoints"`

	Event *ActiveEvent `json:"activeEvent,omitempty"`

	// Lifetime counters
	CriticalHits      int64 `json:"criticalHits"`
	UpgradesPurchased int64 `json:"upgradesPurchased"`
	MiniGamesPlayed   int64 `json:"miniGamesPlayed"`
}

// Initial returns the start-of-game state: every field at its literal
// default and every upgrade unowned at its catalog price.
func Initial(cat *catalog.Catalog, bal config.Balance) State {
	s := State{
		BaseClickPower:     bal.Prestige.BaseClickPower,
		BasePassiveIncome:  bal.Prestige.BasePassiveIncome,
		PrestigeMultiplier: 1,
		PrestigeCost:       bal.Prestige.InitialCost,
		CriticalChance:     bal.Critical.BaseChance,
		CriticalMultiplier: bal.Critical.BaseMultiplier,
		ComboMultiplier:    1,
		Upgrades:           make(map[catalog.UpgradeID]UpgradeState, len(cat.Upgrades)),
		Pets:               make(map[catalog.PetID]bool),
		Talents:            make(map[catalog.TalentID]int),
	}
	for _, u := range cat.Upgrades {
		s.Upgrades[u.ID] = UpgradeState{Cost: u.Cost}
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.Upgrades = maps.Clone(s.Upgrades)
	c.Pets = maps.Clone(s.Pets)
	c.Talents = maps.Clone(s.Talents)
	if s.Event != nil {
		ev := *s.Event
		c.Event = &ev
	}
	return c
}

// UpgradesOwned is the aggregate number of owned upgrades across the catalog.
func (s State) UpgradesOwned() int {
	n := 0
	for _, u := range s.Upgrades {
		n += u.Owned
	}
	return n
}

// normalize fills collections a restored state may lack and drops entries
// the catalog does not know.
func normalize(cat *catalog.Catalog, s State) State {
	s = s.Clone()

	ups := make(map[catalog.UpgradeID]UpgradeState, len(cat.Upgrades))
	for _, u := range cat.Upgrades {
		st, ok := s.Upgrades[u.ID]
		if !ok || st.Cost <= 0 {
			st.Cost = u.Cost
		}
		if st.Owned < 0 {
			st.Owned = 0
		}
		if u.Capped() && st.Owned > u.MaxOwned {
			st.Owned = u.MaxOwned
		}
		ups[u.ID] = st
	}
	s.Upgrades = ups

	pets := make(map[catalog.PetID]bool, len(s.Pets))
	for id, owned := range s.Pets {
		if _, ok := cat.Pet(id); ok && owned {
			pets[id] = true
		}
	}
	s.Pets = pets
	if s.ActivePet != "" && !s.Pets[s.ActivePet] {
		s.ActivePet = ""
	}

	talents := make(map[catalog.TalentID]int, len(s.Talents))
	for id, lvl := range s.Talents {
		t, ok := cat.Talent(id)
		if !ok || lvl <= 0 {
			continue
		}
		talents[id] = min(lvl, t.MaxPoints)
	}
	s.Talents = talents

	if ev := s.Event; ev != nil {
		if _, known := cat.Event(ev.ID); !known || ev.Remaining <= 0 {
			// A dead event still has its delta folded into the base value.
			if !revertEvent(cat, &s) {
				slog.Warn("dropping unknown active event, its effect stays applied",
					"event", ev.ID,
					"applied", ev.Applied,
				)
			}
		}
	}
	if s.ComboTimer <= 0 {
		s.ComboTimer = 0
		s.ComboMultiplier = 1
	}
	return s
}

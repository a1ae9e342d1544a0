package economy

import "github.com/roach88/cosmoclicker/internal/catalog"

// Snapshot is a read-only view of the state taken after a mutation. It is
// what quests, achievements and presentation code read; none of them see
// the Game itself.
type Snapshot struct {
	TotalClicks    int64   `json:"totalClicks"`
	Balance        float64 `json:"balance"`
	PassiveIncome  float64 `json:"passiveIncome"` // effective, per tick
	TotalEarned    float64 `json:"totalEarned"`
	PrestigePoints int     `json:"prestigePoints"`
	UpgradesOwned  int     `json:"upgradesOwned"`

	ClickPower         float64 `json:"clickPower"` // effective
	PrestigeMultiplier float64 `json:"prestigeMultiplier"`
	PrestigeCost       float64 `json:"prestigeCost"`
	PotentialPrestige  int     `json:"potentialPrestige"`
	CriticalChance     float64 `json:"criticalChance"`
	CriticalMultiplier float64 `json:"criticalMultiplier"`
	ComboMultiplier    float64 `json:"comboMultiplier"`
	ComboTimer         int     `json:"comboTimer"`
	AutoClickSpeed     float64 `json:"autoClickSpeed"`

	ActiveEvent    catalog.EventID `json:"activeEvent,omitempty"`
	EventRemaining int             `json:"eventRemaining,omitempty"`
	ActivePet      catalog.PetID   `json:"activePet,omitempty"`
	PetsOwned      int             `json:"petsOwned"`
	TalentPoints   int             `json:"talentPoints"`
	ResearchPoints float64         `json:"researchPoints"`

	CriticalHits      int64 `json:"criticalHits"`
	UpgradesPurchased int64 `json:"upgradesPurchased"`
	MiniGamesPlayed   int64 `json:"miniGamesPlayed"`
}

// Snapshot captures the current state with effective values resolved.
func (g *Game) Snapshot() Snapshot {
	eff := g.Effective()
	snap := Snapshot{
		TotalClicks:        g.s.TotalClicks,
		Balance:            g.s.Balance,
		PassiveIncome:      eff.PassiveIncome,
		TotalEarned:        g.s.TotalEarned,
		PrestigePoints:     g.s.PrestigePoints,
		UpgradesOwned:      g.s.UpgradesOwned(),
		ClickPower:         eff.ClickPower,
		PrestigeMultiplier: g.s.PrestigeMultiplier,
		PrestigeCost:       g.s.PrestigeCost,
		PotentialPrestige:  g.PotentialPrestigePoints(),
		CriticalChance:     eff.CriticalChance,
		CriticalMultiplier: eff.CriticalMultiplier,
		ComboMultiplier:    g.s.ComboMultiplier,
		ComboTimer:         g.s.ComboTimer,
		AutoClickSpeed:     eff.AutoClickSpeed,
		ActivePet:          g.s.ActivePet,
		PetsOwned:          len(g.s.Pets),
		TalentPoints:       g.s.TalentPoints,
		ResearchPoints:     g.s.ResearchPoints,
		CriticalHits:       g.s.CriticalHits,
		UpgradesPurchased:  g.s.UpgradesPurchased,
		MiniGamesPlayed:    g.s.MiniGamesPlayed,
	}
	if g.s.Event != nil {
		snap.ActiveEvent = g.s.Event.ID
		snap.EventRemaining = g.s.Event.Remaining
	}
	return snap
}

// Metric reads the counter an achievement or quest requirement gates on.
func (s Snapshot) Metric(m catalog.Metric) float64 {
	switch m {
	case catalog.MetricClicks:
		return float64(s.TotalClicks)
	case catalog.MetricBalance:
		return s.Balance
	case catalog.MetricUpgrades:
		return float64(s.UpgradesOwned)
	case catalog.MetricPassive:
		return s.PassiveIncome
	case catalog.MetricPrestigePoints:
		return float64(s.PrestigePoints)
	case catalog.MetricTotalEarned:
		return s.TotalEarned
	}
	return 0
}

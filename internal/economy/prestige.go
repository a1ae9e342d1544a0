package economy

import "math"

// PrestigeResult describes a completed prestige.
type PrestigeResult struct {
	Points     int
	Multiplier float64
	NextCost   float64
}

// PotentialPrestigePoints is floor(sqrt(totalEarned / divisor) * (1 + bonus))
// where bonus comes from the active pet and the prestige talent.
//
// totalEarned is lifetime earnings and is never reset, so yield keeps
// growing across prestiges.
func (g *Game) PotentialPrestigePoints() int {
	if g.s.TotalEarned <= 0 {
		return 0
	}
	base := math.Sqrt(g.s.TotalEarned / g.bal.Prestige.EarningsDivisor)
	return int(math.Floor(base * (1 + g.Effective().PrestigeBonus)))
}

// CanPrestige reports whether the balance has reached the prestige cost and
// at least one point would be earned.
func (g *Game) CanPrestige() bool {
	return g.s.Balance >= g.s.PrestigeCost && g.PotentialPrestigePoints() >= 1
}

// Prestige trades the transient economy for permanent prestige points.
//
// Either every reward and reset step happens or, when CanPrestige is false,
// none does. Lifetime earnings, total clicks, pets, talents, research and
// prestige totals survive. An active event is discarded without revert since
// the reset overwrites its target anyway.
func (g *Game) Prestige() (PrestigeResult, bool) {
	if !g.CanPrestige() {
		return PrestigeResult{}, false
	}
	points := g.PotentialPrestigePoints()
	p := g.bal.Prestige

	g.s.PrestigePoints += points
	g.s.PrestigeMultiplier += float64(points) * p.MultiplierPerPt
	g.s.PrestigeCost = math.Floor(g.s.PrestigeCost * p.CostGrowth)

	g.s.Balance = 0
	g.s.BaseClickPower = p.BaseClickPower
	g.s.BasePassiveIncome = p.BasePassiveIncome
	g.s.CriticalChance = g.bal.Critical.BaseChance
	g.s.CriticalMultiplier = g.bal.Critical.BaseMultiplier
	g.s.AutoClickSpeed = 0
	g.s.AutoClickActive = false
	g.s.Event = nil
	for _, u := range g.cat.Upgrades {
		g.s.Upgrades[u.ID] = UpgradeState{Cost: u.Cost}
	}

	return PrestigeResult{
		Points:     points,
		Multiplier: g.s.PrestigeMultiplier,
		NextCost:   g.s.PrestigeCost,
	}, true
}

package economy

import (
	"math"

	"github.com/roach88/cosmoclicker/internal/catalog"
)

// Purchase buys one unit of upgrade id.
//
// Preconditions: the id exists, balance covers the current cost, and the
// upgrade is below its cap. On failure nothing changes and false is
// returned. On success the cost is debited, ownership grows by one, the
// price becomes floor(cost * growth) and the effect is applied once to the
// upgrade's target base value.
func (g *Game) Purchase(id catalog.UpgradeID) bool {
	def, ok := g.cat.Upgrade(id)
	if !ok {
		return false
	}
	st := g.s.Upgrades[id]
	if g.s.Balance < st.Cost {
		return false
	}
	if def.Capped() && st.Owned >= def.MaxOwned {
		return false
	}

	g.s.Balance -= st.Cost
	st.Owned++
	st.Cost = math.Floor(st.Cost * g.bal.Upgrades.CostGrowth)
	g.s.Upgrades[id] = st
	g.s.UpgradesPurchased++

	if field := g.baseField(def.Target); field != nil {
		*field += def.Magnitude
	}
	if def.Target == catalog.TargetAutoClickSpeed {
		g.s.AutoClickActive = true
	}
	return true
}

// CanPurchase reports whether Purchase(id) would succeed right now.
func (g *Game) CanPurchase(id catalog.UpgradeID) bool {
	def, ok := g.cat.Upgrade(id)
	if !ok {
		return false
	}
	st := g.s.Upgrades[id]
	return g.s.Balance >= st.Cost && (!def.Capped() || st.Owned < def.MaxOwned)
}

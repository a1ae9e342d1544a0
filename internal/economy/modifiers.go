package economy

import "github.com/roach88/cosmoclicker/internal/catalog"

// Effective is the composed view of every stat consumers use on a click or
// tick. It is computed on demand and never stored.
type Effective struct {
	ClickPower         float64
	PassiveIncome      float64
	CriticalChance     float64 // percent
	CriticalMultiplier float64

	// AutoClickSpeed is in clicks per second and is 0 while the auto-clicker
	// is inactive.
	AutoClickSpeed float64

	// PrestigeBonus is the fractional bonus on prestige point yield.
	PrestigeBonus float64
}

// Effective runs the modifier aggregator over the current state.
//
// Upgrades and events have already been folded into the base values. Pets
// and talents apply on top as percentages: effective = base * (1 + sum).
// The call is a pure read.
func (g *Game) Effective() Effective {
	eff := Effective{
		ClickPower:         g.s.BaseClickPower * (1 + g.bonus(catalog.TargetClick)),
		PassiveIncome:      g.s.BasePassiveIncome * (1 + g.bonus(catalog.TargetPassive)),
		CriticalChance:     g.s.CriticalChance * (1 + g.bonus(catalog.TargetCriticalChance)),
		CriticalMultiplier: g.s.CriticalMultiplier * (1 + g.bonus(catalog.TargetCriticalMultiplier)),
		PrestigeBonus:      g.bonus(catalog.TargetPrestigePoints),
	}
	if g.s.AutoClickActive {
		eff.AutoClickSpeed = g.s.AutoClickSpeed * (1 + g.bonus(catalog.TargetAutoClickSpeed))
	}
	return eff
}

// bonus sums the active pet's and the talent tree's percentage bonuses for
// one target.
func (g *Game) bonus(target catalog.Target) float64 {
	return g.petBonus(target) + g.talentBonus(target)
}

// petBonus is the active pet's bonus for target, scaled by pet mastery.
func (g *Game) petBonus(target catalog.Target) float64 {
	if g.s.ActivePet == "" {
		return 0
	}
	pet, ok := g.cat.Pet(g.s.ActivePet)
	if !ok || pet.BonusType != target {
		return 0
	}
	return pet.Bonus * (1 + g.talentBonus(catalog.TargetPetBonus))
}

func (g *Game) talentBonus(target catalog.Target) float64 {
	sum := 0.0
	for _, t := range g.cat.Talents {
		if t.Effect != target {
			continue
		}
		if lvl := g.s.Talents[t.ID]; lvl > 0 {
			sum += float64(lvl) * t.Value
		}
	}
	return sum
}

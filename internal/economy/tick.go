package economy

import "github.com/roach88/cosmoclicker/internal/catalog"

// TickResult describes what one tick changed.
type TickResult struct {
	Passive      float64 // amount credited, 0 when passive income is 0
	ComboExpired bool
	EventStarted catalog.EventID
	EventEnded   catalog.EventID
}

// Tick advances the economy by one tick interval.
//
// Order within a tick: passive income, combo decay, event scheduler. The
// effective values are read once at the start, so an event that starts or
// ends in this tick does not change this tick's passive credit.
func (g *Game) Tick() TickResult {
	eff := g.Effective()

	var res TickResult
	if eff.PassiveIncome > 0 {
		res.Passive = eff.PassiveIncome * g.s.PrestigeMultiplier
		g.credit(res.Passive)
	}

	res.ComboExpired = g.decayCombo()
	res.EventStarted, res.EventEnded = g.stepEvent()
	return res
}

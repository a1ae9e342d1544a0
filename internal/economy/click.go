package economy

import "math"

// ClickResult describes one resolved click.
type ClickResult struct {
	Value    float64
	Critical bool
	Manual   bool

	// Combo is the multiplier that applied to this click.
	Combo float64
}

// Click resolves one click.
//
// The value is effective click power times the prestige multiplier times the
// current combo multiplier. One sample in [0, 100) below the effective
// critical chance multiplies it by the effective critical multiplier. The
// value is credited to balance and lifetime earnings.
//
// Only manual clicks count toward totalClicks and advance the combo;
// synthetic auto-clicks never do.
func (g *Game) Click(manual bool) ClickResult {
	eff := g.Effective()

	res := ClickResult{
		Manual: manual,
		Combo:  g.s.ComboMultiplier,
		Value:  eff.ClickPower * g.s.PrestigeMultiplier * g.s.ComboMultiplier,
	}
	if g.percent() < eff.CriticalChance {
		res.Value *= eff.CriticalMultiplier
		res.Critical = true
		g.s.CriticalHits++
	}

	g.credit(res.Value)

	if manual {
		g.s.TotalClicks++
		g.bumpCombo()
	}
	return res
}

// comboPrecision is the grid combo values snap to after each step. Ten steps
// of 0.1 land on exactly 2.0 and any step coarser than 1e-9 survives.
const comboPrecision = 1e9

// bumpCombo restarts the combo window and raises the multiplier by one step,
// clamped to the cap.
func (g *Game) bumpCombo() {
	c := g.bal.Combo
	g.s.ComboTimer = c.WindowSeconds
	next := math.Round((g.s.ComboMultiplier+c.Step)*comboPrecision) / comboPrecision
	g.s.ComboMultiplier = min(next, c.Cap)
}

// decayCombo advances the combo countdown by one second. It reports whether
// the combo expired on this step.
func (g *Game) decayCombo() bool {
	if g.s.ComboTimer <= 0 {
		return false
	}
	g.s.ComboTimer--
	if g.s.ComboTimer == 0 {
		g.s.ComboMultiplier = 1
		return true
	}
	return false
}

package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/testutil"
)

func TestTick_ZeroPassiveIsNoop(t *testing.T) {
	g, _ := newTestGame(t)
	before := g.State()

	res := g.Tick()

	assert.Equal(t, 0.0, res.Passive)
	assert.Equal(t, before, g.State())
}

func TestTick_PassiveUsesPrestigeMultiplier(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) {
		s.BasePassiveIncome = 10
		s.PrestigeMultiplier = 1.5
	})

	res := g.Tick()

	assert.Equal(t, 15.0, res.Passive)
	assert.Equal(t, 15.0, g.State().Balance)
	assert.Equal(t, 15.0, g.State().TotalEarned)
}

func TestTick_PassiveUsesSnapshotFromTickStart(t *testing.T) {
	// Activation roll, then pick index 1 of 3 (cosmic ray).
	g, _ := restoreTestGame(t, func(s *State) { s.BasePassiveIncome = 10 }, testutil.Hit, 0.5)

	res := g.Tick()

	assert.Equal(t, catalog.CosmicRay, res.EventStarted)
	assert.Equal(t, 10.0, res.Passive, "event started this tick does not apply yet")
	assert.Equal(t, 30.0, g.State().BasePassiveIncome)

	res = g.Tick()
	assert.Equal(t, 30.0, res.Passive)
}

func TestTick_EndingEventStillAppliesThisTick(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) { s.BasePassiveIncome = 10 })
	g.ActivateEvent(catalog.CosmicRay)

	def, _ := catalog.Default().Event(catalog.CosmicRay)
	var last TickResult
	for i := 0; i < def.Duration; i++ {
		last = g.Tick()
	}

	assert.Equal(t, catalog.CosmicRay, last.EventEnded)
	assert.Equal(t, 30.0, last.Passive)
	assert.Equal(t, 10.0, g.State().BasePassiveIncome)
}

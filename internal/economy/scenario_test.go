package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/testutil"
)

func TestScenarioA_ManualClickWithoutCritical(t *testing.T) {
	g, _ := newTestGame(t, testutil.Miss)

	s := g.State()
	require.Equal(t, 0.0, s.Balance)
	require.Equal(t, 1.0, s.BaseClickPower)
	require.Equal(t, 1.0, s.PrestigeMultiplier)
	require.Equal(t, 5.0, s.CriticalChance)
	require.Equal(t, 2.0, s.CriticalMultiplier)
	require.Equal(t, 1.0, s.ComboMultiplier)

	res := g.Click(true)

	assert.False(t, res.Critical)
	assert.Equal(t, 1.0, g.State().Balance)
	assert.Equal(t, int64(1), g.State().TotalClicks)
}

func TestScenarioB_BuySword(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) { s.Balance = 10 })

	require.True(t, g.Purchase(catalog.Sword))

	s := g.State()
	assert.Equal(t, 0.0, s.Balance)
	assert.Equal(t, 1, s.Upgrades[catalog.Sword].Owned)
	assert.Equal(t, 15.0, s.Upgrades[catalog.Sword].Cost)
	assert.Equal(t, 2.0, s.BaseClickPower)
}

func TestScenarioC_PrestigeFromLifetimeEarnings(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) {
		s.TotalEarned = 4000
		s.Balance = 10000
	})

	assert.Equal(t, 2, g.PotentialPrestigePoints())

	res, ok := g.Prestige()
	require.True(t, ok)

	assert.Equal(t, 2, res.Points)
	assert.InDelta(t, 1.2, g.State().PrestigeMultiplier, 1e-9)
	assert.Equal(t, 2, g.State().PrestigePoints)
}

func TestScenarioD_PassiveTick(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) { s.BasePassiveIncome = 10 })
	before := g.State().Balance

	res := g.Tick()

	assert.Equal(t, 10.0, res.Passive)
	assert.Equal(t, before+10, g.State().Balance)
}

func TestScenarioE_EventRevertsExactly(t *testing.T) {
	g, _ := restoreTestGame(t, func(s *State) { s.BaseClickPower = 3 })
	before := g.State().BaseClickPower

	require.True(t, g.ActivateEvent(catalog.MeteorShower))
	assert.Equal(t, 6.0, g.State().BaseClickPower)

	def, _ := catalog.Default().Event(catalog.MeteorShower)
	var ended catalog.EventID
	for i := 0; i < def.Duration; i++ {
		ended = g.Tick().EventEnded
	}

	assert.Equal(t, catalog.MeteorShower, ended)
	assert.Nil(t, g.State().Event)
	assert.Equal(t, before, g.State().BaseClickPower)
}

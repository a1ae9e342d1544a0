package economy

import (
	"testing"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/testutil"
)

// newTestGame creates a game at the initial state with a scripted roller.
// With no rolls every sample misses.
func newTestGame(t *testing.T, rolls ...float64) (*Game, *testutil.ScriptedRoller) {
	t.Helper()
	rng := testutil.NewScriptedRoller(rolls...)
	return New(catalog.Default(), config.Default(), rng), rng
}

// restoreTestGame creates a game from the initial state adjusted by mutate.
func restoreTestGame(t *testing.T, mutate func(*State), rolls ...float64) (*Game, *testutil.ScriptedRoller) {
	t.Helper()
	cat := catalog.Default()
	bal := config.Default()
	s := Initial(cat, bal)
	if mutate != nil {
		mutate(&s)
	}
	rng := testutil.NewScriptedRoller(rolls...)
	return Restore(cat, bal, rng, s), rng
}

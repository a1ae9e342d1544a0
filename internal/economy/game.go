package economy

import (
	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
)

// Game owns one player's State and applies the economy rules to it.
//
// All mutation goes through methods; Game exposes no mutable fields.
type Game struct {
	cat *catalog.Catalog
	bal config.Balance
	rng Roller
	s   State
}

// New creates a game at the initial state.
func New(cat *catalog.Catalog, bal config.Balance, rng Roller) *Game {
	return &Game{
		cat: cat,
		bal: bal,
		rng: rng,
		s:   Initial(cat, bal),
	}
}

// Restore creates a game from a previously saved state. Upgrade entries
// missing from s are filled from the catalog; unknown ids are dropped.
func Restore(cat *catalog.Catalog, bal config.Balance, rng Roller, s State) *Game {
	return &Game{
		cat: cat,
		bal: bal,
		rng: rng,
		s:   normalize(cat, s),
	}
}

// State returns a deep copy of the current state.
func (g *Game) State() State {
	return g.s.Clone()
}

// Catalog returns the definitions the game was built with.
func (g *Game) Catalog() *catalog.Catalog {
	return g.cat
}

// Balance returns the tunables the game was built with.
func (g *Game) Balance() config.Balance {
	return g.bal
}

// credit adds amount to the spendable balance and lifetime earnings.
func (g *Game) credit(amount float64) {
	g.s.Balance += amount
	g.s.TotalEarned += amount
}

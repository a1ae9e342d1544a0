package economy

import (
	"math"

	"github.com/roach88/cosmoclicker/internal/catalog"
)

// Credit adds an external reward (mini-game payout, quest coins) to balance
// and lifetime earnings, the same way passive income is credited but without
// the prestige multiplier. Non-positive and non-finite amounts are ignored.
func (g *Game) Credit(amount float64) bool {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return false
	}
	g.credit(amount)
	return true
}

// RecordMiniGame counts one finished mini-game.
func (g *Game) RecordMiniGame() {
	g.s.MiniGamesPlayed++
}

// GrantPet adds a pet to the collection. It fails for unknown or already
// owned pets.
func (g *Game) GrantPet(id catalog.PetID) bool {
	if _, ok := g.cat.Pet(id); !ok || g.s.Pets[id] {
		return false
	}
	g.s.Pets[id] = true
	return true
}

// NextUnownedPet returns the first pet in catalog order not yet owned.
func (g *Game) NextUnownedPet() (catalog.PetID, bool) {
	for _, p := range g.cat.Pets {
		if !g.s.Pets[p.ID] {
			return p.ID, true
		}
	}
	return "", false
}

// SelectPet makes an owned pet the active one, replacing any other.
func (g *Game) SelectPet(id catalog.PetID) bool {
	if !g.s.Pets[id] {
		return false
	}
	g.s.ActivePet = id
	return true
}

// ClearPet deactivates the active pet.
func (g *Game) ClearPet() {
	g.s.ActivePet = ""
}

// GrantTalentPoints adds unallocated talent points.
func (g *Game) GrantTalentPoints(n int) bool {
	if n <= 0 {
		return false
	}
	g.s.TalentPoints += n
	return true
}

// InvestTalent spends one talent point on id. The talent must be below its
// maximum and every prerequisite must be fully maxed.
func (g *Game) InvestTalent(id catalog.TalentID) bool {
	t, ok := g.cat.Talent(id)
	if !ok || g.s.TalentPoints <= 0 || g.s.Talents[id] >= t.MaxPoints {
		return false
	}
	for _, req := range t.Requires {
		rt, ok := g.cat.Talent(req)
		if !ok || g.s.Talents[req] < rt.MaxPoints {
			return false
		}
	}
	g.s.TalentPoints--
	g.s.Talents[id]++
	return true
}

// GrantResearch adds research points.
func (g *Game) GrantResearch(n float64) bool {
	if !(n > 0) || math.IsInf(n, 0) {
		return false
	}
	g.s.ResearchPoints += n
	return true
}

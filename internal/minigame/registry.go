package minigame

import "fmt"

// IDs lists every mini-game in display order.
var IDs = []string{RouletteID, TreasureHuntID, AsteroidsID}

// New builds the named game with automatic play: a random digger for the
// treasure hunt and the given asteroid score.
func New(id string, rng Roller, asteroidScore int) (Game, error) {
	switch id {
	case RouletteID:
		return NewRoulette(rng), nil
	case TreasureHuntID:
		return NewTreasureHunt(rng, NewRandomDigger(rng)), nil
	case AsteroidsID:
		return NewAsteroids(FixedScore(asteroidScore)), nil
	}
	return nil, fmt.Errorf("unknown mini-game %q", id)
}

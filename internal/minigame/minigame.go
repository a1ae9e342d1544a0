// Package minigame holds the arcade games whose only contract with the
// economy is a numeric reward.
//
// The engine credits the reward through economy.Game.Credit; nothing about a
// game's internals leaks into the core.
package minigame

import (
	"context"
	"fmt"
	"math"
)

// Game is a self-contained mini-game.
type Game interface {
	ID() string
	Play(ctx context.Context) (float64, error)
}

// Roller yields uniform samples in [0, 1).
type Roller interface {
	Float64() float64
}

const (
	RouletteID     = "roulette"
	TreasureHuntID = "treasure"
	AsteroidsID    = "asteroids"
)

// RouletteRewards are the wheel's sections in order.
var RouletteRewards = [8]float64{500, 100, 10, 75, 300, 20, 150, 50}

// Roulette spins an eight-section wheel and pays the section it stops on.
type Roulette struct {
	rng Roller
}

// NewRoulette creates a roulette wheel.
func NewRoulette(rng Roller) *Roulette {
	return &Roulette{rng: rng}
}

func (r *Roulette) ID() string { return RouletteID }

// Play spins once.
func (r *Roulette) Play(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	idx := min(int(r.rng.Float64()*float64(len(RouletteRewards))), len(RouletteRewards)-1)
	return RouletteRewards[idx], nil
}

// Asteroids pays one coin per five points of a reported score.
type Asteroids struct {
	score func(ctx context.Context) (int, error)
}

// NewAsteroids creates the game. score blocks until a round is over and
// returns the final score.
func NewAsteroids(score func(ctx context.Context) (int, error)) *Asteroids {
	return &Asteroids{score: score}
}

// FixedScore is a score source that reports n immediately.
func FixedScore(n int) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return n, ctx.Err()
	}
}

func (a *Asteroids) ID() string { return AsteroidsID }

// Play runs one round.
func (a *Asteroids) Play(ctx context.Context) (float64, error) {
	score, err := a.score(ctx)
	if err != nil {
		return 0, fmt.Errorf("asteroids round: %w", err)
	}
	if score < 0 {
		return 0, fmt.Errorf("asteroids round: negative score %d", score)
	}
	return math.Floor(float64(score) / 5), nil
}

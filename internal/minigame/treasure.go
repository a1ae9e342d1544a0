package minigame

import (
	"context"
	"fmt"
)

const (
	TreasureGridSize = 5
	TreasureAttempts = 7
)

// Cell is a grid coordinate.
type Cell struct {
	Row, Col int
}

// Digger chooses the next cell to dig. revealed holds every cell dug so
// far.
type Digger interface {
	Dig(ctx context.Context, attempt int, revealed map[Cell]bool) (Cell, error)
}

// TreasureHunt hides one treasure in a 5x5 grid and allows seven digs.
//
// Finding it on attempt n pays max(10-n, 1)*50 + 50. Running out of
// attempts pays nothing.
type TreasureHunt struct {
	rng    Roller
	digger Digger
}

// NewTreasureHunt creates a hunt. rng places the treasure; digger plays.
func NewTreasureHunt(rng Roller, digger Digger) *TreasureHunt {
	return &TreasureHunt{rng: rng, digger: digger}
}

func (h *TreasureHunt) ID() string { return TreasureHuntID }

// Play runs one hunt.
func (h *TreasureHunt) Play(ctx context.Context) (float64, error) {
	treasure := h.randomCell()
	revealed := make(map[Cell]bool, TreasureAttempts)

	for attempt := 1; attempt <= TreasureAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		c, err := h.digger.Dig(ctx, attempt, revealed)
		if err != nil {
			return 0, fmt.Errorf("treasure hunt attempt %d: %w", attempt, err)
		}
		if c.Row < 0 || c.Row >= TreasureGridSize || c.Col < 0 || c.Col >= TreasureGridSize {
			return 0, fmt.Errorf("treasure hunt attempt %d: cell %v outside the grid", attempt, c)
		}
		if revealed[c] {
			// Digging the same cell twice still spends the attempt.
			continue
		}
		revealed[c] = true
		if c == treasure {
			return TreasureReward(attempt), nil
		}
	}
	return 0, nil
}

// TreasureReward is the payout for finding the treasure on attempt n.
func TreasureReward(attempt int) float64 {
	return float64(max(10-attempt, 1)*50 + 50)
}

func (h *TreasureHunt) randomCell() Cell {
	n := TreasureGridSize * TreasureGridSize
	idx := min(int(h.rng.Float64()*float64(n)), n-1)
	return Cell{Row: idx / TreasureGridSize, Col: idx % TreasureGridSize}
}

// RandomDigger digs uniformly among cells not yet revealed.
type RandomDigger struct {
	rng Roller
}

// NewRandomDigger creates a digger driven by rng.
func NewRandomDigger(rng Roller) *RandomDigger {
	return &RandomDigger{rng: rng}
}

// Dig implements Digger.
func (d *RandomDigger) Dig(_ context.Context, _ int, revealed map[Cell]bool) (Cell, error) {
	var open []Cell
	for r := 0; r < TreasureGridSize; r++ {
		for c := 0; c < TreasureGridSize; c++ {
			if cell := (Cell{r, c}); !revealed[cell] {
				open = append(open, cell)
			}
		}
	}
	if len(open) == 0 {
		return Cell{}, fmt.Errorf("no cells left")
	}
	return open[min(int(d.rng.Float64()*float64(len(open))), len(open)-1)], nil
}

// ScriptedDigger digs a fixed list of cells in order.
type ScriptedDigger []Cell

// Dig implements Digger.
func (s ScriptedDigger) Dig(_ context.Context, attempt int, _ map[Cell]bool) (Cell, error) {
	if attempt > len(s) {
		return Cell{}, fmt.Errorf("script has no cell for attempt %d", attempt)
	}
	return s[attempt-1], nil
}

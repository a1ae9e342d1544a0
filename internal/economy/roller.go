package economy

import "math/rand/v2"

// Roller is the source of uniform samples in [0, 1) used for critical hits
// and the event scheduler.
type Roller interface {
	Float64() float64
}

// NewRoller returns a PCG-backed Roller seeded from seed.
func NewRoller(seed uint64) Roller {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// percent draws one sample in [0, 100).
func (g *Game) percent() float64 {
	return g.rng.Float64() * 100
}

// Package config holds the numeric tunables of the economy.
//
// Every literal the rules use (tick interval, combo window, growth factors,
// event probability, prestige constants) is a field of Balance so that a
// session can be retuned from a YAML file without touching code.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Balance is the full set of economy tunables.
type Balance struct {
	// TickInterval is the resolution of passive income, combo decay and the
	// event scheduler.
	TickInterval time.Duration `yaml:"tick_interval"`

	Combo    Combo    `yaml:"combo"`
	Critical Critical `yaml:"critical"`
	Upgrades Upgrades `yaml:"upgrades"`
	Events   Events   `yaml:"events"`
	Prestige Prestige `yaml:"prestige"`
}

// Combo tunes the manual-click combo multiplier.
type Combo struct {
	WindowSeconds int     `yaml:"window_seconds"`
	Step          float64 `yaml:"step"`
	Cap           float64 `yaml:"cap"`
}

// Critical holds the base critical-hit values restored on prestige.
type Critical struct {
	BaseChance     float64 `yaml:"base_chance"` // percent
	BaseMultiplier float64 `yaml:"base_multiplier"`
}

// Upgrades tunes the purchase engine.
type Upgrades struct {
	CostGrowth float64 `yaml:"cost_growth"`
}

// Events tunes the random event scheduler.
type Events struct {
	ActivationChance float64 `yaml:"activation_chance"` // percent per tick
}

// Prestige tunes the prestige engine.
type Prestige struct {
	InitialCost       float64 `yaml:"initial_cost"`
	CostGrowth        float64 `yaml:"cost_growth"`
	EarningsDivisor   float64 `yaml:"earnings_divisor"`
	MultiplierPerPt   float64 `yaml:"multiplier_per_point"`
	BaseClickPower    float64 `yaml:"base_click_power"`
	BasePassiveIncome float64 `yaml:"base_passive_income"`
}

// Default returns the tunables of the original game.
func Default() Balance {
	return Balance{
		TickInterval: time.Second,
		Combo: Combo{
			WindowSeconds: 5,
			Step:          0.1,
			Cap:           3.0,
		},
		Critical: Critical{
			BaseChance:     5,
			BaseMultiplier: 2,
		},
		Upgrades: Upgrades{
			CostGrowth: 1.5,
		},
		Events: Events{
			ActivationChance: 0.5,
		},
		Prestige: Prestige{
			InitialCost:       10000,
			CostGrowth:        1.5,
			EarningsDivisor:   1000,
			MultiplierPerPt:   0.1,
			BaseClickPower:    1,
			BasePassiveIncome: 0,
		},
	}
}

// Load reads a balance file. Fields absent from the file keep their default
// values; unknown fields are rejected so typos surface immediately.
func Load(path string) (Balance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to read balance file: %w", err)
	}
	return Parse(data)
}

// Parse decodes balance YAML on top of Default and validates the result. An
// empty document yields Default.
func Parse(data []byte) (Balance, error) {
	b := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Balance{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := b.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance: %w", err)
	}
	return b, nil
}

// Validate checks that every tunable is inside the range the rules assume.
func (b Balance) Validate() error {
	if b.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if b.Combo.WindowSeconds <= 0 {
		return fmt.Errorf("combo.window_seconds must be positive")
	}
	if b.Combo.Step < 0 {
		return fmt.Errorf("combo.step must be non-negative")
	}
	if b.Combo.Cap < 1 {
		return fmt.Errorf("combo.cap must be at least 1")
	}
	if b.Critical.BaseChance < 0 || b.Critical.BaseChance > 100 {
		return fmt.Errorf("critical.base_chance must be within [0, 100]")
	}
	if b.Critical.BaseMultiplier < 1 {
		return fmt.Errorf("critical.base_multiplier must be at least 1")
	}
	if b.Upgrades.CostGrowth <= 1 {
		return fmt.Errorf("upgrades.cost_growth must be greater than 1")
	}
	if b.Events.ActivationChance < 0 || b.Events.ActivationChance > 100 {
		return fmt.Errorf("events.activation_chance must be within [0, 100]")
	}
	if b.Prestige.InitialCost <= 0 {
		return fmt.Errorf("prestige.initial_cost must be positive")
	}
	if b.Prestige.CostGrowth < 1 {
		return fmt.Errorf("prestige.cost_growth must be at least 1")
	}
	if b.Prestige.EarningsDivisor <= 0 {
		return fmt.Errorf("prestige.earnings_divisor must be positive")
	}
	if b.Prestige.MultiplierPerPt <= 0 {
		return fmt.Errorf("prestige.multiplier_per_point must be positive")
	}
	if b.Prestige.BaseClickPower < 1 {
		return fmt.Errorf("prestige.base_click_power must be at least 1")
	}
	if b.Prestige.BasePassiveIncome < 0 {
		return fmt.Errorf("prestige.base_passive_income must be non-negative")
	}
	return nil
}

package engine

import (
	"time"
)

// autoClicker drives synthetic clicks at the effective auto-click speed.
//
// At most one ticker exists at a time. Rearm stops the current ticker before
// a new one is created, and the Run loop selects on C() afresh every
// iteration, so a tick from a stopped ticker is never read.
type autoClicker struct {
	base   time.Duration // period at speed 1
	speed  float64
	ticker *time.Ticker
}

func newAutoClicker(base time.Duration) *autoClicker {
	return &autoClicker{base: base}
}

// C returns the channel of the live ticker, or nil (blocks forever in a
// select) when the auto-clicker is idle.
func (a *autoClicker) C() <-chan time.Time {
	if a.ticker == nil {
		return nil
	}
	return a.ticker.C
}

// Rearm adjusts the ticker to speed clicks per base period. It reports
// whether the schedule changed. A speed of 0 or less stops the driver.
func (a *autoClicker) Rearm(speed float64) bool {
	if speed < 0 {
		speed = 0
	}
	if speed == a.speed {
		return false
	}

	a.Stop()
	a.speed = speed
	if speed > 0 {
		a.ticker = time.NewTicker(a.Period())
	}
	return true
}

// Period is the interval between two synthetic clicks, 0 when idle.
func (a *autoClicker) Period() time.Duration {
	if a.speed <= 0 {
		return 0
	}
	return max(time.Duration(float64(a.base)/a.speed), time.Millisecond)
}

// Speed returns the speed the ticker is armed for.
func (a *autoClicker) Speed() float64 {
	return a.speed
}

// Stop disarms the ticker. The speed is reset so a later Rearm with the
// same speed arms again.
func (a *autoClicker) Stop() {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
	a.speed = 0
}

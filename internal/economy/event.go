package economy

import "github.com/roach88/cosmoclicker/internal/catalog"

// stepEvent runs one scheduler step.
//
// With no event active it samples once against the activation chance and,
// on success, picks an event uniformly. With an event active it counts down
// and reverts at zero. The activation step itself does not count down, so an
// event of duration d stays active for exactly d later ticks.
func (g *Game) stepEvent() (started, ended catalog.EventID) {
	if g.s.Event == nil {
		if len(g.cat.Events) == 0 || g.percent() >= g.bal.Events.ActivationChance {
			return "", ""
		}
		idx := int(g.rng.Float64() * float64(len(g.cat.Events)))
		idx = min(idx, len(g.cat.Events)-1)
		id := g.cat.Events[idx].ID
		g.activate(g.cat.Events[idx])
		return id, ""
	}

	g.s.Event.Remaining--
	if g.s.Event.Remaining > 0 {
		return "", ""
	}
	id := g.s.Event.ID
	g.revertEvent()
	return "", id
}

// ActivateEvent starts the event id immediately. It fails when an event is
// already active or the id is unknown.
func (g *Game) ActivateEvent(id catalog.EventID) bool {
	if g.s.Event != nil {
		return false
	}
	ev, ok := g.cat.Event(id)
	if !ok {
		return false
	}
	g.activate(ev)
	return true
}

// activate rewrites the event's target base value and records the delta.
func (g *Game) activate(ev catalog.Event) {
	field := g.baseField(ev.Target)
	if field == nil {
		return
	}

	var delta float64
	switch ev.Mode {
	case catalog.EventMultiply:
		delta = *field * (ev.Value - 1)
	case catalog.EventSet:
		delta = ev.Value - *field
	}
	*field += delta

	g.s.Event = &ActiveEvent{
		ID:        ev.ID,
		Remaining: ev.Duration,
		Applied:   delta,
	}
}

// revertEvent subtracts the recorded delta and clears the active event.
func (g *Game) revertEvent() {
	revertEvent(g.cat, &g.s)
}

// revertEvent clears s.Event and takes its delta back off the target base
// value. It reports false when the event's id is not in cat, in which case
// the delta stays applied.
func revertEvent(cat *catalog.Catalog, s *State) bool {
	ev := s.Event
	s.Event = nil
	if ev == nil {
		return true
	}
	def, ok := cat.Event(ev.ID)
	if !ok {
		return false
	}
	if field := s.baseField(def.Target); field != nil {
		*field -= ev.Applied
	}
	return true
}

func (g *Game) baseField(t catalog.Target) *float64 {
	return g.s.baseField(t)
}

// baseField maps a target to the base value it rewrites. Targets without a
// base field (pet bonus, prestige yield) return nil.
func (s *State) baseField(t catalog.Target) *float64 {
	switch t {
	case catalog.TargetClick:
		return &s.BaseClickPower
	case catalog.TargetPassive:
		return &s.BasePassiveIncome
	case catalog.TargetCriticalChance:
		return &s.CriticalChance
	case catalog.TargetCriticalMultiplier:
		return &s.CriticalMultiplier
	case catalog.TargetAutoClickSpeed:
		return &s.AutoClickSpeed
	}
	return nil
}

// Package catalog holds the static definitions of every closed id set the
// economy works with: upgrades, pets, talents, random events, achievements
// and story quests.
//
// Definitions are data, not code. They live in an embedded CUE document that
// is unified with schema.cue, validated for concreteness and decoded into Go
// structs. Ids are checked against the typed constants in ids.go, so a
// document can retune numbers but never introduce an id the engine has no
// rule for.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSrc []byte

//go:embed catalog.cue
var defaultSrc []byte

// Catalog is an immutable set of definitions. Slices keep declaration order.
type Catalog struct {
	Upgrades     []Upgrade
	Pets         []Pet
	Talents      []Talent
	Events       []Event
	Achievements []Achievement
	Quests       []Quest

	upgrades map[UpgradeID]int
	pets     map[PetID]int
	talents  map[TalentID]int
	events   map[EventID]int
	quests   map[QuestID]int
}

// document mirrors the top-level shape of a catalog source.
type document struct {
	Upgrades     []Upgrade     `json:"upgrades"`
	Pets         []Pet         `json:"pets"`
	Talents      []Talent      `json:"talents"`
	Events       []Event       `json:"events"`
	Achievements []Achievement `json:"achievements"`
	Quests       []Quest       `json:"quests"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog. It is compiled once and shared.
//
// Panics if the embedded document does not compile: that is a build defect,
// not a runtime condition.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Compile(defaultSrc)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Compile parses a catalog source, unifies it with the schema and decodes it.
// Errors carry the CUE source position when one is available.
func Compile(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	data := ctx.CompileBytes(src, cue.Filename("catalog.cue"))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc document
	if err := v.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}

	return build(doc)
}

// build indexes a decoded document and enforces the rules CUE cannot express:
// known ids, uniqueness, and cross references.
func build(doc document) (*Catalog, error) {
	c := &Catalog{
		Upgrades:     doc.Upgrades,
		Pets:         doc.Pets,
		Talents:      doc.Talents,
		Events:       doc.Events,
		Achievements: doc.Achievements,
		Quests:       doc.Quests,
		upgrades:     make(map[UpgradeID]int, len(doc.Upgrades)),
		pets:         make(map[PetID]int, len(doc.Pets)),
		talents:      make(map[TalentID]int, len(doc.Talents)),
		events:       make(map[EventID]int, len(doc.Events)),
		quests:       make(map[QuestID]int, len(doc.Quests)),
	}

	for i := range c.Upgrades {
		u := &c.Upgrades[i]
		if !knownUpgrades[u.ID] {
			return nil, &CompileError{Field: "upgrades", Message: fmt.Sprintf("unknown upgrade id %q", u.ID)}
		}
		if _, dup := c.upgrades[u.ID]; dup {
			return nil, &CompileError{Field: "upgrades", Message: fmt.Sprintf("duplicate upgrade id %q", u.ID)}
		}
		switch u.Category {
		case CategoryClick:
			u.Target = TargetClick
		case CategoryPassive:
			u.Target = TargetPassive
		case CategorySpecial:
			if u.Target == "" {
				return nil, &CompileError{Field: "upgrades", Message: fmt.Sprintf("special upgrade %q needs a target", u.ID)}
			}
		}
		c.upgrades[u.ID] = i
	}

	for i, p := range c.Pets {
		if !knownPets[p.ID] {
			return nil, &CompileError{Field: "pets", Message: fmt.Sprintf("unknown pet id %q", p.ID)}
		}
		if _, dup := c.pets[p.ID]; dup {
			return nil, &CompileError{Field: "pets", Message: fmt.Sprintf("duplicate pet id %q", p.ID)}
		}
		c.pets[p.ID] = i
	}

	for i, t := range c.Talents {
		if !knownTalents[t.ID] {
			return nil, &CompileError{Field: "talents", Message: fmt.Sprintf("unknown talent id %q", t.ID)}
		}
		if _, dup := c.talents[t.ID]; dup {
			return nil, &CompileError{Field: "talents", Message: fmt.Sprintf("duplicate talent id %q", t.ID)}
		}
		c.talents[t.ID] = i
	}
	for _, t := range c.Talents {
		for _, req := range t.Requires {
			if _, ok := c.talents[req]; !ok || req == t.ID {
				return nil, &CompileError{Field: "talents", Message: fmt.Sprintf("talent %q requires unknown talent %q", t.ID, req)}
			}
		}
	}

	for i, e := range c.Events {
		if !knownEvents[e.ID] {
			return nil, &CompileError{Field: "events", Message: fmt.Sprintf("unknown event id %q", e.ID)}
		}
		if _, dup := c.events[e.ID]; dup {
			return nil, &CompileError{Field: "events", Message: fmt.Sprintf("duplicate event id %q", e.ID)}
		}
		c.events[e.ID] = i
	}

	seen := make(map[AchievementID]bool, len(c.Achievements))
	for _, a := range c.Achievements {
		if !knownAchievements[a.ID] {
			return nil, &CompileError{Field: "achievements", Message: fmt.Sprintf("unknown achievement id %q", a.ID)}
		}
		if seen[a.ID] {
			return nil, &CompileError{Field: "achievements", Message: fmt.Sprintf("duplicate achievement id %q", a.ID)}
		}
		seen[a.ID] = true
	}

	for i, q := range c.Quests {
		if !knownQuests[q.ID] {
			return nil, &CompileError{Field: "quests", Message: fmt.Sprintf("unknown quest id %q", q.ID)}
		}
		if _, dup := c.quests[q.ID]; dup {
			return nil, &CompileError{Field: "quests", Message: fmt.Sprintf("duplicate quest id %q", q.ID)}
		}
		if len(q.Requirements) == 0 {
			return nil, &CompileError{Field: "quests", Message: fmt.Sprintf("quest %q has no requirements", q.ID)}
		}
		c.quests[q.ID] = i
	}

	return c, nil
}

// Upgrade looks up an upgrade definition.
func (c *Catalog) Upgrade(id UpgradeID) (Upgrade, bool) {
	i, ok := c.upgrades[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.Upgrades[i], true
}

// Pet looks up a pet definition.
func (c *Catalog) Pet(id PetID) (Pet, bool) {
	i, ok := c.pets[id]
	if !ok {
		return Pet{}, false
	}
	return c.Pets[i], true
}

// Talent looks up a talent definition.
func (c *Catalog) Talent(id TalentID) (Talent, bool) {
	i, ok := c.talents[id]
	if !ok {
		return Talent{}, false
	}
	return c.Talents[i], true
}

// Event looks up an event definition.
func (c *Catalog) Event(id EventID) (Event, bool) {
	i, ok := c.events[id]
	if !ok {
		return Event{}, false
	}
	return c.Events[i], true
}

// Quest looks up a story quest definition.
func (c *Catalog) Quest(id QuestID) (Quest, bool) {
	i, ok := c.quests[id]
	if !ok {
		return Quest{}, false
	}
	return c.Quests[i], true
}

// CompileError reports a catalog that failed schema or reference checks.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: "cue", Message: first.Error()}
}

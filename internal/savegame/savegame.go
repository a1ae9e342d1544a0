// Package savegame maps economy and progress state onto the opaque
// key/value store.
//
// Every field lives under its own key and is parsed on its own. A missing
// key keeps the literal default for that field; a malformed one does too and
// is logged with slog.Warn. One bad field never aborts the rest of the load.
// Only a failing store read is reported as an error.
//
// Collections are stored stripped to ids and live values ({id, owned, cost}
// for upgrades, id flags for pets and achievements) and re-attached to the
// catalog on restore.
package savegame

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/progress"
	"github.com/roach88/cosmoclicker/internal/store"
)

// field binds one key to its codec. decode must leave the target untouched
// when it returns an error.
type field[S any] struct {
	key    string
	encode func(S) (string, error)
	decode func(string, *S) error
}

// savedUpgrade is the persisted shape of one upgrade.
type savedUpgrade struct {
	ID    catalog.UpgradeID `json:"id"`
	Owned int               `json:"owned"`
	Cost  float64           `json:"cost"`
}

var economyFields = []field[economy.State]{
	floatField(KeyBalance, func(s *economy.State) *float64 { return &s.Balance }, 0),
	floatField(KeyTotalEarned, func(s *economy.State) *float64 { return &s.TotalEarned }, 0),
	intField(KeyTotalClicks, func(s *economy.State) *int64 { return &s.TotalClicks }),
	floatField(KeyClickPower, func(s *economy.State) *float64 { return &s.BaseClickPower }, 1),
	floatField(KeyPassiveIncome, func(s *economy.State) *float64 { return &s.BasePassiveIncome }, 0),
	floatField(KeyPrestigeMultiplier, func(s *economy.State) *float64 { return &s.PrestigeMultiplier }, 1),
	intField(KeyPrestigePoints, func(s *economy.State) *int { return &s.PrestigePoints }),
	floatField(KeyPrestigeCost, func(s *economy.State) *float64 { return &s.PrestigeCost }, 1),
	floatField(KeyCriticalChance, func(s *economy.State) *float64 { return &s.CriticalChance }, 0),
	floatField(KeyCriticalMultiplier, func(s *economy.State) *float64 { return &s.CriticalMultiplier }, 1),
	floatField(KeyComboMultiplier, func(s *economy.State) *float64 { return &s.ComboMultiplier }, 1),
	intField(KeyComboTimer, func(s *economy.State) *int { return &s.ComboTimer }),
	boolField(KeyAutoClickActive, func(s *economy.State) *bool { return &s.AutoClickActive }),
	floatField(KeyAutoClickSpeed, func(s *economy.State) *float64 { return &s.AutoClickSpeed }, 0),
	{
		key: KeyUpgrades,
		encode: func(s economy.State) (string, error) {
			list := make([]savedUpgrade, 0, len(s.Upgrades))
			for _, id := range slices.Sorted(maps.Keys(s.Upgrades)) {
				u := s.Upgrades[id]
				list = append(list, savedUpgrade{ID: id, Owned: u.Owned, Cost: u.Cost})
			}
			return marshal(list)
		},
		decode: func(raw string, s *economy.State) error {
			var list []savedUpgrade
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				return err
			}
			ups := maps.Clone(s.Upgrades)
			if ups == nil {
				ups = make(map[catalog.UpgradeID]economy.UpgradeState, len(list))
			}
			for _, u := range list {
				if u.Owned < 0 || !(u.Cost > 0) || math.IsInf(u.Cost, 0) {
					return fmt.Errorf("upgrade %q: invalid owned/cost", u.ID)
				}
				ups[u.ID] = economy.UpgradeState{Owned: u.Owned, Cost: u.Cost}
			}
			s.Upgrades = ups
			return nil
		},
	},
	jsonField(KeyPets, func(s *economy.State) *map[catalog.PetID]bool { return &s.Pets }),
	{
		key:    KeyActivePet,
		encode: func(s economy.State) (string, error) { return string(s.ActivePet), nil },
		decode: func(raw string, s *economy.State) error {
			s.ActivePet = catalog.PetID(raw)
			return nil
		},
	},
	jsonField(KeyTalents, func(s *economy.State) *map[catalog.TalentID]int { return &s.Talents }),
	intField(KeyTalentPoints, func(s *economy.State) *int { return &s.TalentPoints }),
	floatField(KeyResearchPoints, func(s *economy.State) *float64 { return &s.ResearchPoints }, 0),
	{
		key: KeyActiveEvent,
		encode: func(s economy.State) (string, error) {
			if s.Event == nil {
				return "", nil
			}
			return marshal(s.Event)
		},
		decode: func(raw string, s *economy.State) error {
			if raw == "" || raw == "null" {
				s.Event = nil
				return nil
			}
			var ev economy.ActiveEvent
			if err := json.Unmarshal([]byte(raw), &ev); err != nil {
				// The delta is lost with the record, so the base values keep it.
				return fmt.Errorf("active event unreadable, its effect stays applied: %w", err)
			}
			s.Event = &ev
			return nil
		},
	},
	intField(KeyCriticalHits, func(s *economy.State) *int64 { return &s.CriticalHits }),
	intField(KeyUpgradesPurchased, func(s *economy.State) *int64 { return &s.UpgradesPurchased }),
	intField(KeyMiniGamesPlayed, func(s *economy.State) *int64 { return &s.MiniGamesPlayed }),
}

var progressFields = []field[progress.State]{
	jsonField(KeyAchievements, func(s *progress.State) *map[catalog.AchievementID]bool { return &s.Achievements }),
	jsonField(KeyQuests, func(s *progress.State) *map[catalog.QuestID]progress.QuestStatus { return &s.Quests }),
}

// Load reads every field from kv on top of the initial state.
func Load(ctx context.Context, kv store.KV, cat *catalog.Catalog, bal config.Balance) (economy.State, progress.State, error) {
	es := economy.Initial(cat, bal)
	if err := loadFields(ctx, kv, economyFields, &es); err != nil {
		return economy.State{}, progress.State{}, err
	}

	ps := progress.Initial(cat)
	if err := loadFields(ctx, kv, progressFields, &ps); err != nil {
		return economy.State{}, progress.State{}, err
	}
	return es, ps, nil
}

func loadFields[S any](ctx context.Context, kv store.KV, fields []field[S], target *S) error {
	for _, f := range fields {
		raw, ok, err := kv.Get(ctx, f.key)
		if err != nil {
			return fmt.Errorf("load %s: %w", f.key, err)
		}
		if !ok {
			continue
		}
		if err := f.decode(raw, target); err != nil {
			slog.Warn("malformed save field, using default",
				"key", f.key,
				"value", raw,
				"error", err,
			)
		}
	}
	return nil
}

// Encode renders both states as the full key/value set.
func Encode(es economy.State, ps progress.State) (map[string]string, error) {
	values := make(map[string]string, len(economyFields)+len(progressFields))
	if err := encodeFields(economyFields, es, values); err != nil {
		return nil, err
	}
	if err := encodeFields(progressFields, ps, values); err != nil {
		return nil, err
	}
	return values, nil
}

func encodeFields[S any](fields []field[S], s S, out map[string]string) error {
	for _, f := range fields {
		v, err := f.encode(s)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.key, err)
		}
		out[f.key] = v
	}
	return nil
}

// Save writes every field. A BatchKV gets all keys in one transaction;
// a plain KV gets them one by one in key order.
func Save(ctx context.Context, kv store.KV, es economy.State, ps progress.State) error {
	values, err := Encode(es, ps)
	if err != nil {
		return err
	}
	if b, ok := kv.(store.BatchKV); ok {
		if err := b.SetAll(ctx, values); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		return nil
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := kv.Set(ctx, key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

func floatField(key string, ptr func(*economy.State) *float64, lowest float64) field[economy.State] {
	return field[economy.State]{
		key: key,
		encode: func(s economy.State) (string, error) {
			return strconv.FormatFloat(*ptr(&s), 'g', -1, 64), nil
		},
		decode: func(raw string, s *economy.State) error {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("not a finite number")
			}
			if v < lowest {
				return fmt.Errorf("%v is below the minimum %v", v, lowest)
			}
			*ptr(s) = v
			return nil
		},
	}
}

func intField[T int | int64](key string, ptr func(*economy.State) *T) field[economy.State] {
	return field[economy.State]{
		key: key,
		encode: func(s economy.State) (string, error) {
			return strconv.FormatInt(int64(*ptr(&s)), 10), nil
		},
		decode: func(raw string, s *economy.State) error {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			if v < 0 {
				return fmt.Errorf("%d is negative", v)
			}
			*ptr(s) = T(v)
			return nil
		},
	}
}

func boolField(key string, ptr func(*economy.State) *bool) field[economy.State] {
	return field[economy.State]{
		key: key,
		encode: func(s economy.State) (string, error) {
			return strconv.FormatBool(*ptr(&s)), nil
		},
		decode: func(raw string, s *economy.State) error {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			*ptr(s) = v
			return nil
		},
	}
}

func jsonField[S any, T any](key string, ptr func(*S) *T) field[S] {
	return field[S]{
		key: key,
		encode: func(s S) (string, error) {
			return marshal(*ptr(&s))
		},
		decode: func(raw string, s *S) error {
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return err
			}
			*ptr(s) = v
			return nil
		},
	}
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

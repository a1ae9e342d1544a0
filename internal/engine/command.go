package engine

import (
	"context"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/minigame"
)

// CommandKind selects the Session operation a command runs.
type CommandKind int

const (
	CommandClick CommandKind = iota + 1
	CommandBuy
	CommandPrestige
	CommandCredit
	CommandPlay
	CommandClaim
	CommandSelectPet
	CommandInvest
	CommandActivateEvent
)

var commandNames = map[CommandKind]string{
	CommandClick:         "click",
	CommandBuy:           "buy",
	CommandPrestige:      "prestige",
	CommandCredit:        "credit",
	CommandPlay:          "play",
	CommandClaim:         "claim",
	CommandSelectPet:     "select_pet",
	CommandInvest:        "invest",
	CommandActivateEvent: "event",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is a request for the Run loop. Only the field matching Kind is
// read.
type Command struct {
	Kind CommandKind

	Upgrade catalog.UpgradeID
	Pet     catalog.PetID
	Talent  catalog.TalentID
	Quest   catalog.QuestID
	Event   catalog.EventID
	Amount  float64
	Source  string
	Game    minigame.Game

	reply chan Reply
}

// Reply is the outcome of one command.
//
// OK is false when a gameplay precondition failed; that is not an error.
// Value carries the credited amount for click, credit and play, and the
// earned points for prestige.
type Reply struct {
	OK    bool
	Value float64
	Err   error
}

// run applies the command to s.
func (c Command) run(ctx context.Context, s *Session) Reply {
	switch c.Kind {
	case CommandClick:
		r, err := s.Click(ctx)
		return Reply{OK: true, Value: r.Value, Err: err}

	case CommandBuy:
		ok, err := s.Buy(ctx, c.Upgrade)
		return Reply{OK: ok, Err: err}

	case CommandPrestige:
		r, ok, err := s.Prestige(ctx)
		return Reply{OK: ok, Value: float64(r.Points), Err: err}

	case CommandCredit:
		ok, err := s.Credit(ctx, c.Amount, c.Source)
		if !ok {
			return Reply{Err: err}
		}
		return Reply{OK: true, Value: c.Amount, Err: err}

	case CommandPlay:
		if c.Game == nil {
			return Reply{Err: NewInvalidCommandError(s.ID(), c.Kind, "play needs a mini-game")}
		}
		reward, err := s.PlayMiniGame(ctx, c.Game)
		return Reply{OK: err == nil || IsPersistenceError(err), Value: reward, Err: err}

	case CommandClaim:
		ok, err := s.ClaimQuest(ctx, c.Quest)
		return Reply{OK: ok, Err: err}

	case CommandSelectPet:
		if c.Pet == "" {
			err := s.ClearPet(ctx)
			return Reply{OK: true, Err: err}
		}
		ok, err := s.SelectPet(ctx, c.Pet)
		return Reply{OK: ok, Err: err}

	case CommandInvest:
		ok, err := s.InvestTalent(ctx, c.Talent)
		return Reply{OK: ok, Err: err}

	case CommandActivateEvent:
		ok, err := s.ActivateEvent(ctx, c.Event)
		return Reply{OK: ok, Err: err}
	}
	return Reply{Err: NewUnknownCommandError(s.ID(), c.Kind)}
}

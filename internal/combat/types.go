package combat

import (
	"errors"
	"fmt"
)

// Team labels a group's side. There are exactly two sides.
type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

func (t Team) valid() bool { return t == TeamBlue || t == TeamRed }

// UnitType is open: any non-empty string names a type. Typeless units
// never take part in kill-table lookups.
type UnitType string

const Typeless UnitType = "typeless"

func (u UnitType) IsTypeless() bool { return u == Typeless }

// Group is one homogeneous block of units. Zero amount means the block
// is eliminated.
type Group struct {
	Type   UnitType `json:"type" yaml:"type"`
	Amount int      `json:"amount" yaml:"amount"`
	Team   Team     `json:"team" yaml:"team"`
}

func (g Group) String() string {
	return fmt.Sprintf("%d %s (%s)", g.Amount, g.Type, g.Team)
}

var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrMalformedInput   = errors.New("malformed input")
)

// MaxGroups bounds the scenario size. Identities live in a bitmask and
// the search cost grows exponentially with the group count.
const MaxGroups = 16

// ValidateGroup checks one input record.
func ValidateGroup(g Group) error {
	if g.Type == "" {
		return fmt.Errorf("%w: group has no type", ErrMalformedInput)
	}
	if g.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrMalformedInput, g.Amount)
	}
	if !g.Team.valid() {
		return fmt.Errorf("%w: unknown team %q", ErrMalformedInput, g.Team)
	}
	return nil
}

// ValidateGroups checks a whole roster before any search runs.
func ValidateGroups(groups []Group) error {
	if len(groups) > MaxGroups {
		return fmt.Errorf("%w: %d groups, limit is %d", ErrMalformedInput, len(groups), MaxGroups)
	}
	for i, g := range groups {
		if err := ValidateGroup(g); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// Advantage scores a set of groups from one team's point of view:
// that team's total surviving amount minus the opponent's.
func Advantage(groups []Group, favor Team) int {
	adv := 0
	for _, g := range groups {
		if g.Team == favor {
			adv += g.Amount
		} else {
			adv -= g.Amount
		}
	}
	return adv
}

package combat

import (
	"fmt"
	"math"
	"sort"

	"warpath/internal/config"
)

// Rounding fixes how rule kills scale with the attacker's amount.
type Rounding int

const (
	// RoundWhole counts full attacker rounds only:
	// (amount/required)*kills with integer division.
	RoundWhole Rounding = iota
	// RoundFractional scales kills by the exact ratio; the defender's
	// survivor count is floored.
	RoundFractional
)

func (r Rounding) String() string {
	if r == RoundFractional {
		return "fractional"
	}
	return "whole"
}

// ParseRounding maps a config value to a policy. Empty means the
// default, whole rounds.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "", "whole":
		return RoundWhole, nil
	case "fractional":
		return RoundFractional, nil
	}
	return RoundWhole, fmt.Errorf("%w: unknown rounding policy %q", ErrMalformedInput, s)
}

// Fallback fixes what a battle does when no kill rule applies: same
// types, a typeless participant, or a pair absent from the table in
// both directions.
type Fallback int

const (
	// TradeEven removes equal amounts from both sides.
	TradeEven Fallback = iota
	// TradeNone leaves both sides untouched.
	TradeNone
)

func (f Fallback) String() string {
	if f == TradeNone {
		return "no_effect"
	}
	return "even_trade"
}

// ParseFallback maps a config value to a policy. Empty means the
// default, even trade.
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "", "even_trade":
		return TradeEven, nil
	case "no_effect":
		return TradeNone, nil
	}
	return TradeEven, fmt.Errorf("%w: unknown fallback policy %q", ErrMalformedInput, s)
}

// KillRate is one directed table entry: every Required attackers deal
// Kills casualties to the defending type.
type KillRate struct {
	Required int
	Kills    int
}

type ruleKey struct {
	attacker UnitType
	defender UnitType
}

// RuleSet is the kill table plus the resolution policies. Do not
// modify a set once searches share it.
type RuleSet struct {
	table    map[ruleKey]KillRate
	rounding Rounding
	fallback Fallback
}

// NewRuleSet builds a set from config. A nil config yields an empty
// table with default policies.
func NewRuleSet(rc *config.RulesConfig) (*RuleSet, error) {
	rs := &RuleSet{table: map[ruleKey]KillRate{}}
	if rc == nil {
		return rs, nil
	}
	var err error
	if rs.rounding, err = ParseRounding(rc.Policy.Rounding); err != nil {
		return nil, err
	}
	if rs.fallback, err = ParseFallback(rc.Policy.Fallback); err != nil {
		return nil, err
	}
	for _, kr := range rc.KillRates {
		if err := rs.Add(UnitType(kr.Attacker), UnitType(kr.Defender), kr.Per, kr.Kills); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Add registers a directed kill rate.
func (rs *RuleSet) Add(attacker, defender UnitType, required, kills int) error {
	if attacker == "" || defender == "" {
		return fmt.Errorf("%w: kill rate with empty type", ErrMalformedInput)
	}
	if required < 1 {
		return fmt.Errorf("%w: rule %s->%s requires %d units", ErrMalformedInput, attacker, defender, required)
	}
	if kills < 0 {
		return fmt.Errorf("%w: rule %s->%s deals %d kills", ErrMalformedInput, attacker, defender, kills)
	}
	rs.table[ruleKey{attacker, defender}] = KillRate{Required: required, Kills: kills}
	return nil
}

// Rate looks up the directed entry for attacker vs defender.
func (rs *RuleSet) Rate(attacker, defender UnitType) (KillRate, bool) {
	kr, ok := rs.table[ruleKey{attacker, defender}]
	return kr, ok
}

// Len reports how many directed entries the table holds.
func (rs *RuleSet) Len() int { return len(rs.table) }

// Types lists every unit type the table mentions, sorted.
func (rs *RuleSet) Types() []UnitType {
	seen := map[UnitType]bool{}
	for k := range rs.table {
		seen[k.attacker] = true
		seen[k.defender] = true
	}
	types := make([]UnitType, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// survivorCount applies kr casualties from attackers to defenders
// under the configured rounding.
func (rs *RuleSet) survivorCount(defenders, attackers int, kr KillRate) int {
	if rs.rounding == RoundFractional {
		dealt := float64(attackers) / float64(kr.Required) * float64(kr.Kills)
		left := math.Floor(float64(defenders) - dealt)
		if left < 0 {
			return 0
		}
		return int(left)
	}
	left := defenders - attackers/kr.Required*kr.Kills
	if left < 0 {
		return 0
	}
	return left
}

// GroupsFromConfig converts and validates a scenario's group records,
// returning the roster and the team the scenario favors.
func GroupsFromConfig(sc *config.ScenarioConfig) ([]Group, Team, error) {
	if sc == nil || len(sc.Groups) == 0 {
		return nil, "", fmt.Errorf("%w: scenario has no groups", ErrMalformedInput)
	}
	groups := make([]Group, 0, len(sc.Groups))
	for _, gd := range sc.Groups {
		groups = append(groups, Group{Type: UnitType(gd.Type), Amount: gd.Amount, Team: Team(gd.Team)})
	}
	if err := ValidateGroups(groups); err != nil {
		return nil, "", err
	}
	favor := TeamBlue
	if sc.Favor != "" {
		favor = Team(sc.Favor)
		if !favor.valid() {
			return nil, "", fmt.Errorf("%w: unknown favor team %q", ErrMalformedInput, sc.Favor)
		}
	}
	return groups, favor, nil
}

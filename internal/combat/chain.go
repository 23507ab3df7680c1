package combat

import (
	"fmt"
	"math"
)

// SimulateChain walks one fixed ordering of the roster. The first
// group in the order is the running group; every later group either
// merges into it (same team) or fights it. The running group keeps its
// slot, so a battled group's remnant stays where it was and still
// counts toward the score. A dead running group ends the walk early;
// groups never reached are left untouched.
func SimulateChain(rules *RuleSet, groups []Group, order []int, favor Team) ChainResult {
	amounts := make([]int, len(groups))
	types := make([]UnitType, len(groups))
	for i, g := range groups {
		amounts[i] = g.Amount
		types[i] = g.Type
	}

	broken := false
	if len(order) > 0 {
		cur := order[0]
		for _, nxt := range order[1:] {
			if amounts[cur] <= 0 {
				broken = true
				break
			}
			if amounts[nxt] <= 0 {
				continue
			}
			a := Group{Type: types[cur], Amount: amounts[cur], Team: groups[cur].Team}
			b := Group{Type: types[nxt], Amount: amounts[nxt], Team: groups[nxt].Team}
			if a.Team == b.Team {
				merged, _ := Combine(a, b)
				amounts[cur], types[cur] = merged.Amount, merged.Type
				amounts[nxt] = 0
			} else {
				s1, s2, _ := rules.Battle(a, b)
				amounts[cur], amounts[nxt] = 0, 0
				if s1 != nil {
					amounts[cur] = s1.Amount
				}
				if s2 != nil {
					amounts[nxt] = s2.Amount
				}
			}
		}
	}

	final := make([]Group, 0, len(groups))
	for i, g := range groups {
		if amounts[i] <= 0 {
			continue
		}
		final = append(final, Group{Type: types[i], Amount: amounts[i], Team: g.Team})
	}
	return ChainResult{
		Advantage: Advantage(final, favor),
		Order:     append([]int(nil), order...),
		Survivors: final,
		Broken:    broken,
	}
}

// BestChain tries every permutation of the roster and keeps the best
// walk. Exact but factorial, so it is meant for small rosters only.
// Unbroken walks are a subset of what the pairwise search explores; a
// broken walk freezes a position the pairwise model would have to keep
// playing, so no ordering holds between the two in general.
func BestChain(rules *RuleSet, groups []Group, favor Team) (ChainResult, error) {
	if err := ValidateGroups(groups); err != nil {
		return ChainResult{}, err
	}
	if favor == "" {
		favor = TeamBlue
	}
	if !favor.valid() {
		return ChainResult{}, fmt.Errorf("%w: unknown team %q", ErrMalformedInput, favor)
	}
	n := len(groups)
	if n == 0 {
		return ChainResult{Order: []int{}, Survivors: []Group{}}, nil
	}

	best := ChainResult{Advantage: math.MinInt}
	order := make([]int, 0, n)
	used := make([]bool, n)
	var walk func()
	walk = func() {
		if len(order) == n {
			res := SimulateChain(rules, groups, order, favor)
			if res.Advantage > best.Advantage {
				best = res
			}
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			order = append(order, i)
			walk()
			order = order[:len(order)-1]
			used[i] = false
		}
	}
	walk()
	return best, nil
}

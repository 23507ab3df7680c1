package combat

import "fmt"

// Combine merges two same-team groups. The merged amount is the sum;
// the merged type comes from the larger input, a tie keeping g1's type.
func Combine(g1, g2 Group) (Group, error) {
	if g1.Team != g2.Team {
		return Group{}, fmt.Errorf("%w: combine %s with %s", ErrInvalidOperation, g1.Team, g2.Team)
	}
	merged := Group{Type: g1.Type, Amount: g1.Amount + g2.Amount, Team: g1.Team}
	if g2.Amount > g1.Amount {
		merged.Type = g2.Type
	}
	return merged, nil
}

// Battle resolves combat between two opposing groups. A kill rule is
// one-sided: the attacker takes no losses. When neither direction has
// a rule, or the types match, or either side is typeless, the fallback
// policy decides. A nil survivor means that side was eliminated. The
// inputs are never mutated.
func (rs *RuleSet) Battle(g1, g2 Group) (*Group, *Group, error) {
	if g1.Team == g2.Team {
		return nil, nil, fmt.Errorf("%w: battle within team %s", ErrInvalidOperation, g1.Team)
	}
	a, b := g1, g2
	if g1.Type == g2.Type || g1.Type.IsTypeless() || g2.Type.IsTypeless() {
		a.Amount, b.Amount = rs.trade(g1.Amount, g2.Amount)
	} else if kr, ok := rs.Rate(g1.Type, g2.Type); ok {
		b.Amount = rs.survivorCount(g2.Amount, g1.Amount, kr)
	} else if kr, ok := rs.Rate(g2.Type, g1.Type); ok {
		a.Amount = rs.survivorCount(g1.Amount, g2.Amount, kr)
	} else {
		a.Amount, b.Amount = rs.trade(g1.Amount, g2.Amount)
	}
	return survivor(a), survivor(b), nil
}

func (rs *RuleSet) trade(a, b int) (int, int) {
	if rs.fallback == TradeNone {
		return a, b
	}
	na, nb := a-b, b-a
	if na < 0 {
		na = 0
	}
	if nb < 0 {
		nb = 0
	}
	return na, nb
}

func survivor(g Group) *Group {
	if g.Amount <= 0 {
		return nil
	}
	return &g
}

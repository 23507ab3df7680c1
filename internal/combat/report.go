package combat

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StepCombine = "combine"
	StepBattle  = "battle"
)

// Step records one interaction: both operands as they entered it and
// whatever survived it.
type Step struct {
	Kind  string  `json:"kind"`
	Left  Group   `json:"left"`
	Right Group   `json:"right"`
	After []Group `json:"after"`
}

// Describe renders the step as one human-readable line.
func (s Step) Describe() string {
	outcome := "all eliminated"
	if len(s.After) > 0 {
		parts := make([]string, 0, len(s.After))
		for _, g := range s.After {
			parts = append(parts, g.String())
		}
		outcome = strings.Join(parts, " + ")
	}
	if s.Kind == StepCombine {
		return fmt.Sprintf("combine %s with %s -> %s", s.Left, s.Right, outcome)
	}
	return fmt.Sprintf("battle %s vs %s -> %s", s.Left, s.Right, outcome)
}

// Result is the outcome of one full search: the best reachable
// advantage, the interaction sequence achieving it, the final
// survivors, and the search counters.
type Result struct {
	Advantage int     `json:"advantage"`
	Favored   Team    `json:"favored"`
	Steps     []Step  `json:"steps"`
	Survivors []Group `json:"survivors"`
	States    int     `json:"states"`
	CacheHits int     `json:"cache_hits"`
}

// ChainResult is the outcome of one linear walk (or the best of all
// walks). Order holds original indices; Broken marks a walk that ended
// early because the running group was eliminated.
type ChainResult struct {
	Advantage int     `json:"advantage"`
	Order     []int   `json:"order"`
	Survivors []Group `json:"survivors"`
	Broken    bool    `json:"broken,omitempty"`
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}

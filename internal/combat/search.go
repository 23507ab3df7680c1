package combat

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Options tunes one search. The zero value is the sequential default
// favoring blue.
type Options struct {
	// Favor is the team whose advantage is maximized. Empty means blue.
	Favor Team
	// Workers above 1 solves first-level branches in a worker pool,
	// one cache per branch. The result is identical to a sequential
	// run; only the counters differ.
	Workers int
}

// PathFinder owns the memo cache for one problem instance. The roster
// is fixed at construction; every Best call starts from a fresh cache.
type PathFinder struct {
	rules *RuleSet
	arena []Group // originals, index = identity
	favor Team

	memo   map[string]outcome
	states int
	hits   int
}

// outcome is the best continuation from one state.
type outcome struct {
	score     int
	steps     []Step
	survivors []Group
}

// NewPathFinder validates the roster and prepares a finder over it.
// Zero-amount groups are inert and dropped up front.
func NewPathFinder(rules *RuleSet, groups []Group) (*PathFinder, error) {
	if err := ValidateGroups(groups); err != nil {
		return nil, err
	}
	arena := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.Amount == 0 {
			continue
		}
		arena = append(arena, g)
	}
	return &PathFinder{rules: rules, arena: arena}, nil
}

// FindBestPath validates groups and runs one sequential search.
func FindBestPath(rules *RuleSet, groups []Group, favor Team) (*Result, error) {
	pf, err := NewPathFinder(rules, groups)
	if err != nil {
		return nil, err
	}
	return pf.Best(Options{Favor: favor})
}

// Best runs the full memoized search and returns the optimal result.
func (pf *PathFinder) Best(opts Options) (*Result, error) {
	favor := opts.Favor
	if favor == "" {
		favor = TeamBlue
	}
	if !favor.valid() {
		return nil, fmt.Errorf("%w: unknown team %q", ErrMalformedInput, favor)
	}
	pf.favor = favor
	pf.memo = make(map[string]outcome)
	pf.states, pf.hits = 0, 0

	start := time.Now()
	mask := uint32(1)<<len(pf.arena) - 1
	var out outcome
	if opts.Workers > 1 {
		out = pf.solveParallel(mask, opts.Workers)
	} else {
		out = pf.solve(mask, nil)
	}
	if out.steps == nil {
		out.steps = []Step{}
	}

	res := &Result{
		Advantage: out.score,
		Favored:   favor,
		Steps:     out.steps,
		Survivors: out.survivors,
		States:    pf.states,
		CacheHits: pf.hits,
	}
	log.Debug().
		Int("groups", len(pf.arena)).
		Int("advantage", res.Advantage).
		Int("states", pf.states).
		Int("cache_hits", pf.hits).
		Dur("took", time.Since(start)).
		Msg("path search done")
	return res, nil
}

// solve returns the best continuation from the state where the masked
// originals are still unconsumed and derived is the sorted working set.
func (pf *PathFinder) solve(mask uint32, derived []Group) outcome {
	alive := bits.OnesCount32(mask)
	if alive == 0 || (alive == 1 && len(derived) == 0) {
		return pf.terminal(mask, derived)
	}

	key := fingerprint(mask, derived)
	if hit, ok := pf.memo[key]; ok {
		pf.hits++
		return hit
	}
	pf.states++

	best := outcome{score: math.MinInt}
	pf.forEachPair(mask, derived, func(g1, g2 Group, nextMask uint32, skip int) {
		step, outs := pf.applyPair(g1, g2)
		sub := pf.solve(nextMask, nextWorkingSet(derived, skip, outs))
		if sub.score > best.score {
			best = outcome{score: sub.score, steps: prependStep(step, sub.steps), survivors: sub.survivors}
		}
	})

	pf.memo[key] = best
	return best
}

// terminal scores a state with no legal pair left.
func (pf *PathFinder) terminal(mask uint32, derived []Group) outcome {
	pf.states++
	survivors := make([]Group, 0, len(derived)+bits.OnesCount32(mask))
	for i, g := range pf.arena {
		if mask&(1<<i) != 0 {
			survivors = append(survivors, g)
		}
	}
	survivors = append(survivors, derived...)
	sortGroups(survivors)
	return outcome{score: Advantage(survivors, pf.favor), survivors: survivors}
}

// forEachPair visits every legal transition from (mask, derived) in a
// fixed order: ordered pairs of unconsumed originals first, then each
// unconsumed original against each derived group, both ways. Every
// transition consumes at least one original identity, which is what
// guarantees termination. skip is the derived index the transition
// replaces, -1 when both operands are originals.
func (pf *PathFinder) forEachPair(mask uint32, derived []Group, visit func(g1, g2 Group, nextMask uint32, skip int)) {
	for i := 0; i < len(pf.arena); i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		for j := 0; j < len(pf.arena); j++ {
			if j == i || mask&(1<<j) == 0 {
				continue
			}
			visit(pf.arena[i], pf.arena[j], mask&^(1<<i|1<<j), -1)
		}
		for d := range derived {
			visit(pf.arena[i], derived[d], mask&^(1<<i), d)
			visit(derived[d], pf.arena[i], mask&^(1<<i), d)
		}
	}
}

// applyPair resolves one interaction and records it as a step.
func (pf *PathFinder) applyPair(g1, g2 Group) (Step, []Group) {
	if g1.Team == g2.Team {
		merged, _ := Combine(g1, g2)
		outs := []Group{merged}
		return Step{Kind: StepCombine, Left: g1, Right: g2, After: outs}, outs
	}
	s1, s2, _ := pf.rules.Battle(g1, g2)
	outs := make([]Group, 0, 2)
	if s1 != nil {
		outs = append(outs, *s1)
	}
	if s2 != nil {
		outs = append(outs, *s2)
	}
	return Step{Kind: StepBattle, Left: g1, Right: g2, After: outs}, outs
}

// solveParallel expands the root once and solves each first-level
// branch in its own goroutine with its own cache. Folding in branch
// order with a strict improvement keeps the pick identical to the
// sequential run.
func (pf *PathFinder) solveParallel(mask uint32, workers int) outcome {
	type branch struct {
		step    Step
		mask    uint32
		derived []Group
	}
	var branches []branch
	pf.forEachPair(mask, nil, func(g1, g2 Group, nextMask uint32, skip int) {
		step, outs := pf.applyPair(g1, g2)
		branches = append(branches, branch{step: step, mask: nextMask, derived: nextWorkingSet(nil, skip, outs)})
	})
	if len(branches) == 0 {
		return pf.terminal(mask, nil)
	}

	if workers > len(branches) {
		workers = len(branches)
	}
	results := make([]outcome, len(branches))
	jobs := make(chan int, len(branches))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				b := branches[idx]
				sub := &PathFinder{rules: pf.rules, arena: pf.arena, favor: pf.favor, memo: map[string]outcome{}}
				out := sub.solve(b.mask, b.derived)
				mu.Lock()
				results[idx] = out
				pf.states += sub.states
				pf.hits += sub.hits
				mu.Unlock()
			}
		}()
	}
	for i := range branches {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	best := outcome{score: math.MinInt}
	for i, sub := range results {
		if sub.score > best.score {
			best = outcome{score: sub.score, steps: prependStep(branches[i].step, sub.steps), survivors: sub.survivors}
		}
	}
	return best
}

// nextWorkingSet rebuilds the derived set after a transition: drop the
// replaced member, add the interaction output, restore canonical order.
func nextWorkingSet(derived []Group, skip int, outs []Group) []Group {
	next := make([]Group, 0, len(derived)+len(outs))
	for d, g := range derived {
		if d == skip {
			continue
		}
		next = append(next, g)
	}
	next = append(next, outs...)
	sortGroups(next)
	return next
}

func sortGroups(gs []Group) {
	sort.Slice(gs, func(i, j int) bool {
		a, b := gs[i], gs[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Amount < b.Amount
	})
}

// fingerprint packs a state into a memo key. The derived set must
// already be in canonical order.
func fingerprint(mask uint32, derived []Group) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(mask), 16))
	for _, g := range derived {
		b.WriteByte('|')
		b.WriteString(string(g.Team))
		b.WriteByte(':')
		b.WriteString(string(g.Type))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(g.Amount))
	}
	return b.String()
}

func prependStep(step Step, rest []Step) []Step {
	steps := make([]Step, 0, len(rest)+1)
	steps = append(steps, step)
	return append(steps, rest...)
}

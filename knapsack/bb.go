// Package knapsack - Branch-and-Bound (best-first search with a fractional bound).
//
// BoundingSolve explores take/skip decisions over the items in efficiency
// order, always expanding the open node with the highest optimistic bound.
//
// Rationale (succinct):
//  1. Items are permuted once into efficiency order (value/weight descending);
//     values and weights are prefetched into dense slices in that order.
//  2. Bound: greedy fill of the undecided suffix, the first item that does not
//     fit contributes the fraction v·room/w. This is the LP relaxation of the
//     remaining subproblem. Values are integers, so its floor is kept, computed
//     exactly in 128 bits; it never underestimates any completion.
//  3. Every generated child is feasible (room ≥ 0), so it may become the
//     incumbent. A child whose bound does not exceed the incumbent is dropped.
//  4. Termination: once the best open bound does not exceed the incumbent, no
//     unexplored node can beat it and the incumbent is optimal.
//  5. Budgets: an optional node limit and a soft deadline (checked every 4096
//     expansions) stop the search early with the incumbent as a degraded result.
//
// Complexity:
//   - Worst case exponential in n; per expansion O(n) for two bounds plus
//     O(n + log F) for the decision copy and the heap (F = frontier size).
//   - Memory: O(F·n) for the open nodes.

package knapsack

import (
	"container/heap"
	"math/bits"
	"time"
)

// bbEngine holds the state of a single branch-and-bound run.
type bbEngine struct {
	n     int
	order []int   // order[d] = original index of the d-th item in efficiency order
	ov    []int64 // values in efficiency order
	ow    []int64 // weights in efficiency order

	useDeadline bool
	deadline    time.Time
	nodeLimit   int

	open frontier
	seq  uint64
	best node // incumbent

	stats Stats
}

// newBBEngine prefetches p in efficiency order.
func newBBEngine(p *Problem) *bbEngine {
	e := &bbEngine{
		n:     p.Len(),
		order: EfficiencyOrder(p),
	}
	e.ov = make([]int64, e.n)
	e.ow = make([]int64, e.n)
	for d, i := range e.order {
		e.ov[d] = p.values[i]
		e.ow[d] = p.weights[i]
	}

	return e
}

// bound is the floor of the fractional relaxation from depth onward given the
// value and room accumulated so far. At depth n it equals value.
func (e *bbEngine) bound(depth int, value, room int64) int64 {
	var d int
	for d = depth; d < e.n; d++ {
		if e.ow[d] <= room {
			room -= e.ow[d]
			value += e.ov[d]
			continue
		}

		return value + fracFloor(e.ov[d], room, e.ow[d])
	}

	return value
}

// fracFloor returns ⌊v·r/w⌋ for 0 ≤ r < w. The product is formed in 128 bits;
// its high word is below w, so the quotient fits in 64 bits.
func fracFloor(v, r, w int64) int64 {
	hi, lo := bits.Mul64(uint64(v), uint64(r))
	q, _ := bits.Div64(hi, lo, uint64(w))

	return int64(q)
}

// push adds nd to the frontier.
func (e *bbEngine) push(nd node) {
	heap.Push(&e.open, frontierItem{node: nd, seq: e.seq})
	e.seq++
	if len(e.open) > e.stats.MaxFrontier {
		e.stats.MaxFrontier = len(e.open)
	}
}

// consider records a freshly generated child: it may become the incumbent,
// and it stays open only while its bound can still beat the incumbent.
func (e *bbEngine) consider(child node) {
	e.stats.Generated++
	if child.value > e.best.value {
		e.best = child
	}
	if child.bound > e.best.value {
		e.push(child)
		return
	}
	e.stats.Pruned++
}

// budgetExceeded reports ErrNodeLimit or ErrTimeLimit once a budget is used up.
func (e *bbEngine) budgetExceeded() error {
	if e.nodeLimit > 0 && e.stats.Expanded >= e.nodeLimit {
		return ErrNodeLimit
	}
	if e.useDeadline && (e.stats.Expanded&4095) == 0 && e.stats.Expanded > 0 && time.Now().After(e.deadline) {
		return ErrTimeLimit
	}

	return nil
}

// run executes the best-first loop until optimality is proven or a budget runs out.
func (e *bbEngine) run(capacity int64) error {
	root := node{room: capacity}
	root.bound = e.bound(0, 0, capacity)
	e.best = root
	e.push(root)

	var cur frontierItem
	for e.open.Len() > 0 {
		if e.open[0].bound <= e.best.value {
			return nil
		}
		if err := e.budgetExceeded(); err != nil {
			return err
		}
		cur = heap.Pop(&e.open).(frontierItem)
		e.stats.Expanded++

		d := cur.depth()
		if d == e.n {
			continue
		}
		if e.ow[d] <= cur.room {
			e.consider(cur.extend(e, true))
		}
		e.consider(cur.extend(e, false))
	}

	return nil
}

// solution maps the incumbent back to original item order. Undecided items
// are left out.
func (e *bbEngine) solution() Solution {
	contained := make([]bool, e.n)
	for d, take := range e.best.decisions {
		contained[e.order[d]] = take
	}

	return Solution{Value: e.best.value, Contained: contained}
}

// BoundingSolve solves p exactly with best-first branch-and-bound.
//
// Complexity: exponential in the worst case; see the package notes in bb.go.
func BoundingSolve(p *Problem) Solution {
	s, _, _ := boundingSolve(p, 0, time.Time{})

	return s
}

// boundingSolve runs the engine under optional budgets. On ErrNodeLimit or
// ErrTimeLimit the returned Solution is the feasible incumbent.
func boundingSolve(p *Problem, nodeLimit int, deadline time.Time) (Solution, Stats, error) {
	e := newBBEngine(p)
	e.nodeLimit = nodeLimit
	if !deadline.IsZero() {
		e.useDeadline = true
		e.deadline = deadline
	}

	err := e.run(p.capacity)
	s := e.solution()
	if p.Check(s) != nil {
		panic(panicInconsistent)
	}

	return s, e.stats, err
}

// Package knapsack - unified dispatcher for the exact solvers.
//
// Solve validates Options, runs the selected algorithm under the configured
// budgets, and reports the solution together with search statistics.
//
// Design principles:
//   - Deterministic: identical inputs and options yield identical reports
//     (Elapsed aside).
//   - Strict sentinels: only errors from types.go, wrapped with context.
//   - Budgets degrade gracefully for branch-and-bound: the incumbent is
//     returned with Optimal=false and ErrNodeLimit / ErrTimeLimit.

package knapsack

import (
	"errors"
	"time"
)

// Solve runs the algorithm chosen in opts on p.
//
// Errors:
//   - ErrNilProblem, ErrUnsupportedAlgorithm, ErrBadTimeLimit, ErrBadNodeLimit.
//   - ErrNodeLimit / ErrTimeLimit when a budget runs out. Branch-and-bound
//     still fills Report.Solution with its best feasible subset; the dynamic
//     solver returns an empty Report.
func Solve(p *Problem, opts Options) (Report, error) {
	if err := validateOptions(p, opts); err != nil {
		return Report{}, err
	}

	var (
		log      = opts.Logger.WithValues("algo", opts.Algo.String(), "items", p.Len(), "capacity", p.capacity)
		start    = time.Now()
		deadline time.Time
		s        Solution
		st       Stats
		err      error
	)
	if opts.TimeLimit > 0 {
		deadline = start.Add(opts.TimeLimit)
	}
	log.V(1).Info("solve started", "timeLimit", opts.TimeLimit, "nodeLimit", opts.NodeLimit)

	switch opts.Algo {
	case Dynamic:
		s, st, err = dynamicSolve(p, deadline)
		if err != nil {
			log.V(1).Info("solve aborted", "reason", err.Error())
			return Report{Algo: opts.Algo, Elapsed: time.Since(start)}, err
		}
	case BranchAndBound:
		s, st, err = boundingSolve(p, opts.NodeLimit, deadline)
	}

	r := Report{
		Solution: s,
		Algo:     opts.Algo,
		Optimal:  err == nil,
		Stats:    st,
		Elapsed:  time.Since(start),
	}
	if err != nil {
		log.V(1).Info("solve stopped by budget", "reason", err.Error(), "value", s.Value, "expanded", st.Expanded)
		return r, err
	}
	log.V(1).Info("solve finished",
		"value", s.Value,
		"expanded", st.Expanded,
		"generated", st.Generated,
		"pruned", st.Pruned,
		"cachePoints", st.CachePoints,
		"elapsed", r.Elapsed)

	return r, nil
}

// validateOptions checks p and opts before any work is done.
//
// Complexity: O(1).
func validateOptions(p *Problem, opts Options) error {
	if p == nil {
		return ErrNilProblem
	}
	switch opts.Algo {
	case Dynamic, BranchAndBound:
		// ok
	default:
		return ErrUnsupportedAlgorithm
	}
	if opts.TimeLimit < 0 {
		return ErrBadTimeLimit
	}
	if opts.NodeLimit < 0 {
		return ErrBadNodeLimit
	}

	return nil
}

// IsBudgetError reports whether err signals an exhausted node or time budget.
func IsBudgetError(err error) bool {
	return errors.Is(err, ErrNodeLimit) || errors.Is(err, ErrTimeLimit)
}

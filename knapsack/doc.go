// Package knapsack provides exact solvers for the 0/1 knapsack problem.
//
// Given n items, each with a non-negative integer value and weight, and an
// integer capacity K, a solver picks the subset with the largest total value
// whose total weight does not exceed K.
//
// Two independent exact algorithms are offered:
//
//   - DynamicSolve builds an Oracle Cache (a staircase of value increases
//     per item count) and reconstructs the optimal subset by walking the
//     items backwards. O(n·K) time, memory proportional to the number of steps.
//   - BoundingSolve runs a best-first branch-and-bound over take/skip
//     decisions in efficiency order (value/weight descending), pruned by the
//     fractional relaxation bound. Exponential in the worst case, fast when
//     the bound is tight.
//
// Both return a Solution whose Contained flags follow the original item order.
//
// Solve dispatches to either algorithm under Options, reports search
// statistics, and supports node and wall-clock budgets for branch-and-bound:
// when a budget runs out the best feasible subset found so far is returned
// together with ErrNodeLimit or ErrTimeLimit.
//
// Example:
//
//	p, err := knapsack.NewProblem([]int64{5, 6, 3}, []int64{4, 5, 2}, 9)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := knapsack.BoundingSolve(p)
//	fmt.Println(s.Value, s.Contained) // 11 [true true false]
package knapsack

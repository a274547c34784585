package knapsack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Sentinel errors returned by the knapsack package.
var (
	// ErrLengthMismatch indicates that values and weights differ in length.
	ErrLengthMismatch = errors.New("knapsack: values and weights length mismatch")

	// ErrNegativeValue indicates an item with a negative value.
	ErrNegativeValue = errors.New("knapsack: negative item value")

	// ErrNegativeWeight indicates an item with a negative weight.
	ErrNegativeWeight = errors.New("knapsack: negative item weight")

	// ErrNegativeCapacity indicates a negative knapsack capacity.
	ErrNegativeCapacity = errors.New("knapsack: negative capacity")

	// ErrNilProblem is returned by Solve when no problem is given.
	ErrNilProblem = errors.New("knapsack: problem is nil")

	// ErrUnsupportedAlgorithm indicates an unknown Options.Algo.
	ErrUnsupportedAlgorithm = errors.New("knapsack: unsupported algorithm")

	// ErrBadTimeLimit indicates a negative Options.TimeLimit.
	ErrBadTimeLimit = errors.New("knapsack: TimeLimit must be non-negative")

	// ErrBadNodeLimit indicates a negative Options.NodeLimit.
	ErrBadNodeLimit = errors.New("knapsack: NodeLimit must be non-negative")

	// ErrTimeLimit is returned when a solve exceeds Options.TimeLimit.
	// Branch-and-bound still returns its best feasible subset.
	ErrTimeLimit = errors.New("knapsack: time limit exceeded")

	// ErrNodeLimit is returned when branch-and-bound expands more than
	// Options.NodeLimit nodes. The best feasible subset is still returned.
	ErrNodeLimit = errors.New("knapsack: node limit exceeded")

	// ErrSolutionShape indicates a Solution whose Contained length differs from the problem size.
	ErrSolutionShape = errors.New("knapsack: solution length mismatch")

	// ErrInconsistentValue indicates a Solution whose Value is not the sum of its items.
	ErrInconsistentValue = errors.New("knapsack: solution value does not match its items")

	// ErrOverCapacity indicates a Solution whose items exceed the capacity.
	ErrOverCapacity = errors.New("knapsack: solution exceeds capacity")
)

// Panic messages for programming errors (precondition violations and
// failed internal consistency checks).
const (
	panicNegativeCapacity = "knapsack: query with negative capacity"
	panicCapacityRange    = "knapsack: query capacity beyond cache limit"
	panicCountRange       = "knapsack: query item count beyond problem size"
	panicInconsistent     = "knapsack: reconstructed solution is inconsistent"
)

// Problem is an immutable 0/1 knapsack instance:
//
//	maximize   Σ v_i·x_i
//	subject to Σ w_i·x_i ≤ K,  x_i ∈ {0,1}
//
// Build it with NewProblem; the zero value is an empty instance with capacity 0.
type Problem struct {
	values   []int64
	weights  []int64
	capacity int64
}

// NewProblem validates and copies the input into a Problem.
//
// Errors:
//   - ErrLengthMismatch if len(values) != len(weights).
//   - ErrNegativeValue / ErrNegativeWeight (wrapped with the item index).
//   - ErrNegativeCapacity if capacity < 0.
//
// Complexity: O(n).
func NewProblem(values, weights []int64, capacity int64) (*Problem, error) {
	if len(values) != len(weights) {
		return nil, fmt.Errorf("%w: %d values, %d weights", ErrLengthMismatch, len(values), len(weights))
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}
	var i int
	for i = range values {
		if values[i] < 0 {
			return nil, fmt.Errorf("%w: item %d value=%d", ErrNegativeValue, i, values[i])
		}
		if weights[i] < 0 {
			return nil, fmt.Errorf("%w: item %d weight=%d", ErrNegativeWeight, i, weights[i])
		}
	}

	p := &Problem{
		values:   make([]int64, len(values)),
		weights:  make([]int64, len(weights)),
		capacity: capacity,
	}
	copy(p.values, values)
	copy(p.weights, weights)

	return p, nil
}

// MustProblem is like NewProblem but panics on error.
func MustProblem(values, weights []int64, capacity int64) *Problem {
	p, err := NewProblem(values, weights, capacity)
	if err != nil {
		panic(err.Error())
	}

	return p
}

// Len returns the number of items.
func (p *Problem) Len() int { return len(p.values) }

// Capacity returns K.
func (p *Problem) Capacity() int64 { return p.capacity }

// Value returns the value of item i.
func (p *Problem) Value(i int) int64 { return p.values[i] }

// Weight returns the weight of item i.
func (p *Problem) Weight(i int) int64 { return p.weights[i] }

// Values returns a copy of the item values.
func (p *Problem) Values() []int64 {
	out := make([]int64, len(p.values))
	copy(out, p.values)

	return out
}

// Weights returns a copy of the item weights.
func (p *Problem) Weights() []int64 {
	out := make([]int64, len(p.weights))
	copy(out, p.weights)

	return out
}

// WithCapacity returns a copy of p with a different capacity.
func (p *Problem) WithCapacity(capacity int64) (*Problem, error) {
	return NewProblem(p.values, p.weights, capacity)
}

// Check verifies that s is a consistent, feasible solution of p.
//
// Errors: ErrSolutionShape, ErrInconsistentValue, ErrOverCapacity.
func (p *Problem) Check(s Solution) error {
	if len(s.Contained) != p.Len() {
		return fmt.Errorf("%w: got %d flags, want %d", ErrSolutionShape, len(s.Contained), p.Len())
	}
	var (
		value, weight int64
		i             int
	)
	for i = range s.Contained {
		if s.Contained[i] {
			value += p.values[i]
			weight += p.weights[i]
		}
	}
	if value != s.Value {
		return fmt.Errorf("%w: reported %d, items sum to %d", ErrInconsistentValue, s.Value, value)
	}
	if weight > p.capacity {
		return fmt.Errorf("%w: weight %d > capacity %d", ErrOverCapacity, weight, p.capacity)
	}

	return nil
}

// Solution is the outcome of a solve: the achieved value and, for every
// original item index, whether the item is packed.
type Solution struct {
	Value     int64
	Contained []bool
}

// Items returns the indices of packed items in ascending order.
func (s Solution) Items() []int {
	out := make([]int, 0, len(s.Contained))
	for i, in := range s.Contained {
		if in {
			out = append(out, i)
		}
	}

	return out
}

// Weight returns the total weight of the packed items of p.
func (s Solution) Weight(p *Problem) int64 {
	var w int64
	for i, in := range s.Contained {
		if in {
			w += p.weights[i]
		}
	}

	return w
}

// Algorithm selects the solver used by Solve.
type Algorithm int

const (
	// BranchAndBound is the best-first branch-and-bound solver (default).
	BranchAndBound Algorithm = iota

	// Dynamic is the Oracle Cache dynamic-programming solver.
	Dynamic
)

// String returns the canonical name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case BranchAndBound:
		return "branch-and-bound"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name to an Algorithm. Accepted names are
// "branch-and-bound" ("bb", "bnb") and "dynamic" ("dp"), case-insensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "branch-and-bound", "bb", "bnb":
		return BranchAndBound, nil
	case "dynamic", "dp":
		return Dynamic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// Options configures Solve.
//
// Algo      – solver to run (BranchAndBound by default).
// TimeLimit – wall-clock budget; 0 means unlimited.
// NodeLimit – maximum expanded branch-and-bound nodes; 0 means unlimited.
// Logger    – receives V(1) progress records; discarded by default.
type Options struct {
	Algo      Algorithm
	TimeLimit time.Duration
	NodeLimit int
	Logger    logr.Logger
}

// Option represents a functional option for configuring Solve.
type Option func(*Options)

// WithAlgorithm selects the solver.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) {
		o.Algo = a
	}
}

// WithTimeLimit sets a wall-clock budget (0 disables it).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) {
		o.TimeLimit = d
	}
}

// WithNodeLimit caps the number of expanded branch-and-bound nodes (0 disables it).
func WithNodeLimit(n int) Option {
	return func(o *Options) {
		o.NodeLimit = n
	}
}

// WithLogger routes solver progress to l.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// DefaultOptions returns Options with the given overrides applied.
//
// Defaults:
//   - Algo:      BranchAndBound.
//   - TimeLimit: 0 (unlimited).
//   - NodeLimit: 0 (unlimited).
//   - Logger:    logr.Discard().
func DefaultOptions(opts ...Option) Options {
	o := Options{
		Algo:   BranchAndBound,
		Logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Stats describes the work done by a solve.
type Stats struct {
	// Expanded counts branch-and-bound nodes popped and expanded.
	Expanded int
	// Generated counts children created.
	Generated int
	// Pruned counts children discarded because their bound could not beat the incumbent.
	Pruned int
	// MaxFrontier is the largest frontier size observed.
	MaxFrontier int
	// CachePoints is the number of steps recorded in the Oracle Cache.
	CachePoints int
}

// Report is the result of Solve.
type Report struct {
	Solution Solution
	Algo     Algorithm
	// Optimal is false when a budget stopped the search early.
	Optimal bool
	Stats   Stats
	Elapsed time.Duration
}

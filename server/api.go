package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/knapsack/instance"
	"github.com/katalvlaran/knapsack/knapsack"
)

// MaxItems bounds the number of items a single request may carry.
const MaxItems = 10000

// SolveRequest is the body of POST /api/v1/solve.
type SolveRequest struct {
	instance.Document
	// Algo defaults to the server's configured algorithm.
	Algo string `json:"algo,omitempty"`
	// NodeLimit overrides the configured node budget when positive.
	NodeLimit int `json:"node_limit,omitempty"`
	// TimeLimit is a Go duration string, e.g. "250ms".
	TimeLimit string `json:"time_limit,omitempty"`
}

// SolveStats mirrors knapsack.Stats on the wire.
type SolveStats struct {
	Expanded    int   `json:"expanded"`
	Generated   int   `json:"generated"`
	Pruned      int   `json:"pruned"`
	MaxFrontier int   `json:"max_frontier"`
	CachePoints int   `json:"cache_points"`
	ElapsedUS   int64 `json:"elapsed_us"`
}

// SolveResponse is returned by POST /api/v1/solve.
type SolveResponse struct {
	Value       int64      `json:"value"`
	Contained   []bool     `json:"contained"`
	Selected    []string   `json:"selected"`
	TotalWeight int64      `json:"total_weight"`
	Optimal     bool       `json:"optimal"`
	Algo        string     `json:"algo"`
	Stats       SolveStats `json:"stats"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errTooManyItems = errors.New("too many items")

// normalize validates req in place and returns the problem and options to
// solve it with. Defaults come from base; limit caps the time budget.
func normalize(req *SolveRequest, base knapsack.Options, limit time.Duration) (*knapsack.Problem, knapsack.Options, error) {
	if len(req.Items) > MaxItems {
		return nil, base, fmt.Errorf("%w (max %d)", errTooManyItems, MaxItems)
	}
	p, err := req.Problem()
	if err != nil {
		return nil, base, err
	}

	opts := base
	if req.Algo != "" {
		algo, err := knapsack.ParseAlgorithm(req.Algo)
		if err != nil {
			return nil, base, err
		}
		opts.Algo = algo
	}
	req.Algo = opts.Algo.String()

	if req.NodeLimit < 0 {
		return nil, base, knapsack.ErrBadNodeLimit
	}
	if req.NodeLimit > 0 {
		opts.NodeLimit = req.NodeLimit
	}

	if req.TimeLimit != "" {
		d, err := time.ParseDuration(req.TimeLimit)
		if err != nil || d < 0 {
			return nil, base, fmt.Errorf("%w: %q", knapsack.ErrBadTimeLimit, req.TimeLimit)
		}
		opts.TimeLimit = d
	}
	if limit > 0 && (opts.TimeLimit == 0 || opts.TimeLimit > limit) {
		opts.TimeLimit = limit
	}
	req.TimeLimit = opts.TimeLimit.String()

	return p, opts, nil
}

func newSolveResponse(doc instance.Document, p *knapsack.Problem, r knapsack.Report) *SolveResponse {
	names := doc.Names()
	selected := make([]string, 0, len(r.Solution.Contained))
	for _, i := range r.Solution.Items() {
		selected = append(selected, names[i])
	}

	return &SolveResponse{
		Value:       r.Solution.Value,
		Contained:   r.Solution.Contained,
		Selected:    selected,
		TotalWeight: r.Solution.Weight(p),
		Optimal:     r.Optimal,
		Algo:        r.Algo.String(),
		Stats: SolveStats{
			Expanded:    r.Stats.Expanded,
			Generated:   r.Stats.Generated,
			Pruned:      r.Stats.Pruned,
			MaxFrontier: r.Stats.MaxFrontier,
			CachePoints: r.Stats.CachePoints,
			ElapsedUS:   r.Elapsed.Microseconds(),
		},
	}
}

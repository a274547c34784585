package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/knapsack/knapsack"
)

// Sentinel errors returned by the parsers.
var (
	// ErrEmpty indicates an input without a header line.
	ErrEmpty = errors.New("instance: empty input")

	// ErrSyntax indicates a malformed line; the wrapped message names the line.
	ErrSyntax = errors.New("instance: syntax error")

	// ErrItemCount indicates that the header count differs from the item lines.
	ErrItemCount = errors.New("instance: item count mismatch")
)

// Parse reads the text format from r and builds a validated Problem.
//
// Errors: ErrEmpty, ErrSyntax (wrapped with the line number), ErrItemCount,
// and the knapsack validation sentinels (e.g. knapsack.ErrNegativeWeight).
//
// Complexity: O(input size).
func Parse(r io.Reader) (*knapsack.Problem, error) {
	var (
		sc       = bufio.NewScanner(r)
		line     int
		header   bool
		count    int64
		capacity int64
		values   []int64
		weights  []int64
	)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		a, b, err := twoInts(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
		}
		if !header {
			if a < 0 {
				return nil, fmt.Errorf("%w: line %d: negative item count %d", ErrSyntax, line, a)
			}
			count, capacity, header = a, b, true
			values = make([]int64, 0, min(count, 1<<16))
			weights = make([]int64, 0, min(count, 1<<16))
			continue
		}
		values = append(values, a)
		weights = append(weights, b)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("instance: read: %w", err)
	}
	if !header {
		return nil, ErrEmpty
	}
	if int64(len(values)) != count {
		return nil, fmt.Errorf("%w: header says %d, found %d", ErrItemCount, count, len(values))
	}

	return knapsack.NewProblem(values, weights, capacity)
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*knapsack.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: could not open %q: %w", path, err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("instance: could not parse %q: %w", path, err)
	}

	return p, nil
}

// twoInts reads the first two fields as integers; extra fields are ignored.
func twoInts(fields []string) (int64, int64, error) {
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("want 2 integers, got %d field(s)", len(fields))
	}
	a, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

package instance

import (
	"bufio"
	"io"
	"strconv"

	"github.com/katalvlaran/knapsack/knapsack"
)

// Format writes s as a proven-optimal solution: "<value> 1", then the flags.
func Format(w io.Writer, s knapsack.Solution) error {
	return write(w, s, true)
}

// FormatReport writes r.Solution, flagging it optimal only when r.Optimal.
func FormatReport(w io.Writer, r knapsack.Report) error {
	return write(w, r.Solution, r.Optimal)
}

// write renders the two-line solution format.
func write(w io.Writer, s knapsack.Solution, optimal bool) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.FormatInt(s.Value, 10))
	if optimal {
		bw.WriteString(" 1\n")
	} else {
		bw.WriteString(" 0\n")
	}
	for i, in := range s.Contained {
		if i > 0 {
			bw.WriteByte(' ')
		}
		if in {
			bw.WriteByte('1')
		} else {
			bw.WriteByte('0')
		}
	}
	bw.WriteByte('\n')

	return bw.Flush()
}

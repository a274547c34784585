package instance_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knapsack/instance"
	"github.com/katalvlaran/knapsack/knapsack"
)

func TestParse_TextFormat(t *testing.T) {
	in := "3 9\n5 4\n\n6 5\n3 2   trailing ignored\n"
	p, err := instance.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []int64{5, 6, 3}, p.Values())
	require.Equal(t, []int64{4, 5, 2}, p.Weights())
	require.Equal(t, int64(9), p.Capacity())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", instance.ErrEmpty},
		{"blank only", "\n  \n", instance.ErrEmpty},
		{"bad header", "three 9\n", instance.ErrSyntax},
		{"short line", "1 9\n5\n", instance.ErrSyntax},
		{"negative count", "-1 9\n", instance.ErrSyntax},
		{"too few items", "2 9\n5 4\n", instance.ErrItemCount},
		{"too many items", "1 9\n5 4\n6 5\n", instance.ErrItemCount},
		{"negative weight", "1 9\n5 -4\n", knapsack.ErrNegativeWeight},
		{"negative capacity", "1 -9\n5 4\n", knapsack.ErrNegativeCapacity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := instance.Parse(strings.NewReader(tc.in))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ks_3_0")
	require.NoError(t, os.WriteFile(path, []byte("3 9\n5 4\n6 5\n3 2\n"), 0o600))

	p, err := instance.ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())

	_, err = instance.ParseFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, instance.Format(&buf, knapsack.Solution{Value: 11, Contained: []bool{true, true, false}}))
	require.Equal(t, "11 1\n1 1 0\n", buf.String())

	buf.Reset()
	r := knapsack.Report{Solution: knapsack.Solution{Value: 3, Contained: []bool{false, true}}}
	require.NoError(t, instance.FormatReport(&buf, r))
	require.Equal(t, "3 0\n0 1\n", buf.String())

	buf.Reset()
	require.NoError(t, instance.Format(&buf, knapsack.Solution{Contained: []bool{}}))
	require.Equal(t, "0 1\n\n", buf.String())
}

// TestParseSolveFormat runs the full text pipeline on the three-item scenario.
func TestParseSolveFormat(t *testing.T) {
	p, err := instance.Parse(strings.NewReader("3 9\n5 4\n6 5\n3 2\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, instance.Format(&buf, knapsack.BoundingSolve(p)))
	require.Equal(t, "11 1\n1 1 0\n", buf.String())
}

func TestLoadDocument_YAML(t *testing.T) {
	in := `
capacity: 9
items:
  - {name: tent, value: 5, weight: 4}
  - {name: stove, value: 6, weight: 5}
  - {value: 3, weight: 2}
`
	doc, err := instance.LoadDocument(strings.NewReader(in))
	require.NoError(t, err)

	want := instance.Document{
		Capacity: 9,
		Items: []instance.Item{
			{Name: "tent", Value: 5, Weight: 4},
			{Name: "stove", Value: 6, Weight: 5},
			{Value: 3, Weight: 2},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"tent", "stove", "item-2"}, doc.Names())

	p, err := doc.Problem()
	require.NoError(t, err)
	require.Equal(t, int64(11), knapsack.DynamicSolve(p).Value)
}

func TestLoadDocument_JSON(t *testing.T) {
	doc, err := instance.LoadDocument(strings.NewReader(`{"capacity": 5, "items": [{"value": 3, "weight": 1}]}`))
	require.NoError(t, err)
	require.Equal(t, int64(5), doc.Capacity)
	require.Len(t, doc.Items, 1)
}

func TestLoadDocument_Errors(t *testing.T) {
	_, err := instance.LoadDocument(strings.NewReader(""))
	require.ErrorIs(t, err, instance.ErrEmpty)

	_, err = instance.LoadDocument(strings.NewReader("capacity: 3\nbogus: 1\n"))
	require.ErrorIs(t, err, instance.ErrSyntax)

	doc, err := instance.LoadDocument(strings.NewReader("capacity: 3\nitems:\n  - {value: -1, weight: 1}\n"))
	require.NoError(t, err)
	_, err = doc.Problem()
	require.ErrorIs(t, err, knapsack.ErrNegativeValue)
}

func TestDocument_EncodeRoundTrip(t *testing.T) {
	p := knapsack.MustProblem([]int64{1, 1, 2, 3}, []int64{2, 3, 5, 1}, 5)

	var buf bytes.Buffer
	require.NoError(t, instance.FromProblem(p).Encode(&buf))

	doc, err := instance.LoadDocument(&buf)
	require.NoError(t, err)
	q, err := doc.Problem()
	require.NoError(t, err)
	require.Equal(t, p.Values(), q.Values())
	require.Equal(t, p.Weights(), q.Weights())
	require.Equal(t, p.Capacity(), q.Capacity())
}

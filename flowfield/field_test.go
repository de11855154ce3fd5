package flowfield

import (
	"testing"

	"github.com/milk9111/flowfield/common"
)

func publishedField(t *testing.T, size Size, costs []uint8, dest Index) *Field {
	t.Helper()
	return &Field{store: solve(t, size, costs, dest), destination: dest, version: 1}
}

func TestNilFieldQueries(t *testing.T) {
	var f *Field
	if v := f.DirectionAt(common.Vec3{X: 1, Z: 1}); !v.IsZero() {
		t.Fatalf("nil field direction = %+v", v)
	}
	if c := f.CostAt(common.Vec3{}); c != CostImpassable {
		t.Fatalf("nil field cost = %d", c)
	}
	if f.Path(Index{}) != nil || f.Cells() != nil || f.Version() != 0 {
		t.Fatalf("nil field should be empty")
	}
	if FormatDirections(f) != "" {
		t.Fatalf("nil field should format as empty")
	}
}

func TestFieldPath(t *testing.T) {
	size := Size{X: 5, Y: 5}
	costs := uniformCosts(size, 1)
	for y := 0; y < 4; y++ {
		costs[size.FlatIndex(Index{X: 2, Y: y})] = CostImpassable
	}
	dest := Index{X: 0, Y: 0}
	f := publishedField(t, size, costs, dest)

	path := f.Path(Index{X: 4, Y: 0})
	if len(path) < 2 || path[0] != (Index{X: 4, Y: 0}) || path[len(path)-1] != dest {
		t.Fatalf("path = %v, want it to run from (4,0) to the destination", path)
	}
	for _, idx := range path {
		if c, _ := f.Cell(idx); !c.Passable() {
			t.Fatalf("path crosses impassable cell %+v", idx)
		}
	}

	if p := f.Path(dest); len(p) != 1 {
		t.Fatalf("path from destination = %v", p)
	}
}

func TestFormatField(t *testing.T) {
	size := Size{X: 3, Y: 1}
	f := publishedField(t, size, []uint8{1, CostImpassable, 1}, Index{X: 0, Y: 0})

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"costs", FormatCosts(f), "1 X 1\n"},
		{"best_costs", FormatBestCosts(f), "0 X X\n"},
		{"directions", FormatDirections(f), "* X .\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Fatalf("got %q, want %q", c.got, c.want)
			}
		})
	}

	square := publishedField(t, Size{X: 2, Y: 2}, uniformCosts(Size{X: 2, Y: 2}, 1), Index{X: 0, Y: 0})
	if got, want := FormatDirections(square), "↓ ↙\n* ←\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

package flowfield

import (
	"strings"
)

var arrows = map[Direction]string{
	North:     "↑",
	South:     "↓",
	East:      "→",
	West:      "←",
	NorthEast: "↗",
	NorthWest: "↖",
	SouthEast: "↘",
	SouthWest: "↙",
}

// FormatCosts renders the cost layer, north row first, "X" for impassable cells.
func FormatCosts(f *Field) string {
	return formatCells(f, func(c Cell) string { return c.CostString() })
}

// FormatBestCosts renders the integration field, "X" for unreached cells.
func FormatBestCosts(f *Field) string {
	return formatCells(f, func(c Cell) string { return c.BestCostString() })
}

// FormatDirections renders the direction field as arrows, "*" at the destination, "X" on
// impassable cells and "." where there is no route.
func FormatDirections(f *Field) string {
	return formatCells(f, func(c Cell) string {
		switch {
		case c.IsDestination:
			return "*"
		case !c.Passable():
			return "X"
		case c.BestDirection.IsZero():
			return "."
		}
		return arrows[c.BestDirection]
	})
}

func formatCells(f *Field, cellString func(Cell) string) string {
	if f == nil {
		return ""
	}
	size := f.store.Size()

	labels := make([]string, f.store.Len())
	width := 1
	for i := range labels {
		labels[i] = cellString(*f.store.AtFlat(i))
		if n := len([]rune(labels[i])); n > width {
			width = n
		}
	}

	var b strings.Builder
	for y := size.Y - 1; y >= 0; y-- {
		for x := 0; x < size.X; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			label := labels[size.FlatIndex(Index{X: x, Y: y})]
			b.WriteString(strings.Repeat(" ", width-len([]rune(label))))
			b.WriteString(label)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

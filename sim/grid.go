package sim

import (
	"fmt"
	"sort"
	"strings"
)

// GridModel is the read-only warehouse lookup consumed by the pathfinder,
// the agents and the engine.
type GridModel interface {
	Rows() int
	Cols() int
	Kind(c Cell) CellKind
	IsWalkable(c Cell) bool
	DepotCell() Cell
	// ItemCells lists every item location in row-major order.
	ItemCells() []Cell
}

// shelfWidth is the number of columns in one shelf block.
const shelfWidth = 2

// Grid is an immutable warehouse layout.
type Grid struct {
	rows   int
	cols   int
	kinds  []CellKind
	depot  Cell
	items  []Cell
	labels map[Cell]string
}

func (g *Grid) Rows() int       { return g.rows }
func (g *Grid) Cols() int       { return g.cols }
func (g *Grid) DepotCell() Cell { return g.depot }

// ItemCells returns a copy of the item locations in row-major order.
func (g *Grid) ItemCells() []Cell {
	out := make([]Cell, len(g.items))
	copy(out, g.items)
	return out
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Kind returns the classification of c. Out-of-bounds cells read as shelf.
func (g *Grid) Kind(c Cell) CellKind {
	if !g.InBounds(c) {
		return KindShelf
	}
	return g.kinds[c.Row*g.cols+c.Col]
}

func (g *Grid) IsWalkable(c Cell) bool {
	return g.Kind(c).Walkable()
}

// ShelfLabel returns the human-readable shelf reference ("B7") for an item
// cell, or the coordinate string when the cell carries no label.
func (g *Grid) ShelfLabel(c Cell) string {
	if l, ok := g.labels[c]; ok {
		return l
	}
	return c.String()
}

// NewLayout builds the standard warehouse: 2-column shelf blocks separated by
// aisles, mirrored about a clear centre aisle, with the depot on a walkway.
func NewLayout(cfg LayoutConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Map) > 0 {
		return NewGridFromRows(cfg.Map)
	}

	rows, cols := cfg.Rows, cfg.Cols
	centre := cols / 2
	halfCA := cfg.CentreAisleWidth / 2
	if centre-halfCA-shelfWidth < 1 {
		return nil, configErrorf("cols", "grid too narrow (%d) for centre aisle width %d", cols, cfg.CentreAisleWidth)
	}

	shelfStart, shelfEnd := cfg.shelfRows()
	if shelfStart > shelfEnd {
		return nil, configErrorf("shelf_start_row", "shelf start row %d must be <= shelf end row %d", shelfStart, shelfEnd)
	}

	step := shelfWidth + cfg.AisleWidth
	shelfCols := make(map[int]bool)
	for pos := centre - halfCA - shelfWidth; pos >= 1; pos -= step {
		shelfCols[pos] = true
		shelfCols[pos+1] = true
	}
	for pos := centre + halfCA + 1; pos+1 <= cols-2; pos += step {
		shelfCols[pos] = true
		shelfCols[pos+1] = true
	}

	depot := cfg.depotCell()
	g := &Grid{
		rows:   rows,
		cols:   cols,
		kinds:  make([]CellKind, rows*cols),
		depot:  depot,
		labels: make(map[Cell]string),
	}
	if !g.InBounds(depot) {
		return nil, configErrorf("depot", "depot %v outside %dx%d grid", depot, rows, cols)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r >= shelfStart && r <= shelfEnd && shelfCols[c] {
				g.kinds[r*cols+c] = KindShelf
				g.items = append(g.items, Cell{Row: r, Col: c})
			}
		}
	}
	if g.Kind(depot) == KindShelf {
		return nil, configErrorf("depot", "depot %v lies on a shelf", depot)
	}
	g.kinds[depot.Row*cols+depot.Col] = KindDepot

	sorted := make([]int, 0, len(shelfCols))
	for c := range shelfCols {
		sorted = append(sorted, c)
	}
	sort.Ints(sorted)
	for idx, c := range sorted {
		letter := columnLetter(idx)
		for r := shelfStart; r <= shelfEnd; r++ {
			g.labels[Cell{Row: r, Col: c}] = fmt.Sprintf("%s%d", letter, r-shelfStart+1)
		}
	}
	return g, nil
}

// NewGridFromRows parses an ASCII layout: '#' shelf, '.' aisle, 'D' depot.
// Exactly one depot is required and all rows must have equal width.
func NewGridFromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, configErrorf("map", "empty layout")
	}
	cols := len(rows[0])
	g := &Grid{
		rows:   len(rows),
		cols:   cols,
		kinds:  make([]CellKind, len(rows)*cols),
		labels: make(map[Cell]string),
	}
	depots := 0
	for r, line := range rows {
		if len(line) != cols {
			return nil, configErrorf("map", "row %d has width %d, want %d", r, len(line), cols)
		}
		for c, ch := range line {
			cell := Cell{Row: r, Col: c}
			switch ch {
			case '.':
				g.kinds[r*cols+c] = KindAisle
			case '#':
				g.kinds[r*cols+c] = KindShelf
				g.items = append(g.items, cell)
				g.labels[cell] = fmt.Sprintf("R%dC%d", r, c)
			case 'D':
				g.kinds[r*cols+c] = KindDepot
				g.depot = cell
				depots++
			default:
				return nil, configErrorf("map", "unknown cell %q at %v", ch, cell)
			}
		}
	}
	if depots != 1 {
		return nil, configErrorf("map", "layout needs exactly one depot, found %d", depots)
	}
	return g, nil
}

// String renders the grid in the same ASCII alphabet NewGridFromRows reads.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			switch g.kinds[r*g.cols+c] {
			case KindShelf:
				sb.WriteByte('#')
			case KindDepot:
				sb.WriteByte('D')
			case KindAisle:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// columnLetter maps 0 -> A, 25 -> Z, 26 -> AA.
func columnLetter(n int) string {
	s := ""
	n++
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}

// ReachableItems returns, in row-major order, the items that have at least one
// walkable neighbour connected to the depot.
func ReachableItems(g GridModel) []Cell {
	depot := g.DepotCell()
	seen := map[Cell]bool{depot: true}
	queue := []Cell{depot}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbours() {
			if !seen[n] && g.IsWalkable(n) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	var out []Cell
	for _, item := range g.ItemCells() {
		for _, n := range item.Neighbours() {
			if seen[n] {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

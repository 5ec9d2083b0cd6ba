package sim

import "fmt"

// CellKind classifies a grid cell. The set is closed.
type CellKind int

const (
	KindAisle CellKind = iota // walkable floor
	KindShelf                 // rack holding one item, never walkable
	KindDepot                 // start/return point, walkable
)

func (k CellKind) String() string {
	switch k {
	case KindAisle:
		return "aisle"
	case KindShelf:
		return "shelf"
	case KindDepot:
		return "depot"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// Walkable reports whether an agent may stand on a cell of this kind.
func (k CellKind) Walkable() bool {
	switch k {
	case KindAisle, KindDepot:
		return true
	case KindShelf:
		return false
	default:
		return false
	}
}

// Cell is a (row, col) coordinate. Row 0 is the top of the warehouse.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// neighbourOffsets is the fixed expansion order: up, down, left, right.
// Pathfinding, access-cell selection and side-stepping all rely on it.
var neighbourOffsets = [4]Cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Neighbours returns the four orthogonal neighbours of c in fixed order.
// Cells outside the grid are included; callers filter through IsWalkable.
func (c Cell) Neighbours() [4]Cell {
	var out [4]Cell
	for i, d := range neighbourOffsets {
		out[i] = Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
	}
	return out
}

// Manhattan returns |Δrow| + |Δcol|.
func Manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

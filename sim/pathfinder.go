package sim

import (
	"container/heap"
	"fmt"
)

// openNode is a frontier entry. seq records discovery order.
type openNode struct {
	cell Cell
	g    int
	f    int
	seq  int
}

// openSet implements heap.Interface with deterministic ordering.
// Order by: f-score → discovery sequence (earlier first)
type openSet []openNode

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) {
	*o = append(*o, x.(openNode))
}

func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	*o = old[:n-1]
	return item
}

// FindPath returns the shortest 4-connected walkable path from start to goal,
// both included. Uses A* with the Manhattan heuristic and unit step cost;
// equal f-scores are expanded in discovery order, so identical inputs always
// yield the identical path. Returns an error wrapping ErrNoPath when goal is
// not reachable.
func FindPath(g GridModel, start, goal Cell) ([]Cell, error) {
	if start == goal {
		return []Cell{start}, nil
	}
	if !g.IsWalkable(start) || !g.IsWalkable(goal) {
		return nil, fmt.Errorf("%v -> %v: endpoint not walkable: %w", start, goal, ErrNoPath)
	}

	seq := 0
	open := &openSet{{cell: start, g: 0, f: Manhattan(start, goal), seq: seq}}
	best := map[Cell]int{start: 0}
	cameFrom := make(map[Cell]Cell)

	for open.Len() > 0 {
		cur := heap.Pop(open).(openNode)
		if cur.g > best[cur.cell] {
			continue // stale entry
		}
		if cur.cell == goal {
			return buildPath(cameFrom, start, goal), nil
		}
		for _, n := range cur.cell.Neighbours() {
			if !g.IsWalkable(n) {
				continue
			}
			ng := cur.g + 1
			if old, seen := best[n]; seen && ng >= old {
				continue
			}
			best[n] = ng
			cameFrom[n] = cur.cell
			seq++
			heap.Push(open, openNode{cell: n, g: ng, f: ng + Manhattan(n, goal), seq: seq})
		}
	}
	return nil, fmt.Errorf("%v -> %v: %w", start, goal, ErrNoPath)
}

// FindPathToNeighbour plans to the closest walkable neighbour of target, for
// targets such as shelves that cannot be stood on. Neighbours are tried in
// fixed order and the first shortest path wins. It returns the path and the
// access cell it ends on.
func FindPathToNeighbour(g GridModel, start, target Cell) ([]Cell, Cell, error) {
	var bestPath []Cell
	var access Cell
	for _, n := range target.Neighbours() {
		if !g.IsWalkable(n) {
			continue
		}
		p, err := FindPath(g, start, n)
		if err != nil {
			continue
		}
		if bestPath == nil || len(p) < len(bestPath) {
			bestPath, access = p, n
		}
	}
	if bestPath == nil {
		return nil, Cell{}, fmt.Errorf("%v -> neighbour of %v: %w", start, target, ErrNoPath)
	}
	return bestPath, access, nil
}

func buildPath(cameFrom map[Cell]Cell, start, goal Cell) []Cell {
	path := []Cell{goal}
	for cur := goal; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

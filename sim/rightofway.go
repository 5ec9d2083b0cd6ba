package sim

// Right-of-way arbitration.
//
// All proposals of a tick are taken from the start-of-tick state and resolved
// together before any position is committed. Contest kinds:
//
//   - same-cell: two movers target one cell; the higher-ranked mover keeps it.
//   - head-on:   two movers target each other's cell; the lower-ranked mover is
//     denied and side-steps out of the way when a free neighbour exists.
//   - occupied:  a mover targets a cell whose occupant is not leaving; denied.
//
// Rank is a total order: loaded before unloaded, then lower agent ID.
// The shared cell (the depot) is exempt from same-cell and occupied contests.

// ContestKind names the situation that triggered arbitration.
type ContestKind string

const (
	ContestSameCell ContestKind = "same-cell"
	ContestHeadOn   ContestKind = "head-on"
	ContestOccupied ContestKind = "occupied"
)

// Verdict is the outcome for one agent.
type Verdict int

const (
	VerdictStay    Verdict = iota // did not propose a move
	VerdictGranted                // moves into its proposed cell
	VerdictDenied                 // stays; proposal retried next tick
	VerdictYield                  // denied, side-steps into Ruling.Sidesteps[i]
)

func (v Verdict) String() string {
	return [...]string{"stay", "granted", "denied", "yield"}[v]
}

// Claim is a proposal plus the carrying status used to rank it.
type Claim struct {
	Proposal
	Loaded bool
}

// Contest records one arbitration decision.
type Contest struct {
	Kind   ContestKind
	Cell   Cell
	Winner int // agent ID, 0 when the loser was stopped by a stationary occupant
	Loser  int
}

// Ruling is the resolved outcome of one tick, indexed like the claims.
type Ruling struct {
	Verdicts  []Verdict
	Sidesteps []Cell
	Contests  []Contest
}

// Conflict reports whether arbitration denied any move this tick.
func (r Ruling) Conflict() bool {
	for _, v := range r.Verdicts {
		if v == VerdictDenied || v == VerdictYield {
			return true
		}
	}
	return false
}

// Outranks reports whether a has right of way over b.
func Outranks(a, b Claim) bool {
	if a.Loaded != b.Loaded {
		return a.Loaded
	}
	return a.AgentID < b.AgentID
}

// Arbitrate resolves a tick's claims. shared is the cell any number of agents
// may occupy at once. After the ruling is applied no two agents share any
// other cell.
func Arbitrate(g GridModel, claims []Claim, shared Cell) Ruling {
	n := len(claims)
	r := Ruling{
		Verdicts:  make([]Verdict, n),
		Sidesteps: make([]Cell, n),
	}
	for i, c := range claims {
		if c.Move {
			r.Verdicts[i] = VerdictGranted
		}
	}

	moving := func(i int) bool {
		return r.Verdicts[i] == VerdictGranted || r.Verdicts[i] == VerdictYield
	}
	// dest is where agent i ends the tick under the current verdicts.
	dest := func(i int) Cell {
		switch r.Verdicts[i] {
		case VerdictGranted:
			return claims[i].To
		case VerdictYield:
			return r.Sidesteps[i]
		}
		return claims[i].From
	}
	deny := func(loser, winner int, kind ContestKind, cell Cell) {
		r.Verdicts[loser] = VerdictDenied
		c := Contest{Kind: kind, Cell: cell, Loser: claims[loser].AgentID}
		if winner >= 0 {
			c.Winner = claims[winner].AgentID
		}
		r.Contests = append(r.Contests, c)
	}

	for changed := true; changed; {
		changed = false

		// same-cell and head-on between granted movers
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if r.Verdicts[i] != VerdictGranted || r.Verdicts[j] != VerdictGranted {
					continue
				}
				ci, cj := claims[i], claims[j]
				win, lose := i, j
				if Outranks(cj, ci) {
					win, lose = j, i
				}
				switch {
				case ci.To == cj.To && ci.To != shared:
					deny(lose, win, ContestSameCell, ci.To)
					changed = true
				case ci.To == cj.From && cj.To == ci.From:
					deny(lose, win, ContestHeadOn, claims[lose].From)
					if claims[lose].From != shared {
						if side, ok := sidestep(g, claims, lose, shared, dest); ok {
							r.Verdicts[lose] = VerdictYield
							r.Sidesteps[lose] = side
						}
					}
					changed = true
				}
			}
		}

		// occupied: a granted mover entering a cell someone still ends up in
		for i := 0; i < n; i++ {
			if r.Verdicts[i] != VerdictGranted || claims[i].To == shared {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j || moving(j) {
					continue
				}
				if claims[j].From == claims[i].To {
					deny(i, -1, ContestOccupied, claims[i].To)
					changed = true
					break
				}
			}
		}
	}
	return r
}

// sidestep finds a free walkable neighbour of the loser's cell. Cells across
// the line of travel are tried first, in fixed neighbour order, then the cell
// behind. A cell is free when no agent occupies it at the start of the tick
// and no agent ends the tick there.
func sidestep(g GridModel, claims []Claim, loser int, shared Cell, dest func(int) Cell) (Cell, bool) {
	from, to := claims[loser].From, claims[loser].To
	vertical := from.Col == to.Col
	for pass := 0; pass < 2; pass++ {
		for _, cand := range from.Neighbours() {
			across := (cand.Col == from.Col) != vertical
			if (pass == 0) != across || !g.IsWalkable(cand) {
				continue
			}
			if cand == shared || cellFree(claims, loser, cand, dest) {
				return cand, true
			}
		}
	}
	return Cell{}, false
}

func cellFree(claims []Claim, self int, c Cell, dest func(int) Cell) bool {
	for j := range claims {
		if j == self {
			continue
		}
		if claims[j].From == c || dest(j) == c {
			return false
		}
	}
	return true
}

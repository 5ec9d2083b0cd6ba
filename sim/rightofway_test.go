package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func move(id int, from, to Cell, loaded bool) Claim {
	return Claim{Proposal: Proposal{AgentID: id, From: from, To: to, Move: true}, Loaded: loaded}
}

func stay(id int, at Cell) Claim {
	return Claim{Proposal: Proposal{AgentID: id, From: at, To: at}}
}

func TestOutranks(t *testing.T) {
	tests := []struct {
		name string
		a, b Claim
		want bool
	}{
		{"loaded beats unloaded", move(2, Cell{}, Cell{}, true), move(1, Cell{}, Cell{}, false), true},
		{"unloaded loses to loaded", move(1, Cell{}, Cell{}, false), move(2, Cell{}, Cell{}, true), false},
		{"both unloaded, lower id", move(1, Cell{}, Cell{}, false), move(2, Cell{}, Cell{}, false), true},
		{"both loaded, higher id", move(2, Cell{}, Cell{}, true), move(1, Cell{}, Cell{}, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outranks(tt.a, tt.b))
		})
	}
}

func TestArbitrate_SameCell(t *testing.T) {
	g := mustGrid(t, "D....", ".....", ".....")
	tests := []struct {
		name         string
		loaded1      bool
		loaded2      bool
		wantVerdicts []Verdict
		wantWinner   int
	}{
		{"tie broken by id", false, false, []Verdict{VerdictGranted, VerdictDenied}, 1},
		{"loaded agent 2 wins", false, true, []Verdict{VerdictDenied, VerdictGranted}, 2},
		{"loaded agent 1 wins", true, false, []Verdict{VerdictGranted, VerdictDenied}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN both agents stepping into (1,2) from opposite sides
			claims := []Claim{
				move(1, Cell{1, 1}, Cell{1, 2}, tt.loaded1),
				move(2, Cell{1, 3}, Cell{1, 2}, tt.loaded2),
			}

			// WHEN arbitrated
			r := Arbitrate(g, claims, g.DepotCell())

			// THEN exactly the higher-ranked agent moves
			assert.Equal(t, tt.wantVerdicts, r.Verdicts)
			require.Len(t, r.Contests, 1)
			assert.Equal(t, ContestSameCell, r.Contests[0].Kind)
			assert.Equal(t, Cell{1, 2}, r.Contests[0].Cell)
			assert.Equal(t, tt.wantWinner, r.Contests[0].Winner)
			assert.True(t, r.Conflict())
		})
	}
}

func TestArbitrate_HeadOn_LoserSidestepsAcross(t *testing.T) {
	// GIVEN agents swapping cells along row 1 of an open floor
	g := mustGrid(t, "D....", ".....", ".....")
	claims := []Claim{
		move(1, Cell{1, 1}, Cell{1, 2}, false),
		move(2, Cell{1, 2}, Cell{1, 1}, false),
	}

	// WHEN arbitrated
	r := Arbitrate(g, claims, g.DepotCell())

	// THEN agent 1 passes and agent 2 steps up out of the row
	assert.Equal(t, []Verdict{VerdictGranted, VerdictYield}, r.Verdicts)
	assert.Equal(t, Cell{0, 2}, r.Sidesteps[1])
	require.Len(t, r.Contests, 1)
	assert.Equal(t, ContestHeadOn, r.Contests[0].Kind)
	assert.Equal(t, 1, r.Contests[0].Winner)
	assert.Equal(t, 2, r.Contests[0].Loser)
}

func TestArbitrate_HeadOn_VerticalPrefersLeftRight(t *testing.T) {
	// GIVEN a loaded agent 1 going down into agent 2 going up
	g := mustGrid(t, "D....", ".....", ".....")
	claims := []Claim{
		move(1, Cell{0, 2}, Cell{1, 2}, true),
		move(2, Cell{1, 2}, Cell{0, 2}, false),
	}

	r := Arbitrate(g, claims, g.DepotCell())

	// THEN agent 2 steps sideways rather than back down the column
	assert.Equal(t, []Verdict{VerdictGranted, VerdictYield}, r.Verdicts)
	assert.Equal(t, Cell{1, 1}, r.Sidesteps[1])
}

func TestArbitrate_HeadOn_BacksUpInCorridor(t *testing.T) {
	// GIVEN a one-cell-wide corridor
	g := mustGrid(t, "D....")
	claims := []Claim{
		move(1, Cell{0, 1}, Cell{0, 2}, false),
		move(2, Cell{0, 2}, Cell{0, 1}, false),
	}

	r := Arbitrate(g, claims, g.DepotCell())

	// THEN the loser retreats along the corridor
	assert.Equal(t, []Verdict{VerdictGranted, VerdictYield}, r.Verdicts)
	assert.Equal(t, Cell{0, 3}, r.Sidesteps[1])
}

func TestArbitrate_HeadOn_DeadEnd_BothStay(t *testing.T) {
	// GIVEN a corridor whose loser has nowhere to go
	g := mustGrid(t, "D..#")
	claims := []Claim{
		move(1, Cell{0, 1}, Cell{0, 2}, false),
		move(2, Cell{0, 2}, Cell{0, 1}, false),
	}

	r := Arbitrate(g, claims, g.DepotCell())

	// THEN neither moves: the loser is denied and the winner finds the cell occupied
	assert.Equal(t, []Verdict{VerdictDenied, VerdictDenied}, r.Verdicts)
	require.Len(t, r.Contests, 2)
	assert.Equal(t, ContestHeadOn, r.Contests[0].Kind)
	assert.Equal(t, ContestOccupied, r.Contests[1].Kind)
	assert.Equal(t, 0, r.Contests[1].Winner)
	assert.Equal(t, 1, r.Contests[1].Loser)
}

func TestArbitrate_OccupiedCell(t *testing.T) {
	g := mustGrid(t, "D....", ".....")
	tests := []struct {
		name   string
		loaded bool
	}{
		{"unloaded mover", false},
		{"loaded mover still waits", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := []Claim{
				move(1, Cell{1, 1}, Cell{1, 2}, tt.loaded),
				stay(2, Cell{1, 2}),
			}

			r := Arbitrate(g, claims, g.DepotCell())

			assert.Equal(t, []Verdict{VerdictDenied, VerdictStay}, r.Verdicts)
			require.Len(t, r.Contests, 1)
			assert.Equal(t, ContestOccupied, r.Contests[0].Kind)
		})
	}
}

func TestArbitrate_FollowingIntoVacatedCell(t *testing.T) {
	g := mustGrid(t, "D....", ".....")
	claims := []Claim{
		move(1, Cell{1, 1}, Cell{1, 2}, false),
		move(2, Cell{1, 2}, Cell{1, 3}, false),
	}

	r := Arbitrate(g, claims, g.DepotCell())

	assert.Equal(t, []Verdict{VerdictGranted, VerdictGranted}, r.Verdicts)
	assert.Empty(t, r.Contests)
	assert.False(t, r.Conflict())
}

func TestArbitrate_DepotIsShared(t *testing.T) {
	g := mustGrid(t, "D....", ".....")
	depot := g.DepotCell()

	// Both entering the depot together.
	r := Arbitrate(g, []Claim{
		move(1, Cell{0, 1}, depot, false),
		move(2, Cell{1, 0}, depot, false),
	}, depot)
	assert.Equal(t, []Verdict{VerdictGranted, VerdictGranted}, r.Verdicts)

	// Entering the depot while the other agent stands on it.
	r = Arbitrate(g, []Claim{
		move(1, Cell{0, 1}, depot, true),
		stay(2, depot),
	}, depot)
	assert.Equal(t, []Verdict{VerdictGranted, VerdictStay}, r.Verdicts)
	assert.False(t, r.Conflict())
}

func TestArbitrate_NoProposals(t *testing.T) {
	g := mustGrid(t, "D..")
	r := Arbitrate(g, []Claim{stay(1, Cell{0, 1}), stay(2, Cell{0, 2})}, g.DepotCell())
	assert.Equal(t, []Verdict{VerdictStay, VerdictStay}, r.Verdicts)
	assert.False(t, r.Conflict())
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "granted", VerdictGranted.String())
	assert.Equal(t, "yield", VerdictYield.String())
}

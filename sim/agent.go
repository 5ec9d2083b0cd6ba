package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// AgentState is the phase of an agent's order cycle:
// Idle → ToItem → Picking → ToDepot → AtDepot → (ToItem | Done).
type AgentState int

const (
	StateIdle    AgentState = iota // at depot, shift not started
	StateToItem                    // travelling to the item's access cell
	StatePicking                   // non-interruptible handling at the shelf
	StateToDepot                   // travelling back, loaded
	StateAtDepot                   // unloading and recovering
	StateDone                      // every order delivered
)

func (s AgentState) String() string {
	return [...]string{"idle", "to-item", "picking", "to-depot", "at-depot", "done"}[s]
}

// Travelling reports whether the agent consumes route cells in this state.
func (s AgentState) Travelling() bool {
	return s == StateToItem || s == StateToDepot
}

// Proposal is what an agent wants to do this tick: move one cell or stay.
type Proposal struct {
	AgentID int
	From    Cell
	To      Cell // equals From when Move is false
	Move    bool
	Paused  bool // stayed because of a fatigue pause
}

// Agent is a simulated picker. All fields are mutated only by the engine,
// between tick boundaries.
type Agent struct {
	ID         int
	Pos        Cell
	State      AgentState
	Loaded     bool
	PriorHours float64 // B, fixed for the run
	WorkHours  float64 // w, grows only while travelling or handling
	RestHours  float64 // x, grows only while resting at the depot
	Fatigue    float64

	Orders    []Order
	Completed int

	Leg   Leg
	Goal  Cell
	Route []Cell // remaining cells of the current leg, excluding Pos

	HandleRemaining int
	RestRemaining   int

	Distance int
	Blocked  int
	Paused   int

	depot   Cell
	factors HumanFactors
	rng     *rand.Rand
}

// NewAgent places an idle agent on the depot with its order queue.
func NewAgent(id int, depot Cell, priorHours float64, orders []Order, factors HumanFactors, rng *rand.Rand) *Agent {
	return &Agent{
		ID:         id,
		Pos:        depot,
		State:      StateIdle,
		PriorHours: priorHours,
		Orders:     orders,
		depot:      depot,
		factors:    factors,
		rng:        rng,
	}
}

// Done reports whether every order has been delivered.
func (a *Agent) Done() bool { return a.State == StateDone }

// CurrentOrder returns the order being worked on, if any.
func (a *Agent) CurrentOrder() (Order, bool) {
	if a.State == StateToItem || a.State == StatePicking {
		return a.Orders[a.Completed], true
	}
	return Order{}, false
}

// Propose runs the agent's decision for this tick. Everything that does not
// involve entering another cell (planning, handling, resting, fatigue pauses)
// is applied here; a move is only returned as a proposal and takes effect in
// commitMove once arbitration grants it.
func (a *Agent) Propose(g GridModel, tick int64) (Proposal, error) {
	stay := Proposal{AgentID: a.ID, From: a.Pos, To: a.Pos}

	switch a.State {
	case StateIdle:
		if a.Completed >= len(a.Orders) {
			a.State = StateDone
			return stay, nil
		}
		return stay, a.startNextOrder(g, tick)

	case StateToItem, StateToDepot:
		if len(a.Route) == 0 {
			return stay, a.arrive(tick)
		}
		if a.rng.Float64() < a.factors.PauseProbability(a.Fatigue) {
			a.Paused++
			a.work(a.factors.walkHours())
			stay.Paused = true
			return stay, nil
		}
		return Proposal{AgentID: a.ID, From: a.Pos, To: a.Route[0], Move: true}, nil

	case StatePicking:
		a.HandleRemaining--
		a.work(a.factors.handleHours())
		if a.HandleRemaining > 0 {
			return stay, nil
		}
		order := a.Orders[a.Completed]
		a.Completed++
		a.Loaded = true
		logrus.Debugf("[tick %07d] agent %d picked %s at %s (%d/%d, fatigue=%.3f, E=%.3f)",
			tick, a.ID, order.ID, order.Label, a.Completed, len(a.Orders), a.Fatigue,
			a.factors.ExperienceFactor(a.WorkHours, a.PriorHours))
		return stay, a.planLeg(g, LegToDepot, a.depot, tick)

	case StateAtDepot:
		a.RestRemaining--
		a.rest(a.factors.restHours())
		if a.RestRemaining > 0 {
			return stay, nil
		}
		if a.Completed >= len(a.Orders) {
			a.State = StateDone
			logrus.Debugf("[tick %07d] agent %d finished all %d orders", tick, a.ID, a.Completed)
			return stay, nil
		}
		return stay, a.startNextOrder(g, tick)

	case StateDone:
		return stay, nil
	}
	return stay, &InternalConsistencyError{Tick: tick, AgentID: a.ID, Reason: fmt.Sprintf("unknown state %d", a.State)}
}

// commitMove applies a granted move into the first route cell.
func (a *Agent) commitMove(tick int64) error {
	a.Pos = a.Route[0]
	a.Route = a.Route[1:]
	a.Distance++
	a.work(a.factors.walkHours())
	if len(a.Route) == 0 {
		return a.arrive(tick)
	}
	return nil
}

// commitBlocked records a denied move. The route is left untouched so the
// identical proposal is retried next tick.
func (a *Agent) commitBlocked() {
	a.Blocked++
	a.work(a.factors.walkHours())
}

// commitSidestep moves a head-on loser out of the winner's way and replans
// the current leg from the side cell.
func (a *Agent) commitSidestep(g GridModel, side Cell, tick int64) error {
	a.Blocked++
	a.Pos = side
	a.Distance++
	a.work(a.factors.walkHours())
	return a.planLeg(g, a.Leg, a.Goal, tick)
}

func (a *Agent) startNextOrder(g GridModel, tick int64) error {
	order := a.Orders[a.Completed]
	path, access, err := FindPathToNeighbour(g, a.Pos, order.Item)
	if err != nil {
		return &UnreachableTargetError{AgentID: a.ID, Leg: LegToItem, From: a.Pos, To: order.Item, Err: err}
	}
	logrus.Debugf("[tick %07d] agent %d heading to %s (%s), %d steps", tick, a.ID, order.ID, order.Label, len(path)-1)
	a.setRoute(LegToItem, access, path)
	if len(a.Route) == 0 {
		return a.arrive(tick)
	}
	return nil
}

// planLeg (re)plans a leg to goal from the current position.
func (a *Agent) planLeg(g GridModel, leg Leg, goal Cell, tick int64) error {
	path, err := FindPath(g, a.Pos, goal)
	if err != nil {
		return &UnreachableTargetError{AgentID: a.ID, Leg: leg, From: a.Pos, To: goal, Err: err}
	}
	a.setRoute(leg, goal, path)
	if len(a.Route) == 0 {
		return a.arrive(tick)
	}
	return nil
}

func (a *Agent) setRoute(leg Leg, goal Cell, path []Cell) {
	a.Leg = leg
	a.Goal = goal
	a.Route = path[1:]
	if leg == LegToItem {
		a.State = StateToItem
	} else {
		a.State = StateToDepot
	}
}

// arrive ends the current leg. The agent must be standing on the leg goal.
func (a *Agent) arrive(tick int64) error {
	if a.Pos != a.Goal {
		return &InternalConsistencyError{
			Tick:    tick,
			AgentID: a.ID,
			Reason:  fmt.Sprintf("route exhausted at %v, target %v", a.Pos, a.Goal),
		}
	}
	switch a.Leg {
	case LegToItem:
		a.State = StatePicking
		a.HandleRemaining = a.factors.PickupTicks(a.Fatigue, a.WorkHours, a.PriorHours)
	case LegToDepot:
		a.State = StateAtDepot
		a.Loaded = false
		a.RestRemaining = a.factors.RestTicks
	}
	return nil
}

func (a *Agent) work(hours float64) {
	a.WorkHours += hours
	a.Fatigue = a.factors.Fatigue(a.WorkHours, a.RestHours)
}

func (a *Agent) rest(hours float64) {
	a.RestHours += hours
	a.Fatigue = a.factors.Fatigue(a.WorkHours, a.RestHours)
}

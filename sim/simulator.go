// sim/simulator.go
package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// SimulationState is the single source of truth of a run. It is owned by one
// Simulator and mutated only inside Step.
type SimulationState struct {
	Tick      int64 // ticks completed
	Agents    []*Agent
	Conflicts int
	Completed bool
}

// AgentView is the read-only per-tick state a renderer consumes.
type AgentView struct {
	ID        int
	Pos       Cell
	State     AgentState
	Fatigue   float64
	Loaded    bool
	Completed int
	Goal      Cell
}

// Snapshot is published after every committed tick.
type Snapshot struct {
	Tick     int64
	Agents   []AgentView
	Conflict bool
}

// Result is what a finished (or budget-exhausted) run returns.
type Result struct {
	Summary Summary
	Trace   *trace.SimulationTrace
}

// Simulator advances the agents tick by tick and arbitrates their moves.
type Simulator struct {
	Config  SimConfig
	Grid    GridModel
	State   *SimulationState
	Metrics *Metrics
	Trace   *trace.SimulationTrace
	RNG     *PartitionedRNG
	// OnTick, when set, receives a snapshot after each committed tick.
	OnTick func(Snapshot)
}

// NewSimulator validates cfg, builds the layout and prepares the agents.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := NewLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithGrid(cfg, g)
}

// NewSimulatorWithGrid prepares a run on a caller-supplied grid. Order queues
// are drawn from the reachable items with the run seed.
func NewSimulatorWithGrid(cfg SimConfig, g GridModel) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	depot := g.DepotCell()
	if !g.IsWalkable(depot) {
		return nil, configErrorf("depot", "depot %v is not walkable", depot)
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Run.Seed))
	n := len(cfg.Run.ExperienceHours)
	queues, err := GenerateOrders(g, ReachableItems(g), n, cfg.Run.OrdersPerAgent, rng.ForSubsystem(SubsystemOrders))
	if err != nil {
		return nil, err
	}
	agents := make([]*Agent, n)
	for i := range agents {
		id := i + 1
		agents[i] = NewAgent(id, depot, cfg.Run.ExperienceHours[i], queues[i], cfg.Factors, rng.ForSubsystem(SubsystemAgent(id)))
	}
	return newSimulator(cfg, g, rng, agents), nil
}

func newSimulator(cfg SimConfig, g GridModel, rng *PartitionedRNG, agents []*Agent) *Simulator {
	level := trace.TraceLevel(cfg.Run.TraceLevel)
	var st *trace.SimulationTrace
	if level != "" && level != trace.TraceLevelNone {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: level})
	}
	return &Simulator{
		Config:  cfg,
		Grid:    g,
		State:   &SimulationState{Agents: agents},
		Metrics: NewMetrics(len(agents)),
		Trace:   st,
		RNG:     rng,
	}
}

// Step advances the run by one tick. Every agent proposes from the
// start-of-tick state, the proposals are arbitrated together, and only then
// are positions committed.
func (sim *Simulator) Step() error {
	st := sim.State
	if st.Completed {
		return nil
	}
	st.Tick++
	tick := st.Tick
	depot := sim.Grid.DepotCell()

	claims := make([]Claim, len(st.Agents))
	for i, a := range st.Agents {
		p, err := a.Propose(sim.Grid, tick)
		if err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		claims[i] = Claim{Proposal: p, Loaded: a.Loaded}
	}

	ruling := Arbitrate(sim.Grid, claims, depot)

	for i, a := range st.Agents {
		var err error
		switch ruling.Verdicts[i] {
		case VerdictGranted:
			err = a.commitMove(tick)
		case VerdictDenied:
			a.commitBlocked()
		case VerdictYield:
			err = a.commitSidestep(sim.Grid, ruling.Sidesteps[i], tick)
		}
		if err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}
	if err := sim.checkExclusive(tick); err != nil {
		return err
	}

	conflict := ruling.Conflict()
	if conflict {
		st.Conflicts++
	}
	sim.Metrics.Observe(ruling)
	sim.record(tick, ruling)

	st.Completed = true
	for _, a := range st.Agents {
		if !a.Done() {
			st.Completed = false
			break
		}
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("[tick %07d] %s| Conflicts: %d", tick, statusLine(st.Agents), st.Conflicts)
	}
	if sim.OnTick != nil {
		sim.OnTick(sim.Snapshot(conflict))
	}
	return nil
}

// Run steps until every agent is done or the tick budget is spent. An
// exhausted budget is reported through Summary.Completed, not as an error.
func (sim *Simulator) Run() (Result, error) {
	logrus.Infof("Starting simulation: %dx%d grid, depot %v, %d agents x %d orders, seed=%d, max ticks=%d",
		sim.Grid.Rows(), sim.Grid.Cols(), sim.Grid.DepotCell(), len(sim.State.Agents),
		sim.Config.Run.OrdersPerAgent, sim.Config.Run.Seed, sim.Config.Run.MaxTicks)

	for !sim.State.Completed && sim.State.Tick < sim.Config.Run.MaxTicks {
		if err := sim.Step(); err != nil {
			return Result{}, err
		}
	}

	summary := sim.Metrics.Summarize(sim.State.Agents, sim.State.Completed)
	if sim.State.Completed {
		logrus.Infof("[tick %07d] Simulation complete", sim.State.Tick)
	} else {
		logrus.Warnf("[tick %07d] Tick budget exhausted before all orders were delivered", sim.State.Tick)
	}
	return Result{Summary: summary, Trace: sim.Trace}, nil
}

// RunHeadless runs cfg to completion or budget and returns the metrics map.
func RunHeadless(cfg SimConfig) (map[string]any, error) {
	s, err := NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	res, err := s.Run()
	if err != nil {
		return nil, err
	}
	return res.Summary.Map(), nil
}

// Snapshot returns the committed state of every agent.
func (sim *Simulator) Snapshot(conflict bool) Snapshot {
	snap := Snapshot{Tick: sim.State.Tick, Conflict: conflict}
	for _, a := range sim.State.Agents {
		snap.Agents = append(snap.Agents, AgentView{
			ID:        a.ID,
			Pos:       a.Pos,
			State:     a.State,
			Fatigue:   a.Fatigue,
			Loaded:    a.Loaded,
			Completed: a.Completed,
			Goal:      a.Goal,
		})
	}
	return snap
}

// checkExclusive verifies that no two agents share a non-depot cell.
func (sim *Simulator) checkExclusive(tick int64) error {
	depot := sim.Grid.DepotCell()
	agents := sim.State.Agents
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			if agents[i].Pos == agents[j].Pos && agents[i].Pos != depot {
				return &InternalConsistencyError{
					Tick:    tick,
					AgentID: agents[j].ID,
					Reason:  fmt.Sprintf("agents %d and %d both committed to %v", agents[i].ID, agents[j].ID, agents[i].Pos),
				}
			}
		}
	}
	return nil
}

func (sim *Simulator) record(tick int64, ruling Ruling) {
	if sim.Trace.RecordsDecisions() {
		yielded := make(map[int]bool)
		for i, v := range ruling.Verdicts {
			if v == VerdictYield {
				yielded[sim.State.Agents[i].ID] = true
			}
		}
		for _, c := range ruling.Contests {
			logrus.Debugf("[tick %07d] %s at %v: winner=%d loser=%d", tick, c.Kind, c.Cell, c.Winner, c.Loser)
			sim.Trace.RecordArbitration(trace.ArbitrationRecord{
				Tick:    tick,
				Kind:    string(c.Kind),
				Row:     c.Cell.Row,
				Col:     c.Cell.Col,
				Winner:  c.Winner,
				Loser:   c.Loser,
				Yielded: c.Kind == ContestHeadOn && yielded[c.Loser],
			})
		}
	}
	if sim.Trace.RecordsTicks() {
		rec := trace.TickRecord{Tick: tick, Agents: make([]trace.AgentFrame, 0, len(sim.State.Agents))}
		for _, a := range sim.State.Agents {
			rec.Agents = append(rec.Agents, trace.AgentFrame{
				AgentID:   a.ID,
				Row:       a.Pos.Row,
				Col:       a.Pos.Col,
				State:     a.State.String(),
				Fatigue:   a.Fatigue,
				Loaded:    a.Loaded,
				Completed: a.Completed,
			})
		}
		sim.Trace.RecordTick(rec)
	}
}

func statusLine(agents []*Agent) string {
	var sb strings.Builder
	for _, a := range agents {
		fmt.Fprintf(&sb, "A%d[%2d/%d] %-9s %-9v ", a.ID, a.Completed, len(a.Orders), a.State, a.Pos)
	}
	return sb.String()
}

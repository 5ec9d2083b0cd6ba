// Tracks run-wide and per-agent outcomes: distance walked, blocked ticks,
// cell conflicts, work time, fatigue and throughput.

package sim

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary map keys.
const (
	KeyTotalDistance = "total_distance"
	KeyCellConflicts = "cell_conflicts"
	KeyTicks         = "ticks"
	KeyThroughput    = "throughput"
	KeyCompleted     = "completed"
)

// AgentKey returns the per-agent summary key, e.g. AgentKey(1, "distance")
// is "agent1_distance".
func AgentKey(id int, field string) string {
	return fmt.Sprintf("agent%d_%s", id, field)
}

// Metrics observes committed ticks. It never mutates simulation state.
type Metrics struct {
	CellConflicts int   // ticks in which arbitration denied at least one move
	Ticks         int64 // ticks simulated
	Distance      []int // per agent, indexed like the engine's agent slice
	Blocked       []int // per agent
}

// NewMetrics creates a collector for n agents.
func NewMetrics(n int) *Metrics {
	return &Metrics{
		Distance: make([]int, n),
		Blocked:  make([]int, n),
	}
}

// Observe records the outcome of one resolved tick.
func (m *Metrics) Observe(ruling Ruling) {
	m.Ticks++
	if ruling.Conflict() {
		m.CellConflicts++
	}
	for i, v := range ruling.Verdicts {
		switch v {
		case VerdictGranted:
			m.Distance[i]++
		case VerdictYield:
			m.Distance[i]++
			m.Blocked[i]++
		case VerdictDenied:
			m.Blocked[i]++
		}
	}
}

// AgentSummary is one agent's final figures.
type AgentSummary struct {
	ID        int     `json:"id"`
	Distance  int     `json:"distance"`
	Blocked   int     `json:"blocked"`
	Paused    int     `json:"paused"`
	WorkTime  float64 `json:"work_time"` // hours
	Fatigue   float64 `json:"fatigue"`
	Completed int     `json:"completed"`
}

// Summary is the final report of a run.
type Summary struct {
	Agents        []AgentSummary `json:"agents"`
	TotalDistance int            `json:"total_distance"`
	CellConflicts int            `json:"cell_conflicts"`
	Ticks         int64          `json:"ticks"`
	Throughput    float64        `json:"throughput"` // orders per work-hour
	Completed     bool           `json:"completed"`
}

// Summarize produces the final report from the collector and the agents.
func (m *Metrics) Summarize(agents []*Agent, completed bool) Summary {
	s := Summary{
		CellConflicts: m.CellConflicts,
		Ticks:         m.Ticks,
		Completed:     completed,
	}
	orders, hours := 0, 0.0
	for i, a := range agents {
		s.Agents = append(s.Agents, AgentSummary{
			ID:        a.ID,
			Distance:  m.Distance[i],
			Blocked:   m.Blocked[i],
			Paused:    a.Paused,
			WorkTime:  a.WorkHours,
			Fatigue:   a.Fatigue,
			Completed: a.Completed,
		})
		s.TotalDistance += m.Distance[i]
		orders += a.Completed
		hours += a.WorkHours
	}
	if hours > 0 {
		s.Throughput = float64(orders) / hours
	}
	return s
}

// Map returns the summary keyed as consumers expect: total_distance,
// agentN_distance, cell_conflicts, agentN_work_time, agentN_fatigue,
// agentN_blocked, ticks, throughput, completed.
func (s Summary) Map() map[string]any {
	out := map[string]any{
		KeyTotalDistance: s.TotalDistance,
		KeyCellConflicts: s.CellConflicts,
		KeyTicks:         s.Ticks,
		KeyThroughput:    s.Throughput,
		KeyCompleted:     s.Completed,
	}
	for _, a := range s.Agents {
		out[AgentKey(a.ID, "distance")] = a.Distance
		out[AgentKey(a.ID, "work_time")] = a.WorkTime
		out[AgentKey(a.ID, "fatigue")] = a.Fatigue
		out[AgentKey(a.ID, "blocked")] = a.Blocked
	}
	return out
}

// Print displays the summary at the end of a run. tickDuration converts
// ticks to wall-clock replay time.
func (s Summary) Print(tickDuration float64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed            : %v\n", s.Completed)
	fmt.Printf("Ticks                : %s\n", humanize.Comma(s.Ticks))
	if tickDuration > 0 {
		replay := time.Duration(float64(s.Ticks) * tickDuration * float64(time.Second))
		fmt.Printf("Replay Time          : %s\n", replay.Round(time.Second))
	}
	fmt.Printf("Total Distance       : %s cells\n", humanize.Comma(int64(s.TotalDistance)))
	fmt.Printf("Cell Conflicts       : %s\n", humanize.Comma(int64(s.CellConflicts)))
	fmt.Printf("Throughput           : %s orders/work-hour\n", humanize.FormatFloat("#,###.##", s.Throughput))
	for _, a := range s.Agents {
		fmt.Printf("Agent %d              : %d orders, %s cells, %d blocked, %d paused, work %.3fh, fatigue %.3f\n",
			a.ID, a.Completed, humanize.Comma(int64(a.Distance)), a.Blocked, a.Paused, a.WorkTime, a.Fatigue)
	}
}

package sim

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-sim/warehouse-sim/sim/internal/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	// GIVEN a collector for two agents
	m := NewMetrics(2)

	// WHEN three ticks are observed: a clean move, a denial, a yield
	m.Observe(Ruling{Verdicts: []Verdict{VerdictGranted, VerdictStay}})
	m.Observe(Ruling{Verdicts: []Verdict{VerdictGranted, VerdictDenied}})
	m.Observe(Ruling{Verdicts: []Verdict{VerdictGranted, VerdictYield}})

	// THEN distance counts every committed step and blocked counts every denial
	assert.Equal(t, int64(3), m.Ticks)
	assert.Equal(t, 2, m.CellConflicts)
	assert.Equal(t, []int{3, 1}, m.Distance)
	assert.Equal(t, []int{0, 2}, m.Blocked)
}

func TestMetrics_Summarize_Throughput(t *testing.T) {
	m := NewMetrics(2)
	m.Distance = []int{40, 60}
	m.Blocked = []int{1, 3}
	agents := []*Agent{
		{ID: 1, Completed: 3, WorkHours: 0.5, Fatigue: 0.1, Paused: 2},
		{ID: 2, Completed: 1, WorkHours: 1.5, Fatigue: 0.2},
	}

	s := m.Summarize(agents, false)

	assert.Equal(t, 100, s.TotalDistance)
	testutil.AssertFloat64Equal(t, "throughput", 2.0, s.Throughput, 1e-12)
	require.Len(t, s.Agents, 2)
	assert.Equal(t, AgentSummary{ID: 1, Distance: 40, Blocked: 1, Paused: 2, WorkTime: 0.5, Fatigue: 0.1, Completed: 3}, s.Agents[0])
	assert.False(t, s.Completed)
}

func TestMetrics_Summarize_NoWork_ZeroThroughput(t *testing.T) {
	m := NewMetrics(1)
	s := m.Summarize([]*Agent{{ID: 1}}, false)
	assert.Equal(t, 0.0, s.Throughput)
}

func TestSummary_Map_Keys(t *testing.T) {
	s := Summary{
		Agents: []AgentSummary{
			{ID: 1, Distance: 10, Blocked: 2, WorkTime: 0.25, Fatigue: 0.05},
			{ID: 2, Distance: 12, Blocked: 0, WorkTime: 0.30, Fatigue: 0.06},
		},
		TotalDistance: 22,
		CellConflicts: 2,
		Ticks:         99,
		Throughput:    4.5,
		Completed:     true,
	}

	got := s.Map()

	assert.Equal(t, map[string]any{
		"total_distance":   22,
		"agent1_distance":  10,
		"agent2_distance":  12,
		"cell_conflicts":   2,
		"agent1_work_time": 0.25,
		"agent2_work_time": 0.30,
		"agent1_fatigue":   0.05,
		"agent2_fatigue":   0.06,
		"agent1_blocked":   2,
		"agent2_blocked":   0,
		"ticks":            int64(99),
		"throughput":       4.5,
		"completed":        true,
	}, got)
}

func TestSummary_Print_WritesReport(t *testing.T) {
	// GIVEN a summary of a long run
	s := Summary{
		Agents:        []AgentSummary{{ID: 1, Distance: 1234, Completed: 20}},
		TotalDistance: 1234,
		Ticks:         12345,
		Throughput:    41.5,
		Completed:     true,
	}

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// WHEN printed with 0.2 s ticks
	s.Print(0.2)

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	// THEN counts are grouped and the replay time is shown
	assert.Contains(t, output, "Simulation Metrics")
	assert.Contains(t, output, "12,345")
	assert.Contains(t, output, "1,234 cells")
	assert.Contains(t, output, "41m9s")
}

func TestAgentKey(t *testing.T) {
	assert.Equal(t, "agent1_distance", AgentKey(1, "distance"))
	assert.Equal(t, "agent2_work_time", AgentKey(2, "work_time"))
}

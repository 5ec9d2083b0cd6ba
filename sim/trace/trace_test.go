package trace

import (
	"testing"
)

func TestSimulationTrace_RecordArbitration_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN an arbitration record is recorded
	st.RecordArbitration(ArbitrationRecord{Tick: 7, Kind: "same-cell", Row: 3, Col: 4, Winner: 1, Loser: 2})

	// THEN the trace contains one record with correct data
	if len(st.Arbitrations) != 1 {
		t.Fatalf("expected 1 arbitration, got %d", len(st.Arbitrations))
	}
	if st.Arbitrations[0].Loser != 2 {
		t.Errorf("expected loser 2, got %d", st.Arbitrations[0].Loser)
	}
	if st.Arbitrations[0].Yielded {
		t.Error("expected yielded=false")
	}
}

func TestSimulationTrace_RecordTick_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTicks})

	// WHEN several ticks are recorded
	for tick := int64(1); tick <= 3; tick++ {
		st.RecordTick(TickRecord{Tick: tick, Agents: []AgentFrame{{AgentID: 1, Row: 0, Col: int(tick)}}})
	}

	// THEN they are kept in insertion order
	if len(st.Ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(st.Ticks))
	}
	for i, rec := range st.Ticks {
		if rec.Tick != int64(i+1) {
			t.Errorf("tick %d: expected %d, got %d", i, i+1, rec.Tick)
		}
	}
}

func TestSimulationTrace_LevelGates(t *testing.T) {
	tests := []struct {
		level         TraceLevel
		wantTicks     bool
		wantDecisions bool
	}{
		{TraceLevelNone, false, false},
		{TraceLevelTicks, true, false},
		{TraceLevelDecisions, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			st := NewSimulationTrace(TraceConfig{Level: tt.level})
			if got := st.RecordsTicks(); got != tt.wantTicks {
				t.Errorf("RecordsTicks() = %v, want %v", got, tt.wantTicks)
			}
			if got := st.RecordsDecisions(); got != tt.wantDecisions {
				t.Errorf("RecordsDecisions() = %v, want %v", got, tt.wantDecisions)
			}
		})
	}
}

func TestSimulationTrace_NilTrace_RecordsNothing(t *testing.T) {
	var st *SimulationTrace
	if st.RecordsTicks() || st.RecordsDecisions() {
		t.Error("nil trace must not request recording")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"ticks", true},
		{"decisions", true},
		{"", true},
		{"Decisions", false},
		{"verbose", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

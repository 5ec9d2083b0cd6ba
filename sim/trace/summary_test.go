package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN all counts are zero and maps are usable
	if summary.TotalTicks != 0 || summary.TotalContests != 0 || summary.ConflictTicks != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.DeniedByAgent == nil || summary.ContestsByKind == nil {
		t.Error("expected non-nil maps")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalContests != 0 {
		t.Errorf("expected 0 contests, got %d", summary.TotalContests)
	}
	if summary.YieldCount != 0 {
		t.Errorf("expected 0 yields, got %d", summary.YieldCount)
	}
	if len(summary.ContestsByKind) != 0 {
		t.Error("expected empty kind distribution")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN two contests on tick 4, one on tick 9, and three tick frames
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordTick(TickRecord{Tick: 4})
	st.RecordTick(TickRecord{Tick: 5})
	st.RecordTick(TickRecord{Tick: 9})
	st.RecordArbitration(ArbitrationRecord{Tick: 4, Kind: "head-on", Winner: 1, Loser: 2, Yielded: true})
	st.RecordArbitration(ArbitrationRecord{Tick: 4, Kind: "occupied", Loser: 1})
	st.RecordArbitration(ArbitrationRecord{Tick: 9, Kind: "same-cell", Winner: 2, Loser: 1})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalTicks != 3 {
		t.Errorf("expected 3 ticks, got %d", summary.TotalTicks)
	}
	if summary.TotalContests != 3 {
		t.Errorf("expected 3 contests, got %d", summary.TotalContests)
	}
	if summary.ConflictTicks != 2 {
		t.Errorf("expected 2 conflict ticks, got %d", summary.ConflictTicks)
	}
	if summary.YieldCount != 1 {
		t.Errorf("expected 1 yield, got %d", summary.YieldCount)
	}
	if summary.DeniedByAgent[1] != 2 || summary.DeniedByAgent[2] != 1 {
		t.Errorf("unexpected denied-by-agent %v", summary.DeniedByAgent)
	}
	if summary.ContestsByKind["head-on"] != 1 || summary.ContestsByKind["occupied"] != 1 || summary.ContestsByKind["same-cell"] != 1 {
		t.Errorf("unexpected kind distribution %v", summary.ContestsByKind)
	}
}

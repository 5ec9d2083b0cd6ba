package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks     int
	TotalContests  int
	ConflictTicks  int            // distinct ticks with at least one contest
	YieldCount     int            // contests resolved by a side-step
	DeniedByAgent  map[int]int    // agent ID → denied moves
	ContestsByKind map[string]int // contest kind → count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DeniedByAgent:  make(map[int]int),
		ContestsByKind: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	summary.TotalContests = len(st.Arbitrations)

	lastTick := int64(-1)
	for _, a := range st.Arbitrations {
		if a.Tick != lastTick {
			summary.ConflictTicks++
			lastTick = a.Tick
		}
		summary.DeniedByAgent[a.Loser]++
		summary.ContestsByKind[a.Kind]++
		if a.Yielded {
			summary.YieldCount++
		}
	}

	return summary
}

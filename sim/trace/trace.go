package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks captures every agent's committed state at the end of each tick.
	TraceLevelTicks TraceLevel = "ticks"
	// TraceLevelDecisions captures tick frames plus every right-of-way contest.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelTicks:     true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects tick frames and arbitration records during a run.
type SimulationTrace struct {
	Config       TraceConfig         `json:"-"`
	Ticks        []TickRecord        `json:"ticks"`
	Arbitrations []ArbitrationRecord `json:"arbitrations"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Ticks:        make([]TickRecord, 0),
		Arbitrations: make([]ArbitrationRecord, 0),
	}
}

// RecordsTicks reports whether tick frames should be recorded.
func (st *SimulationTrace) RecordsTicks() bool {
	return st != nil && (st.Config.Level == TraceLevelTicks || st.Config.Level == TraceLevelDecisions)
}

// RecordsDecisions reports whether arbitration records should be recorded.
func (st *SimulationTrace) RecordsDecisions() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordTick appends a tick frame.
func (st *SimulationTrace) RecordTick(record TickRecord) {
	st.Ticks = append(st.Ticks, record)
}

// RecordArbitration appends an arbitration record.
func (st *SimulationTrace) RecordArbitration(record ArbitrationRecord) {
	st.Arbitrations = append(st.Arbitrations, record)
}

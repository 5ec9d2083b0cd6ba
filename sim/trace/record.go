// Package trace provides per-tick and right-of-way trace recording for
// warehouse runs. This package has no dependencies on sim/; it stores pure
// data types.
package trace

// AgentFrame captures one agent's committed state at the end of a tick.
type AgentFrame struct {
	AgentID   int     `json:"agent_id"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	State     string  `json:"state"`
	Fatigue   float64 `json:"fatigue"`
	Loaded    bool    `json:"loaded"`
	Completed int     `json:"completed"`
}

// TickRecord captures all agents at the end of one tick.
type TickRecord struct {
	Tick   int64        `json:"tick"`
	Agents []AgentFrame `json:"agents"`
}

// ArbitrationRecord captures a single right-of-way decision.
type ArbitrationRecord struct {
	Tick    int64  `json:"tick"`
	Kind    string `json:"kind"` // same-cell, head-on, occupied
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Winner  int    `json:"winner"` // 0 when stopped by a stationary occupant
	Loser   int    `json:"loser"`
	Yielded bool   `json:"yielded"` // loser side-stepped
}

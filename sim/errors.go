package sim

import (
	"errors"
	"fmt"
)

// ErrNoPath is wrapped by UnreachableTargetError when A* exhausts the frontier.
var ErrNoPath = errors.New("no walkable path")

// ConfigurationError reports an invalid configuration or layout. It is always
// returned before the first tick.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Leg names the part of an order cycle a route serves.
type Leg string

const (
	LegToItem  Leg = "to-item"
	LegToDepot Leg = "to-depot"
)

// UnreachableTargetError means the grid does not connect two cells an agent
// has to travel between. A well-formed warehouse never produces it.
type UnreachableTargetError struct {
	AgentID int
	Leg     Leg
	From    Cell
	To      Cell
	Err     error
}

func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("agent %d: %s leg %v -> %v unreachable: %v", e.AgentID, e.Leg, e.From, e.To, e.Err)
}

func (e *UnreachableTargetError) Unwrap() error { return e.Err }

// InternalConsistencyError signals a broken engine invariant: a route that ran
// out away from its target, or two agents committed to one cell.
type InternalConsistencyError struct {
	Tick    int64
	AgentID int
	Reason  string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency violated at tick %d (agent %d): %s", e.Tick, e.AgentID, e.Reason)
}

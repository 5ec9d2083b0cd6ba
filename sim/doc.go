// Package sim provides the tick-driven engine of the two-agent warehouse
// picking simulator.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - agent.go: the order cycle (idle → to-item → picking → to-depot → at-depot)
//     and what an agent proposes each tick
//   - rightofway.go: how simultaneous proposals are arbitrated before commit
//   - simulator.go: the tick loop, commit, invariant checks and run result
//
// # Supporting Files
//
//   - grid.go, cell.go: the immutable layout and its ASCII form
//   - pathfinder.go: deterministic A* and access-cell planning
//   - humanfactors.go: fatigue, recovery, learning curve and pause probability
//   - order.go: seeded order queues
//   - metrics.go: distance, blocked moves, conflicts and throughput
//   - rng.go: per-subsystem random streams derived from one seed
//
// Sub-packages:
//   - sim/trace/: per-tick and arbitration trace recording
//   - sim/results/: SQLite storage of finished runs
//
// A run is fully determined by its configuration and seed: the same inputs
// always produce the same tick sequence and the same metrics.
package sim

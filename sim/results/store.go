// Package results provides SQLite-based storage of finished runs, so
// experiments with different seeds and layouts can be compared afterwards.
package results

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	sim "github.com/warehouse-sim/warehouse-sim/sim"
)

// Store wraps a SQLite connection holding run results.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// RunRow is one stored run.
type RunRow struct {
	ID            string  `db:"id"`
	CreatedAt     string  `db:"created_at"`
	Seed          int64   `db:"seed"`
	GridRows      int     `db:"grid_rows"`
	GridCols      int     `db:"grid_cols"`
	Completed     bool    `db:"completed"`
	Ticks         int64   `db:"ticks"`
	TotalDistance int     `db:"total_distance"`
	CellConflicts int     `db:"cell_conflicts"`
	Throughput    float64 `db:"throughput"`
}

// AgentRow is one agent's figures within a stored run.
type AgentRow struct {
	RunID     string  `db:"run_id"`
	AgentID   int     `db:"agent_id"`
	Distance  int     `db:"distance"`
	Blocked   int     `db:"blocked"`
	Paused    int     `db:"paused"`
	WorkTime  float64 `db:"work_time"`
	Fatigue   float64 `db:"fatigue"`
	Completed int     `db:"completed_orders"`
}

// Open opens or creates a results database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		total_distance INTEGER NOT NULL,
		cell_conflicts INTEGER NOT NULL,
		throughput REAL NOT NULL,
		config_json TEXT NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_agents (
		run_id TEXT NOT NULL REFERENCES runs(id),
		agent_id INTEGER NOT NULL,
		distance INTEGER NOT NULL,
		blocked INTEGER NOT NULL,
		paused INTEGER NOT NULL,
		work_time REAL NOT NULL,
		fatigue REAL NOT NULL,
		completed_orders INTEGER NOT NULL,
		PRIMARY KEY (run_id, agent_id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun stores a finished run and returns its generated ID.
func (s *Store) SaveRun(cfg sim.SimConfig, summary sim.Summary) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	sumJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	id := uuid.New().String()
	gridRows, gridCols := cfg.Layout.Rows, cfg.Layout.Cols
	if len(cfg.Layout.Map) > 0 {
		gridRows, gridCols = len(cfg.Layout.Map), len(cfg.Layout.Map[0])
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, seed, grid_rows, grid_cols, completed, ticks,
		 total_distance, cell_conflicts, throughput, config_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339Nano), cfg.Run.Seed, gridRows, gridCols,
		summary.Completed, summary.Ticks, summary.TotalDistance, summary.CellConflicts,
		summary.Throughput, string(cfgJSON), string(sumJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", id, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO run_agents
		(run_id, agent_id, distance, blocked, paused, work_time, fatigue, completed_orders)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, a := range summary.Agents {
		if _, err := stmt.Exec(id, a.ID, a.Distance, a.Blocked, a.Paused, a.WorkTime, a.Fatigue, a.Completed); err != nil {
			return "", fmt.Errorf("insert agent %d of run %s: %w", a.ID, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	logrus.Debugf("stored run %s (seed=%d, completed=%v)", id, cfg.Run.Seed, summary.Completed)
	return id, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRow, error) {
	var runs []RunRow
	err := s.conn.Select(&runs, `SELECT id, created_at, seed, grid_rows, grid_cols, completed, ticks,
		total_distance, cell_conflicts, throughput
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	return runs, err
}

// AgentStats returns the per-agent rows of a run ordered by agent ID.
func (s *Store) AgentStats(runID string) ([]AgentRow, error) {
	var rows []AgentRow
	err := s.conn.Select(&rows, `SELECT run_id, agent_id, distance, blocked, paused, work_time, fatigue, completed_orders
		FROM run_agents WHERE run_id = ? ORDER BY agent_id`, runID)
	return rows, err
}

// LoadSummary decodes the stored summary of a run.
func (s *Store) LoadSummary(runID string) (sim.Summary, error) {
	var raw string
	var summary sim.Summary
	if err := s.conn.Get(&raw, "SELECT summary_json FROM runs WHERE id = ?", runID); err != nil {
		return summary, fmt.Errorf("load run %s: %w", runID, err)
	}
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return summary, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return summary, nil
}

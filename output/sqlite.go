package output

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteWriter writes simulation output to a single output.db file with
// three tables: agent_snapshots, tick_summaries, and run_meta (one row per
// run, keyed by a generated run id).
type SQLiteWriter struct {
	conn     *sqlx.DB
	runID    string
	finished bool
}

// NewSQLiteWriter opens (or creates) output.db in dir, initialises the
// schema, and records the run metadata.
func NewSQLiteWriter(dir string, seed uint64) (*SQLiteWriter, error) {
	path := filepath.Join(dir, "output.db")
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	w := &SQLiteWriter{conn: conn, runID: uuid.NewString()}
	if err := w.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if _, err := conn.Exec(
		"INSERT INTO run_meta (run_id, seed, started_unix_secs) VALUES (?, ?, ?)",
		w.runID, int64(seed), time.Now().Unix(),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("insert run meta: %w", err)
	}
	return w, nil
}

// RunID is the generated identifier of this run's rows.
func (w *SQLiteWriter) RunID() string { return w.runID }

func (w *SQLiteWriter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agent_snapshots (
		agent_id         INTEGER NOT NULL,
		tick             INTEGER NOT NULL,
		departure_node   INTEGER NOT NULL,
		in_transit       INTEGER NOT NULL,
		destination_node INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tick_summaries (
		tick           INTEGER PRIMARY KEY,
		unix_time_secs INTEGER NOT NULL,
		woken_agents   INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		run_id            TEXT PRIMARY KEY,
		seed              INTEGER NOT NULL,
		started_unix_secs INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_tick ON agent_snapshots(tick);
	`
	_, err := w.conn.Exec(schema)
	return err
}

func (w *SQLiteWriter) WriteSnapshots(rows []AgentSnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := w.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO agent_snapshots (agent_id, tick, departure_node, in_transit, destination_node) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		inTransit := 0
		if row.InTransit {
			inTransit = 1
		}
		if _, err := stmt.Exec(row.AgentID, row.Tick, row.DepartureNode, inTransit, row.DestinationNode); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (w *SQLiteWriter) WriteTickSummary(row TickSummaryRow) error {
	_, err := w.conn.Exec(
		"INSERT INTO tick_summaries (tick, unix_time_secs, woken_agents) VALUES (?, ?, ?)",
		row.Tick, row.UnixTimeSecs, row.WokenAgents,
	)
	return err
}

func (w *SQLiteWriter) Finish() error {
	if w.finished {
		return nil
	}
	w.finished = true
	return w.conn.Close()
}

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVWriter writes simulation output to two files in the configured
// directory: agent_snapshots.csv and tick_summaries.csv.
type CSVWriter struct {
	snapshotsFile *os.File
	summariesFile *os.File
	snapshots     *csv.Writer
	summaries     *csv.Writer
	finished      bool
}

// NewCSVWriter creates (or truncates) the two CSV files in dir and writes
// the header rows.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	snapshotsFile, err := os.Create(filepath.Join(dir, "agent_snapshots.csv"))
	if err != nil {
		return nil, fmt.Errorf("create snapshots file: %w", err)
	}
	summariesFile, err := os.Create(filepath.Join(dir, "tick_summaries.csv"))
	if err != nil {
		snapshotsFile.Close()
		return nil, fmt.Errorf("create summaries file: %w", err)
	}

	w := &CSVWriter{
		snapshotsFile: snapshotsFile,
		summariesFile: summariesFile,
		snapshots:     csv.NewWriter(snapshotsFile),
		summaries:     csv.NewWriter(summariesFile),
	}
	if err := w.snapshots.Write([]string{"agent_id", "tick", "departure_node", "in_transit", "destination_node"}); err != nil {
		w.Finish()
		return nil, fmt.Errorf("write snapshots header: %w", err)
	}
	if err := w.summaries.Write([]string{"tick", "unix_time_secs", "woken_agents"}); err != nil {
		w.Finish()
		return nil, fmt.Errorf("write summaries header: %w", err)
	}
	return w, nil
}

func (w *CSVWriter) WriteSnapshots(rows []AgentSnapshotRow) error {
	for _, row := range rows {
		inTransit := "0"
		if row.InTransit {
			inTransit = "1"
		}
		record := []string{
			strconv.FormatUint(uint64(row.AgentID), 10),
			strconv.FormatUint(row.Tick, 10),
			strconv.FormatUint(uint64(row.DepartureNode), 10),
			inTransit,
			strconv.FormatUint(uint64(row.DestinationNode), 10),
		}
		if err := w.snapshots.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) WriteTickSummary(row TickSummaryRow) error {
	return w.summaries.Write([]string{
		strconv.FormatUint(row.Tick, 10),
		strconv.FormatInt(row.UnixTimeSecs, 10),
		strconv.FormatUint(row.WokenAgents, 10),
	})
}

func (w *CSVWriter) Finish() error {
	if w.finished {
		return nil
	}
	w.finished = true

	w.snapshots.Flush()
	w.summaries.Flush()
	err := w.snapshots.Error()
	if e := w.summaries.Error(); err == nil {
		err = e
	}
	if e := w.snapshotsFile.Close(); err == nil {
		err = e
	}
	if e := w.summariesFile.Close(); err == nil {
		err = e
	}
	return err
}

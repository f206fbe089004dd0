package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCSVWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	rows := []AgentSnapshotRow{
		{AgentID: 0, Tick: 4, DepartureNode: 7, InTransit: false, DestinationNode: 0xFFFFFFFF},
		{AgentID: 1, Tick: 4, DepartureNode: 2, InTransit: true, DestinationNode: 9},
	}
	if err := w.WriteSnapshots(rows); err != nil {
		t.Fatalf("WriteSnapshots: %v", err)
	}
	if err := w.WriteTickSummary(TickSummaryRow{Tick: 4, UnixTimeSecs: 14_400, WokenAgents: 2}); err != nil {
		t.Fatalf("WriteTickSummary: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	// Finish is idempotent.
	if err := w.Finish(); err != nil {
		t.Fatalf("second Finish: %v", err)
	}

	snapshots := readCSV(t, filepath.Join(dir, "agent_snapshots.csv"))
	want := [][]string{
		{"agent_id", "tick", "departure_node", "in_transit", "destination_node"},
		{"0", "4", "7", "0", "4294967295"},
		{"1", "4", "2", "1", "9"},
	}
	if !reflect.DeepEqual(snapshots, want) {
		t.Fatalf("snapshots = %v, want %v", snapshots, want)
	}

	summaries := readCSV(t, filepath.Join(dir, "tick_summaries.csv"))
	wantSummaries := [][]string{
		{"tick", "unix_time_secs", "woken_agents"},
		{"4", "14400", "2"},
	}
	if !reflect.DeepEqual(summaries, wantSummaries) {
		t.Fatalf("summaries = %v, want %v", summaries, wantSummaries)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

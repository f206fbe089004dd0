package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gabemgem/citytwin/core"
)

// CSV schedule format: one row per scheduled activity, all rows for the same
// agent sharing the same cycle_ticks value.
//
//	agent_id,activity_id,start_offset_ticks,duration_ticks,destination,cycle_ticks
//	0,0,0,8,home,168
//	0,1,8,9,42,168
//	0,0,17,7,home,168
//
// The destination column is "home", "work", or a numeric NodeID. Agents
// absent from the file receive an empty plan.

var ErrParse = errors.New("schedule parse error")

type scheduleRecord struct {
	activityID       uint16
	startOffsetTicks uint32
	durationTicks    uint32
	destination      Destination
	cycleTicks       uint32
}

// LoadPlansFile loads per-agent plans from a CSV file.
func LoadPlansFile(path string, agentCount int) ([]*ActivityPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule %q: %w", path, err)
	}
	defer f.Close()
	return LoadPlans(f, agentCount)
}

// LoadPlans loads per-agent plans from any CSV reader. The result has length
// agentCount and is indexed by AgentID; agents with no rows get EmptyPlan.
func LoadPlans(r io.Reader, agentCount int) ([]*ActivityPlan, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return emptyPlans(agentCount), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(header) != 6 {
		return nil, fmt.Errorf("%w: expected 6 columns, got %d", ErrParse, len(header))
	}

	byAgent := make(map[uint32][]scheduleRecord)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		agentID, rec, err := parseRecord(row)
		if err != nil {
			return nil, err
		}
		byAgent[agentID] = append(byAgent[agentID], rec)
	}

	plans := make([]*ActivityPlan, agentCount)
	for i := range plans {
		rows, ok := byAgent[uint32(i)]
		if !ok {
			plans[i] = EmptyPlan()
			continue
		}
		activities := make([]ScheduledActivity, len(rows))
		for j, rec := range rows {
			activities[j] = ScheduledActivity{
				StartOffsetTicks: rec.startOffsetTicks,
				DurationTicks:    rec.durationTicks,
				ActivityID:       core.ActivityID(rec.activityID),
				Destination:      rec.destination,
			}
		}
		// All rows for one agent share cycle_ticks; use the first.
		plan, err := NewPlan(activities, rows[0].cycleTicks)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		plans[i] = plan
	}
	return plans, nil
}

func emptyPlans(agentCount int) []*ActivityPlan {
	plans := make([]*ActivityPlan, agentCount)
	for i := range plans {
		plans[i] = EmptyPlan()
	}
	return plans
}

func parseRecord(row []string) (uint32, scheduleRecord, error) {
	if len(row) != 6 {
		return 0, scheduleRecord{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrParse, len(row))
	}
	agentID, err := parseUint(row[0], 32, "agent_id")
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	activityID, err := parseUint(row[1], 16, "activity_id")
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	start, err := parseUint(row[2], 32, "start_offset_ticks")
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	duration, err := parseUint(row[3], 32, "duration_ticks")
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	dest, err := parseDestination(row[4])
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	cycle, err := parseUint(row[5], 32, "cycle_ticks")
	if err != nil {
		return 0, scheduleRecord{}, err
	}
	return uint32(agentID), scheduleRecord{
		activityID:       uint16(activityID),
		startOffsetTicks: uint32(start),
		durationTicks:    uint32(duration),
		destination:      dest,
		cycleTicks:       uint32(cycle),
	}, nil
}

func parseUint(s string, bits int, field string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrParse, field, s)
	}
	return v, nil
}

func parseDestination(s string) (Destination, error) {
	switch s {
	case "home":
		return HomeDest(), nil
	case "work":
		return WorkDest(), nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: invalid destination %q: expected \"home\", \"work\", or a node id", ErrParse, s)
	}
	return NodeDest(core.NodeID(n)), nil
}

package schedule

import (
	"errors"
	"strings"
	"testing"

	"github.com/gabemgem/citytwin/core"
)

const commuteCSV = `agent_id,activity_id,start_offset_ticks,duration_ticks,destination,cycle_ticks
0,0,0,8,home,24
0,1,8,9,42,24
0,0,17,7,home,24
2,0,0,8,home,24
2,1,8,9,work,24
`

func TestLoadPlans(t *testing.T) {
	plans, err := LoadPlans(strings.NewReader(commuteCSV), 3)
	if err != nil {
		t.Fatalf("LoadPlans: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}

	if plans[0].Len() != 3 {
		t.Fatalf("agent 0 plan has %d activities, want 3", plans[0].Len())
	}
	work := plans[0].Activities()[1]
	if work.Destination.Kind != DestNode || work.Destination.Node != core.NodeID(42) {
		t.Fatalf("agent 0 work destination = %v, want node 42", work.Destination)
	}
	if work.ActivityID != 1 || work.StartOffsetTicks != 8 || work.DurationTicks != 9 {
		t.Fatalf("agent 0 work activity = %+v", work)
	}

	if !plans[1].IsEmpty() {
		t.Fatal("agent 1 (absent from CSV) should have an empty plan")
	}

	if plans[2].Activities()[1].Destination.Kind != DestWork {
		t.Fatalf("agent 2 destination = %v, want work sentinel", plans[2].Activities()[1].Destination)
	}
	if plans[2].CycleTicks() != 24 {
		t.Fatalf("agent 2 cycle = %d, want 24", plans[2].CycleTicks())
	}
}

func TestLoadPlansEmptyInput(t *testing.T) {
	plans, err := LoadPlans(strings.NewReader(""), 2)
	if err != nil {
		t.Fatalf("LoadPlans: %v", err)
	}
	for i, p := range plans {
		if !p.IsEmpty() {
			t.Fatalf("agent %d plan should be empty", i)
		}
	}
}

func TestLoadPlansBadDestination(t *testing.T) {
	csv := "agent_id,activity_id,start_offset_ticks,duration_ticks,destination,cycle_ticks\n0,0,0,8,office,24\n"
	_, err := LoadPlans(strings.NewReader(csv), 1)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestLoadPlansInvalidOffset(t *testing.T) {
	csv := "agent_id,activity_id,start_offset_ticks,duration_ticks,destination,cycle_ticks\n0,0,24,8,home,24\n"
	_, err := LoadPlans(strings.NewReader(csv), 1)
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Fatalf("err = %v, want ErrOffsetOutOfRange", err)
	}
}

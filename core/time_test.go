package core

import "testing"

func TestSimClockWallClockConversion(t *testing.T) {
	clock := NewSimClock(1_700_000_000, 3600)
	if got := clock.CurrentUnixSecs(); got != 1_700_000_000 {
		t.Fatalf("CurrentUnixSecs at tick 0 = %d, want 1700000000", got)
	}

	for range 5 {
		clock.Advance()
	}
	if clock.CurrentTick != 5 {
		t.Fatalf("CurrentTick = %v, want 5", clock.CurrentTick)
	}
	if got := clock.CurrentUnixSecs(); got != 1_700_000_000+5*3600 {
		t.Fatalf("CurrentUnixSecs = %d, want %d", got, 1_700_000_000+5*3600)
	}
	if got := clock.UnixSecsAt(10); got != 1_700_000_000+10*3600 {
		t.Fatalf("UnixSecsAt(10) = %d, want %d", got, 1_700_000_000+10*3600)
	}
}

func TestTicksForSecsRoundsUp(t *testing.T) {
	clock := NewSimClock(0, 3600)
	cases := []struct {
		secs uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{3600, 1},
		{3601, 2},
		{7200, 2},
	}
	for _, tc := range cases {
		if got := clock.TicksForSecs(tc.secs); got != tc.want {
			t.Errorf("TicksForSecs(%d) = %d, want %d", tc.secs, got, tc.want)
		}
	}
}

func TestElapsedDHM(t *testing.T) {
	clock := NewSimClock(0, 3600)
	for range 26 {
		clock.Advance()
	}
	d, h, m := clock.ElapsedDHM()
	if d != 1 || h != 2 || m != 0 {
		t.Fatalf("ElapsedDHM = (%d, %d, %d), want (1, 2, 0)", d, h, m)
	}
}

func TestInvalidSentinels(t *testing.T) {
	if InvalidAgent.Index() != int(^uint32(0)) {
		t.Errorf("InvalidAgent should be all bits set")
	}
	if uint32(InvalidNode) != 0xFFFFFFFF {
		t.Errorf("InvalidNode = %x, want 0xFFFFFFFF", uint32(InvalidNode))
	}
	if uint16(InvalidActivity) != 0xFFFF {
		t.Errorf("InvalidActivity = %x, want 0xFFFF", uint16(InvalidActivity))
	}
}

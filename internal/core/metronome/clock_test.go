package metronome

import (
	"math"
	"testing"
)

func TestAdvance_TickCount(t *testing.T) {
	// floor(T / beatSeconds) + 1 ticks from time zero inclusive.
	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 1},
		{0.49, 1},
		{0.5, 2},
		{1.99, 4},
		{2.0, 5},
	}
	for _, tt := range tests {
		clock := New(4, 0.5)
		if got := len(clock.Advance(tt.elapsed)); got != tt.want {
			t.Errorf("Advance(%v) emitted %d ticks, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestAdvance_NoDuplicatesAcrossQueries(t *testing.T) {
	clock := New(4, 0.5)
	seen := map[float64]bool{}
	total := 0
	for elapsed := 0.0; elapsed <= 4.1; elapsed += 0.013 {
		for _, tick := range clock.Advance(elapsed) {
			if seen[tick.At] {
				t.Fatalf("boundary %v emitted twice", tick.At)
			}
			seen[tick.At] = true
			total++
		}
	}
	if total != 9 {
		t.Errorf("total ticks = %d, want 9 over 4 seconds at 0.5s/beat", total)
	}
}

func TestAdvance_CoarseQueryCatchesUp(t *testing.T) {
	// A single late query still emits every boundary in order.
	clock := New(3, 0.25)
	ticks := clock.Advance(1.0)
	if len(ticks) != 5 {
		t.Fatalf("got %d ticks, want 5", len(ticks))
	}
	for i, tick := range ticks {
		if want := float64(i) * 0.25; math.Abs(tick.At-want) > 1e-9 {
			t.Errorf("tick %d at %v, want %v", i, tick.At, want)
		}
		if tick.Beat != i%3 || tick.Bar != i/3 {
			t.Errorf("tick %d = beat %d bar %d, want beat %d bar %d",
				i, tick.Beat, tick.Bar, i%3, i/3)
		}
		if tick.Accent != (i%3 == 0) {
			t.Errorf("tick %d accent = %v", i, tick.Accent)
		}
	}
}

func TestReset(t *testing.T) {
	clock := New(4, 0.5)
	clock.Advance(3.0)
	clock.Reset()
	ticks := clock.Advance(0)
	if len(ticks) != 1 || ticks[0].Beat != 0 || ticks[0].Bar != 0 {
		t.Errorf("after Reset, Advance(0) = %v, want single beat 0", ticks)
	}
}

func TestCountIn(t *testing.T) {
	ticks := CountIn(4, 0.5)
	if len(ticks) != 4 {
		t.Fatalf("count-in length = %d, want 4", len(ticks))
	}
	for i, tick := range ticks {
		if tick.Beat != i {
			t.Errorf("count-in tick %d beat = %d", i, tick.Beat)
		}
		if tick.Bar != -1 {
			t.Errorf("count-in tick %d bar = %d, want -1", i, tick.Bar)
		}
		if tick.Accent != (i == 0) {
			t.Errorf("count-in tick %d accent = %v", i, tick.Accent)
		}
		if want := -float64(4-i) * 0.5; math.Abs(tick.At-want) > 1e-9 {
			t.Errorf("count-in tick %d at %v, want %v", i, tick.At, want)
		}
	}
}

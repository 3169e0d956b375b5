package timing

import (
	"math"
	"testing"
)

func TestNoteSeconds(t *testing.T) {
	tests := []struct {
		note Note
		bpm  int
		want float64
	}{
		{"1/4", 120, 0.5},
		{"1/4", 60, 1.0},
		{"1/2", 120, 1.0},
		{"1", 120, 2.0},
		{"1/8", 120, 0.25},
		{"1/16", 120, 0.125},
		{"1/32", 120, 0.0625},
		{"16", 60, 64.0},
		{NoteNone, 120, 0},
		{NoteNone, 33, 0},
	}
	for _, tt := range tests {
		if got := NoteSeconds(tt.note, tt.bpm); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NoteSeconds(%q, %d) = %v, want %v", tt.note, tt.bpm, got, tt.want)
		}
	}
}

func TestNoteSeconds_UnknownFallsBackToQuarter(t *testing.T) {
	if got := NoteSeconds("5/7", 120); got != 0.5 {
		t.Errorf("NoteSeconds(unknown, 120) = %v, want 0.5", got)
	}
}

func TestBarSeconds(t *testing.T) {
	if got := BarSeconds(4, 120); got != 2.0 {
		t.Errorf("BarSeconds(4, 120) = %v, want 2.0", got)
	}
	if got := BarSeconds(3, 90); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("BarSeconds(3, 90) = %v, want 2.0", got)
	}
}

func TestBeatSeconds(t *testing.T) {
	if got := BeatSeconds(120); got != 0.5 {
		t.Errorf("BeatSeconds(120) = %v, want 0.5", got)
	}
}

func TestNote_Valid(t *testing.T) {
	for _, note := range Notes() {
		if !note.Valid() {
			t.Errorf("Notes() entry %q reported invalid", note)
		}
	}
	if !NoteNone.Valid() {
		t.Error("NoteNone reported invalid")
	}
	if Note("3/4").Valid() {
		t.Error("unknown token reported valid")
	}
}

package model

import (
	"testing"

	"github.com/blackcarburning/LyricLooper/internal/core/timing"
)

func TestDefaultSettings_Valid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
}

func TestTimingSettings_Validate(t *testing.T) {
	base := DefaultSettings().Timing

	tests := []struct {
		name   string
		mutate func(*TimingSettings)
		ok     bool
	}{
		{"default", func(*TimingSettings) {}, true},
		{"bpm low", func(s *TimingSettings) { s.BPM = 19 }, false},
		{"bpm high", func(s *TimingSettings) { s.BPM = 301 }, false},
		{"bpm min", func(s *TimingSettings) { s.BPM = 20 }, true},
		{"bpm max", func(s *TimingSettings) { s.BPM = 300 }, true},
		{"sig num zero", func(s *TimingSettings) { s.TimeSigNum = 0 }, false},
		{"sig den odd", func(s *TimingSettings) { s.TimeSigDen = 3 }, false},
		{"bad note", func(s *TimingSettings) { s.GapNote = "7/9" }, false},
		{"word note none", func(s *TimingSettings) { s.WordNote = timing.NoteNone }, false},
		{"gap none", func(s *TimingSettings) { s.GapNote = timing.NoteNone }, true},
	}
	for _, tt := range tests {
		settings := base
		tt.mutate(&settings)
		err := settings.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestTimingSettings_GapSeconds(t *testing.T) {
	settings := DefaultSettings().Timing
	settings.GapNote = "1/4"
	if got := settings.GapSeconds(); got != 0.5 {
		t.Errorf("GapSeconds() = %v, want 0.5", got)
	}
	settings.GapNegative = true
	if got := settings.GapSeconds(); got != -0.5 {
		t.Errorf("negative GapSeconds() = %v, want -0.5", got)
	}
}

func TestLoopSettings_Validate(t *testing.T) {
	disabled := LoopSettings{Enabled: false, Mode: "bogus"}
	if err := disabled.Validate(); err != nil {
		t.Errorf("disabled loop validated: %v", err)
	}

	byBars := LoopSettings{Enabled: true, Mode: LoopByBars, Bars: 0, Times: 1}
	if err := byBars.Validate(); err == nil {
		t.Error("zero loop bars accepted")
	}

	finite := LoopSettings{Enabled: true, Mode: LoopAllWords, Times: 0}
	if err := finite.Validate(); err == nil {
		t.Error("zero loop count accepted")
	}

	infinite := LoopSettings{Enabled: true, Mode: LoopAllWords, Infinite: true}
	if err := infinite.Validate(); err != nil {
		t.Errorf("infinite loop rejected: %v", err)
	}
}

func TestExportSettings_Validate(t *testing.T) {
	settings := DefaultSettings().Export
	settings.Format = "webm"
	if err := settings.Validate(); err == nil {
		t.Error("unknown container accepted")
	}
	settings = DefaultSettings().Export
	settings.Width = 0
	if err := settings.Validate(); err == nil {
		t.Error("zero width accepted")
	}
}

func TestAppearance_Validate(t *testing.T) {
	appearance := DefaultSettings().Appearance
	appearance.FontColor = "white"
	if err := appearance.Validate(); err == nil {
		t.Error("non-hex color accepted")
	}
}

func TestClampBPM(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 20}, {19, 20}, {20, 20}, {120, 120}, {300, 300}, {999, 300},
	}
	for _, tt := range tests {
		if got := ClampBPM(tt.in); got != tt.want {
			t.Errorf("ClampBPM(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampStartWord(t *testing.T) {
	tests := []struct{ start, count, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 10},
		{11, 10, 10},
		{5, 0, 5},
		{-3, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampStartWord(tt.start, tt.count); got != tt.want {
			t.Errorf("ClampStartWord(%d, %d) = %d, want %d", tt.start, tt.count, got, tt.want)
		}
	}
}

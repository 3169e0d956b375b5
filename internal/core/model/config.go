// Package model defines the configuration types shared by the playback and
// export engines. Settings are validated and clamped at this boundary; the
// engines assume they receive a valid snapshot.
package model

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/blackcarburning/LyricLooper/internal/core/timing"
)

// BPM bounds accepted at the configuration boundary.
const (
	MinBPM = 20
	MaxBPM = 300
)

// LoopMode selects how the length of a looped pass is determined.
type LoopMode string

const (
	// LoopAllWords loops one full pass over the word list from the start word.
	LoopAllWords LoopMode = "all_words"
	// LoopByBars time-boxes each pass to a fixed number of bars.
	LoopByBars LoopMode = "bars"
)

// ExportFormat selects the export container.
type ExportFormat string

const (
	FormatMP4         ExportFormat = "mp4"
	FormatAVI         ExportFormat = "avi"
	FormatMOV         ExportFormat = "mov"
	FormatPNGSequence ExportFormat = "png_sequence"
)

// ErrNoWords indicates playback or export was requested with an empty word list.
var ErrNoWords = errors.New("no words loaded")

// TimingSettings drives all duration conversions.
type TimingSettings struct {
	BPM         int
	TimeSigNum  int
	TimeSigDen  int
	WordNote    timing.Note
	FadeInNote  timing.Note
	FadeOutNote timing.Note
	GapNote     timing.Note
	GapNegative bool
}

// WordSeconds returns the nominal display duration of one word.
func (settings TimingSettings) WordSeconds() float64 {
	return timing.NoteSeconds(settings.WordNote, settings.BPM)
}

// FadeInSeconds returns the fade-in duration.
func (settings TimingSettings) FadeInSeconds() float64 {
	return timing.NoteSeconds(settings.FadeInNote, settings.BPM)
}

// FadeOutSeconds returns the fade-out duration.
func (settings TimingSettings) FadeOutSeconds() float64 {
	return timing.NoteSeconds(settings.FadeOutNote, settings.BPM)
}

// GapSeconds returns the inter-word gap. Negative when GapNegative is set,
// which signals a cross-fade overlap into the next word rather than silence.
func (settings TimingSettings) GapSeconds() float64 {
	gap := timing.NoteSeconds(settings.GapNote, settings.BPM)
	if settings.GapNegative {
		gap = -gap
	}
	return gap
}

// BeatSeconds returns the duration of one beat.
func (settings TimingSettings) BeatSeconds() float64 {
	return timing.BeatSeconds(settings.BPM)
}

// BarSeconds returns the duration of one bar.
func (settings TimingSettings) BarSeconds() float64 {
	return timing.BarSeconds(settings.TimeSigNum, settings.BPM)
}

// Validate rejects malformed timing settings.
func (settings TimingSettings) Validate() error {
	if settings.BPM < MinBPM || settings.BPM > MaxBPM {
		return fmt.Errorf("bpm %d out of range [%d, %d]", settings.BPM, MinBPM, MaxBPM)
	}
	if settings.TimeSigNum < 1 || settings.TimeSigNum > 16 {
		return fmt.Errorf("time signature numerator %d out of range [1, 16]", settings.TimeSigNum)
	}
	switch settings.TimeSigDen {
	case 2, 4, 8, 16:
	default:
		return fmt.Errorf("time signature denominator %d not in {2, 4, 8, 16}", settings.TimeSigDen)
	}
	for name, note := range map[string]timing.Note{
		"word":     settings.WordNote,
		"fade in":  settings.FadeInNote,
		"fade out": settings.FadeOutNote,
		"gap":      settings.GapNote,
	} {
		if !note.Valid() {
			return fmt.Errorf("%s note value %q unknown", name, note)
		}
	}
	if settings.WordNote == timing.NoteNone {
		return errors.New("word note value must not be none")
	}
	return nil
}

// LoopSettings controls section looping.
type LoopSettings struct {
	Enabled  bool
	Mode     LoopMode
	Bars     int
	Times    int
	Infinite bool
}

// Validate rejects malformed loop settings. Disabled loops are not checked.
func (settings LoopSettings) Validate() error {
	if !settings.Enabled {
		return nil
	}
	if settings.Mode != LoopAllWords && settings.Mode != LoopByBars {
		return fmt.Errorf("loop mode %q unknown", settings.Mode)
	}
	if settings.Mode == LoopByBars && settings.Bars < 1 {
		return fmt.Errorf("loop bars %d must be >= 1", settings.Bars)
	}
	if !settings.Infinite && settings.Times < 1 {
		return fmt.Errorf("loop count %d must be >= 1", settings.Times)
	}
	return nil
}

// ExportSettings configures offline rendering.
type ExportSettings struct {
	FPS         int
	Width       int
	Height      int
	Format      ExportFormat
	Transparent bool
}

// Validate rejects malformed export settings.
func (settings ExportSettings) Validate() error {
	if settings.FPS < 1 {
		return fmt.Errorf("export fps %d must be >= 1", settings.FPS)
	}
	if settings.Width < 1 || settings.Height < 1 {
		return fmt.Errorf("export resolution %dx%d invalid", settings.Width, settings.Height)
	}
	switch settings.Format {
	case FormatMP4, FormatAVI, FormatMOV, FormatPNGSequence:
	default:
		return fmt.Errorf("export format %q unknown", settings.Format)
	}
	return nil
}

// Appearance holds display styling shared by preview and export.
type Appearance struct {
	FontFamily  string
	FontSize    int
	FontColor   string
	Background  string
	AspectRatio string
}

// Validate rejects malformed appearance settings.
func (appearance Appearance) Validate() error {
	if appearance.FontSize < 1 {
		return fmt.Errorf("font size %d must be >= 1", appearance.FontSize)
	}
	if _, err := colorful.Hex(appearance.FontColor); err != nil {
		return fmt.Errorf("font color %q: %w", appearance.FontColor, err)
	}
	if _, err := colorful.Hex(appearance.Background); err != nil {
		return fmt.Errorf("background color %q: %w", appearance.Background, err)
	}
	return nil
}

// Settings is the full configuration snapshot captured at the start of a
// playback or export run. Mid-run edits never affect an in-flight pass.
type Settings struct {
	Timing     TimingSettings
	Loop       LoopSettings
	Export     ExportSettings
	Appearance Appearance

	StartWord        int
	CountIn          bool
	MetronomeEnabled bool
	MetronomeVolume  float64
}

// DefaultSettings returns the startup configuration.
func DefaultSettings() Settings {
	return Settings{
		Timing: TimingSettings{
			BPM:         120,
			TimeSigNum:  4,
			TimeSigDen:  4,
			WordNote:    "1/4",
			FadeInNote:  "1/16",
			FadeOutNote: "1/16",
			GapNote:     timing.NoteNone,
		},
		Loop: LoopSettings{
			Mode:  LoopAllWords,
			Bars:  4,
			Times: 2,
		},
		Export: ExportSettings{
			FPS:    30,
			Width:  1920,
			Height: 1080,
			Format: FormatMP4,
		},
		Appearance: Appearance{
			FontFamily:  "Arial",
			FontSize:    72,
			FontColor:   "#FFFFFF",
			Background:  "#000000",
			AspectRatio: "16:9",
		},
		StartWord:        1,
		CountIn:          true,
		MetronomeEnabled: true,
		MetronomeVolume:  0.5,
	}
}

// Validate rejects any malformed section.
func (settings Settings) Validate() error {
	if err := settings.Timing.Validate(); err != nil {
		return err
	}
	if err := settings.Loop.Validate(); err != nil {
		return err
	}
	if err := settings.Export.Validate(); err != nil {
		return err
	}
	if err := settings.Appearance.Validate(); err != nil {
		return err
	}
	if settings.StartWord < 1 {
		return fmt.Errorf("start word %d must be >= 1", settings.StartWord)
	}
	return nil
}

// ClampBPM forces a tempo into the accepted range.
func ClampBPM(bpm int) int {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

// ClampStartWord forces a 1-based start position into [1, wordCount].
// A zero wordCount clamps to 1.
func ClampStartWord(start, wordCount int) int {
	if start < 1 {
		return 1
	}
	if wordCount > 0 && start > wordCount {
		return wordCount
	}
	return start
}

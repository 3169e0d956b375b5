// Package timing converts musical note values to wall-clock seconds.
package timing

// Note is a musical duration token such as "1/4", expressed in quarter-note
// multiples. NoteNone stands for "no duration".
type Note string

// NoteNone disables the duration it is assigned to.
const NoteNone Note = "none"

// quarter-note multiples per token
var noteFactors = map[Note]float64{
	"1/32": 0.125,
	"1/16": 0.25,
	"1/8":  0.5,
	"1/4":  1,
	"1/2":  2,
	"1":    4,
	"2":    8,
	"4":    16,
	"8":    32,
	"16":   64,
}

// Notes lists every playable note token from shortest to longest.
func Notes() []Note {
	return []Note{"1/32", "1/16", "1/8", "1/4", "1/2", "1", "2", "4", "8", "16"}
}

// Valid reports whether the token is a known note value or NoteNone.
func (note Note) Valid() bool {
	if note == NoteNone {
		return true
	}
	_, ok := noteFactors[note]
	return ok
}

// NoteSeconds converts a note value to seconds at the given tempo.
// NoteNone converts to zero. Tokens are validated at the configuration
// boundary; an unknown token falls back to a quarter note.
func NoteSeconds(note Note, bpm int) float64 {
	if note == NoteNone {
		return 0
	}
	factor, ok := noteFactors[note]
	if !ok {
		factor = 1
	}
	return factor * 60.0 / float64(bpm)
}

// BeatSeconds returns the duration of one beat at the given tempo.
func BeatSeconds(bpm int) float64 {
	return 60.0 / float64(bpm)
}

// BarSeconds returns the duration of one bar: timeSigNum beats.
func BarSeconds(timeSigNum, bpm int) float64 {
	return float64(timeSigNum) * 60.0 / float64(bpm)
}

// Package metronome maps elapsed playback time to beat and bar positions.
// The clock is query-driven: callers advance it with monotonically
// non-decreasing elapsed times and receive every beat boundary crossed
// since the previous query, exactly once.
package metronome

// Tick marks one beat boundary.
type Tick struct {
	Beat   int     // 0-based position within the bar
	Bar    int     // 0-based bar number, -1 during count-in
	Accent bool    // true on the first beat of a bar
	At     float64 // seconds since playback start at the boundary
}

// Clock tracks which beat boundaries have already been emitted.
type Clock struct {
	timeSigNum  int
	beatSeconds float64
	next        int
}

// New creates a clock for the given time signature numerator and beat
// duration in seconds. The first Advance covering time zero emits beat 0.
func New(timeSigNum int, beatSeconds float64) *Clock {
	if timeSigNum < 1 {
		timeSigNum = 1
	}
	return &Clock{timeSigNum: timeSigNum, beatSeconds: beatSeconds}
}

// BeatSeconds returns the duration of one beat.
func (clock *Clock) BeatSeconds() float64 {
	return clock.beatSeconds
}

// Advance returns every tick whose boundary lies at or before elapsed and
// has not been emitted yet. Queries must be monotonically non-decreasing;
// polling faster than the beat duration guarantees no beat is batched.
func (clock *Clock) Advance(elapsed float64) []Tick {
	var ticks []Tick
	for float64(clock.next)*clock.beatSeconds <= elapsed {
		beat := clock.next % clock.timeSigNum
		ticks = append(ticks, Tick{
			Beat:   beat,
			Bar:    clock.next / clock.timeSigNum,
			Accent: beat == 0,
			At:     float64(clock.next) * clock.beatSeconds,
		})
		clock.next++
	}
	return ticks
}

// Reset rewinds the clock to before beat zero.
func (clock *Clock) Reset() {
	clock.next = 0
}

// CountIn returns the tick schedule played before the main timeline starts:
// one full bar of beats with no word displayed, accenting beat 0. Boundary
// times count up to zero from -timeSigNum beats.
func CountIn(timeSigNum int, beatSeconds float64) []Tick {
	if timeSigNum < 1 {
		timeSigNum = 1
	}
	ticks := make([]Tick, timeSigNum)
	for beat := 0; beat < timeSigNum; beat++ {
		ticks[beat] = Tick{
			Beat:   beat,
			Bar:    -1,
			Accent: beat == 0,
			At:     -float64(timeSigNum-beat) * beatSeconds,
		}
	}
	return ticks
}

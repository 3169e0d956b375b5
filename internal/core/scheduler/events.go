package scheduler

import "time"

// State represents the current Scheduler mode.
type State string

const (
	StateIdle      State = "idle"
	StateCountIn   State = "count_in"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// EventType defines the type of Scheduler event.
type EventType string

const (
	// EventStateChange reports a transition of the playback state machine.
	// StateCompleted is terminal until the next Play.
	EventStateChange EventType = "state_change"
	// EventDisplay carries the word/opacity pair (and outgoing word during
	// a cross-dissolve) the preview should show.
	EventDisplay EventType = "display"
	// EventWordProgress reports the pass-relative word position.
	EventWordProgress EventType = "word_progress"
	// EventBeat reports a metronome tick. Bar is -1 and Elapsed negative
	// during count-in.
	EventBeat EventType = "beat"
	// EventLoop reports the loop iteration at the start of each pass.
	EventLoop EventType = "loop"
)

// Event represents a Scheduler update for observers. Only the fields
// relevant to the event type are populated.
type Event struct {
	Type  EventType
	State State

	Word        string
	PrevWord    string
	Opacity     float64
	PrevOpacity float64

	WordCurrent int
	WordTotal   int

	Beat    int
	Bar     int
	Accent  bool
	Elapsed float64

	LoopIteration int
	LoopTotal     int
	LoopInfinite  bool

	At time.Time
}

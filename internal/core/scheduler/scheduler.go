// Package scheduler drives word playback against the real wall clock. A
// single background goroutine owns all playback state; observers receive
// read-only events through subscribed channels and control the run through
// Play, Pause, Resume and Stop.
package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/blackcarburning/LyricLooper/internal/core/metronome"
	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/timeline"
)

// Clicker plays an audible metronome click. A nil Clicker is silent.
type Clicker interface {
	Click(accent bool)
}

const (
	// pollInterval bounds how quickly stop and pause are perceived and must
	// stay well below one beat at the fastest supported tempo.
	pollInterval = 2 * time.Millisecond
	// fadeSteps is the display granularity of one fade, bounding event
	// volume independently of fade duration.
	fadeSteps = 20
	// timeEpsilon absorbs float summation error when comparing the cursor
	// against a bar budget, so a word never starts with effectively zero
	// time remaining.
	timeEpsilon = 1e-9
)

// Scheduler is the live playback driver.
type Scheduler struct {
	mu            sync.Mutex
	state         State
	previousState State
	running       bool
	paused        bool
	stopCh        chan struct{}
	events        []chan Event
	clicker       Clicker
}

// New creates an idle Scheduler.
func New() *Scheduler {
	return &Scheduler{state: StateIdle}
}

// SetClicker injects the metronome sound output.
func (s *Scheduler) SetClicker(clicker Clicker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicker = clicker
}

// Subscribe registers a new observer channel. Events are dropped rather
// than blocking the timing loop when a subscriber falls behind.
func (s *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s.mu.Lock()
	s.events = append(s.events, ch)
	s.mu.Unlock()
	return ch
}

// State returns the current playback state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Play starts playback of the word list with an immutable snapshot of the
// given settings. Calling Play while paused resumes instead. Configuration
// problems are reported synchronously; no goroutine starts on error.
func (s *Scheduler) Play(settings model.Settings, words []string) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if len(words) == 0 {
		return model.ErrNoWords
	}

	s.mu.Lock()
	if s.running {
		if s.paused {
			s.resumeLocked()
			return nil
		}
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.paused = false
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go s.run(settings, words, stopCh)
	return nil
}

// Pause freezes the playback clock. Paused time is excluded from elapsed
// accounting.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	if !s.running || s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = true
	s.previousState = s.state
	s.state = StatePaused
	s.mu.Unlock()

	s.emit(Event{Type: EventStateChange, State: StatePaused, At: time.Now()})
}

// Resume unfreezes the playback clock.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	if !s.running || !s.paused {
		s.mu.Unlock()
		return
	}
	s.resumeLocked()
}

// resumeLocked clears the pause flag and emits the restored state.
// The mutex is released before emitting.
func (s *Scheduler) resumeLocked() {
	s.paused = false
	s.state = s.previousState
	state := s.state
	s.mu.Unlock()

	s.emit(Event{Type: EventStateChange, State: state, At: time.Now()})
}

// Stop aborts the current pass and returns to Idle. Safe to call from any
// state; stopping is a normal transition, never an error.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.running {
		close(s.stopCh)
		s.running = false
	}
	s.paused = false
	changed := s.state != StateIdle
	s.state = StateIdle
	s.mu.Unlock()

	if changed {
		s.emit(Event{Type: EventStateChange, State: StateIdle, At: time.Now()})
	}
}

// Close stops playback and closes every observer channel.
func (s *Scheduler) Close() {
	s.Stop()
	s.mu.Lock()
	events := s.events
	s.events = nil
	s.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (s *Scheduler) run(settings model.Settings, words []string, stopCh chan struct{}) {
	d := &driver{
		scheduler: s,
		stopCh:    stopCh,
		settings:  settings,
		timeline:  timeline.New(settings.Timing, words, settings.StartWord),
		clock:     metronome.New(settings.Timing.TimeSigNum, settings.Timing.BeatSeconds()),
	}
	completed := d.play()

	s.mu.Lock()
	if s.running {
		s.running = false
		if completed {
			s.state = StateCompleted
		} else {
			s.state = StateIdle
		}
	}
	state := s.state
	s.mu.Unlock()

	if completed {
		s.emit(Event{Type: EventStateChange, State: state, At: time.Now()})
	}
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.mu.Unlock()

	s.emit(Event{Type: EventStateChange, State: state, At: time.Now()})
}

func (s *Scheduler) currentClicker() Clicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicker
}

func (s *Scheduler) flags() (running, paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.paused
}

func (s *Scheduler) emit(event Event) {
	s.mu.Lock()
	events := append([]chan Event(nil), s.events...)
	s.mu.Unlock()

	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

type segmentResult int

const (
	segmentDone segmentResult = iota
	segmentTruncated
	segmentStopped
)

// driver holds the per-run state of one playback. It lives entirely on the
// background goroutine; all it shares with the Scheduler are the control
// flags and the event fan-out.
type driver struct {
	scheduler *Scheduler
	stopCh    chan struct{}
	settings  model.Settings
	timeline  *timeline.Timeline
	clock     *metronome.Clock

	// elapsed is the pause-excluding measured time since the current pass
	// started; cursor is the scheduled position advanced by exact segment
	// durations. Waiting until elapsed reaches absolute cursor targets
	// keeps the pass free of accumulated sleep drift.
	elapsed  float64
	cursor   float64
	lastWall time.Time
}

func (d *driver) play() bool {
	if d.settings.CountIn {
		if !d.countIn() {
			return false
		}
	}
	d.scheduler.setState(StatePlaying)

	loop := d.settings.Loop
	budget := math.Inf(1)
	if loop.Enabled && loop.Mode == model.LoopByBars {
		budget = float64(loop.Bars) * d.settings.Timing.BarSeconds()
	}

	iteration := 0
	for {
		d.emitLoop(iteration)
		if !d.playPass(budget) {
			return false
		}
		if !loop.Enabled {
			return true
		}
		iteration++
		if !loop.Infinite && iteration >= loop.Times {
			return true
		}
	}
}

// countIn plays one bar of beats before the main timeline, with no word
// displayed. Beat events carry negative elapsed times counting up to zero.
func (d *driver) countIn() bool {
	d.scheduler.setState(StateCountIn)
	beatSeconds := d.settings.Timing.BeatSeconds()
	for _, tick := range metronome.CountIn(d.settings.Timing.TimeSigNum, beatSeconds) {
		d.click(tick)
		d.emitBeat(tick)
		if !d.waitWall(beatSeconds) {
			return false
		}
	}
	return true
}

// playPass plays one pass from the start word. The metronome and elapsed
// clock restart at every pass. A finite budget (ByBars mode) pre-empts the
// pass mid-word once the scheduled time reaches it.
func (d *driver) playPass(budget float64) bool {
	d.elapsed = 0
	d.cursor = 0
	d.clock.Reset()
	d.lastWall = time.Now()

	total := d.timeline.PassWordCount()
	for index := d.timeline.StartIndex(); index < d.timeline.WordCount(); index++ {
		if d.cursor >= budget-timeEpsilon {
			break
		}
		d.emitWordProgress(index-d.timeline.StartIndex()+1, total)
		for _, segment := range d.timeline.WordSegments(index) {
			switch d.playSegment(segment, budget) {
			case segmentStopped:
				return false
			case segmentTruncated:
				return true
			}
		}
	}
	return true
}

func (d *driver) playSegment(segment timeline.Segment, budget float64) segmentResult {
	segStart := d.cursor
	segEnd := segStart + segment.Duration
	end := segEnd
	if end > budget {
		end = budget
	}

	word := d.timeline.Word(segment.WordIndex)

	switch segment.Kind {
	case timeline.SegmentFadeIn, timeline.SegmentFadeOut:
		prevWord := ""
		if segment.CrossFade() {
			prevWord = d.timeline.Word(segment.PrevWordIndex)
		}
		for step := 0; step <= fadeSteps; step++ {
			at := segStart + segment.Duration*float64(step)/fadeSteps
			if step > 0 && at > end {
				break
			}
			opacity := float64(step) / fadeSteps
			if segment.Kind == timeline.SegmentFadeOut {
				opacity = 1 - opacity
			}
			if prevWord != "" {
				d.emitDisplay(word, opacity, prevWord, 1-opacity)
			} else {
				d.emitDisplay(word, opacity, "", 0)
			}
			if step == fadeSteps {
				break
			}
			next := segStart + segment.Duration*float64(step+1)/fadeSteps
			if next > end {
				next = end
			}
			if !d.advance(next) {
				return segmentStopped
			}
		}
	case timeline.SegmentHold:
		d.emitDisplay(word, 1, "", 0)
	case timeline.SegmentGap:
		d.emitDisplay("", 0, "", 0)
	}

	if !d.advance(end) {
		return segmentStopped
	}
	d.cursor = end
	if end < segEnd {
		return segmentTruncated
	}
	return segmentDone
}

// advance blocks until the pass clock reaches target, polling stop and
// pause at sub-beat granularity and emitting every metronome tick crossed.
// Pause freezes the clock; measured deltas simply stop accumulating.
func (d *driver) advance(target float64) bool {
	for {
		running, paused := d.scheduler.flags()
		if !running {
			return false
		}

		now := time.Now()
		if paused {
			d.lastWall = now
		} else {
			d.elapsed += now.Sub(d.lastWall).Seconds()
			d.lastWall = now
			for _, tick := range d.clock.Advance(d.elapsed) {
				d.click(tick)
				d.emitBeat(tick)
			}
			if d.elapsed >= target {
				return true
			}
		}

		if !d.sleep() {
			return false
		}
	}
}

// waitWall waits a wall-clock duration outside the pass clock, used for
// count-in beats. Pause freezes it like the main clock.
func (d *driver) waitWall(duration float64) bool {
	elapsed := 0.0
	last := time.Now()
	for {
		running, paused := d.scheduler.flags()
		if !running {
			return false
		}
		now := time.Now()
		if !paused {
			elapsed += now.Sub(last).Seconds()
		}
		last = now
		if elapsed >= duration {
			return true
		}
		if !d.sleep() {
			return false
		}
	}
}

func (d *driver) sleep() bool {
	timer := time.NewTimer(pollInterval)
	defer timer.Stop()
	select {
	case <-d.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func (d *driver) click(tick metronome.Tick) {
	if !d.settings.MetronomeEnabled {
		return
	}
	if clicker := d.scheduler.currentClicker(); clicker != nil {
		clicker.Click(tick.Accent)
	}
}

func (d *driver) emitDisplay(word string, opacity float64, prevWord string, prevOpacity float64) {
	d.scheduler.emit(Event{
		Type:        EventDisplay,
		State:       StatePlaying,
		Word:        word,
		PrevWord:    prevWord,
		Opacity:     opacity,
		PrevOpacity: prevOpacity,
		At:          time.Now(),
	})
}

func (d *driver) emitWordProgress(current, total int) {
	d.scheduler.emit(Event{
		Type:        EventWordProgress,
		State:       StatePlaying,
		WordCurrent: current,
		WordTotal:   total,
		At:          time.Now(),
	})
}

func (d *driver) emitBeat(tick metronome.Tick) {
	elapsed := tick.At
	if tick.Bar >= 0 {
		elapsed = d.elapsed
	}
	d.scheduler.emit(Event{
		Type:    EventBeat,
		Beat:    tick.Beat,
		Bar:     tick.Bar,
		Accent:  tick.Accent,
		Elapsed: elapsed,
		At:      time.Now(),
	})
}

func (d *driver) emitLoop(iteration int) {
	d.scheduler.emit(Event{
		Type:          EventLoop,
		LoopIteration: iteration + 1,
		LoopTotal:     d.settings.Loop.Times,
		LoopInfinite:  d.settings.Loop.Infinite,
		At:            time.Now(),
	})
}

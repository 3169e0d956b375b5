package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/timing"
)

// fastSettings keeps every duration tiny so tests finish quickly: one word
// lasts 0.025s at 300 bpm.
func fastSettings() model.Settings {
	settings := model.DefaultSettings()
	settings.Timing.BPM = 300
	settings.Timing.WordNote = "1/32"
	settings.Timing.FadeInNote = timing.NoteNone
	settings.Timing.FadeOutNote = timing.NoteNone
	settings.Timing.GapNote = timing.NoteNone
	settings.CountIn = false
	settings.MetronomeEnabled = false
	return settings
}

// collect drains events until the predicate matches or the timeout expires.
func collect(t *testing.T, events <-chan Event, timeout time.Duration, done func(Event) bool) []Event {
	t.Helper()
	var seen []Event
	deadline := time.After(timeout)
	for {
		select {
		case event := <-events:
			seen = append(seen, event)
			if done(event) {
				return seen
			}
		case <-deadline:
			t.Fatalf("timed out after %v with %d events", timeout, len(seen))
		}
	}
}

func completed(event Event) bool {
	return event.Type == EventStateChange && event.State == StateCompleted
}

func TestPlay_RejectsBadConfiguration(t *testing.T) {
	s := New()
	defer s.Close()

	err := s.Play(fastSettings(), nil)
	require.ErrorIs(t, err, model.ErrNoWords)

	bad := fastSettings()
	bad.Timing.BPM = 0
	err = s.Play(bad, []string{"word"})
	require.Error(t, err)
	assert.Equal(t, StateIdle, s.State())
}

func TestPlay_CompletesSinglePass(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(256)

	require.NoError(t, s.Play(fastSettings(), []string{"one", "two", "three"}))
	seen := collect(t, events, 5*time.Second, completed)

	var progresses []int
	for _, event := range seen {
		if event.Type == EventWordProgress {
			progresses = append(progresses, event.WordCurrent)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, progresses)
	assert.Equal(t, StateCompleted, s.State())
}

func TestPlay_WordProgressRelativeToStartWord(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(256)

	settings := fastSettings()
	settings.StartWord = 3
	require.NoError(t, s.Play(settings, []string{"a", "b", "c", "d"}))
	seen := collect(t, events, 5*time.Second, completed)

	var progresses [][2]int
	for _, event := range seen {
		if event.Type == EventWordProgress {
			progresses = append(progresses, [2]int{event.WordCurrent, event.WordTotal})
		}
	}
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progresses)
}

func TestPlay_LoopsFiniteTimes(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(512)

	settings := fastSettings()
	settings.Loop.Enabled = true
	settings.Loop.Mode = model.LoopAllWords
	settings.Loop.Times = 3
	require.NoError(t, s.Play(settings, []string{"one", "two"}))
	seen := collect(t, events, 5*time.Second, completed)

	var iterations []int
	for _, event := range seen {
		if event.Type == EventLoop {
			iterations = append(iterations, event.LoopIteration)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, iterations)
}

func TestPlay_CrossFadeOpacitiesSumToOne(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(1024)

	settings := fastSettings()
	settings.Timing.WordNote = "1/16"
	settings.Timing.FadeInNote = "1/32"
	settings.Timing.GapNote = "1/32"
	settings.Timing.GapNegative = true
	require.NoError(t, s.Play(settings, []string{"out", "in"}))
	seen := collect(t, events, 5*time.Second, completed)

	crossFades := 0
	for _, event := range seen {
		if event.Type == EventDisplay && event.PrevWord != "" {
			crossFades++
			assert.InDelta(t, 1.0, event.Opacity+event.PrevOpacity, 1e-9,
				"outgoing and incoming opacities must be complementary")
		}
	}
	assert.NotZero(t, crossFades, "negative gap never cross-faded")
}

func TestStop_AbortsPromptly(t *testing.T) {
	s := New()
	defer s.Close()

	settings := fastSettings()
	settings.Timing.BPM = 20
	settings.Timing.WordNote = "16" // 192s per word at 20 bpm
	require.NoError(t, s.Play(settings, []string{"forever"}))

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	s.Stop()
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StateIdle, s.State())

	// The aborted run must never report completion.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateIdle, s.State())
}

func TestPauseResume(t *testing.T) {
	s := New()
	defer s.Close()

	settings := fastSettings()
	settings.Timing.BPM = 20
	settings.Timing.WordNote = "16"
	require.NoError(t, s.Play(settings, []string{"slow"}))
	time.Sleep(20 * time.Millisecond)

	s.Pause()
	assert.Equal(t, StatePaused, s.State())

	// Play while paused resumes.
	require.NoError(t, s.Play(settings, []string{"slow"}))
	assert.Equal(t, StatePlaying, s.State())

	s.Stop()
	assert.Equal(t, StateIdle, s.State())
}

func TestPause_FreezesElapsed(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(1024)

	settings := fastSettings()
	settings.Timing.BPM = 120
	settings.Timing.WordNote = "1" // 2s word
	settings.MetronomeEnabled = false
	require.NoError(t, s.Play(settings, []string{"hold"}))

	time.Sleep(30 * time.Millisecond)
	s.Pause()
	time.Sleep(150 * time.Millisecond)

	// Drain whatever was emitted before the pause and remember the last
	// elapsed value seen.
	var lastElapsed float64
	draining := true
	for draining {
		select {
		case event := <-events:
			if event.Type == EventBeat && event.Elapsed > lastElapsed {
				lastElapsed = event.Elapsed
			}
		default:
			draining = false
		}
	}

	// While paused no beat may advance the clock.
	time.Sleep(100 * time.Millisecond)
	select {
	case event := <-events:
		if event.Type == EventBeat {
			t.Fatalf("beat emitted while paused: %+v", event)
		}
	default:
	}

	s.Stop()
	_ = lastElapsed
}

func TestCountIn_PrecedesWords(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(512)

	settings := fastSettings()
	settings.CountIn = true
	settings.Timing.TimeSigNum = 2
	require.NoError(t, s.Play(settings, []string{"go"}))
	seen := collect(t, events, 5*time.Second, completed)

	countInBeats := 0
	sawWord := false
	for _, event := range seen {
		switch event.Type {
		case EventBeat:
			if event.Bar == -1 {
				if sawWord {
					t.Fatal("count-in beat after first word")
				}
				if event.Elapsed >= 0 {
					t.Errorf("count-in elapsed = %v, want negative", event.Elapsed)
				}
				countInBeats++
			}
		case EventWordProgress:
			sawWord = true
		}
	}
	assert.Equal(t, 2, countInBeats)
	assert.True(t, sawWord)
}

func TestByBars_PreemptsPass(t *testing.T) {
	s := New()
	defer s.Close()
	events := s.Subscribe(1024)

	// One bar of 4 beats at 300 bpm = 0.8s; each word is a quarter note
	// (0.2s), so a 5-word pass is cut off after 4 words.
	settings := fastSettings()
	settings.Timing.WordNote = "1/4"
	settings.Loop.Enabled = true
	settings.Loop.Mode = model.LoopByBars
	settings.Loop.Bars = 1
	settings.Loop.Times = 1
	require.NoError(t, s.Play(settings, []string{"v", "w", "x", "y", "z"}))
	seen := collect(t, events, 5*time.Second, completed)

	words := 0
	for _, event := range seen {
		if event.Type == EventWordProgress {
			words++
		}
	}
	assert.Equal(t, 4, words)
}

type countingClicker struct {
	clicks  int
	accents int
}

func (c *countingClicker) Click(accent bool) {
	c.clicks++
	if accent {
		c.accents++
	}
}

func TestMetronome_ClicksEveryBeat(t *testing.T) {
	s := New()
	defer s.Close()
	clicker := &countingClicker{}
	s.SetClicker(clicker)
	events := s.Subscribe(512)

	// 4 words of one beat each at 300 bpm: beats at 0, 0.2, 0.4, 0.6.
	settings := fastSettings()
	settings.Timing.WordNote = "1/4"
	settings.MetronomeEnabled = true
	require.NoError(t, s.Play(settings, []string{"a", "b", "c", "d"}))
	collect(t, events, 5*time.Second, completed)

	assert.GreaterOrEqual(t, clicker.clicks, 4)
	assert.GreaterOrEqual(t, clicker.accents, 1)
}

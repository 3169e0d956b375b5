// Package timeline turns timing settings and a word list into the ordered
// timed segments that drive one pass of playback. Both the live scheduler
// and the frame exporter consume these segments; this is the single
// authoritative source of per-word timing.
package timeline

import (
	"github.com/blackcarburning/LyricLooper/internal/core/model"
)

// SegmentKind identifies one timed phase of a word's display.
type SegmentKind int

const (
	SegmentFadeIn SegmentKind = iota
	SegmentHold
	SegmentFadeOut
	SegmentGap
)

// String returns the segment kind name.
func (kind SegmentKind) String() string {
	switch kind {
	case SegmentFadeIn:
		return "fade_in"
	case SegmentHold:
		return "hold"
	case SegmentFadeOut:
		return "fade_out"
	case SegmentGap:
		return "gap"
	default:
		return "unknown"
	}
}

// holdSeconds is the minimum hold duration when fades consume the whole word.
const holdSeconds = 0.01

// Segment is one timed phase of a single word's display. PrevWordIndex is
// -1 unless the segment cross-dissolves an outgoing word, in which case the
// outgoing opacity is the complement of the incoming one.
type Segment struct {
	Kind          SegmentKind
	WordIndex     int
	PrevWordIndex int
	Duration      float64
}

// CrossFade reports whether the segment dissolves a previous word out while
// the current word fades in.
func (segment Segment) CrossFade() bool {
	return segment.Kind == SegmentFadeIn && segment.PrevWordIndex >= 0
}

// Timeline generates segments for one pass over a word list. Durations are
// resolved once at construction; the word list is never mutated.
type Timeline struct {
	words      []string
	startIndex int

	wordSeconds    float64
	fadeInSeconds  float64
	fadeOutSeconds float64
	gapSeconds     float64
}

// New builds a timeline for one pass starting at the 1-based startWord,
// which is clamped to the word list.
func New(settings model.TimingSettings, words []string, startWord int) *Timeline {
	startWord = model.ClampStartWord(startWord, len(words))
	return &Timeline{
		words:          words,
		startIndex:     startWord - 1,
		wordSeconds:    settings.WordSeconds(),
		fadeInSeconds:  settings.FadeInSeconds(),
		fadeOutSeconds: settings.FadeOutSeconds(),
		gapSeconds:     settings.GapSeconds(),
	}
}

// StartIndex returns the 0-based index of the first word of each pass.
func (t *Timeline) StartIndex() int {
	return t.startIndex
}

// WordCount returns the total length of the word list.
func (t *Timeline) WordCount() int {
	return len(t.words)
}

// PassWordCount returns the number of words in one pass.
func (t *Timeline) PassWordCount() int {
	return len(t.words) - t.startIndex
}

// Word returns the display token at a 0-based index, or "" out of range.
func (t *Timeline) Word(index int) string {
	if index < 0 || index >= len(t.words) {
		return ""
	}
	return t.words[index]
}

// GapSeconds returns the resolved inter-word gap, negative for overlap.
func (t *Timeline) GapSeconds() float64 {
	return t.gapSeconds
}

// WordSegments returns the ordered segments for the word at the given
// 0-based index:
//
//   - FadeIn, when a fade-in duration is set. With a negative gap and a
//     previous word in the pass, the segment cross-dissolves: the outgoing
//     word's opacity falls 1→0 while the incoming rises 0→1.
//   - Hold at full opacity. With a negative gap the fade-out role is
//     absorbed into the next word's cross-dissolve, so the hold runs to the
//     end of the word's duration.
//   - FadeOut, when a fade-out duration is set and the gap is not negative.
//   - Gap (blank display), for a positive gap between words. The last word
//     of a pass has no trailing gap.
//
// One word's segments total its nominal duration plus max(0, gap).
func (t *Timeline) WordSegments(index int) []Segment {
	segments := make([]Segment, 0, 4)

	prevIndex := -1
	if t.gapSeconds < 0 && index > t.startIndex {
		prevIndex = index - 1
	}

	if t.fadeInSeconds > 0 {
		segments = append(segments, Segment{
			Kind:          SegmentFadeIn,
			WordIndex:     index,
			PrevWordIndex: prevIndex,
			Duration:      t.fadeInSeconds,
		})
	}

	fadeOut := t.fadeOutSeconds
	if t.gapSeconds < 0 {
		fadeOut = 0
	}
	hold := t.wordSeconds - t.fadeInSeconds - fadeOut
	if hold < holdSeconds {
		hold = holdSeconds
	}
	segments = append(segments, Segment{
		Kind:          SegmentHold,
		WordIndex:     index,
		PrevWordIndex: -1,
		Duration:      hold,
	})

	if fadeOut > 0 {
		segments = append(segments, Segment{
			Kind:          SegmentFadeOut,
			WordIndex:     index,
			PrevWordIndex: -1,
			Duration:      fadeOut,
		})
	}

	if t.gapSeconds > 0 && index < len(t.words)-1 {
		segments = append(segments, Segment{
			Kind:          SegmentGap,
			WordIndex:     index,
			PrevWordIndex: -1,
			Duration:      t.gapSeconds,
		})
	}

	return segments
}

// PassSeconds returns the total duration of one AllWords pass.
func (t *Timeline) PassSeconds() float64 {
	var total float64
	for index := t.startIndex; index < len(t.words); index++ {
		for _, segment := range t.WordSegments(index) {
			total += segment.Duration
		}
	}
	return total
}

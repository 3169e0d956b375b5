// Package export renders a playback timeline into a video file or a PNG
// frame sequence. It walks the same segments the live scheduler walks, but
// against a synthetic frame clock, so two exports of the same settings and
// text produce identical output.
package export

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/blackcarburning/LyricLooper/internal/core/metronome"
	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/timeline"
	"github.com/blackcarburning/LyricLooper/internal/render"
)

// Progress is a snapshot of a running export, reported between frames.
// Beat and Bar track the synthetic clock position; Bar is -1 before the
// first beat of a pass.
type Progress struct {
	FramesWritten int
	TotalFrames   int
	Percent       int
	WordCurrent   int
	WordTotal     int
	LoopIteration int
	Beat          int
	Bar           int
}

// ProgressFunc receives progress snapshots. It runs on the export goroutine.
type ProgressFunc func(Progress)

// Exporter renders one export run from an immutable settings snapshot.
type Exporter struct {
	settings   model.Settings
	timeline   *timeline.Timeline
	compositor *render.Compositor
}

// New validates the settings and word list and prepares an exporter.
func New(settings model.Settings, words []string) (*Exporter, error) {
	if len(words) == 0 {
		return nil, model.ErrNoWords
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	compositor, err := render.NewCompositor(
		settings.Export.Width,
		settings.Export.Height,
		settings.Appearance,
		settings.Export.Transparent,
	)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		settings:   settings,
		timeline:   timeline.New(settings.Timing, words, settings.StartWord),
		compositor: compositor,
	}, nil
}

// frameCount converts a duration to a frame count at the export frame rate.
func (e *Exporter) frameCount(seconds float64) int {
	return int(math.Round(seconds * float64(e.settings.Export.FPS)))
}

// loopCount returns the number of passes to render. An infinite live loop
// exports a single pass.
func (e *Exporter) loopCount() int {
	loop := e.settings.Loop
	if !loop.Enabled || loop.Infinite {
		return 1
	}
	return loop.Times
}

// passBudgetFrames returns the frame budget of one pass, or math.MaxInt for
// an unbounded pass.
func (e *Exporter) passBudgetFrames() int {
	loop := e.settings.Loop
	if loop.Enabled && loop.Mode == model.LoopByBars {
		return e.frameCount(float64(loop.Bars) * e.settings.Timing.BarSeconds())
	}
	return math.MaxInt
}

// TotalFrames returns the exact number of frames the run will write.
func (e *Exporter) TotalFrames() int {
	passFrames := 0
	for index := e.timeline.StartIndex(); index < e.timeline.WordCount(); index++ {
		for _, segment := range e.timeline.WordSegments(index) {
			passFrames += e.frameCount(segment.Duration)
		}
	}
	if budget := e.passBudgetFrames(); passFrames > budget {
		passFrames = budget
	}
	return passFrames * e.loopCount()
}

// Duration returns the rendered length in seconds.
func (e *Exporter) Duration() float64 {
	return float64(e.TotalFrames()) / float64(e.settings.Export.FPS)
}

// Run renders the full export to outputPath. For png_sequence the path is a
// directory; otherwise it is the video file. The returned job carries the
// final status; a context cancellation ends the run with StatusCancelled and
// no error.
func (e *Exporter) Run(ctx context.Context, outputPath string, onProgress ProgressFunc) (*Job, error) {
	writer, err := NewFrameWriter(e.settings.Export, outputPath)
	if err != nil {
		return nil, err
	}

	job := NewJob(outputPath)
	job.TotalFrames = e.TotalFrames()
	job.Status = StatusRendering

	err = e.render(ctx, writer, job, onProgress)
	closeErr := writer.Close()
	if err == nil {
		err = closeErr
	}

	switch {
	case err != nil:
		job.fail(err)
		return job, err
	case job.Status == StatusCancelled:
		return job, nil
	default:
		job.complete()
		return job, nil
	}
}

// passState tracks the synthetic clock within one pass.
type passState struct {
	frames int
	budget int
	clock  *metronome.Clock
	beat   int
	bar    int
}

func (e *Exporter) report(job *Job, onProgress ProgressFunc, pass *passState, wordCurrent, loopIteration int) {
	if onProgress == nil {
		return
	}
	onProgress(Progress{
		FramesWritten: job.FramesWritten,
		TotalFrames:   job.TotalFrames,
		Percent:       job.Percent(),
		WordCurrent:   wordCurrent,
		WordTotal:     e.timeline.PassWordCount(),
		LoopIteration: loopIteration,
		Beat:          pass.beat,
		Bar:           pass.bar,
	})
}

func (e *Exporter) render(ctx context.Context, writer FrameWriter, job *Job, onProgress ProgressFunc) error {
	fps := float64(e.settings.Export.FPS)
	loops := e.loopCount()
	blank := e.compositor.Blank()

	for iteration := 1; iteration <= loops; iteration++ {
		pass := &passState{
			budget: e.passBudgetFrames(),
			clock:  metronome.New(e.settings.Timing.TimeSigNum, e.settings.Timing.BeatSeconds()),
			bar:    -1,
		}

	words:
		for index := e.timeline.StartIndex(); index < e.timeline.WordCount(); index++ {
			if pass.frames >= pass.budget {
				break
			}
			e.report(job, onProgress, pass, index-e.timeline.StartIndex()+1, iteration)

			word := e.timeline.Word(index)
			for _, segment := range e.timeline.WordSegments(index) {
				frames := e.frameCount(segment.Duration)
				var holdFrame *image.NRGBA

				for i := 0; i < frames; i++ {
					if pass.frames >= pass.budget {
						break words
					}
					if err := ctx.Err(); err != nil {
						job.cancel()
						return nil
					}

					var frame *image.NRGBA
					switch segment.Kind {
					case timeline.SegmentFadeIn:
						opacity := float64(i) / float64(frames)
						prevWord := ""
						prevOpacity := 0.0
						if segment.CrossFade() {
							prevWord = e.timeline.Word(segment.PrevWordIndex)
							prevOpacity = 1 - opacity
						}
						frame = e.compositor.Frame(word, opacity, prevWord, prevOpacity)
					case timeline.SegmentFadeOut:
						opacity := 1 - float64(i)/float64(frames)
						frame = e.compositor.Frame(word, opacity, "", 0)
					case timeline.SegmentGap:
						frame = blank
					default:
						if holdFrame == nil {
							holdFrame = e.compositor.Frame(word, 1, "", 0)
						}
						frame = holdFrame
					}

					if err := writer.WriteFrame(frame); err != nil {
						return fmt.Errorf("frame %d: %w", job.FramesWritten, err)
					}
					job.FramesWritten++
					pass.frames++
					for _, tick := range pass.clock.Advance(float64(pass.frames) / fps) {
						pass.beat = tick.Beat
						pass.bar = tick.Bar
					}
				}
			}
		}
	}

	e.report(job, onProgress, &passState{bar: -1}, 0, loops)
	return nil
}

package player

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/scheduler"
	"github.com/blackcarburning/LyricLooper/internal/render"
)

// applyPreviewColors resolves the appearance into the preview canvas. The
// preview blends text against the background exactly like the exporter, so
// a fade on screen matches the exported pixels.
func (w *Window) applyPreviewColors(appearance model.Appearance) {
	fg, err := render.ParseHex(appearance.FontColor)
	if err != nil {
		fg = render.RGB{R: 255, G: 255, B: 255}
	}
	bg, err := render.ParseHex(appearance.Background)
	if err != nil {
		bg = render.RGB{}
	}
	w.previewFG = fg
	w.previewBg = bg

	w.previewBG.FillColor = bg.NRGBA()
	w.previewBG.Refresh()
	w.previewWord.Color = render.Blend(fg, bg, 0).NRGBA()
	w.previewWord.Refresh()
}

// consumeEvents drains the scheduler subscription until it closes. Widget
// updates are marshaled onto the Fyne thread.
func (w *Window) consumeEvents(events <-chan scheduler.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			w.applyEvent(event)
		})
	}
}

func (w *Window) applyEvent(event scheduler.Event) {
	switch event.Type {
	case scheduler.EventStateChange:
		w.stateLabel.SetText(string(event.State))
		switch event.State {
		case scheduler.StatePaused:
			w.pauseButton.SetText("Resume")
		default:
			w.pauseButton.SetText("Pause")
		}
		if event.State == scheduler.StateIdle || event.State == scheduler.StateCompleted {
			w.previewWord.Text = ""
			w.previewPrev.Text = ""
			w.previewWord.Refresh()
			w.previewPrev.Refresh()
		}

	case scheduler.EventDisplay:
		w.previewWord.Text = event.Word
		w.previewWord.Color = render.Blend(w.previewFG, w.previewBg, event.Opacity).NRGBA()
		w.previewWord.Refresh()

		w.previewPrev.Text = event.PrevWord
		w.previewPrev.Color = render.Blend(w.previewFG, w.previewBg, event.PrevOpacity).NRGBA()
		w.previewPrev.Refresh()

	case scheduler.EventWordProgress:
		w.progressLabel.SetText(fmt.Sprintf("%d/%d", event.WordCurrent, event.WordTotal))

	case scheduler.EventBeat:
		if event.Bar < 0 {
			w.beatLabel.SetText(fmt.Sprintf("count-in %d", event.Beat+1))
		} else {
			w.beatLabel.SetText(fmt.Sprintf("bar %d beat %d", event.Bar+1, event.Beat+1))
		}
		w.elapsedLabel.SetText(fmt.Sprintf("%.1fs", event.Elapsed))

	case scheduler.EventLoop:
		if event.LoopInfinite {
			w.loopLabel.SetText(fmt.Sprintf("loop %d", event.LoopIteration))
		} else if event.LoopTotal > 1 {
			w.loopLabel.SetText(fmt.Sprintf("loop %d/%d", event.LoopIteration, event.LoopTotal))
		} else {
			w.loopLabel.SetText("")
		}
	}
}

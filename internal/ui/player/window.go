// Package player is the main application window: lyric input, timing
// controls, a live preview driven by scheduler events, and export controls.
package player

import (
	"context"
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/scheduler"
	"github.com/blackcarburning/LyricLooper/internal/core/timeline"
	"github.com/blackcarburning/LyricLooper/internal/core/timing"
	"github.com/blackcarburning/LyricLooper/internal/export"
	"github.com/blackcarburning/LyricLooper/internal/render"
)

// Window is the player UI. All widget access happens on the Fyne thread;
// scheduler and export goroutines hand updates over through fyne.Do.
type Window struct {
	window  fyne.Window
	sched   *scheduler.Scheduler
	onApply func(model.Settings)
	onSave  func(model.Settings, string)

	textEntry *widget.Entry

	bpmEntry    *widget.Entry
	sigNum      *widget.Select
	sigDen      *widget.Select
	wordNote    *widget.Select
	fadeInNote  *widget.Select
	fadeOutNote *widget.Select
	gapNote     *widget.Select
	gapNegative *widget.Check
	startWord   *widget.Entry

	loopEnabled  *widget.Check
	loopMode     *widget.RadioGroup
	loopBars     *widget.Entry
	loopTimes    *widget.Entry
	loopInfinite *widget.Check

	countIn         *widget.Check
	metronomeOn     *widget.Check
	metronomeVolume *widget.Slider

	fontFamily *widget.Entry
	fontSize   *widget.Entry
	fontColor  *widget.Entry
	background *widget.Entry
	aspect     *widget.Select

	exportFPS    *widget.Entry
	exportWidth  *widget.Entry
	exportHeight *widget.Entry
	exportFormat *widget.Select
	transparent  *widget.Check
	outputEntry  *widget.Entry

	previewBG   *canvas.Rectangle
	previewWord *canvas.Text
	previewPrev *canvas.Text

	stateLabel    *widget.Label
	progressLabel *widget.Label
	beatLabel     *widget.Label
	elapsedLabel  *widget.Label
	loopLabel     *widget.Label

	playButton    *widget.Button
	pauseButton   *widget.Button
	stopButton    *widget.Button
	restartButton *widget.Button
	exportButton *widget.Button
	cancelButton *widget.Button
	exportBar    *widget.ProgressBar

	exportCancel context.CancelFunc

	previewFG render.RGB
	previewBg render.RGB
}

// New builds the player window from saved settings and lyric text. onApply
// is called with validated settings before each playback or export run;
// onSave is called with the current values when the window closes.
func New(app fyne.App, sched *scheduler.Scheduler, settings model.Settings, text string, onApply func(model.Settings), onSave func(model.Settings, string)) *Window {
	w := &Window{
		window:  app.NewWindow("LyricLooper"),
		sched:   sched,
		onApply: onApply,
		onSave:  onSave,
	}

	w.buildWidgets(settings, text)
	w.window.SetContent(w.buildLayout())
	w.window.Resize(fyne.NewSize(1100, 720))
	w.window.SetCloseIntercept(w.handleClose)

	w.applyPreviewColors(settings.Appearance)
	go w.consumeEvents(sched.Subscribe(128))

	return w
}

// Show displays the window.
func (w *Window) Show() {
	w.window.Show()
}

func (w *Window) buildWidgets(settings model.Settings, text string) {
	w.textEntry = widget.NewMultiLineEntry()
	w.textEntry.SetPlaceHolder("Type or paste lyrics here...")
	w.textEntry.SetText(text)
	w.textEntry.Wrapping = fyne.TextWrapWord

	noteTokens := make([]string, 0, len(timing.Notes()))
	for _, note := range timing.Notes() {
		noteTokens = append(noteTokens, string(note))
	}
	optionalTokens := append([]string{string(timing.NoteNone)}, noteTokens...)

	w.bpmEntry = newIntEntry(settings.Timing.BPM)
	w.sigNum = widget.NewSelect([]string{"2", "3", "4", "5", "6", "7", "9", "12"}, nil)
	w.sigNum.SetSelected(strconv.Itoa(settings.Timing.TimeSigNum))
	w.sigDen = widget.NewSelect([]string{"4", "8"}, nil)
	w.sigDen.SetSelected(strconv.Itoa(settings.Timing.TimeSigDen))

	w.wordNote = widget.NewSelect(noteTokens, nil)
	w.wordNote.SetSelected(string(settings.Timing.WordNote))
	w.fadeInNote = widget.NewSelect(optionalTokens, nil)
	w.fadeInNote.SetSelected(string(settings.Timing.FadeInNote))
	w.fadeOutNote = widget.NewSelect(optionalTokens, nil)
	w.fadeOutNote.SetSelected(string(settings.Timing.FadeOutNote))
	w.gapNote = widget.NewSelect(optionalTokens, nil)
	w.gapNote.SetSelected(string(settings.Timing.GapNote))
	w.gapNegative = widget.NewCheck("Overlap (negative gap)", nil)
	w.gapNegative.SetChecked(settings.Timing.GapNegative)
	w.startWord = newIntEntry(settings.StartWord)

	w.loopEnabled = widget.NewCheck("Loop", nil)
	w.loopEnabled.SetChecked(settings.Loop.Enabled)
	w.loopMode = widget.NewRadioGroup([]string{"All words", "Bars"}, nil)
	if settings.Loop.Mode == model.LoopByBars {
		w.loopMode.SetSelected("Bars")
	} else {
		w.loopMode.SetSelected("All words")
	}
	w.loopBars = newIntEntry(settings.Loop.Bars)
	w.loopTimes = newIntEntry(settings.Loop.Times)
	w.loopInfinite = widget.NewCheck("Infinite", nil)
	w.loopInfinite.SetChecked(settings.Loop.Infinite)

	w.countIn = widget.NewCheck("Count-in", nil)
	w.countIn.SetChecked(settings.CountIn)
	w.metronomeOn = widget.NewCheck("Metronome", nil)
	w.metronomeOn.SetChecked(settings.MetronomeEnabled)
	w.metronomeVolume = widget.NewSlider(0, 1)
	w.metronomeVolume.Step = 0.05
	w.metronomeVolume.Value = settings.MetronomeVolume

	w.fontFamily = widget.NewEntry()
	w.fontFamily.SetText(settings.Appearance.FontFamily)
	w.fontSize = newIntEntry(settings.Appearance.FontSize)
	w.fontColor = widget.NewEntry()
	w.fontColor.SetText(settings.Appearance.FontColor)
	w.background = widget.NewEntry()
	w.background.SetText(settings.Appearance.Background)
	w.aspect = widget.NewSelect([]string{"16:9", "4:3", "1:1", "9:16"}, nil)
	w.aspect.SetSelected(settings.Appearance.AspectRatio)

	w.exportFPS = newIntEntry(settings.Export.FPS)
	w.exportWidth = newIntEntry(settings.Export.Width)
	w.exportHeight = newIntEntry(settings.Export.Height)
	w.exportFormat = widget.NewSelect([]string{
		string(model.FormatMP4),
		string(model.FormatAVI),
		string(model.FormatMOV),
		string(model.FormatPNGSequence),
	}, nil)
	w.exportFormat.SetSelected(string(settings.Export.Format))
	w.transparent = widget.NewCheck("Transparent", nil)
	w.transparent.SetChecked(settings.Export.Transparent)
	w.outputEntry = widget.NewEntry()
	w.outputEntry.SetText("lyrics." + string(settings.Export.Format))

	w.previewBG = canvas.NewRectangle(color.NRGBA{A: 255})
	w.previewWord = canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	w.previewWord.TextSize = 48
	w.previewWord.Alignment = fyne.TextAlignCenter
	w.previewWord.TextStyle = fyne.TextStyle{Bold: true}
	w.previewPrev = canvas.NewText("", color.NRGBA{A: 255})
	w.previewPrev.TextSize = 48
	w.previewPrev.Alignment = fyne.TextAlignCenter
	w.previewPrev.TextStyle = fyne.TextStyle{Bold: true}

	w.stateLabel = widget.NewLabel("idle")
	w.progressLabel = widget.NewLabel("-/-")
	w.beatLabel = widget.NewLabel("beat -")
	w.elapsedLabel = widget.NewLabel("0.0s")
	w.loopLabel = widget.NewLabel("")

	w.playButton = widget.NewButton("Play", w.handlePlay)
	w.pauseButton = widget.NewButton("Pause", w.handlePause)
	w.stopButton = widget.NewButton("Stop", w.sched.Stop)
	w.restartButton = widget.NewButton("Restart", func() {
		w.sched.Stop()
		w.handlePlay()
	})
	w.exportButton = widget.NewButton("Export", w.handleExport)
	w.cancelButton = widget.NewButton("Cancel export", w.handleCancelExport)
	w.cancelButton.Disable()
	w.exportBar = widget.NewProgressBar()
}

func (w *Window) buildLayout() fyne.CanvasObject {
	timingBox := container.NewVBox(
		widget.NewLabelWithStyle("Timing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("BPM"), w.bpmEntry, widget.NewLabel("Time sig"), w.sigNum, widget.NewLabel("/"), w.sigDen),
		container.NewHBox(widget.NewLabel("Word"), w.wordNote, widget.NewLabel("Fade in"), w.fadeInNote, widget.NewLabel("Fade out"), w.fadeOutNote),
		container.NewHBox(widget.NewLabel("Gap"), w.gapNote, w.gapNegative),
		container.NewHBox(widget.NewLabel("Start at word"), w.startWord, w.countIn),
		container.NewHBox(w.metronomeOn, widget.NewLabel("Volume")),
		w.metronomeVolume,
	)

	loopBox := container.NewVBox(
		widget.NewLabelWithStyle("Loop", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(w.loopEnabled, w.loopMode),
		container.NewHBox(widget.NewLabel("Bars"), w.loopBars, widget.NewLabel("Times"), w.loopTimes, w.loopInfinite),
	)

	appearanceBox := container.NewVBox(
		widget.NewLabelWithStyle("Appearance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Font"), w.fontFamily, widget.NewLabel("Size"), w.fontSize),
		container.NewHBox(widget.NewLabel("Color"), w.fontColor, widget.NewLabel("Background"), w.background, widget.NewLabel("Aspect"), w.aspect),
	)

	exportBox := container.NewVBox(
		widget.NewLabelWithStyle("Export", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("FPS"), w.exportFPS, widget.NewLabel("Size"), w.exportWidth, widget.NewLabel("x"), w.exportHeight),
		container.NewHBox(widget.NewLabel("Format"), w.exportFormat, w.transparent),
		container.NewHBox(widget.NewLabel("Output"), w.outputEntry),
		container.NewHBox(w.exportButton, w.cancelButton),
		w.exportBar,
	)

	preview := container.NewStack(
		w.previewBG,
		container.NewCenter(w.previewPrev),
		container.NewCenter(w.previewWord),
	)

	transport := container.NewHBox(
		w.playButton, w.pauseButton, w.stopButton, w.restartButton,
		layout.NewSpacer(),
		w.stateLabel, w.progressLabel, w.beatLabel, w.elapsedLabel, w.loopLabel,
	)

	left := container.NewBorder(
		widget.NewLabelWithStyle("Lyrics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		w.textEntry,
	)
	right := container.NewVBox(timingBox, loopBox, appearanceBox, exportBox)

	center := container.NewHSplit(left, right)
	center.SetOffset(0.55)

	return container.NewBorder(nil, transport, nil, nil,
		container.NewVSplit(preview, center),
	)
}

// collectSettings reads every control into a validated settings value.
func (w *Window) collectSettings() (model.Settings, error) {
	settings := model.DefaultSettings()

	var err error
	if settings.Timing.BPM, err = parseIntField("bpm", w.bpmEntry.Text); err != nil {
		return settings, err
	}
	if settings.Timing.TimeSigNum, err = parseIntField("time signature", w.sigNum.Selected); err != nil {
		return settings, err
	}
	if settings.Timing.TimeSigDen, err = parseIntField("time signature", w.sigDen.Selected); err != nil {
		return settings, err
	}
	settings.Timing.WordNote = timing.Note(w.wordNote.Selected)
	settings.Timing.FadeInNote = timing.Note(w.fadeInNote.Selected)
	settings.Timing.FadeOutNote = timing.Note(w.fadeOutNote.Selected)
	settings.Timing.GapNote = timing.Note(w.gapNote.Selected)
	settings.Timing.GapNegative = w.gapNegative.Checked

	if settings.StartWord, err = parseIntField("start word", w.startWord.Text); err != nil {
		return settings, err
	}

	settings.Loop.Enabled = w.loopEnabled.Checked
	if w.loopMode.Selected == "Bars" {
		settings.Loop.Mode = model.LoopByBars
	} else {
		settings.Loop.Mode = model.LoopAllWords
	}
	if settings.Loop.Bars, err = parseIntField("loop bars", w.loopBars.Text); err != nil {
		return settings, err
	}
	if settings.Loop.Times, err = parseIntField("loop times", w.loopTimes.Text); err != nil {
		return settings, err
	}
	settings.Loop.Infinite = w.loopInfinite.Checked

	settings.CountIn = w.countIn.Checked
	settings.MetronomeEnabled = w.metronomeOn.Checked
	settings.MetronomeVolume = w.metronomeVolume.Value

	settings.Appearance.FontFamily = w.fontFamily.Text
	if settings.Appearance.FontSize, err = parseIntField("font size", w.fontSize.Text); err != nil {
		return settings, err
	}
	settings.Appearance.FontColor = w.fontColor.Text
	settings.Appearance.Background = w.background.Text
	settings.Appearance.AspectRatio = w.aspect.Selected

	if settings.Export.FPS, err = parseIntField("export fps", w.exportFPS.Text); err != nil {
		return settings, err
	}
	if settings.Export.Width, err = parseIntField("export width", w.exportWidth.Text); err != nil {
		return settings, err
	}
	if settings.Export.Height, err = parseIntField("export height", w.exportHeight.Text); err != nil {
		return settings, err
	}
	settings.Export.Format = model.ExportFormat(w.exportFormat.Selected)
	settings.Export.Transparent = w.transparent.Checked

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func (w *Window) handlePlay() {
	settings, err := w.collectSettings()
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.applyPreviewColors(settings.Appearance)
	if w.onApply != nil {
		w.onApply(settings)
	}

	words := timeline.Split(w.textEntry.Text)
	if err := w.sched.Play(settings, words); err != nil {
		dialog.ShowError(err, w.window)
	}
}

func (w *Window) handlePause() {
	if w.sched.State() == scheduler.StatePaused {
		w.sched.Resume()
	} else {
		w.sched.Pause()
	}
}

func (w *Window) handleExport() {
	settings, err := w.collectSettings()
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	words := timeline.Split(w.textEntry.Text)
	exporter, err := export.New(settings, words)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	outputPath := w.outputEntry.Text
	if outputPath == "" {
		dialog.ShowError(fmt.Errorf("output path is empty"), w.window)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.exportCancel = cancel
	w.exportButton.Disable()
	w.cancelButton.Enable()
	w.exportBar.SetValue(0)

	go func() {
		job, err := exporter.Run(ctx, outputPath, func(p export.Progress) {
			fyne.Do(func() {
				w.exportBar.SetValue(float64(p.Percent) / 100)
			})
		})
		fyne.Do(func() {
			w.exportCancel = nil
			w.exportButton.Enable()
			w.cancelButton.Disable()
			switch {
			case err != nil:
				dialog.ShowError(err, w.window)
			case job.Status == export.StatusCancelled:
				w.stateLabel.SetText("export cancelled")
			default:
				w.exportBar.SetValue(1)
				dialog.ShowInformation("Export complete",
					fmt.Sprintf("%d frames written to %s", job.FramesWritten, job.OutputPath),
					w.window)
			}
		})
	}()
}

func (w *Window) handleCancelExport() {
	if w.exportCancel != nil {
		w.exportCancel()
	}
}

func (w *Window) handleClose() {
	if w.exportCancel != nil {
		w.exportCancel()
	}
	if w.onSave != nil {
		if settings, err := w.collectSettings(); err == nil {
			w.onSave(settings, w.textEntry.Text)
		}
	}
	w.window.Close()
}

func newIntEntry(value int) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetText(strconv.Itoa(value))
	return entry
}

func parseIntField(name, value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, value)
	}
	return parsed, nil
}

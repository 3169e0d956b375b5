package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
)

// Compositor rasterizes frames of the word display at a fixed resolution.
// The same compositor output feeds the video encoder and the image sequence
// writer; the live preview computes its text color through the same Blend.
type Compositor struct {
	width       int
	height      int
	fg          RGB
	bg          RGB
	transparent bool
	face        font.Face
}

// NewCompositor builds a compositor for the given resolution and appearance.
// The font size scales with the output height relative to 1080p, matching
// the preview proportions.
func NewCompositor(width, height int, appearance model.Appearance, transparent bool) (*Compositor, error) {
	fg, err := ParseHex(appearance.FontColor)
	if err != nil {
		return nil, err
	}
	bg, err := ParseHex(appearance.Background)
	if err != nil {
		return nil, err
	}

	size := int(float64(appearance.FontSize)*float64(height)/1080 + 0.5)
	if size < 1 {
		size = 1
	}

	return &Compositor{
		width:       width,
		height:      height,
		fg:          fg,
		bg:          bg,
		transparent: transparent,
		face:        LoadFace(appearance.FontFamily, size),
	}, nil
}

// Frame renders one frame: the current word at the given opacity, and an
// optional outgoing previous word drawn underneath during a cross-dissolve.
// With a transparent background the canvas stays fully transparent and text
// alpha follows opacity; otherwise text color is blended into the
// background fill.
func (compositor *Compositor) Frame(word string, opacity float64, prevWord string, prevOpacity float64) *image.NRGBA {
	frame := image.NewNRGBA(image.Rect(0, 0, compositor.width, compositor.height))
	if !compositor.transparent {
		draw.Draw(frame, frame.Bounds(), image.NewUniform(compositor.bg.NRGBA()), image.Point{}, draw.Src)
	}

	if prevWord != "" && prevOpacity > 0 {
		compositor.drawWord(frame, prevWord, prevOpacity)
	}
	if word != "" && opacity > 0 {
		compositor.drawWord(frame, word, opacity)
	}
	return frame
}

// Blank renders an empty frame, used for gap segments.
func (compositor *Compositor) Blank() *image.NRGBA {
	return compositor.Frame("", 0, "", 0)
}

func (compositor *Compositor) drawWord(frame *image.NRGBA, word string, opacity float64) {
	var src color.NRGBA
	if compositor.transparent {
		if opacity < 0 {
			opacity = 0
		}
		if opacity > 1 {
			opacity = 1
		}
		src = color.NRGBA{
			R: compositor.fg.R,
			G: compositor.fg.G,
			B: compositor.fg.B,
			A: uint8(opacity*255 + 0.5),
		}
	} else {
		src = Blend(compositor.fg, compositor.bg, opacity).NRGBA()
	}

	drawer := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(src),
		Face: compositor.face,
	}

	advance := drawer.MeasureString(word)
	metrics := compositor.face.Metrics()
	x := (compositor.width - advance.Round()) / 2
	y := compositor.height/2 + (metrics.Ascent.Round()-metrics.Descent.Round())/2
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(word)
}

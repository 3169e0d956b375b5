// Package audio synthesizes the metronome click. Audio output is optional:
// if the speaker cannot be opened the metronome degrades to silence and the
// rest of the application is unaffected.
package audio

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	clickSeconds = 0.05
	clickHz      = 800.0
	accentHz     = 1200.0
)

// Metronome plays short synthesized clicks through the system speaker.
// Accented clicks mark the first beat of a bar.
type Metronome struct {
	enabled bool
	volume  float64
	click   [][2]float64
	accent  [][2]float64
}

// NewMetronome opens the speaker and prepares the click samples. When the
// speaker is unavailable the returned metronome is silent.
func NewMetronome(volume float64) *Metronome {
	m := &Metronome{volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("metronome: speaker unavailable, running silent: %v", err)
		return m
	}
	m.enabled = true
	m.click = synthesizeClick(clickHz)
	m.accent = synthesizeClick(accentHz)
	return m
}

// synthesizeClick renders a short decaying sine burst.
func synthesizeClick(freq float64) [][2]float64 {
	n := int(clickSeconds * float64(sampleRate))
	samples := make([][2]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		decay := 1 - float64(i)/float64(n)
		v := math.Sin(2*math.Pi*freq*t) * decay * decay
		samples[i] = [2]float64{v, v}
	}
	return samples
}

// SetVolume scales click loudness, 0 to 1.
func (m *Metronome) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	speaker.Lock()
	m.volume = volume
	speaker.Unlock()
}

// Click plays one click. It returns immediately; the sample plays out on
// the speaker's mixer goroutine.
func (m *Metronome) Click(accent bool) {
	if !m.enabled {
		return
	}
	samples := m.click
	if accent {
		samples = m.accent
	}
	speaker.Play(&clickStreamer{samples: samples, volume: m.volume})
}

// Close releases the speaker.
func (m *Metronome) Close() {
	if !m.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.enabled = false
}

// clickStreamer streams one pre-rendered click at a fixed volume.
type clickStreamer struct {
	samples [][2]float64
	pos     int
	volume  float64
}

func (s *clickStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy(out, s.samples[s.pos:])
	for i := 0; i < n; i++ {
		out[i][0] *= s.volume
		out[i][1] *= s.volume
	}
	s.pos += n
	return n, true
}

func (s *clickStreamer) Err() error { return nil }

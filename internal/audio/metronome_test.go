package audio

import (
	"math"
	"testing"
)

func TestSynthesizeClick(t *testing.T) {
	samples := synthesizeClick(clickHz)

	want := int(clickSeconds * float64(sampleRate))
	if len(samples) != want {
		t.Fatalf("click length = %d, want %d", len(samples), want)
	}
	for i, s := range samples {
		if s[0] != s[1] {
			t.Fatalf("sample %d is not mono: %v", i, s)
		}
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("sample %d out of range: %v", i, s[0])
		}
	}
	// the burst decays to near silence
	if last := samples[len(samples)-1][0]; math.Abs(last) > 1e-4 {
		t.Errorf("final sample = %v, want ~0", last)
	}
}

func TestClickStreamer(t *testing.T) {
	s := &clickStreamer{samples: [][2]float64{{1, 1}, {0.5, 0.5}}, volume: 0.5}

	out := make([][2]float64, 4)
	n, ok := s.Stream(out)
	if n != 2 || !ok {
		t.Fatalf("Stream returned (%d, %v), want (2, true)", n, ok)
	}
	if out[0][0] != 0.5 || out[1][0] != 0.25 {
		t.Errorf("volume not applied: %v", out[:2])
	}
	if n, ok := s.Stream(out); n != 0 || ok {
		t.Errorf("drained streamer returned (%d, %v), want (0, false)", n, ok)
	}
}

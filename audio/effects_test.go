package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440.0, 100*time.Millisecond, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)

	if !ok {
		t.Error("Expected stream to return ok=true")
	}
	if n != 100 {
		t.Errorf("Expected to stream 100 samples, got %d", n)
	}

	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d differs between channels", i)
		}
	}

	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestOscillatorSquare verifies square wave generation
func TestOscillatorSquare(t *testing.T) {
	osc := NewOscillator(220.0, 50*time.Millisecond, WaveSquare, beep.SampleRate(44100))

	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)

	for i := 0; i < n; i++ {
		val := samples[i][0]
		if val != -1.0 && val != 1.0 {
			t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, val)
		}
	}
}

// TestOscillatorTriangle verifies the triangle peaks at mid-period
func TestOscillatorTriangle(t *testing.T) {
	// 4 samples per period
	osc := NewOscillator(11025, 10*time.Millisecond, WaveTriangle, beep.SampleRate(44100))

	samples := make([][2]float64, 4)
	osc.Stream(samples)

	want := []float64{-1, 0, 1, 0}
	for i, w := range want {
		if d := samples[i][0] - w; d > 1e-9 || d < -1e-9 {
			t.Errorf("Triangle sample %d: want %f, got %f", i, w, samples[i][0])
		}
	}
}

// TestOscillatorDuration verifies the stream ends after its duration
func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(100, 10*time.Millisecond, WaveSaw, rate)

	samples := make([][2]float64, 64)
	n, ok := osc.Stream(samples)
	if n != 10 || !ok {
		t.Fatalf("Expected 10 samples, got %d (ok=%v)", n, ok)
	}

	n, ok = osc.Stream(samples)
	if n != 0 || ok {
		t.Errorf("Expected drained oscillator, got %d (ok=%v)", n, ok)
	}
}

// TestEnvelopeShape verifies attack ramps from silence and release ends near zero
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, rate) // constant 1.0
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate)

	samples := make([][2]float64, 100)
	n, _ := env.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}

	if samples[0][0] != 0 {
		t.Errorf("Attack should start silent, got %f", samples[0][0])
	}
	if samples[5][0] <= 0 || samples[5][0] >= 1 {
		t.Errorf("Mid-attack should be partial, got %f", samples[5][0])
	}
	if samples[50][0] != 1 {
		t.Errorf("Sustain should be full volume, got %f", samples[50][0])
	}
	if samples[99][0] > 0.1 {
		t.Errorf("Release should approach zero, got %f", samples[99][0])
	}
}

// TestEnvelopeShortNote verifies ramps never exceed the note
func TestEnvelopeShortNote(t *testing.T) {
	rate := beep.SampleRate(1000)
	duration := 4 * time.Millisecond
	osc := NewOscillator(0, duration, WaveSquare, rate)
	env := NewEnvelope(osc, duration, 10*time.Millisecond, 40*time.Millisecond, rate)

	samples := make([][2]float64, 16)
	n, _ := env.Stream(samples)
	if n != 4 {
		t.Fatalf("Expected 4 samples, got %d", n)
	}
	for i := 0; i < n; i++ {
		if samples[i][0] < 0 || samples[i][0] > 1 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
	}
}

// TestVolumeSilent verifies zero volume does not produce -Inf gain
func TestVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newVolume(NewOscillator(0, 5*time.Millisecond, WaveSquare, rate), 0)

	samples := make([][2]float64, 5)
	n, _ := s.Stream(samples)
	for i := 0; i < n; i++ {
		if samples[i][0] != 0 {
			t.Errorf("Expected silence at %d, got %f", i, samples[i][0])
		}
	}
}

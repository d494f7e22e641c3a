package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/vi-composer/melody"
)

// Render builds a streamer that plays the melody once
func Render(m melody.Melody, cfg Config) (beep.Streamer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rate := beep.SampleRate(cfg.SampleRate)

	events := Events(m, cfg.BPM, cfg.BaseDuration)
	parts := make([]beep.Streamer, 0, len(events))
	for _, ev := range events {
		if ev.IsRest() {
			parts = append(parts, beep.Silence(rate.N(ev.Duration)))
			continue
		}
		parts = append(parts, NewVoice(ev.Pitch, ev.Duration, cfg))
	}
	return beep.Seq(parts...), nil
}

// WriteWAV encodes the rendered melody as a WAV file
func WriteWAV(w io.WriteSeeker, m melody.Melody, cfg Config) error {
	s, err := Render(m, cfg)
	if err != nil {
		return err
	}
	if err := wav.Encode(w, s, cfg.Format()); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// WritePCM streams s as interleaved stereo s16le, the format playback backends read
func WritePCM(w io.Writer, s beep.Streamer) error {
	samples := make([][2]float64, 512)
	buf := make([]byte, len(samples)*4)
	for {
		n, ok := s.Stream(samples)
		if n > 0 {
			floatToBytes(samples[:n], buf)
			if _, err := w.Write(buf[:n*4]); err != nil {
				return fmt.Errorf("%w: %w", ErrPipeClosed, err)
			}
		}
		if !ok {
			return s.Err()
		}
	}
}

// floatToBytes converts stereo float frames to int16 LE bytes with hard limiting
func floatToBytes(in [][2]float64, out []byte) {
	for i, frame := range in {
		for ch, v := range frame {
			v = math.Max(-1, math.Min(1, v))
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(int16(v*32767)))
		}
	}
}

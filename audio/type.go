package audio

import (
	"errors"
	"fmt"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

var waveNames = map[string]WaveType{
	"sine":     WaveSine,
	"square":   WaveSquare,
	"saw":      WaveSaw,
	"triangle": WaveTriangle,
}

// ParseWave maps a lower-case wave name to its type
func ParseWave(name string) (WaveType, error) {
	if w, ok := waveNames[name]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("%w: unknown wave %q", ErrInvalidAudioConfig, name)
}

func (w WaveType) String() string {
	for name, v := range waveNames {
		if v == w {
			return name
		}
	}
	return "unknown"
}

// BackendType identifies the playback backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
)

// BackendConfig describes a CLI audio backend fed raw s16le PCM on stdin
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend     = errors.New("no compatible audio backend found")
	ErrPipeClosed         = errors.New("audio pipe closed")
	ErrInvalidAudioConfig = errors.New("invalid audio config")
)

package audio

import (
	"os/exec"
	"strconv"

	"github.com/gopxl/beep"
)

// backendSpec builds the command line for one tool from the render format
type backendSpec struct {
	kind BackendType
	name string
	bin  string
	args func(f beep.Format) []string
}

// backends in probe order: pacat > pw-cat > aplay > play (sox) > ffplay
var backends = []backendSpec{
	{BackendPulse, "pacat", "pacat", func(f beep.Format) []string {
		return []string{
			"--raw",
			"--format=s" + bits(f) + "le",
			"--rate=" + rate(f),
			"--channels=" + channels(f),
			"--latency-msec=50",
			"--playback",
		}
	}},
	{BackendPipeWire, "pw-cat", "pw-cat", func(f beep.Format) []string {
		return []string{
			"--playback",
			"--format=s" + bits(f),
			"--rate=" + rate(f),
			"--channels=" + channels(f),
			"--latency=50ms",
			"-",
		}
	}},
	{BackendALSA, "aplay", "aplay", func(f beep.Format) []string {
		return []string{"-t", "raw", "-f", "S" + bits(f) + "_LE", "-r", rate(f), "-c", channels(f), "-q"}
	}},
	{BackendSoX, "sox", "play", func(f beep.Format) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", bits(f), "-c", channels(f), "-r", rate(f), "-", "-d", "-q"}
	}},
	{BackendFFplay, "ffplay", "ffplay", func(f beep.Format) []string {
		return []string{
			"-nodisp", "-autoexit",
			"-f", "s" + bits(f) + "le",
			"-ac", channels(f),
			"-ar", rate(f),
			"-probesize", "32", "-analyzeduration", "0",
			"-i", "pipe:0",
			"-loglevel", "quiet",
		}
	}},
}

func bits(f beep.Format) string     { return strconv.Itoa(8 * f.Precision) }
func rate(f beep.Format) string     { return strconv.Itoa(int(f.SampleRate)) }
func channels(f beep.Format) string { return strconv.Itoa(f.NumChannels) }

// DetectBackend returns the first installed tool that reads the rendered PCM on stdin
func DetectBackend(cfg Config) (*BackendConfig, error) {
	f := cfg.Format()
	for _, b := range backends {
		path, err := exec.LookPath(b.bin)
		if err != nil {
			continue
		}
		return &BackendConfig{Type: b.kind, Name: b.name, Path: path, Args: b.args(f)}, nil
	}
	return nil, ErrNoAudioBackend
}

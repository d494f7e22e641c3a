package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-composer/config"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/report"
	"github.com/lixenwraith/vi-composer/scale"
)

func parseArgs(t *testing.T, args ...string) (*options, func() error, *bytes.Buffer) {
	t.Helper()
	var opts options
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse(args))
	var out bytes.Buffer
	return &opts, func() error { return run(context.Background(), fs, &opts, &out) }, &out
}

func TestRunWritesArtefacts(t *testing.T) {
	dir := t.TempDir()
	_, runFn, out := parseArgs(t,
		"-out", dir,
		"-population", "8",
		"-generations", "2",
		"-seed", "3",
		"-measures", "2",
		"-top", "2",
		"-key", "A Minor",
	)
	require.NoError(t, runFn())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	id := strings.TrimSpace(strings.TrimPrefix(lines[0], "run"))

	mgr := report.NewManager(dir)
	dto, err := mgr.Load(id)
	require.NoError(t, err)
	assert.Len(t, dto.Melodies, 2)
	assert.Len(t, dto.History, 3)
	assert.Equal(t, "3", dto.Settings.Seed)
	assert.Len(t, dto.Melodies[0].Tokens, 16)

	for _, path := range []string{mgr.PlotPath(id), filepath.Join(dir, id+".wav")} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, out.String(), "A Harmonic Minor")
}

func TestRunSkipsOptionalArtefacts(t *testing.T) {
	dir := t.TempDir()
	_, runFn, _ := parseArgs(t,
		"-out", dir, "-population", "4", "-generations", "1", "-seed", "1",
		"-plot=false", "-wav=false",
	)
	require.NoError(t, runFn())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".toml", filepath.Ext(entries[0].Name()))
}

func TestRunRejectsBadInput(t *testing.T) {
	_, runFn, _ := parseArgs(t, "-out", t.TempDir(), "-meter", "four")
	assert.ErrorIs(t, runFn(), melody.ErrInvalidMeter)

	_, runFn, _ = parseArgs(t, "-out", t.TempDir(), "-low", "A-3")
	assert.ErrorIs(t, runFn(), scale.ErrRangeMismatch)

	_, runFn, _ = parseArgs(t, "-out", t.TempDir(), "-config", filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, runFn(), config.ErrInvalidFile)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse([]string{"-low", "48", "-high", "C-6", "-wave", "saw"}))

	cfg := config.Default()
	require.NoError(t, opts.apply(fs, &cfg))

	assert.Equal(t, scale.Pitch(48), cfg.Composer.LowPitch)
	assert.Equal(t, scale.Named("C-6"), cfg.Composer.HighPitch)
	assert.Equal(t, config.Default().Composer.Key, cfg.Composer.Key)
	assert.Equal(t, config.Default().Measures, cfg.Measures)
}

// readyScreen signals once the monitor has initialised the terminal
type readyScreen struct {
	tcell.SimulationScreen
	ready chan struct{}
}

func (s *readyScreen) Init() error {
	err := s.SimulationScreen.Init()
	close(s.ready)
	return err
}

func TestRunQuitFromMonitorIsClean(t *testing.T) {
	screen := &readyScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8"), ready: make(chan struct{})}
	orig := newScreen
	newScreen = func() (tcell.Screen, error) { return screen, nil }
	t.Cleanup(func() { newScreen = orig })

	go func() {
		<-screen.ready
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}()

	dir := t.TempDir()
	_, runFn, out := parseArgs(t,
		"-out", dir, "-view",
		"-population", "8", "-generations", "200000", "-seed", "2",
	)
	require.NoError(t, runFn())
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "an abandoned run writes nothing")
}

func TestRunMainExitCodes(t *testing.T) {
	assert.Equal(t, 2, runMain([]string{"-no-such-flag"}))
	assert.Equal(t, 1, runMain([]string{"-out", t.TempDir(), "-meter", "four"}))
	assert.Equal(t, 0, runMain([]string{
		"-out", t.TempDir(), "-population", "4", "-generations", "1", "-plot=false", "-wav=false",
	}))
}

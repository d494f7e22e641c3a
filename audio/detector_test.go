package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-composer/melody"
)

// fakeTools puts executable stand-ins for the named tools on an isolated PATH
func fakeTools(t *testing.T, script string, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(script), 0755))
	}
	t.Setenv("PATH", dir)
	return dir
}

func TestDetectBackendNone(t *testing.T) {
	fakeTools(t, "")
	_, err := DetectBackend(testConfig())
	assert.ErrorIs(t, err, ErrNoAudioBackend)
}

func TestDetectBackendArgsFollowFormat(t *testing.T) {
	dir := fakeTools(t, "#!/bin/sh\n", "aplay")

	b, err := DetectBackend(testConfig())
	require.NoError(t, err)
	assert.Equal(t, BackendALSA, b.Type)
	assert.Equal(t, filepath.Join(dir, "aplay"), b.Path)
	assert.Equal(t, []string{"-t", "raw", "-f", "S16_LE", "-r", "8000", "-c", "2", "-q"}, b.Args)
}

func TestDetectBackendPriority(t *testing.T) {
	fakeTools(t, "#!/bin/sh\n", "play", "ffplay", "pacat")

	b, err := DetectBackend(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "pacat", b.Name)
	assert.Contains(t, b.Args, "--rate=8000")
	assert.Contains(t, b.Args, "--channels=2")
	assert.Contains(t, b.Args, "--format=s16le")
}

func TestPlayerPipesPCM(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pcm.raw")
	t.Setenv("PCM_OUT", out)
	fakeTools(t, "#!/bin/sh\nexec /bin/cat > \"$PCM_OUT\"\n", "aplay")

	player, err := NewPlayer(testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendALSA, player.Backend().Type)

	// two tokens of half a second at 8 kHz, stereo s16
	require.NoError(t, player.Play(context.Background(), melody.Melody{60, melody.Rest}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(8000*4), info.Size())
}

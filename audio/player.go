package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/lixenwraith/vi-composer/melody"
)

// Player pipes rendered melodies to a system audio tool
type Player struct {
	backend *BackendConfig
	config  Config
	logger  *slog.Logger
}

// NewPlayer detects a backend for the configured sample rate
func NewPlayer(cfg Config, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend, err := DetectBackend(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("audio backend selected", "backend", backend.Name, "path", backend.Path)
	return &Player{backend: backend, config: cfg, logger: logger}, nil
}

// Backend is the detected tool
func (p *Player) Backend() *BackendConfig { return p.backend }

// Play blocks until the melody has been written and the backend exits, or ctx is done
func (p *Player) Play(ctx context.Context, m melody.Melody) error {
	s, err := Render(m, p.config)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.backend.Path, p.backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open %s stdin: %w", p.backend.Name, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("start %s: %w", p.backend.Name, err)
	}

	writeErr := WritePCM(stdin, s)
	stdin.Close()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if writeErr != nil {
		p.logger.Warn("audio pipe failed", "backend", p.backend.Name, "error", writeErr)
		return writeErr
	}
	if waitErr != nil {
		return fmt.Errorf("%s exited: %w", p.backend.Name, waitErr)
	}
	return nil
}

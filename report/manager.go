package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/scale"
)

// Manager handles save/load of run reports under one directory
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the report path for a run id
func (m *Manager) FilePath(id string) string {
	return filepath.Join(m.basePath, id+".toml")
}

// PlotPath returns the fitness plot path for a run id
func (m *Manager) PlotPath(id string) string {
	return filepath.Join(m.basePath, id+".png")
}

// Exists checks if a report exists
func (m *Manager) Exists(id string) bool {
	_, err := os.Stat(m.FilePath(id))
	return err == nil
}

// Save writes the report to disk and returns its path
func (m *Manager) Save(dto RunDTO) (string, error) {
	if dto.ID == "" {
		return "", fmt.Errorf("report has no run id")
	}
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(dto); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := m.FilePath(dto.ID)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a report from disk
func (m *Manager) Load(id string) (RunDTO, error) {
	var dto RunDTO
	if _, err := toml.DecodeFile(m.FilePath(id), &dto); err != nil {
		return dto, fmt.Errorf("decode report %s: %w", id, err)
	}
	return dto, nil
}

// Notation renders pitches by name, "-" for sustains and "." for rests
func Notation(m melody.Melody) string {
	parts := make([]string, len(m))
	for i, t := range m {
		switch {
		case t.IsSustain():
			parts[i] = "-"
		case t.IsRest():
			parts[i] = "."
		default:
			parts[i] = scale.PitchName(int(t))
		}
	}
	return strings.Join(parts, " ")
}

func formatSeed(seed uint64) string { return strconv.FormatUint(seed, 10) }

// ParseSeed reads a seed written by a report
func ParseSeed(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

// Package view draws composition progress and the best melody as a terminal piano roll
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/scale"
)

const (
	labelWidth   = 6
	headerRows   = 4
	footerRows   = 2
	redrawPeriod = 100 * time.Millisecond
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Reverse(true).Bold(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleSustain = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleInScale = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBar     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

// Monitor renders a History and the current best melody onto a tcell screen.
// Setters may be called from any goroutine; drawing happens on the Run goroutine.
type Monitor struct {
	screen  tcell.Screen
	title   string
	history *tracking.History
	beatLen int
	scale   melody.PitchSet

	mu      sync.Mutex
	best    melody.Melody
	fitness float64
	status  string
}

// NewMonitor binds a monitor to an initialized screen
func NewMonitor(screen tcell.Screen, title string, history *tracking.History, beatLen int, scaleSet melody.PitchSet) *Monitor {
	return &Monitor{
		screen:  screen,
		title:   title,
		history: history,
		beatLen: beatLen,
		scale:   scaleSet,
		status:  "composing",
	}
}

// SetMelody replaces the melody shown in the piano roll
func (m *Monitor) SetMelody(mel melody.Melody, fitness float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best = mel.Clone()
	m.fitness = fitness
}

// SetStatus replaces the footer status text
func (m *Monitor) SetStatus(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = s
}

// Run redraws until ctx is done or the user quits with q, Esc or Ctrl-C.
// Returns true when the user asked to quit.
func (m *Monitor) Run(ctx context.Context) bool {
	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := m.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(redrawPeriod)
	defer ticker.Stop()

	m.Draw()
	for {
		select {
		case <-ctx.Done():
			m.Draw()
			return false
		case <-ticker.C:
			m.Draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return true
				}
			case *tcell.EventResize:
				m.screen.Sync()
				m.Draw()
			}
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Draw renders one frame
func (m *Monitor) Draw() {
	m.mu.Lock()
	best, fitness, status := m.best, m.fitness, m.status
	m.mu.Unlock()

	m.screen.Clear()
	width, height := m.screen.Size()

	drawText(m.screen, 0, 0, width, styleTitle, fmt.Sprintf(" %-*s", width-1, m.title))
	m.drawStats(width)
	m.drawRoll(best, width, height-headerRows-footerRows)

	footer := fmt.Sprintf("%s  best %.3f  q quit", status, fitness)
	drawText(m.screen, 0, height-1, width, styleLabel, footer)

	m.screen.Show()
}

func (m *Monitor) drawStats(width int) {
	latest, ok := m.history.Latest()
	total := m.history.Generations()
	if !ok {
		drawText(m.screen, 0, 1, width, styleDefault, fmt.Sprintf("generation -/%d", total))
		return
	}

	line := fmt.Sprintf("generation %d/%d  best %.3f  avg %.3f  worst %.3f  std %.3f",
		latest.Generation, total, latest.Best, latest.Average, latest.Worst, latest.StdDev)
	drawText(m.screen, 0, 1, width, styleDefault, line)

	progress := m.history.Progress()
	barWidth := max(0, width-8)
	filled := int(progress * float64(barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
	drawText(m.screen, 0, 2, width, styleBar, fmt.Sprintf("%s %3d%%", bar, int(progress*100)))
}

// drawRoll draws pitches top (high) to bottom (low) with an axis row beneath
func (m *Monitor) drawRoll(mel melody.Melody, width, rows int) {
	pitches := mel.Pitches()
	if len(pitches) == 0 || rows < 2 {
		return
	}
	lo, hi := pitches[0], pitches[0]
	for _, p := range pitches {
		lo, hi = min(lo, p), max(hi, p)
	}
	// Keep the lowest pitches when the roll does not fit
	hi = min(hi, lo+rows-2)

	cols := min(len(mel), width-labelWidth)
	top := headerRows
	for p := hi; p >= lo; p-- {
		y := top + hi - p
		label := styleLabel
		if m.scale.Contains(p) {
			label = styleInScale
		}
		drawText(m.screen, 0, y, labelWidth, label, scale.PitchName(p))
	}

	for _, ev := range mel.Events() {
		p, ok := ev.Head.Pitch()
		if !ok || p > hi {
			continue
		}
		y := top + hi - p
		for x := ev.Start; x < ev.Start+ev.Length && x < cols; x++ {
			r, style := '─', styleSustain
			if x == ev.Start {
				r, style = '█', styleHead
			}
			m.screen.SetContent(labelWidth+x, y, r, nil, style)
		}
	}

	axis := top + hi - lo + 1
	for x := 0; x < cols; x++ {
		r := ' '
		switch {
		case mel[x].IsRest():
			r = '.'
		case m.beatLen > 0 && x%m.beatLen == 0:
			r = '|'
		}
		m.screen.SetContent(labelWidth+x, axis, r, nil, styleLabel)
	}
}

func drawText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}

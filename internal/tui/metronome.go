// Package tui is the terminal metronome front end.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Conceptual-Machines/maestro-api/internal/theory"
	"github.com/Conceptual-Machines/maestro-api/internal/timing"
)

const tempoStep = 5.0

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF79C6"))
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FF5555")).Width(5).Align(lipgloss.Center)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#50FA7B")).Width(5).Align(lipgloss.Center)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Width(5).Align(lipgloss.Center)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// tickMsg carries the generation it was scheduled under so ticks from a
// stopped run are dropped
type tickMsg struct {
	generation int
}

// Metronome is a bubbletea model that counts beats through bars of a meter
type Metronome struct {
	bpm        float64
	meter      timing.Meter
	key        theory.Note
	scale      string
	scaleNotes []theory.Note

	playing    bool
	beat       int // 0-based beat within the bar, -1 before the first click
	bar        int // 1-based
	generation int
}

// NewMetronome clamps bpm to the metronome range. key and scale are shown
// as the jam context and may be empty.
func NewMetronome(bpm float64, meter timing.Meter, key theory.Note, scale string) *Metronome {
	m := &Metronome{
		bpm:   timing.ClampTempo(bpm),
		meter: meter,
		key:   key,
		scale: scale,
		beat:  -1,
	}
	if key != "" {
		m.scaleNotes = theory.ResolveScale(key, scale, "")
	}
	return m
}

func (m *Metronome) BPM() float64 { return m.bpm }

func (m *Metronome) Playing() bool { return m.playing }

// Position returns the 1-based bar and beat of the last click
func (m *Metronome) Position() (bar, beat int) {
	return m.bar, m.beat + 1
}

// Interval is the time between clicks at the current tempo
func (m *Metronome) Interval() time.Duration {
	return time.Duration(timing.TempoToMilliseconds(m.bpm) * float64(time.Millisecond))
}

func (m *Metronome) Init() tea.Cmd {
	return nil
}

func (m *Metronome) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.playing || msg.generation != m.generation {
			return m, nil
		}
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

func (m *Metronome) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.playing = false
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
		m.generation++
		if m.playing {
			m.beat, m.bar = -1, 0
			m.advance()
			return m, m.tick()
		}
	case "+", "=":
		m.bpm = timing.ClampTempo(m.bpm + tempoStep)
	case "-", "_":
		m.bpm = timing.ClampTempo(m.bpm - tempoStep)
	}
	return m, nil
}

func (m *Metronome) advance() {
	m.beat++
	if m.beat >= m.meter.BeatsPerBar || m.bar == 0 {
		m.beat = 0
		m.bar++
	}
}

func (m *Metronome) tick() tea.Cmd {
	generation := m.generation
	return tea.Tick(m.Interval(), func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m *Metronome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Maestro Metronome") + "\n\n")
	b.WriteString(fmt.Sprintf("Tempo: %.0f BPM (%.0f ms)   Meter: %s\n", m.bpm, timing.TempoToMilliseconds(m.bpm), m.meter))
	if m.key != "" {
		notes := make([]string, len(m.scaleNotes))
		for i, n := range m.scaleNotes {
			notes[i] = string(n)
		}
		scale := m.scale
		if _, ok := theory.LookupScale(scale); !ok {
			scale = theory.DefaultScale
		}
		b.WriteString(fmt.Sprintf("Key: %s %s   %s\n", m.key, scale, strings.Join(notes, " ")))
	}
	b.WriteString("\n")

	cells := make([]string, m.meter.BeatsPerBar)
	for i := range cells {
		label := fmt.Sprintf("%d", i+1)
		switch {
		case m.playing && i == m.beat && i == 0:
			cells[i] = accentStyle.Render(label)
		case m.playing && i == m.beat:
			cells[i] = activeStyle.Render(label)
		default:
			cells[i] = idleStyle.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	if m.playing {
		b.WriteString(playingStyle.Render(fmt.Sprintf("  Playing  bar %d", m.bar)))
	} else {
		b.WriteString(stoppedStyle.Render("  Stopped"))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("space: start/stop • +/-: tempo • q: quit"))
	b.WriteString("\n")
	return b.String()
}

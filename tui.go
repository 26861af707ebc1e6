package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mictap/capture"
)

// TUI message types
type AudioLevelMsg struct{ Level float64 }
type captureStateMsg struct{ running bool }
type quitRequestMsg struct{}
type tickMsg time.Time

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	meterLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	meterMid    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	meterHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const meterWidth = 40

type tuiModel struct {
	manager  *capture.Manager
	deviceID string
	meter    *levelMeter

	running   bool
	startedAt time.Time
	elapsed   float64
	level     float64
	peak      float64
	width     int
}

func newTUIProgram(manager *capture.Manager, deviceID string, meter *levelMeter) *tea.Program {
	m := tuiModel{
		manager:   manager,
		deviceID:  deviceID,
		meter:     meter,
		running:   true,
		startedAt: time.Now(),
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

// runTUI blocks until the user quits or a shutdown signal arrives.
func runTUI(manager *capture.Manager, deviceID string, meter *levelMeter, stop <-chan os.Signal) error {
	p := newTUIProgram(manager, deviceID, meter)
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	done := make(chan struct{})
	go func() {
		select {
		case <-stop:
			p.Send(quitRequestMsg{})
		case <-done:
		}
	}()

	_, err := p.Run()
	close(done)

	tuiMu.Lock()
	tuiProgram = nil
	tuiMu.Unlock()
	return err
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func tuiTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ":
			return m, m.toggleCapture()
		}

	case quitRequestMsg:
		return m, tea.Quit

	case tickMsg:
		// Running state is owned by the manager; syncing here also
		// catches sessions that died after a fire-and-forget start.
		m.running = m.manager.Running()
		if m.running {
			m.elapsed = time.Since(m.startedAt).Seconds()
		}
		// Decay so the meter falls back between buffers.
		m.level *= 0.8
		return m, tuiTick()

	case captureStateMsg:
		m.running = msg.running
		if msg.running {
			m.startedAt = time.Now()
			m.elapsed = 0
			m.peak = 0
		}

	case AudioLevelMsg:
		m.level = msg.Level
		if msg.Level > m.peak {
			m.peak = msg.Level
		}
	}

	return m, nil
}

// toggleCapture flips the session off the Update goroutine. Start and
// Stop both run in a command so a slow stop never freezes the UI.
func (m tuiModel) toggleCapture() tea.Cmd {
	manager := m.manager
	deviceID := m.deviceID
	if m.running {
		return func() tea.Msg {
			manager.Stop()
			return captureStateMsg{running: false}
		}
	}
	return func() tea.Msg {
		if err := manager.Start(deviceID); err != nil {
			return captureStateMsg{running: false}
		}
		return captureStateMsg{running: true}
	}
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mictap"))
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(activeStyle.Render("● capturing"))
	} else {
		b.WriteString(idleStyle.Render("○ stopped"))
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %s", m.deviceID)))
	b.WriteString("\n\n")

	b.WriteString(renderMeter(m.level, m.peak))
	b.WriteString("\n")

	frames, buffers := m.meter.totals()
	b.WriteString(labelStyle.Render(fmt.Sprintf("%7.1fs   %d samples   %d buffers", m.elapsed, frames, buffers)))
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("space: start/stop   q: quit"))
	b.WriteString("\n")

	return b.String()
}

func renderMeter(level, peak float64) string {
	filled := int(level * float64(meterWidth) * 3) // RMS of speech rarely nears 1.0
	if filled > meterWidth {
		filled = meterWidth
	}
	peakPos := int(peak * float64(meterWidth) * 3)
	if peakPos >= meterWidth {
		peakPos = meterWidth - 1
	}

	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		ch := " "
		if i < filled {
			ch = "█"
		} else if i == peakPos && peak > 0 {
			ch = "┆"
		}
		switch {
		case i >= meterWidth*3/4:
			b.WriteString(meterHigh.Render(ch))
		case i >= meterWidth/2:
			b.WriteString(meterMid.Render(ch))
		default:
			b.WriteString(meterLow.Render(ch))
		}
	}
	return "[" + b.String() + "]"
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hvirtan/pianola"
	"github.com/hvirtan/pianola/midifile"
	"github.com/hvirtan/pianola/player"
)

type uiState int

const (
	stateMenu uiState = iota
	statePlaying
)

// refreshMsg drives the UI poll: the model state channel is drained at a
// fixed cadence instead of re-rendering on every player tick.
type refreshMsg struct{}

type model struct {
	broker  *player.Broker
	midiDir string

	state   uiState
	files   []string
	cursor  int
	current string // base name of the loaded file

	status player.State
	alert  player.Alert
	level  float32 // peak of the last rendered audio block
	errMsg string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	loopStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	soundingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	liveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newModel(broker *player.Broker, midiDir, initialFile string) model {
	m := model{broker: broker, midiDir: midiDir}
	m.files = listMidiFiles(midiDir)
	if initialFile != "" {
		m.load(initialFile)
	}
	return m
}

func listMidiFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mid", ".midi":
			files = append(files, e.Name())
		}
	}
	return files
}

func (m *model) load(path string) {
	seq, err := midifile.Load(path)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.send(player.LoadSequenceMsg{Sequence: seq})
	m.current = filepath.Base(path)
	m.errMsg = ""
	m.state = statePlaying
}

func (m *model) send(msg any) {
	player.TrySend(m.broker.ToPlayer, msg)
}

func refreshCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m model) Init() tea.Cmd { return refreshCmd() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.drain()
		return m, refreshCmd()
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.updateMenu(msg)
		}
		return m.updatePlaying(msg)
	}
	return m, nil
}

// drain empties the model channel, keeping the latest state snapshot, the
// last alert seen and the peak level of the last rendered audio block.
// Pooled audio buffers go back to the broker.
func (m *model) drain() {
	for {
		select {
		case msg := <-m.broker.ToModel:
			switch data := msg.Data.(type) {
			case player.Alert:
				m.alert = data
			case *[]float32:
				m.level = peak(*data)
				m.broker.PutAudioBuffer(data)
			default:
				m.status = msg.State
			}
		default:
			return
		}
	}
}

func peak(buffer []float32) float32 {
	var p float32
	for _, v := range buffer {
		if v < 0 {
			v = -v
		}
		if v > p {
			p = v
		}
	}
	return p
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if len(m.files) > 0 {
			m.cursor = (m.cursor + len(m.files) - 1) % len(m.files)
		}
	case "down", "j":
		if len(m.files) > 0 {
			m.cursor = (m.cursor + 1) % len(m.files)
		}
	case "enter":
		if len(m.files) > 0 {
			m.load(filepath.Join(m.midiDir, m.files[m.cursor]))
		}
	}
	return m, nil
}

func (m model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.send(player.StopPlayMsg{})
		m.state = stateMenu
	case " ":
		m.send(player.TogglePauseMsg{})
	case "r":
		m.send(player.RestartMsg{})
	case "+", "=":
		m.send(player.AdjustRateMsg{Delta: 0.1})
	case "-":
		m.send(player.AdjustRateMsg{Delta: -0.1})
	case "[":
		m.send(player.MarkLoopStartMsg{})
	case "]":
		m.send(player.MarkLoopEndMsg{})
	case "\\":
		m.send(player.ClearLoopMsg{})
	case "m":
		m.send(player.ToggleScheduledAudioMsg{})
	case "u":
		m.send(player.ToggleLiveAudioMsg{})
	}
	return m, nil
}

func (m model) View() string {
	if m.state == stateMenu {
		return m.menuView()
	}
	return m.playView()
}

func (m model) menuView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("pianola — select a MIDI file") + "\n\n")
	if len(m.files) == 0 {
		fmt.Fprintf(&b, "no MIDI files found in %s\n", m.midiDir)
	}
	for i, f := range m.files {
		line := "  " + f
		if i == m.cursor {
			line = selectedStyle.Render("> " + f)
		}
		b.WriteString(line + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + alertStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter play · ↑/↓ select · q quit") + "\n")
	return b.String()
}

func (m model) playView() string {
	s := m.status
	var b strings.Builder
	b.WriteString(titleStyle.Render("pianola — "+m.current) + "\n\n")

	pause := ""
	if s.Paused {
		pause = "  [PAUSED]"
	}
	fmt.Fprintf(&b, "time %6.1fs   rate %.1fx%s\n", s.Time, s.Rate, pause)

	switch {
	case s.HasLoopStart && s.HasLoopEnd:
		b.WriteString(loopStyle.Render(fmt.Sprintf("loop %.1fs – %.1fs", s.LoopStart, s.LoopEnd)) + "\n")
	case s.HasLoopStart:
		b.WriteString(loopStyle.Render(fmt.Sprintf("loop start %.1fs", s.LoopStart)) + "\n")
	default:
		b.WriteString(dimStyle.Render("no loop") + "\n")
	}
	b.WriteString("\n")

	b.WriteString("midi " + soundingStyle.Render(keyStrip(s.Sounding)) + "\n")
	b.WriteString("you  " + liveStyle.Render(keyStrip(s.Live)) + "\n")

	b.WriteString("out  " + dimStyle.Render(levelBar(m.level)) + "\n\n")

	fmt.Fprintf(&b, "audio: midi %s (m)   you %s (u)\n", onOff(s.ScheduledAudio), onOff(s.LiveAudio))
	if m.alert.Priority > player.None {
		b.WriteString(alertStyle.Render(m.alert.Message) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("space pause · r restart · +/- rate · [ loop start · ] loop end · \\ clear loop · esc menu") + "\n")
	return b.String()
}

// keyStrip renders the 88 keys as one character each, marking the given
// pitches.
func keyStrip(pitches []pianola.Pitch) string {
	keys := make([]rune, pianola.MaxPitch-pianola.MinPitch+1)
	for i := range keys {
		keys[i] = '·'
	}
	for _, p := range pitches {
		if p.Valid() {
			keys[p-pianola.MinPitch] = '█'
		}
	}
	return string(keys)
}

// levelBar renders a peak meter over the same width as the key strips.
func levelBar(level float32) string {
	const cells = 88
	n := int(level * cells)
	if n > cells {
		n = cells
	}
	return strings.Repeat("█", n) + strings.Repeat("·", cells-n)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

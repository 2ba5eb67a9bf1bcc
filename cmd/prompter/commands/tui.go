package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hintwire/prompter/pkg/cli"
	"github.com/hintwire/prompter/pkg/copilot"
)

// runTUI starts the session and renders it full-screen until the user
// quits. A session error is surfaced after the frame closes.
func runTUI(pilot *copilot.Copilot, logWriter *cli.LogWriter, logger *slog.Logger) error {
	if err := pilot.Start(context.Background()); err != nil {
		return err
	}
	defer pilot.Stop()

	p := tea.NewProgram(NewTUIModel(pilot, logWriter, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return pilot.Err()
}

// TUIModel is the session TUI model.
type TUIModel struct {
	pilot *copilot.Copilot

	// Log writer for capturing log output
	logWriter  *cli.LogWriter
	logContent []string
	logger     *slog.Logger

	// UI
	styles cli.Styles
	spin   spinner.Model
	width  int
	height int

	// Quit flag
	quitting bool
}

// NewTUIModel creates a new TUI model.
func NewTUIModel(pilot *copilot.Copilot, logWriter *cli.LogWriter, logger *slog.Logger) TUIModel {
	styles := cli.NewStyles(cli.DefaultTheme)
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Label
	return TUIModel{
		pilot:      pilot,
		logWriter:  logWriter,
		logContent: []string{},
		logger:     logger,
		styles:     styles,
		spin:       sp,
	}
}

// PilotEventMsg wraps copilot events for bubbletea.
type PilotEventMsg copilot.Event

// LogMsg wraps log lines for bubbletea.
type LogMsg string

// TickMsg is sent periodically to refresh the UI.
type TickMsg time.Time

// Init initializes the model.
func (m TUIModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenPilot(),
		m.listenLogs(),
		m.spin.Tick,
		m.tick(),
	)
}

func (m TUIModel) listenPilot() tea.Cmd {
	return func() tea.Msg {
		return PilotEventMsg(<-m.pilot.Events())
	}
}

func (m TUIModel) listenLogs() tea.Cmd {
	if m.logWriter == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-m.logWriter.Channel()
		if !ok {
			return nil
		}
		return LogMsg(line)
	}
}

func (m TUIModel) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages.
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyRunes:
			if len(msg.Runes) == 1 {
				if quit := m.handleKey(msg.Runes[0]); quit {
					m.quitting = true
					return m, tea.Quit
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PilotEventMsg:
		cmds = append(cmds, m.listenPilot())

	case LogMsg:
		m.logContent = append(m.logContent, string(msg))
		if len(m.logContent) > 100 {
			m.logContent = m.logContent[len(m.logContent)-100:]
		}
		cmds = append(cmds, m.listenLogs())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		cmds = append(cmds, m.tick())
	}

	return m, tea.Batch(cmds...)
}

// handleKey runs one keyboard control. Returns true to quit.
func (m TUIModel) handleKey(r rune) bool {
	switch r {
	case 'q':
		return true
	case 'l':
		m.pilot.ToggleListening()
	case 'a':
		if err := m.pilot.AnalyzeNow(); err != nil {
			m.logger.Warn("analyze now unavailable", "err", err)
		}
	case 'n':
		m.pilot.NextQuestion()
	case 'v':
		m.pilot.ToggleVoiceOutput()
	case 's':
		m.pilot.ToggleSpeakAnswers()
	}
	return false
}

// status renders the status text and whether it is an alert.
func (m TUIModel) status() (string, bool) {
	switch m.pilot.State() {
	case copilot.StateConnecting:
		return m.spin.View() + " connecting", false
	case copilot.StateOpen:
		s := "paused"
		if m.pilot.Listening() {
			s = "listening"
		}
		if !m.pilot.VoiceOutput() {
			s += " · voice off"
		}
		if m.pilot.SpeakAnswers() {
			s += " · speaking answers"
		}
		return s, false
	case copilot.StateClosed:
		return "closed", false
	case copilot.StateErrored:
		return "error", true
	}
	return "idle", false
}

// questionLines is the interviewer pane: the live transcript, or the
// settled question of the active turn between questions.
func (m TUIModel) questionLines() []string {
	q := m.pilot.Question()
	if q == "" {
		if t := m.pilot.ActiveTurn(); t != nil {
			q = t.Question
		}
	}
	if q == "" {
		return nil
	}
	return strings.Split(q, "\n")
}

// answerLines is the answer pane: the streaming draft, or the finished
// answer of the active turn with its résumé citations.
func (m TUIModel) answerLines() []string {
	if a := m.pilot.Answer(); a != "" {
		return strings.Split(a, "\n")
	}
	t := m.pilot.ActiveTurn()
	if t == nil {
		return nil
	}
	lines := strings.Split(t.Answer, "\n")
	for _, c := range t.Citations {
		lines = append(lines, "• "+c)
	}
	return lines
}

func (m TUIModel) answerLabel() string {
	if n := len(m.pilot.Turns()); n > 0 {
		return fmt.Sprintf("Answer · %d saved", n)
	}
	return "Answer"
}

// View renders the UI.
func (m TUIModel) View() string {
	if m.quitting {
		return "Session ended.\n"
	}

	status, alert := m.status()

	frame := cli.Frame{
		Styles: m.styles,
		Title:  "PROMPTER // SESSION",
		Status: status,
		Alert:  alert,
		Sections: []cli.Section{
			{Label: "Interviewer", Content: m.questionLines, Wrap: true},
			{Label: m.answerLabel(), Content: m.answerLines, Wrap: true},
			{Label: "Log", Content: func() []string { return m.logContent }},
		},
		Help: "l=listen  a=analyze  n=next  v=voice  s=speak  q=quit",
	}

	return frame.Render(m.width, m.height)
}

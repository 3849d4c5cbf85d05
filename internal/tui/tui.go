// Package tui is a terminal blackjack client that plays against an
// in-process engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

type phase int

const (
	phaseName phase = iota
	phasePlay
	phaseGoodbye
)

// Model is the Bubble Tea model for a single player's table.
type Model struct {
	engine  *game.Engine
	session *game.Session
	logger  *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	phase    phase
	history  []string
	notice   string // last rejected input, cleared by the next command
	fault    error
	quitting bool

	width       int
	height      int
	initialized bool
}

// New creates a model that asks for the player's name first.
func New(engine *game.Engine, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
	}
	m.updatePlaceholder()
	return m
}

// Fault returns the invariant violation that ended the game, if any.
func (m *Model) Fault() error {
	return m.fault
}

// Session returns the session being played, or nil before a name is entered.
func (m *Model) Session() *game.Session {
	return m.session
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if m.processInput(line) {
				m.quitting = true
				return m, tea.Quit
			}
			m.updatePlaceholder()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Keys belong to the input; the log scrolls with PgUp/PgDn and the mouse.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// processInput applies one line of input and reports whether to quit.
func (m *Model) processInput(line string) bool {
	m.notice = ""
	lower := strings.ToLower(line)
	if lower == "quit" || lower == "q" {
		return true
	}

	switch m.phase {
	case phaseName:
		m.startGame(line)
	case phaseGoodbye:
		if lower == "again" || lower == "start over" || lower == "y" {
			m.startOver()
			return false
		}
		return true
	case phasePlay:
		m.play(lower)
	}
	return m.fault != nil
}

func (m *Model) startGame(raw string) {
	name, err := game.ParseName(raw)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.session = m.engine.NewGame(name)
	m.addLog(InfoStyle.Render(fmt.Sprintf("Welcome, %s. You have $%d.", name, m.session.Balance)))
	m.phase = phasePlay
	m.apply(game.Command{Kind: game.CommandNewHand})
}

func (m *Model) startOver() {
	m.session = nil
	m.history = nil
	m.phase = phaseName
	m.logViewport.SetContent("")
}

func (m *Model) play(input string) {
	s := m.session
	fields := strings.Fields(input)
	verb := ""
	if len(fields) > 0 {
		verb = fields[0]
	}

	switch {
	case verb == "leave" || verb == "restart":
		m.leave()
	case s.Status == game.StatusNone && verb == "bet" && len(fields) == 2:
		m.apply(game.Command{Kind: game.CommandBet, Amount: fields[1]})
	case s.Status == game.StatusNone && verb != "deal" && verb != "n":
		// A bare number (or nothing) is a bet.
		m.apply(game.Command{Kind: game.CommandBet, Amount: input})
	case verb == "h" || verb == "hit":
		m.apply(game.Command{Kind: game.CommandHit})
	case verb == "s" || verb == "stay" || verb == "stand":
		m.apply(game.Command{Kind: game.CommandStay})
	case verb == "d" || verb == "dealer" || (verb == "" && s.Status == game.StatusDealingToDealer):
		m.apply(game.Command{Kind: game.CommandDealerHit})
	case verb == "n" || verb == "deal" || (verb == "" && s.Status.IsTerminal()):
		m.apply(game.Command{Kind: game.CommandNewHand})
	default:
		m.notice = fmt.Sprintf("Unknown command %q", input)
	}
}

func (m *Model) leave() {
	m.addLog(InfoStyle.Render(fmt.Sprintf("%s leaves the table with $%d.", m.session.PlayerName, m.session.Balance)))
	m.phase = phaseGoodbye
}

func (m *Model) apply(cmd game.Command) {
	s := m.session
	before := s.Stats.HandsDealt
	err := m.engine.Apply(s, cmd)

	switch {
	case err == nil:
	case game.IsFault(err):
		m.logger.Error("Invariant violated", "command", cmd.Kind, "error", err)
		m.fault = err
		return
	case errors.Is(err, game.ErrOutOfFunds):
		m.phase = phaseGoodbye
		return
	default:
		m.notice = err.Error()
		return
	}

	if s.Stats.HandsDealt != before {
		m.addLog(HandInfoStyle.Render(fmt.Sprintf("Hand %d", s.Stats.HandsDealt)))
	}
	if s.Message != "" {
		m.addLog(messageStyle(game.NewView(s)).Render(strings.TrimSpace(s.Message)))
	}
	if s.Status.IsTerminal() && s.OutOfFunds() {
		m.phase = phaseGoodbye
	}
}

func (m *Model) addLog(entry string) {
	m.history = append(m.history, entry)
	m.logViewport.SetContent(strings.Join(m.history, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) updatePlaceholder() {
	switch {
	case m.phase == phaseName:
		m.input.Placeholder = "What's your name?"
	case m.phase == phaseGoodbye:
		m.input.Placeholder = "'again' to start over, Enter to quit"
	case m.session.Status == game.StatusNone:
		m.input.Placeholder = fmt.Sprintf("Place your bet (1-%d)", m.session.Balance)
	case m.session.Status == game.StatusDealingToPlayer:
		m.input.Placeholder = "hit or stay"
	case m.session.Status == game.StatusDealingToDealer:
		m.input.Placeholder = "Enter to deal the dealer a card"
	default:
		m.input.Placeholder = "Enter to deal the next hand"
	}
}

func messageStyle(v game.View) lipgloss.Style {
	switch v.MessageClass {
	case game.ClassSuccess:
		return SuccessStyle
	case game.ClassError:
		return ErrorStyle
	case game.ClassInfo:
		return InfoStyle
	default:
		return WarningStyle
	}
}

// Run plays an interactive game on the terminal until the player quits or ctx
// is done. It returns the fault that ended the game, if any.
func Run(ctx context.Context, engine *game.Engine, logger *log.Logger, opts ...tea.ProgramOption) error {
	m := New(engine, logger)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return m.Fault()
}

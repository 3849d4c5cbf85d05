package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/game"
)

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 24)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Blackjack "))
	b.WriteString("\n\n")
	if m.session == nil {
		return b.String()
	}

	v := game.NewView(m.session)
	fmt.Fprintf(&b, "%s\n", v.PlayerName)
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: $%d", v.Balance)))
	b.WriteString("\n")
	if v.Bet > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", v.Bet)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Hands: %d", v.Stats.HandsDealt)))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Won %d  Lost %d  Push %d", v.Stats.PlayerWins, v.Stats.DealerWins, v.Stats.Pushes)))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Cards left: %d", v.CardsLeft)))
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.fault != nil:
		b.WriteString(ErrorStyle.Render("The table has a problem and must close: " + m.fault.Error()))
		b.WriteString("\n")
	case m.phase == phaseGoodbye:
		b.WriteString(m.renderGoodbye())
		b.WriteString("\n")
	case m.session != nil:
		v := game.NewView(m.session)
		b.WriteString(m.renderHand("Dealer", v.DealerCards, v.DealerTotal))
		b.WriteString("\n")
		b.WriteString(m.renderHand(v.PlayerName, v.PlayerCards, v.PlayerTotal))
		b.WriteString("\n")
		b.WriteString(m.renderActions(v.Status))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(ErrorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("PgUp/PgDn scroll log • 'leave' to cash out • Ctrl+C to quit"))
	return b.String()
}

func (m *Model) renderGoodbye() string {
	if m.session == nil {
		return ""
	}
	start := m.engine.Config().StartingBalance
	balance := m.session.Balance
	switch {
	case balance > start:
		return SuccessStyle.Render(fmt.Sprintf("Goodbye %s, you won $%d.", m.session.PlayerName, balance-start))
	case balance < start:
		return ErrorStyle.Render(fmt.Sprintf("Goodbye %s, you lost $%d.", m.session.PlayerName, start-balance))
	default:
		return InfoStyle.Render(fmt.Sprintf("Goodbye %s, you broke even.", m.session.PlayerName))
	}
}

func (m *Model) renderHand(who string, cards []string, total int) string {
	line := HandInfoStyle.Render(fmt.Sprintf("%-8s", who)) + " " + formatCards(cards)
	if total > 0 {
		line += fmt.Sprintf("  (%d)", total)
	}
	return line
}

func (m *Model) renderActions(status game.Status) string {
	switch status {
	case game.StatusNone:
		return ActionsStyle.Render("Actions: [bet N] [deal]")
	case game.StatusDealingToPlayer:
		return ActionsStyle.Render("Actions: [hit] [stay]")
	case game.StatusDealingToDealer:
		return ActionsStyle.Render("Actions: [dealer]")
	default:
		return ActionsStyle.Render("Actions: [deal] [leave]")
	}
}

// formatCards colours card strings by suit.
func formatCards(cards []string) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card == game.HiddenCard:
			formatted = append(formatted, HiddenCardStyle.Render(card))
		case strings.ContainsAny(card, "♥♦"):
			formatted = append(formatted, RedCardStyle.Render(card))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

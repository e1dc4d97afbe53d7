package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/roll"
)

const playHelp = "Commands: /travel, /event, /roll d20 [action], /hp -3, /restart, /quit, or just type what you want to do."

// handlePlayInput sends free text to the narrator or runs a slash command.
func (m model) handlePlayInput(input string) (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}

	if !isSlashCommand(input) {
		if input == "" {
			return m, nil
		}
		m.textInput.Reset()
		m.waiting = true
		m.notice = ""
		return m, m.sendTurn(input)
	}

	c := parseCommand(input)
	m.textInput.Reset()
	m.notice = ""

	switch c.name {
	case "quit":
		return m, tea.Quit

	case "restart":
		m.session.Restart()
		m.refreshLog()
		m.state = stateLoading
		m.loading = "The Dungeon Master is preparing your adventure... please wait."
		return m, m.startAdventure()

	case "travel":
		m.waiting = true
		return m, m.travel()

	case "event":
		e, err := m.session.RollRandomEvent()
		if err != nil {
			m.notice = errors.GetMessage(err)
			break
		}
		m.notice = fmt.Sprintf("Random event: %s (%s)", e.Event, e.Effect)

	case "roll":
		die, draft, _ := strings.Cut(c.arg, " ")
		sides, err := parseDie(die)
		if err != nil {
			m.notice = errors.GetMessage(err)
			break
		}
		result, err := roll.Tray(m.roller, sides)
		if err != nil {
			m.notice = errors.GetMessage(err)
			break
		}
		m.textInput.SetValue(appendRoll(draft, result))
		m.textInput.CursorEnd()

	case "hp":
		delta, err := parseHPDelta(c.arg)
		if err != nil {
			m.notice = errors.GetMessage(err)
			break
		}
		hp := m.character.AdjustHP(delta)
		m.notice = fmt.Sprintf("HP now %d/%d.", hp, m.character.MaxHP)

	default:
		m.notice = fmt.Sprintf("Unknown command %q.", c.name)
	}

	return m, nil
}

func (m model) sendTurn(text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := m.turnContext()
		defer cancel()
		reply, err := session.SendTurn(ctx, text)
		if err != nil && errors.IsFailedPrecondition(err) {
			return turnProcessedMsg{note: reply, err: err}
		}
		return turnProcessedMsg{err: err}
	}
}

func (m model) travel() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := m.turnContext()
		defer cancel()
		result, err := session.Travel(ctx)
		note := fmt.Sprintf("Random event: %s", result.Event.Event)
		if result.Encounter != nil {
			note += fmt.Sprintf(", %d %ss!", result.Encounter.Count, result.Encounter.Monster.Name)
		}
		if err != nil && result.Reply == "" {
			note = errors.GetMessage(err)
		}
		return turnProcessedMsg{note: note, err: err}
	}
}

func (m model) playView() string {
	last, rolled := m.session.LastEvent()
	side := renderSheet(m.character, m.builder.Rules()) + "\n" + renderEvents(m.builder.Rules(), last, rolled)

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		stateStyle.Width(m.sideWidth()).Height(m.viewport.Height).Render(side),
	)

	status := m.renderNotice()
	if m.waiting {
		status = helpStyle.Render("The Dungeon Master is thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+status,
		m.textInput.View(),
		"\n"+helpStyle.Render(playHelp),
	)
}

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/onepage/internal/adventure"
	"github.com/tatianab/onepage/internal/builder"
	"github.com/tatianab/onepage/internal/models"
)

type sessionState int

const (
	stateBuilding sessionState = iota
	stateSetup
	stateLoading
	statePlaying
	stateError
)

// setup prompts, asked in order before the adventure starts
const (
	setupSetting = iota
	setupGoal
	setupNotes
)

var setupPrompts = []string{
	"Where does the adventure take place? (empty for " + adventure.DefaultSetting + ")",
	"What is your goal? (empty for " + adventure.DefaultGoal + ")",
	"Any notes for the Dungeon Master? (optional)",
}

// Options wires the TUI to the game core.
type Options struct {
	Builder *builder.Builder
	Session *adventure.Session
	// Roller backs the dice tray.
	Roller      dice.Roller
	TurnTimeout time.Duration
	Logger      *slog.Logger
}

type model struct {
	state     sessionState
	builder   *builder.Builder
	session   *adventure.Session
	roller    dice.Roller
	timeout   time.Duration
	logger    *slog.Logger
	character models.Character
	params    adventure.Params
	setupStep int

	textInput textinput.Model
	viewport  viewport.Model
	err       error
	notice    string
	loading   string
	waiting   bool
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D7AF5F"))

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFA500"))
)

func NewModel(opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Type 'roll' to roll your ability scores..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return model{
		state:     stateBuilding,
		builder:   opts.Builder,
		session:   opts.Session,
		roller:    opts.Roller,
		timeout:   opts.TurnTimeout,
		logger:    logger,
		character: opts.Builder.Character(),
		textInput: ti,
		width:     100,
		height:    30,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type portraitMsg struct {
	portrait *models.Portrait
	err      error
}

type startedMsg struct {
	reply string
	err   error
}

type turnProcessedMsg struct {
	note string
	err  error
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := m.textInput.Value()
			switch m.state {
			case stateBuilding:
				m.textInput.Reset()
				return m.handleBuildInput(input)
			case stateSetup:
				m.textInput.Reset()
				return m.handleSetupInput(input)
			case statePlaying:
				return m.handlePlayInput(input)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-8, 5)
		if m.state == statePlaying {
			m.refreshLog()
		}

	case portraitMsg:
		m.state = stateBuilding
		m.character = m.builder.Character()
		switch {
		case msg.err != nil:
			m.notice = "The painter could not finish your portrait: " + msg.err.Error()
		case msg.portrait == nil:
			m.notice = "The painter returned an empty canvas."
		default:
			m.notice = fmt.Sprintf("Portrait painted (%s, %d bytes).", msg.portrait.MIMEType, len(msg.portrait.Data))
		}
		return m, nil

	case startedMsg:
		m.state = statePlaying
		m.waiting = false
		if msg.err != nil {
			m.logger.Warn("adventure failed to start", "error", msg.err)
			m.notice = msg.reply + " Use /restart to try again."
		} else {
			m.notice = ""
		}
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), max(m.height-8, 5))
		}
		m.refreshLog()
		m.textInput.Placeholder = "What do you do?"
		return m, nil

	case turnProcessedMsg:
		m.waiting = false
		m.notice = msg.note
		if msg.err != nil {
			m.logger.Warn("turn failed", "error", msg.err)
		}
		m.refreshLog()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == stateBuilding || m.state == stateSetup || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateBuilding:
		s = m.buildView()

	case stateSetup:
		s = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("ADVENTURE SETUP"),
			"",
			setupPrompts[m.setupStep],
			"",
			m.textInput.View(),
		)

	case stateLoading:
		s = "\n  " + m.loading + "\n"

	case statePlaying:
		s = m.playView()

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.65)
}

func (m model) sideWidth() int {
	return int(float64(m.width) * 0.32)
}

// turnContext applies the configured turn timeout, if any.
func (m model) turnContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

func (m model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	return noticeStyle.Render(m.notice)
}

func (m *model) refreshLog() {
	m.viewport.SetContent(renderTranscript(m.session.Transcript(), m.logWidth()))
	m.viewport.GotoBottom()
}

func renderTranscript(transcript []models.ChatMessage, width int) string {
	var b strings.Builder
	for _, msg := range transcript {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Width(width).Render("> " + msg.Content))
		default:
			b.WriteString(gameStyle.Width(width).Render(msg.Content))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

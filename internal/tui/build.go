package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/onepage/internal/builder"
	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/rules"
)

var buildHelp = map[int]string{
	1: "Commands: roll, assign <ability> <slot>, unassign <ability>, auto, next",
	2: "Commands: choose <fighter|ranger|wizard>, back",
	3: "Commands: buy <weapon>, sell <weapon>, armor <name>, name <name>, age/gender/pronouns <text>, portrait, back, done",
}

// handleBuildInput applies one builder command. Errors are shown as a
// notice; they never end the program.
func (m model) handleBuildInput(input string) (tea.Model, tea.Cmd) {
	c := parseCommand(input)
	if c.name == "" {
		return m, nil
	}
	if c.name == "quit" {
		return m, tea.Quit
	}

	b := m.builder
	var err error
	m.notice = ""

	switch c.name {
	case "roll":
		var scores []int
		if scores, err = b.RollScores(); err == nil {
			m.notice = fmt.Sprintf("You rolled %v.", scores)
		}

	case "assign":
		ability, slot, ok := strings.Cut(c.arg, " ")
		if !ok {
			err = errors.InvalidArgument("usage: assign <ability> <slot>")
			break
		}
		var a rules.Ability
		var idx int
		if a, err = rules.ParseAbility(ability); err != nil {
			break
		}
		if idx, err = parseSlot(slot); err != nil {
			break
		}
		err = b.AssignScore(a, idx)

	case "unassign":
		var a rules.Ability
		if a, err = rules.ParseAbility(c.arg); err == nil {
			err = b.Unassign(a)
		}

	case "auto":
		err = b.AutoAssign(nil)

	case "next":
		if err = b.CommitScores(); err == nil {
			m.character = b.Character()
			m.notice = fmt.Sprintf("Scores locked in. You start with %d gold.", m.character.Gold)
		}

	case "choose":
		var a rules.Archetype
		if a, err = rules.ParseArchetype(c.arg); err == nil {
			err = b.ChooseArchetype(a)
		}

	case "buy", "sell":
		owned := m.character.HasWeapon(c.arg)
		if c.name == "buy" && owned {
			err = errors.FailedPrecondition("you already own that")
			break
		}
		if c.name == "sell" && !owned {
			err = errors.FailedPrecondition("you do not own that")
			break
		}
		if owned, err = b.ToggleWeapon(c.arg); err == nil && c.name == "buy" && !owned {
			m.notice = "You cannot afford that."
		}

	case "armor":
		err = b.SetArmor(c.arg)

	case "name":
		err = b.SetName(c.arg)

	case "age", "gender", "pronouns":
		d := builder.Details{
			Age:      m.character.Age,
			Gender:   m.character.Gender,
			Pronouns: m.character.Pronouns,
		}
		switch c.name {
		case "age":
			d.Age = c.arg
		case "gender":
			d.Gender = c.arg
		default:
			d.Pronouns = c.arg
		}
		err = b.SetDetails(d)

	case "portrait":
		if b.State() != builder.StateAwaitingEquipment {
			err = errors.FailedPrecondition("choose an archetype before painting a portrait")
			break
		}
		m.state = stateLoading
		m.loading = "The court painter is at work... please wait."
		return m, m.generatePortrait()

	case "back":
		err = b.Back()

	case "done":
		if m.character, err = b.Finish(); err == nil {
			m.state = stateSetup
			m.setupStep = setupSetting
			m.textInput.Placeholder = ""
			return m, nil
		}

	default:
		err = errors.InvalidArgumentf("unknown command %q", c.name)
	}

	if err != nil {
		m.notice = errors.GetMessage(err)
	}
	if b.State() != builder.StateFinished {
		m.character = b.Character()
	}
	return m, nil
}

func (m model) generatePortrait() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.turnContext()
		defer cancel()
		p, err := m.builder.GeneratePortrait(ctx)
		return portraitMsg{portrait: p, err: err}
	}
}

func (m model) buildView() string {
	b := m.builder
	stage := b.State().Stage()

	var body string
	switch stage {
	case 1:
		body = m.renderRolls()
	case 2:
		body = renderArchetypes(b.Rules())
	default:
		body = m.renderShop()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("STEP %d OF 3", stage)),
		"",
		body,
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.logWidth()).Render(left),
		stateStyle.Width(m.sideWidth()).Render(renderSheet(m.character, b.Rules())),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		main,
		"\n"+m.renderNotice(),
		m.textInput.View(),
		"\n"+helpStyle.Render(buildHelp[stage]),
	)
}

func (m model) renderRolls() string {
	rolled := m.builder.Rolled()
	if len(rolled) == 0 {
		return "Roll 4d6 six times, dropping the lowest die each time."
	}

	owner := make(map[int]rules.Ability)
	for a, idx := range m.builder.Assignments() {
		owner[idx] = a
	}

	var s strings.Builder
	s.WriteString("Rolled:\n")
	for i, v := range rolled {
		line := fmt.Sprintf("  [%d] %2d", i+1, v)
		if a, ok := owner[i]; ok {
			line += "  -> " + string(a)
		}
		s.WriteString(line + "\n")
	}
	return s.String()
}

func renderArchetypes(tables *rules.Tables) string {
	var s strings.Builder
	for _, a := range tables.Archetypes() {
		fmt.Fprintf(&s, "%s (%s)\n  HP %d, Speed %s\n  %s\n  %s\n\n",
			a.Label, strings.ToLower(string(a.ID)), a.HitDie, a.Speed, a.BonusText, a.Description)
	}
	return s.String()
}

func (m model) renderShop() string {
	tables := m.builder.Rules()
	var s strings.Builder

	fmt.Fprintf(&s, "Gold: %d\n\nWeapons:\n", m.character.Gold)
	for _, w := range tables.Weapons() {
		mark := " "
		if m.character.HasWeapon(w.Name) {
			mark = "*"
		}
		fmt.Fprintf(&s, " %s %-9s %-5s %3dg\n", mark, w.Name, w.Damage, w.Cost)
	}

	s.WriteString("\nArmor:\n")
	for _, a := range tables.ArmorList() {
		mark := " "
		if m.character.Armor != nil && m.character.Armor.Name == a.Name {
			mark = "*"
		}
		fmt.Fprintf(&s, " %s %-16s %s\n", mark, a.Name, a.Description)
	}
	return s.String()
}

// handleSetupInput collects the adventure framing one prompt at a time and
// starts the session after the last one.
func (m model) handleSetupInput(input string) (tea.Model, tea.Cmd) {
	switch m.setupStep {
	case setupSetting:
		m.params.Setting = strings.TrimSpace(input)
	case setupGoal:
		m.params.Goal = strings.TrimSpace(input)
	case setupNotes:
		m.params.Notes = strings.TrimSpace(input)
	}

	if m.setupStep < setupNotes {
		m.setupStep++
		return m, nil
	}

	m.state = stateLoading
	m.loading = "The Dungeon Master is preparing your adventure... please wait."
	return m, m.startAdventure()
}

func (m model) startAdventure() tea.Cmd {
	session, character, params := m.session, m.character.Clone(), m.params
	return func() tea.Msg {
		ctx, cancel := m.turnContext()
		defer cancel()
		reply, err := session.Start(ctx, character, params)
		if err != nil && !errors.IsUnavailable(err) {
			return errMsg{err}
		}
		return startedMsg{reply: reply, err: err}
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/rules"
)

// renderSheet draws the character sheet sidebar.
func renderSheet(c models.Character, tables *rules.Tables) string {
	var s strings.Builder

	name := c.Name
	if name == "" {
		name = "(unnamed)"
	}
	s.WriteString(titleStyle.Render("CHARACTER") + "\n")
	s.WriteString(name + "\n")
	if info, ok := tables.Archetype(c.Archetype); ok {
		fmt.Fprintf(&s, "%s, Level %d, Speed %s\n", info.Label, c.Level, info.Speed)
	}
	for _, d := range []string{c.Age, c.Gender, c.Pronouns} {
		if d != "" {
			s.WriteString(d + "  ")
		}
	}
	s.WriteString("\n")

	s.WriteString(titleStyle.Render("ABILITIES") + "\n")
	for _, a := range rules.Abilities {
		fmt.Fprintf(&s, "%s %2d (%s)\n", a, c.Abilities[a], rules.FormatModifier(c.Modifier(a)))
	}
	s.WriteString("\n")

	fmt.Fprintf(&s, "HP %d/%d  AC %d  Prof +%d\nGold %d\n\n",
		c.CurrentHP, c.MaxHP, c.ArmorClass(), c.ProficiencyBonus(), c.Gold)

	s.WriteString(titleStyle.Render("EQUIPMENT") + "\n")
	for _, w := range c.Weapons {
		fmt.Fprintf(&s, "- %s (%s)\n", w.Name, w.Damage)
	}
	if c.Armor != nil {
		fmt.Fprintf(&s, "- %s (%s)\n", c.Armor.Name, c.Armor.Description)
		if c.Armor.DexPenalty != 0 {
			fmt.Fprintf(&s, "  Dex penalty %d\n", c.Armor.DexPenalty)
		}
	}

	if len(c.KnownSpells) > 0 {
		s.WriteString("\n" + titleStyle.Render("SPELLS") + "\n")
		for _, sp := range c.KnownSpells {
			fmt.Fprintf(&s, "- %s, %s: %s\n", sp.Name, sp.Range, sp.Effect)
		}
	}

	if c.Portrait != nil {
		fmt.Fprintf(&s, "\nPortrait: %s\n", c.Portrait.MIMEType)
	}
	return s.String()
}

// renderEvents draws the random event table with the last roll highlighted.
func renderEvents(tables *rules.Tables, last rules.RandomEvent, rolled bool) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("RANDOM EVENTS (d7)") + "\n")
	for _, e := range tables.RandomEvents() {
		line := fmt.Sprintf("%d. %s", e.ID, e.Event)
		if rolled && e.ID == last.ID {
			line = highlightStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}
	if rolled {
		fmt.Fprintf(&s, "\n%s\n", last.Effect)
	}
	return s.String()
}

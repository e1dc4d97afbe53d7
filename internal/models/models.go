package models

import (
	"encoding/base64"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/tatianab/onepage/internal/rules"
)

// Character is the sheet produced by the builder and carried into an
// adventure.
type Character struct {
	Name        string                `yaml:"name"`
	Archetype   rules.Archetype       `yaml:"archetype,omitempty"` // empty until chosen
	Level       int                   `yaml:"level"`
	XP          int                   `yaml:"xp"`
	Abilities   map[rules.Ability]int `yaml:"abilities"`
	MaxHP       int                   `yaml:"max_hp"`
	CurrentHP   int                   `yaml:"current_hp"`
	Gold        int                   `yaml:"gold"`
	Weapons     []rules.Weapon        `yaml:"weapons"` // acquisition order
	Armor       *rules.Armor          `yaml:"armor,omitempty"`
	Items       []string              `yaml:"items,omitempty"`
	KnownSpells []rules.Spell         `yaml:"known_spells,omitempty"`
	Portrait    *Portrait             `yaml:"-"`
	Age         string                `yaml:"age,omitempty"`
	Gender      string                `yaml:"gender,omitempty"`
	Pronouns    string                `yaml:"pronouns,omitempty"`
}

// NewCharacter returns a level 1 character with every ability at 10,
// wearing the unarmored default.
func NewCharacter(unarmored rules.Armor) Character {
	abilities := make(map[rules.Ability]int, len(rules.Abilities))
	for _, a := range rules.Abilities {
		abilities[a] = 10
	}
	return Character{
		Level:     1,
		Abilities: abilities,
		MaxHP:     10,
		CurrentHP: 10,
		Armor:     &unarmored,
	}
}

// Modifier returns the ability modifier for a.
func (c Character) Modifier(a rules.Ability) int {
	return rules.AbilityModifier(c.Abilities[a])
}

// ProficiencyBonus returns the bonus for the character's level.
func (c Character) ProficiencyBonus() int {
	return rules.ProficiencyBonus(c.Level)
}

// ArmorClass evaluates the equipped armor. Without armor the character
// counts as 10 + DEX.
func (c Character) ArmorClass() int {
	dex, wis := c.Modifier(rules.DEX), c.Modifier(rules.WIS)
	if c.Armor == nil {
		return 10 + dex
	}
	return rules.ArmorClass(*c.Armor, dex, wis)
}

// SetHP sets current hit points clamped to [0, MaxHP] and returns the
// stored value.
func (c *Character) SetHP(hp int) int {
	c.CurrentHP = max(0, min(c.MaxHP, hp))
	return c.CurrentHP
}

// AdjustHP applies damage (negative) or healing (positive). The delta is
// compared against the headroom first so extreme values cannot overflow.
func (c *Character) AdjustHP(delta int) int {
	switch {
	case delta > c.MaxHP-c.CurrentHP:
		return c.SetHP(c.MaxHP)
	case delta < -c.CurrentHP:
		return c.SetHP(0)
	}
	return c.SetHP(c.CurrentHP + delta)
}

// SetPortrait replaces the portrait; nil clears it.
func (c *Character) SetPortrait(p *Portrait) {
	c.Portrait = p.Clone()
}

// HasWeapon reports whether a weapon of that name is owned.
func (c Character) HasWeapon(name string) bool {
	return slices.ContainsFunc(c.Weapons, func(w rules.Weapon) bool {
		return strings.EqualFold(w.Name, name)
	})
}

// WeaponNames lists owned weapons in acquisition order.
func (c Character) WeaponNames() []string {
	names := make([]string, len(c.Weapons))
	for i, w := range c.Weapons {
		names[i] = w.Name
	}
	return names
}

// SpellNames lists known spells in acquisition order.
func (c Character) SpellNames() []string {
	names := make([]string, len(c.KnownSpells))
	for i, s := range c.KnownSpells {
		names[i] = s.Name
	}
	return names
}

// Equipment lists weapons followed by the armor, if any.
func (c Character) Equipment() []string {
	names := c.WeaponNames()
	if c.Armor != nil {
		names = append(names, c.Armor.Name)
	}
	return names
}

// Clone returns a deep copy.
func (c Character) Clone() Character {
	c.Abilities = maps.Clone(c.Abilities)
	c.Weapons = slices.Clone(c.Weapons)
	c.Items = slices.Clone(c.Items)
	c.KnownSpells = slices.Clone(c.KnownSpells)
	if c.Armor != nil {
		armor := *c.Armor
		c.Armor = &armor
	}
	c.Portrait = c.Portrait.Clone()
	return c
}

// Portrait is a generated character image.
type Portrait struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the portrait as a data: URL.
func (p *Portrait) DataURL() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", p.MIMEType, base64.StdEncoding.EncodeToString(p.Data))
}

// Clone copies the portrait bytes. A nil portrait clones to nil.
func (p *Portrait) Clone() *Portrait {
	if p == nil {
		return nil
	}
	return &Portrait{MIMEType: p.MIMEType, Data: slices.Clone(p.Data)}
}

// Role identifies who authored a transcript entry.
type Role string

// Roles
const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// ChatMessage is one entry of an adventure transcript.
type ChatMessage struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

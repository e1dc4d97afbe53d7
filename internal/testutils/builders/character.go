// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/rules"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	character models.Character
	tables    *rules.Tables
}

// NewCharacterBuilder starts from a finished level 1 Dwarf Fighter named
// Thorin with a sword and no armor.
func NewCharacterBuilder() *CharacterBuilder {
	tables := rules.Default()
	c := models.NewCharacter(tables.Unarmored())
	c.Name = "Thorin"
	c.Archetype = rules.Fighter
	c.Abilities = map[rules.Ability]int{
		rules.STR: 17, rules.DEX: 12, rules.CON: 14,
		rules.INT: 8, rules.WIS: 10, rules.CHR: 13,
	}
	c.MaxHP, c.CurrentHP = 12, 12
	c.Gold = 20
	if sword, ok := tables.Weapon("Sword"); ok {
		c.Weapons = []rules.Weapon{sword}
	}

	return &CharacterBuilder{character: c, tables: tables}
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithArchetype sets the archetype and its hit points
func (b *CharacterBuilder) WithArchetype(id rules.Archetype) *CharacterBuilder {
	b.character.Archetype = id
	if info, ok := b.tables.Archetype(id); ok {
		b.character.MaxHP, b.character.CurrentHP = info.HitDie, info.HitDie
	}
	return b
}

// WithAbility sets a single score
func (b *CharacterBuilder) WithAbility(a rules.Ability, score int) *CharacterBuilder {
	b.character.Abilities[a] = score
	return b
}

// WithHP sets max and current hit points
func (b *CharacterBuilder) WithHP(current, maxHP int) *CharacterBuilder {
	b.character.MaxHP = maxHP
	b.character.CurrentHP = current
	return b
}

// WithWeapons replaces the owned weapons; unknown names are skipped
func (b *CharacterBuilder) WithWeapons(names ...string) *CharacterBuilder {
	b.character.Weapons = nil
	for _, n := range names {
		if w, ok := b.tables.Weapon(n); ok {
			b.character.Weapons = append(b.character.Weapons, w)
		}
	}
	return b
}

// WithArmor equips the named armor
func (b *CharacterBuilder) WithArmor(name string) *CharacterBuilder {
	if a, ok := b.tables.Armor(name); ok {
		b.character.Armor = &a
	}
	return b
}

// WithSpells sets the known spells by name
func (b *CharacterBuilder) WithSpells(names ...string) *CharacterBuilder {
	b.character.KnownSpells = nil
	for _, n := range names {
		for _, s := range b.tables.Spells() {
			if s.Name == n {
				b.character.KnownSpells = append(b.character.KnownSpells, s)
			}
		}
	}
	return b
}

// Build returns a copy of the character
func (b *CharacterBuilder) Build() models.Character {
	return b.character.Clone()
}

package rules

import (
	"strings"

	"github.com/tatianab/onepage/internal/errors"
)

// Ability is one of the six character attributes.
type Ability string

// Abilities
const (
	STR Ability = "STR"
	DEX Ability = "DEX"
	CON Ability = "CON"
	INT Ability = "INT"
	WIS Ability = "WIS"
	CHR Ability = "CHR"
)

// Abilities lists every ability in sheet order.
var Abilities = []Ability{STR, DEX, CON, INT, WIS, CHR}

var abilityNames = map[Ability]string{
	STR: "Strength",
	DEX: "Dexterity",
	CON: "Constitution",
	INT: "Intelligence",
	WIS: "Wisdom",
	CHR: "Charisma",
}

// Name returns the long display name, e.g. "Strength".
func (a Ability) Name() string {
	return abilityNames[a]
}

// Valid reports whether a is one of the six abilities.
func (a Ability) Valid() bool {
	_, ok := abilityNames[a]
	return ok
}

// ParseAbility accepts a code ("str") or a full name ("Strength").
func ParseAbility(s string) (Ability, error) {
	s = strings.TrimSpace(s)
	for _, a := range Abilities {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, a.Name()) {
			return a, nil
		}
	}
	return "", errors.InvalidArgumentf("unknown ability: %q", s)
}

// Archetype is the character's class-like role.
type Archetype string

// Archetypes
const (
	Fighter Archetype = "Fighter"
	Ranger  Archetype = "Ranger"
	Wizard  Archetype = "Wizard"
)

// ParseArchetype matches an archetype id case-insensitively.
func ParseArchetype(s string) (Archetype, error) {
	s = strings.TrimSpace(s)
	for _, a := range []Archetype{Fighter, Ranger, Wizard} {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", errors.InvalidArgumentf("unknown archetype: %q", s)
}

// BonusRule describes the ability increase an archetype grants.
//
// Choose adds Amount to the highest-scoring ability of the list; ties go to
// the earlier entry. Fixed adds Amount to every listed ability.
type BonusRule struct {
	Choose []Ability `yaml:"choose,omitempty"`
	Fixed  []Ability `yaml:"fixed,omitempty"`
	Amount int       `yaml:"amount"`
}

// Apply returns a copy of scores with the bonus applied once.
func (b BonusRule) Apply(scores map[Ability]int) map[Ability]int {
	out := make(map[Ability]int, len(scores))
	for a, v := range scores {
		out[a] = v
	}

	if len(b.Choose) > 0 {
		best := b.Choose[0]
		for _, a := range b.Choose[1:] {
			if out[a] > out[best] {
				best = a
			}
		}
		out[best] += b.Amount
	}
	for _, a := range b.Fixed {
		out[a] += b.Amount
	}
	return out
}

// ArchetypeInfo is the immutable reference data for an archetype.
type ArchetypeInfo struct {
	ID             Archetype `yaml:"id"`
	Label          string    `yaml:"label"`
	HitDie         int       `yaml:"hit_die"`
	Speed          string    `yaml:"speed"`
	BonusText      string    `yaml:"bonus_text"`
	Description    string    `yaml:"description"`
	PortraitURL    string    `yaml:"portrait_url"`
	StartingSpells int       `yaml:"starting_spells,omitempty"`
	Bonus          BonusRule `yaml:"bonus"`
}

// Weapon is a purchasable weapon.
type Weapon struct {
	Name   string `yaml:"name"`
	Damage string `yaml:"damage"`
	Cost   int    `yaml:"cost"`
}

// Armor is a wearable armor whose AC is Base plus the modifier of Ability,
// if any.
type Armor struct {
	Name        string  `yaml:"name"`
	Base        int     `yaml:"base"`
	Ability     Ability `yaml:"ability,omitempty"`
	DexPenalty  int     `yaml:"dex_penalty"`
	Cost        int     `yaml:"cost"`
	Description string  `yaml:"description"`
}

// AC evaluates the armor formula.
func (a Armor) AC(dexMod, wisMod int) int {
	switch a.Ability {
	case DEX:
		return a.Base + dexMod
	case WIS:
		return a.Base + wisMod
	default:
		return a.Base
	}
}

// Spell is a wizard spell.
type Spell struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Range  string `yaml:"range"`
	Effect string `yaml:"effect"`
}

// Monster is an entry of the encounter roster.
type Monster struct {
	Name   string `yaml:"name"`
	Attack string `yaml:"attack"`
	AC     int    `yaml:"ac"`
	HP     int    `yaml:"hp"`
}

// RandomEvent is a row of the travel event table. Encounter marks the row
// that spawns monsters.
type RandomEvent struct {
	ID        int    `yaml:"id"`
	Event     string `yaml:"event"`
	Effect    string `yaml:"effect"`
	Encounter bool   `yaml:"encounter,omitempty"`
}

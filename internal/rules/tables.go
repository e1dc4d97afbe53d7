// Package rules holds the static One Page 5e tables and the pure functions
// that derive stats from them.
package rules

import (
	"bytes"
	_ "embed"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/roll"
)

//go:embed tables.yaml
var tablesYAML []byte

// UnarmoredName is the armor every character starts in.
const UnarmoredName = "No Armor"

// Tables is the loaded, read-only rules data. Accessors hand out copies.
type Tables struct {
	archetypes    []ArchetypeInfo
	weapons       []Weapon
	armor         []Armor
	spells        []Spell
	monsters      []Monster
	events        []RandomEvent
	encounterSize roll.Notation
}

type tablesFile struct {
	Archetypes    []ArchetypeInfo `yaml:"archetypes"`
	Weapons       []Weapon        `yaml:"weapons"`
	Armor         []Armor         `yaml:"armor"`
	Spells        []Spell         `yaml:"spells"`
	Monsters      []Monster       `yaml:"monsters"`
	RandomEvents  []RandomEvent   `yaml:"random_events"`
	EncounterSize string          `yaml:"encounter_size"`
}

var defaultTables = sync.OnceValue(func() *Tables {
	t, err := Load(tablesYAML)
	if err != nil {
		panic("rules: embedded tables are invalid: " + err.Error())
	}
	return t
})

// Default returns the embedded tables, loaded on first use.
func Default() *Tables {
	return defaultTables()
}

// Load parses and validates a tables document.
func Load(data []byte) (*Tables, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f tablesFile
	if err := dec.Decode(&f); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse rules tables")
	}

	size, err := roll.Parse(f.EncounterSize)
	if err != nil {
		return nil, errors.Wrap(err, "encounter_size")
	}

	t := &Tables{
		archetypes:    f.Archetypes,
		weapons:       f.Weapons,
		armor:         f.Armor,
		spells:        f.Spells,
		monsters:      f.Monsters,
		events:        f.RandomEvents,
		encounterSize: size,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) validate() error {
	vb := errors.NewValidationBuilder()

	for _, id := range []Archetype{Fighter, Ranger, Wizard} {
		if _, ok := t.Archetype(id); !ok {
			vb.Fieldf("archetypes", "missing %s", id)
		}
	}
	for _, a := range t.archetypes {
		if a.HitDie <= 0 {
			vb.Fieldf("archetypes", "%s: hit_die must be positive", a.ID)
		}
		for _, ab := range append(slices.Clone(a.Bonus.Choose), a.Bonus.Fixed...) {
			if !ab.Valid() {
				vb.Fieldf("archetypes", "%s: unknown bonus ability %q", a.ID, ab)
			}
		}
		if a.StartingSpells > len(t.spells) {
			vb.Fieldf("archetypes", "%s: %d starting spells but only %d in catalog", a.ID, a.StartingSpells, len(t.spells))
		}
	}

	for _, w := range t.weapons {
		if _, err := roll.Parse(w.Damage); err != nil {
			vb.Fieldf("weapons", "%s: %s", w.Name, errors.GetMessage(err))
		}
		if w.Cost < 0 {
			vb.Fieldf("weapons", "%s: negative cost", w.Name)
		}
	}

	if _, ok := t.Armor(UnarmoredName); !ok {
		vb.Fieldf("armor", "missing %q", UnarmoredName)
	}
	for _, a := range t.armor {
		if a.Ability != "" && a.Ability != DEX && a.Ability != WIS {
			vb.Fieldf("armor", "%s: ability must be DEX, WIS or empty", a.Name)
		}
	}

	encounters := 0
	for i, e := range t.events {
		if e.ID != i+1 {
			vb.Fieldf("random_events", "ids must run 1..%d in order, got %d at position %d", len(t.events), e.ID, i+1)
		}
		if e.Encounter {
			encounters++
		}
	}
	if encounters != 1 {
		vb.Fieldf("random_events", "exactly one encounter event required, got %d", encounters)
	}
	if len(t.monsters) == 0 {
		vb.Field("monsters", "roster is empty")
	}

	return vb.Build()
}

// Archetypes returns every archetype in table order.
func (t *Tables) Archetypes() []ArchetypeInfo {
	out := make([]ArchetypeInfo, len(t.archetypes))
	for i, a := range t.archetypes {
		out[i] = a.clone()
	}
	return out
}

// Archetype looks up an archetype by id.
func (t *Tables) Archetype(id Archetype) (ArchetypeInfo, bool) {
	for _, a := range t.archetypes {
		if a.ID == id {
			return a.clone(), true
		}
	}
	return ArchetypeInfo{}, false
}

func (a ArchetypeInfo) clone() ArchetypeInfo {
	a.Bonus.Choose = slices.Clone(a.Bonus.Choose)
	a.Bonus.Fixed = slices.Clone(a.Bonus.Fixed)
	return a
}

// Weapons returns the weapon catalog.
func (t *Tables) Weapons() []Weapon {
	return slices.Clone(t.weapons)
}

// Weapon looks up a weapon by name, ignoring case.
func (t *Tables) Weapon(name string) (Weapon, bool) {
	for _, w := range t.weapons {
		if strings.EqualFold(w.Name, strings.TrimSpace(name)) {
			return w, true
		}
	}
	return Weapon{}, false
}

// ArmorList returns the armor catalog.
func (t *Tables) ArmorList() []Armor {
	return slices.Clone(t.armor)
}

// Armor looks up an armor by name, ignoring case.
func (t *Tables) Armor(name string) (Armor, bool) {
	for _, a := range t.armor {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return a, true
		}
	}
	return Armor{}, false
}

// Unarmored returns the default armor.
func (t *Tables) Unarmored() Armor {
	a, _ := t.Armor(UnarmoredName)
	return a
}

// Spells returns the spell catalog.
func (t *Tables) Spells() []Spell {
	return slices.Clone(t.spells)
}

// Monsters returns the encounter roster.
func (t *Tables) Monsters() []Monster {
	return slices.Clone(t.monsters)
}

// RandomEvents returns the event table ordered by id.
func (t *Tables) RandomEvents() []RandomEvent {
	return slices.Clone(t.events)
}

// RandomEvent looks up an event by id.
func (t *Tables) RandomEvent(id int) (RandomEvent, bool) {
	if id < 1 || id > len(t.events) {
		return RandomEvent{}, false
	}
	return t.events[id-1], true
}

// EncounterSize is the dice expression for the number of monsters.
func (t *Tables) EncounterSize() roll.Notation {
	return t.encounterSize
}

// Document renders the tables back to YAML.
func (t *Tables) Document() ([]byte, error) {
	return yaml.Marshal(tablesFile{
		Archetypes:    t.archetypes,
		Weapons:       t.weapons,
		Armor:         t.armor,
		Spells:        t.spells,
		Monsters:      t.monsters,
		RandomEvents:  t.events,
		EncounterSize: t.encounterSize.String(),
	})
}

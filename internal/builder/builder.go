// Package builder implements the guided character creation flow: roll and
// assign ability scores, choose an archetype, then shop and name the hero.
package builder

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/tatianab/onepage/internal/engine"
	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/roll"
	"github.com/tatianab/onepage/internal/rules"
)

//go:embed prompts/portrait.txt
var portraitPrompt string

var portraitTemplate = template.Must(template.New("portrait").Parse(portraitPrompt))

// StartingGoldDie is the die rolled for starting gold.
const StartingGoldDie = 100

// SuggestedPriority orders abilities from most to least useful for each
// archetype. AutoAssign uses it for quick builds.
var SuggestedPriority = map[rules.Archetype][]rules.Ability{
	rules.Fighter: {rules.STR, rules.CON, rules.DEX, rules.WIS, rules.CHR, rules.INT},
	rules.Ranger:  {rules.DEX, rules.WIS, rules.CON, rules.CHR, rules.STR, rules.INT},
	rules.Wizard:  {rules.INT, rules.WIS, rules.CON, rules.DEX, rules.CHR, rules.STR},
}

// Config holds the dependencies for a Builder
type Config struct {
	Roller dice.Roller
	// Rules defaults to rules.Default().
	Rules *rules.Tables
	// Portraits is optional; without it GeneratePortrait always fails.
	Portraits engine.PortraitRenderer
	Logger    *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Details are the optional biographical fields.
type Details struct {
	Age      string
	Gender   string
	Pronouns string
}

// Builder drives one character through creation. It is meant for a
// single actor and is not safe for concurrent use.
type Builder struct {
	roller    dice.Roller
	rules     *rules.Tables
	portraits engine.PortraitRenderer
	logger    *slog.Logger

	state     State
	character models.Character

	rolled      []int
	assignments map[rules.Ability]int // ability -> index into rolled
	baseline    map[rules.Ability]int // committed scores before archetype bonus
}

// New creates a builder positioned at the first step.
func New(cfg *Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	tables := cfg.Rules
	if tables == nil {
		tables = rules.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		roller:      cfg.Roller,
		rules:       tables,
		portraits:   cfg.Portraits,
		logger:      logger.With("component", "builder"),
		state:       StateAwaitingRoll,
		character:   models.NewCharacter(tables.Unarmored()),
		assignments: make(map[rules.Ability]int),
	}, nil
}

// State returns the current step.
func (b *Builder) State() State {
	return b.state
}

// Character returns a snapshot of the character as built so far.
func (b *Builder) Character() models.Character {
	return b.character.Clone()
}

// Rules returns the tables the builder draws from.
func (b *Builder) Rules() *rules.Tables {
	return b.rules
}

func (b *Builder) expect(op string, states ...State) error {
	if slices.Contains(states, b.state) {
		return nil
	}
	return errors.FailedPreconditionf("cannot %s while %s", op, b.state).
		WithMeta("state", b.state.String())
}

// RollScores rolls six ability scores, discarding any earlier roll and
// every assignment.
func (b *Builder) RollScores() ([]int, error) {
	if err := b.expect("roll scores", StateAwaitingRoll, StateAwaitingAssignment); err != nil {
		return nil, err
	}

	scores, err := roll.AbilityScores(b.roller)
	if err != nil {
		return nil, err
	}

	b.rolled = scores
	clear(b.assignments)
	b.state = StateAwaitingAssignment
	b.logger.Debug("ability scores rolled", "scores", scores)
	return slices.Clone(scores), nil
}

// Rolled returns the current rolled values by position.
func (b *Builder) Rolled() []int {
	return slices.Clone(b.rolled)
}

// AssignScore binds the rolled value at index to ability. A value already
// bound elsewhere moves; the ability's previous value is freed.
func (b *Builder) AssignScore(ability rules.Ability, index int) error {
	if err := b.expect("assign scores", StateAwaitingAssignment); err != nil {
		return err
	}
	if !ability.Valid() {
		return errors.InvalidArgumentf("unknown ability: %q", ability)
	}
	if index < 0 || index >= len(b.rolled) {
		return errors.InvalidArgumentf("rolled index %d out of range [0,%d)", index, len(b.rolled))
	}

	for other, idx := range b.assignments {
		if idx == index && other != ability {
			delete(b.assignments, other)
		}
	}
	b.assignments[ability] = index
	return nil
}

// Unassign frees whatever value is bound to ability.
func (b *Builder) Unassign(ability rules.Ability) error {
	if err := b.expect("assign scores", StateAwaitingAssignment); err != nil {
		return err
	}
	delete(b.assignments, ability)
	return nil
}

// Assignments returns ability -> rolled index for every bound ability.
func (b *Builder) Assignments() map[rules.Ability]int {
	return maps.Clone(b.assignments)
}

// AssignedIndex reports the rolled index bound to ability.
func (b *Builder) AssignedIndex(ability rules.Ability) (int, bool) {
	idx, ok := b.assignments[ability]
	return idx, ok
}

// AllAssigned reports whether all six abilities hold a value.
func (b *Builder) AllAssigned() bool {
	for _, a := range rules.Abilities {
		if _, ok := b.assignments[a]; !ok {
			return false
		}
	}
	return len(b.rolled) == roll.AbilityCount
}

// AutoAssign binds rolled values, highest first, to abilities in priority
// order. Abilities missing from priority take the leftovers in sheet order.
func (b *Builder) AutoAssign(priority []rules.Ability) error {
	if err := b.expect("assign scores", StateAwaitingAssignment); err != nil {
		return err
	}

	order := make([]rules.Ability, 0, len(rules.Abilities))
	for _, a := range priority {
		if !a.Valid() {
			return errors.InvalidArgumentf("unknown ability: %q", a)
		}
		if !slices.Contains(order, a) {
			order = append(order, a)
		}
	}
	for _, a := range rules.Abilities {
		if !slices.Contains(order, a) {
			order = append(order, a)
		}
	}

	indexes := make([]int, len(b.rolled))
	for i := range indexes {
		indexes[i] = i
	}
	slices.SortStableFunc(indexes, func(x, y int) int {
		return b.rolled[y] - b.rolled[x]
	})

	clear(b.assignments)
	for i, a := range order {
		b.assignments[a] = indexes[i]
	}
	return nil
}

// CommitScores writes the assigned values to the character, rolls starting
// gold and moves on to archetype selection. Weapons bought with earlier
// gold are dropped.
func (b *Builder) CommitScores() error {
	if err := b.expect("commit scores", StateAwaitingAssignment); err != nil {
		return err
	}
	if !b.AllAssigned() {
		missing := make([]string, 0, len(rules.Abilities))
		for _, a := range rules.Abilities {
			if _, ok := b.assignments[a]; !ok {
				missing = append(missing, string(a))
			}
		}
		return errors.FailedPreconditionf("all six abilities must be assigned, missing %s", strings.Join(missing, ", "))
	}

	gold, err := roll.Index(b.roller, StartingGoldDie)
	if err != nil {
		return errors.Wrap(err, "failed to roll starting gold")
	}
	gold++

	baseline := make(map[rules.Ability]int, len(rules.Abilities))
	for _, a := range rules.Abilities {
		baseline[a] = b.rolled[b.assignments[a]]
	}

	fresh := models.NewCharacter(b.rules.Unarmored())
	fresh.Name = b.character.Name
	fresh.Age, fresh.Gender, fresh.Pronouns = b.character.Age, b.character.Gender, b.character.Pronouns
	fresh.Abilities = maps.Clone(baseline)
	fresh.Gold = gold

	b.baseline = baseline
	b.character = fresh
	b.state = StateAwaitingArchetype
	b.logger.Debug("ability scores committed", "gold", gold)
	return nil
}

// ChooseArchetype applies the archetype's ability bonus to the committed
// scores, sets hit points to the hit die and, for spellcasters, draws the
// starting spells. Choosing again after Back starts from the committed
// scores, so bonuses never stack.
func (b *Builder) ChooseArchetype(id rules.Archetype) error {
	if err := b.expect("choose archetype", StateAwaitingArchetype); err != nil {
		return err
	}
	info, ok := b.rules.Archetype(id)
	if !ok {
		return errors.InvalidArgumentf("unknown archetype: %q", id)
	}

	var spells []rules.Spell
	if info.StartingSpells > 0 {
		catalog := b.rules.Spells()
		picks, err := roll.SampleDistinct(b.roller, len(catalog), info.StartingSpells)
		if err != nil {
			return errors.Wrap(err, "failed to draw starting spells")
		}
		spells = make([]rules.Spell, len(picks))
		for i, p := range picks {
			spells[i] = catalog[p]
		}
	}

	b.character.Archetype = info.ID
	b.character.Abilities = info.Bonus.Apply(b.baseline)
	b.character.MaxHP = info.HitDie
	b.character.CurrentHP = info.HitDie
	b.character.KnownSpells = spells
	b.state = StateAwaitingEquipment
	b.logger.Debug("archetype chosen", "archetype", info.ID, "spells", len(spells))
	return nil
}

// CanAfford reports whether the named weapon is owned or affordable.
func (b *Builder) CanAfford(name string) bool {
	w, ok := b.rules.Weapon(name)
	if !ok {
		return false
	}
	return b.character.HasWeapon(w.Name) || b.character.Gold >= w.Cost
}

// ToggleWeapon buys an unowned weapon or sells an owned one at full price.
// Buying without enough gold does nothing and is not an error; owned tells
// the caller where things ended up.
func (b *Builder) ToggleWeapon(name string) (owned bool, err error) {
	if err := b.expect("shop", StateAwaitingEquipment); err != nil {
		return false, err
	}
	w, ok := b.rules.Weapon(name)
	if !ok {
		return false, errors.InvalidArgumentf("unknown weapon: %q", name)
	}

	c := &b.character
	if i := slices.IndexFunc(c.Weapons, func(o rules.Weapon) bool { return o.Name == w.Name }); i >= 0 {
		c.Weapons = slices.Delete(c.Weapons, i, i+1)
		c.Gold += w.Cost
		return false, nil
	}
	if c.Gold < w.Cost {
		return false, nil
	}
	c.Weapons = append(c.Weapons, w)
	c.Gold -= w.Cost
	return true, nil
}

// SetArmor equips the named armor. Armor is not charged for.
func (b *Builder) SetArmor(name string) error {
	if err := b.expect("equip armor", StateAwaitingEquipment); err != nil {
		return err
	}
	a, ok := b.rules.Armor(name)
	if !ok {
		return errors.InvalidArgumentf("unknown armor: %q", name)
	}
	b.character.Armor = &a
	return nil
}

// SetName sets the character's name.
func (b *Builder) SetName(name string) error {
	if err := b.expect("name the character", StateAwaitingEquipment); err != nil {
		return err
	}
	b.character.Name = name
	return nil
}

// SetDetails sets the optional biographical fields.
func (b *Builder) SetDetails(d Details) error {
	if err := b.expect("set details", StateAwaitingEquipment); err != nil {
		return err
	}
	b.character.Age = d.Age
	b.character.Gender = d.Gender
	b.character.Pronouns = d.Pronouns
	return nil
}

// PortraitPrompt renders the prompt sent to the portrait renderer.
func (b *Builder) PortraitPrompt() (string, error) {
	info, ok := b.rules.Archetype(b.character.Archetype)
	if !ok {
		return "", errors.FailedPrecondition("choose an archetype before painting a portrait")
	}

	name := strings.TrimSpace(b.character.Name)
	if name == "" {
		name = "Hero"
	}

	var buf bytes.Buffer
	err := portraitTemplate.Execute(&buf, struct {
		Label, Name, Description, Gender, Age string
	}{
		Label:       info.Label,
		Name:        name,
		Description: info.Description,
		Gender:      strings.TrimSpace(b.character.Gender),
		Age:         strings.TrimSpace(b.character.Age),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to render portrait prompt")
	}
	return strings.TrimSpace(buf.String()), nil
}

// GeneratePortrait paints a portrait and stores it on the character. When
// the renderer fails or returns no image the character keeps whatever
// portrait it had.
func (b *Builder) GeneratePortrait(ctx context.Context) (*models.Portrait, error) {
	if err := b.expect("paint a portrait", StateAwaitingEquipment); err != nil {
		return nil, err
	}
	if b.portraits == nil {
		return nil, errors.Unavailable("no portrait renderer configured")
	}

	prompt, err := b.PortraitPrompt()
	if err != nil {
		return nil, err
	}

	p, err := b.portraits.RenderImage(ctx, prompt)
	if err != nil {
		b.logger.Warn("portrait generation failed", "error", err)
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "portrait generation failed")
	}
	if p == nil {
		b.logger.Warn("portrait renderer returned no image")
		return nil, nil
	}

	b.character.SetPortrait(p)
	return p.Clone(), nil
}

// Back returns to the previous stage. Rolls, assignments and purchases
// are kept.
func (b *Builder) Back() error {
	switch b.state {
	case StateAwaitingEquipment:
		b.state = StateAwaitingArchetype
	case StateAwaitingArchetype:
		b.state = StateAwaitingAssignment
	default:
		return errors.FailedPreconditionf("cannot go back while %s", b.state)
	}
	b.logger.Debug("stepped back", "state", b.state.String())
	return nil
}

// Finish hands over the completed character. The name must not be blank.
func (b *Builder) Finish() (models.Character, error) {
	if err := b.expect("finish", StateAwaitingEquipment); err != nil {
		return models.Character{}, err
	}
	if strings.TrimSpace(b.character.Name) == "" {
		return models.Character{}, errors.FailedPrecondition("the character needs a name")
	}

	b.character.Name = strings.TrimSpace(b.character.Name)
	b.state = StateFinished
	b.logger.Info("character created",
		"name", b.character.Name,
		"archetype", b.character.Archetype,
		"gold", b.character.Gold,
	)
	return b.character.Clone(), nil
}

// QuickBuild runs the whole flow without asking anything: scores go to the
// archetype's suggested order and the starting gold buys the dearest weapon
// it covers.
func QuickBuild(cfg *Config, archetype rules.Archetype, name string) (models.Character, error) {
	b, err := New(cfg)
	if err != nil {
		return models.Character{}, err
	}
	if _, err := b.RollScores(); err != nil {
		return models.Character{}, err
	}
	if err := b.AutoAssign(SuggestedPriority[archetype]); err != nil {
		return models.Character{}, err
	}
	if err := b.CommitScores(); err != nil {
		return models.Character{}, err
	}
	if err := b.ChooseArchetype(archetype); err != nil {
		return models.Character{}, err
	}

	var best *rules.Weapon
	for _, w := range b.rules.Weapons() {
		if b.CanAfford(w.Name) && (best == nil || w.Cost > best.Cost) {
			best = &w
		}
	}
	if best != nil {
		if _, err := b.ToggleWeapon(best.Name); err != nil {
			return models.Character{}, err
		}
	}

	if err := b.SetName(name); err != nil {
		return models.Character{}, err
	}
	return b.Finish()
}

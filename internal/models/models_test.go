package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/onepage/internal/rules"
)

func newTestCharacter() Character {
	tables := rules.Default()
	c := NewCharacter(tables.Unarmored())
	c.Name = "Brom"
	c.Archetype = rules.Fighter
	c.Abilities[rules.DEX] = 14
	c.Abilities[rules.WIS] = 8
	c.MaxHP = 12
	c.CurrentHP = 12
	sword, _ := tables.Weapon("Sword")
	c.Weapons = []rules.Weapon{sword}
	return c
}

func TestNewCharacterDefaults(t *testing.T) {
	c := NewCharacter(rules.Default().Unarmored())

	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 10, c.MaxHP)
	assert.Equal(t, 10, c.CurrentHP)
	assert.Zero(t, c.Gold)
	assert.Empty(t, c.Archetype)
	require.NotNil(t, c.Armor)
	assert.Equal(t, rules.UnarmoredName, c.Armor.Name)
	for _, a := range rules.Abilities {
		assert.Equal(t, 10, c.Abilities[a])
	}
}

func TestDerivedStats(t *testing.T) {
	c := newTestCharacter()

	assert.Equal(t, 2, c.Modifier(rules.DEX))
	assert.Equal(t, -1, c.Modifier(rules.WIS))
	assert.Equal(t, 2, c.ProficiencyBonus())
	assert.Equal(t, 12, c.ArmorClass())

	cloak, _ := rules.Default().Armor("Moon Cloak")
	c.Armor = &cloak
	assert.Equal(t, 10, c.ArmorClass())

	c.Armor = nil
	assert.Equal(t, 12, c.ArmorClass())
}

func TestReadOnlyHelpersOnReturnedValue(t *testing.T) {
	assert.Equal(t, 12, newTestCharacter().ArmorClass())
	assert.Equal(t, 2, newTestCharacter().Modifier(rules.DEX))
	assert.Equal(t, 2, newTestCharacter().ProficiencyBonus())
	assert.True(t, newTestCharacter().HasWeapon("Sword"))
	assert.Equal(t, []string{"Sword"}, newTestCharacter().WeaponNames())
	assert.Empty(t, newTestCharacter().SpellNames())
	assert.Equal(t, []string{"Sword", rules.UnarmoredName}, newTestCharacter().Equipment())
}

func TestHPClamping(t *testing.T) {
	deltas := []int{-100, -13, -12, -5, 0, 3, 12, 50}
	for _, d := range deltas {
		c := newTestCharacter()
		c.CurrentHP = 6
		got := c.AdjustHP(d)
		assert.GreaterOrEqual(t, got, 0, "delta %d", d)
		assert.LessOrEqual(t, got, c.MaxHP, "delta %d", d)
		assert.Equal(t, got, c.CurrentHP)
	}

	extremes := []struct {
		delta int
		want  int
	}{
		{delta: math.MaxInt, want: 12},
		{delta: math.MinInt, want: 0},
		{delta: 7, want: 12},
		{delta: -5, want: 0},
		{delta: 6, want: 11},
		{delta: -4, want: 1},
	}
	for _, tc := range extremes {
		c := newTestCharacter()
		c.CurrentHP = 5
		assert.Equal(t, tc.want, c.AdjustHP(tc.delta), "delta %d", tc.delta)
	}

	c := newTestCharacter()
	assert.Equal(t, 0, c.SetHP(-3))
	assert.Equal(t, 12, c.SetHP(40))
	assert.Equal(t, 7, c.SetHP(7))
}

func TestEquipmentListing(t *testing.T) {
	c := newTestCharacter()
	wizard := rules.Default().Spells()
	c.KnownSpells = wizard[:2]

	assert.True(t, c.HasWeapon("sword"))
	assert.False(t, c.HasWeapon("Bow"))
	assert.Equal(t, []string{"Sword", rules.UnarmoredName}, c.Equipment())
	assert.Equal(t, []string{"Acid Orb", "Necrotic Chill"}, c.SpellNames())
}

func TestCloneIsDeep(t *testing.T) {
	c := newTestCharacter()
	c.SetPortrait(&Portrait{MIMEType: "image/png", Data: []byte{1, 2, 3}})

	clone := c.Clone()
	clone.Abilities[rules.STR] = 18
	clone.Weapons[0].Cost = 1
	clone.Armor.Base = 99
	clone.Portrait.Data[0] = 9

	assert.Equal(t, 10, c.Abilities[rules.STR])
	assert.Equal(t, 50, c.Weapons[0].Cost)
	assert.Equal(t, 10, c.Armor.Base)
	assert.Equal(t, byte(1), c.Portrait.Data[0])
}

func TestPortraitDataURL(t *testing.T) {
	p := &Portrait{MIMEType: "image/png", Data: []byte("hi")}
	assert.Equal(t, "data:image/png;base64,aGk=", p.DataURL())

	var none *Portrait
	assert.Empty(t, none.DataURL())
	assert.Nil(t, none.Clone())
}

func TestCharacterYAML(t *testing.T) {
	c := newTestCharacter()

	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	var back Character
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, c.Name, back.Name)
	assert.Equal(t, c.Abilities, back.Abilities)
	assert.Equal(t, c.Weapons, back.Weapons)
}

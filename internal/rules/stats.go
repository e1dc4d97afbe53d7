package rules

import "fmt"

// AbilityModifier is floor((score - 10) / 2).
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// ProficiencyBonus returns the level-tiered proficiency bonus.
func ProficiencyBonus(level int) int {
	switch {
	case level >= 13:
		return 5
	case level >= 9:
		return 4
	case level >= 5:
		return 3
	default:
		return 2
	}
}

// ArmorClass evaluates armor against the wearer's modifiers. The armor's
// DexPenalty is informational and not applied.
func ArmorClass(armor Armor, dexMod, wisMod int) int {
	return armor.AC(dexMod, wisMod)
}

// FormatModifier renders a modifier with an explicit sign.
func FormatModifier(mod int) string {
	if mod >= 0 {
		return fmt.Sprintf("+%d", mod)
	}
	return fmt.Sprintf("%d", mod)
}

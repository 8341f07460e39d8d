package difficulty

// Scaling contains stat formulas applied to spawned monsters and rewards

// ScaleHP calculates scaled HP for a monster
// Formula: base_hp * strength
func ScaleHP(baseHP int, strength float64) int {
	if strength <= 0 {
		return baseHP
	}
	hp := int(float64(baseHP) * strength)
	if hp < 1 {
		hp = 1
	}
	return hp
}

// ScaleDamage calculates scaled damage for a monster
// Formula: base_damage * (1 + (strength - 1) * 0.8)
func ScaleDamage(baseDamage int, strength float64) int {
	if strength <= 0 {
		return baseDamage
	}
	multiplier := 1.0 + (strength-1.0)*0.8
	dmg := int(float64(baseDamage) * multiplier)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// ScaleReward calculates a puzzle or loot reward amount for a level
// Formula: base * (1 + level * 0.15)
func ScaleReward(base int, level float64) int {
	if level <= 0 {
		return base
	}
	return int(float64(base) * (1.0 + level*0.15))
}

// MonsterTier returns the monster tier for a difficulty level
// Used to pick which monster archetypes can spawn
func MonsterTier(level float64) int {
	switch {
	case level < 3:
		return 1 // vermin, skeletons
	case level < 5:
		return 2 // ghouls, cultists
	case level < 8:
		return 3 // wraiths, knights
	default:
		return 4 // elites
	}
}

// TierName returns a human-readable name for a tier
func TierName(tier int) string {
	switch tier {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	case 3:
		return "Hard"
	case 4:
		return "Elite"
	default:
		return "Unknown"
	}
}

// LootTier returns the loot tier for a difficulty level
// Higher tiers have better loot drops
func LootTier(level float64) int {
	switch {
	case level < 2:
		return 1 // Common
	case level < 4:
		return 2 // Uncommon
	case level < 6:
		return 3 // Rare
	case level < 8.5:
		return 4 // Epic
	default:
		return 5 // Legendary
	}
}

// LootTierName returns a human-readable name for the loot tier
func LootTierName(tier int) string {
	switch tier {
	case 1:
		return "Common"
	case 2:
		return "Uncommon"
	case 3:
		return "Rare"
	case 4:
		return "Epic"
	case 5:
		return "Legendary"
	default:
		return "Unknown"
	}
}

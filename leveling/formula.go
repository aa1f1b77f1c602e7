package leveling

// XPRequiredForLevel returns the XP delta needed to advance from level
// n to level n+1. Level 0 -> 1 costs 100 XP, 1 -> 2 costs 155, and so
// on along the 5n^2 + 50n + 100 schedule.
func XPRequiredForLevel(n int) int64 {
	level := int64(n)
	return 5*level*level + 50*level + 100
}

// CumulativeXPForLevel returns the total XP needed to hold level n,
// i.e. the sum of XPRequiredForLevel over levels 0..n-1.
func CumulativeXPForLevel(n int) int64 {
	var total int64
	for i := 0; i < n; i++ {
		total += XPRequiredForLevel(i)
	}
	return total
}

// LevelForXP returns the level a user with totalXP holds: the largest
// n whose cumulative requirement fits inside totalXP. LevelForXP(0) is
// 0, and exactly hitting a boundary (xp = 100) crosses it (level 1).
func LevelForXP(totalXP int64) int {
	level := 0
	for totalXP >= XPRequiredForLevel(level) {
		totalXP -= XPRequiredForLevel(level)
		level++
	}
	return level
}

// XPIntoLevel returns how far into the current level totalXP reaches.
func XPIntoLevel(totalXP int64) int64 {
	return totalXP - CumulativeXPForLevel(LevelForXP(totalXP))
}

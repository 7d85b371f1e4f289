package engine

import "math"

// XPForLevel returns the total XP needed to reach level.
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// MaxLevel caps the level search; XPForLevel(MaxLevel) is about 1e11.
const MaxLevel = 1_000_000

// LevelFromXP returns the highest level L in [1, MaxLevel] with
// xp >= XPForLevel(L). Level 1 is the floor, so a fresh profile with 0 XP is
// level 1.
func LevelFromXP(xp int) int {
	if xp < XPForLevel(2) {
		return 1
	}

	// Exponential search for an upper bound, then binary search.
	low, high := 1, 2
	for xp >= XPForLevel(high) {
		low = high
		if high >= MaxLevel {
			return MaxLevel
		}
		high = min(high*2, MaxLevel)
	}
	// xp >= XPForLevel(low) and xp < XPForLevel(high).
	for high-low > 1 {
		mid := low + (high-low)/2
		if xp >= XPForLevel(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// addXP adds without wrapping: totals saturate at the int bounds.
func addXP(total, amount int) int {
	switch {
	case amount > 0 && total > math.MaxInt-amount:
		return math.MaxInt
	case amount < 0 && total < math.MinInt-amount:
		return math.MinInt
	}
	return total + amount
}

type titleTier struct {
	MinLevel int
	Title    string
}

var titleTiers = []titleTier{
	{1, "Apprenti de la Vie"},
	{5, "Explorateur"},
	{10, "Aventurier"},
	{15, "Guerrier du Quotidien"},
	{20, "Maître de Soi"},
	{25, "Sage"},
	{30, "Légende Vivante"},
	{40, "Architecte de Destin"},
	{50, "Transcendant"},
}

// TitleForLevel picks the title of the highest tier not above level.
func TitleForLevel(level int) string {
	title := titleTiers[0].Title
	for _, t := range titleTiers {
		if level < t.MinLevel {
			break
		}
		title = t.Title
	}
	return title
}

// LevelProgress is the fraction of the way from level to level+1, in [0,1].
func LevelProgress(totalXP, level int) float64 {
	lo := XPForLevel(level)
	hi := XPForLevel(level + 1)
	if hi <= lo {
		return 0
	}
	f := float64(totalXP-lo) / float64(hi-lo)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

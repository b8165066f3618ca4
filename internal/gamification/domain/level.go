package domain

// LevelThresholds holds the cumulative XP needed for each level, level 1 first.
var LevelThresholds = [...]int{0, 100, 300, 600, 1000, 1500, 2500, 4000, 6000, 10000}

var levelTitles = [...]string{
	"Apprentice", "Worker", "Craftsman", "Journeyman", "Artisan",
	"Expert", "Master", "Grandmaster", "Legend", "Mythic",
}

// MaxLevel is the highest reachable level.
const MaxLevel = len(LevelThresholds)

// LevelFor returns the 1-based level for a total XP.
func LevelFor(totalXP int) int {
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if totalXP >= LevelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// LevelTitle names a level. Out of range levels are clamped.
func LevelTitle(level int) string {
	level = max(1, min(MaxLevel, level))
	return levelTitles[level-1]
}

// LevelProgress locates a total inside its level.
type LevelProgress struct {
	Level          int     `json:"level"`
	Title          string  `json:"title"`
	CurrentLevelXP int     `json:"current_level_xp"`
	NextLevelXP    int     `json:"next_level_xp"`
	XPToNextLevel  int     `json:"xp_to_next_level"`
	Percent        float64 `json:"percent"`
}

// ProgressFor reports how far totalXP is through its level. At the top
// level the span is zero and progress is 100.
func ProgressFor(totalXP int) LevelProgress {
	level := LevelFor(totalXP)
	floor := LevelThresholds[level-1]
	p := LevelProgress{
		Level:          level,
		Title:          LevelTitle(level),
		CurrentLevelXP: totalXP - floor,
		Percent:        100,
	}
	if level < MaxLevel {
		next := LevelThresholds[level]
		p.NextLevelXP = next - floor
		p.XPToNextLevel = next - totalXP
		p.Percent = float64(p.CurrentLevelXP) / float64(p.NextLevelXP) * 100
	}
	return p
}

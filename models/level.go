package models

import "math"

// LevelThreshold is one row of the leveling curve. Title is sparse: most
// levels leave it empty and inherit the title of the highest titled level
// below them.
type LevelThreshold struct {
	Level      int    `json:"level"`
	XPRequired int64  `json:"xp_required"`
	Title      string `json:"title,omitempty"`
}

// MaxLevel is the top of the reference curve.
const MaxLevel = 50

// levelTitles are the sparse title milestones.
var levelTitles = map[int]string{
	1:  "Novice Gainer",
	5:  "Aspiring Bulker",
	10: "Determined Gainer",
	15: "Bulk Warrior",
	20: "Mass Builder",
	25: "Strength Seeker",
	30: "Mass Master",
	35: "Bulk Champion",
	40: "Gain Expert",
	45: "Mass Legend",
	50: "Gain God",
}

// LevelThresholds is the immutable leveling curve, strictly increasing in
// XPRequired. Level 1 starts at 0 XP; level n requires floor(100 * n^1.5).
// The shape is reference data so it can be rebalanced without touching the
// ledger; stored XP is never reinterpreted.
var LevelThresholds = buildLevelThresholds()

func buildLevelThresholds() []LevelThreshold {
	rows := make([]LevelThreshold, 0, MaxLevel)
	for level := 1; level <= MaxLevel; level++ {
		xp := int64(0)
		if level > 1 {
			xp = int64(100 * math.Pow(float64(level), 1.5))
		}
		rows = append(rows, LevelThreshold{
			Level:      level,
			XPRequired: xp,
			Title:      levelTitles[level],
		})
	}
	return rows
}

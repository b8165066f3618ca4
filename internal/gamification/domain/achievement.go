package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrAchievementNotFound = errors.New("achievement not found")

// Category groups achievements by the counter they track.
type Category string

const (
	CategoryStreak       Category = "streak"
	CategoryProductivity Category = "productivity"
	CategoryConsistency  Category = "consistency"
	CategorySpecial      Category = "special"
)

const (
	AchievementEarlyBird   = "early_bird"
	AchievementNightOwl    = "night_owl"
	AchievementPerfectWeek = "perfect_week"
)

// AchievementTemplate defines an unlockable achievement.
type AchievementTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Requirement int      `json:"requirement"`
	XPReward    int      `json:"xp_reward"`
}

var catalog = []AchievementTemplate{
	{"streak_3", "Getting Started", "Work 3 days in a row", CategoryStreak, 3, 100},
	{"streak_7", "Week Warrior", "Work 7 days in a row", CategoryStreak, 7, 250},
	{"streak_14", "Fortnight Fighter", "Work 14 days in a row", CategoryStreak, 14, 500},
	{"streak_30", "Monthly Master", "Work 30 days in a row", CategoryStreak, 30, 1000},

	{"hours_10", "First Steps", "Log 10 hours of work", CategoryProductivity, 10, 50},
	{"hours_50", "Dedicated", "Log 50 hours of work", CategoryProductivity, 50, 200},
	{"hours_100", "Century Club", "Log 100 hours of work", CategoryProductivity, 100, 500},
	{"hours_500", "Half Millennium", "Log 500 hours of work", CategoryProductivity, 500, 1500},

	{"sessions_10", "Regular", "Complete 10 work sessions", CategoryConsistency, 10, 75},
	{"sessions_50", "Reliable", "Complete 50 work sessions", CategoryConsistency, 50, 300},
	{"sessions_100", "Dependable", "Complete 100 work sessions", CategoryConsistency, 100, 750},

	{"focus_10", "Focus Finder", "Complete 10 focus sessions", CategorySpecial, 10, 100},
	{"focus_50", "Deep Thinker", "Complete 50 focus sessions", CategorySpecial, 50, 400},

	{AchievementEarlyBird, "Early Bird", "Clock in before 7 AM", CategorySpecial, 1, 100},
	{AchievementNightOwl, "Night Owl", "Work past 10 PM", CategorySpecial, 1, 100},
	{AchievementPerfectWeek, "Perfect Week", "Work 5 days in one week", CategorySpecial, 5, 300},
}

// Catalog returns every achievement template in display order.
func Catalog() []AchievementTemplate {
	return append([]AchievementTemplate(nil), catalog...)
}

// FindAchievement looks a template up by id.
func FindAchievement(id string) (AchievementTemplate, error) {
	for _, a := range catalog {
		if a.ID == id {
			return a, nil
		}
	}
	return AchievementTemplate{}, fmt.Errorf("%w: %q", ErrAchievementNotFound, id)
}

// tracksCounter reports whether progress can unlock the template. Special
// achievements other than focus_* are unlocked by explicit events.
func (a AchievementTemplate) tracksCounter() bool {
	return a.Category != CategorySpecial || strings.HasPrefix(a.ID, "focus_")
}

// Achievement is a template with the user's progress.
type Achievement struct {
	AchievementTemplate
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Progress   int        `json:"progress"`
}

package domain

import (
	sharedDomain "github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "GamificationProfile"

	RoutingKeyXPAwarded           = "gamification.xp.awarded"
	RoutingKeyLevelUp             = "gamification.level.up"
	RoutingKeyAchievementUnlocked = "gamification.achievement.unlocked"
	RoutingKeyStreakUpdated       = "gamification.streak.updated"
)

// XPAwarded is emitted for every ledger entry.
type XPAwarded struct {
	sharedDomain.BaseEvent
	UserID     uuid.UUID `json:"user_id"`
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	ActionType string    `json:"action_type"`
	TotalXP    int       `json:"total_xp"`
	Level      int       `json:"level"`
}

func NewXPAwarded(p *Profile, amount int, reason string, action ActionType) *XPAwarded {
	return &XPAwarded{
		BaseEvent:  sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyXPAwarded),
		UserID:     p.ID(),
		Amount:     amount,
		Reason:     reason,
		ActionType: string(action),
		TotalXP:    p.totalXP,
		Level:      p.Level(),
	}
}

type LevelUp struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID `json:"user_id"`
	PreviousLevel int       `json:"previous_level"`
	Level         int       `json:"level"`
	Title         string    `json:"title"`
}

func NewLevelUp(p *Profile, previous, level int) *LevelUp {
	return &LevelUp{
		BaseEvent:     sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyLevelUp),
		UserID:        p.ID(),
		PreviousLevel: previous,
		Level:         level,
		Title:         LevelTitle(level),
	}
}

type AchievementUnlocked struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	XPReward      int       `json:"xp_reward"`
}

func NewAchievementUnlocked(p *Profile, t AchievementTemplate) *AchievementUnlocked {
	return &AchievementUnlocked{
		BaseEvent:     sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyAchievementUnlocked),
		UserID:        p.ID(),
		AchievementID: t.ID,
		Name:          t.Name,
		XPReward:      t.XPReward,
	}
}

type StreakUpdated struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	Date          string    `json:"date"`
}

func NewStreakUpdated(p *Profile) *StreakUpdated {
	return &StreakUpdated{
		BaseEvent:     sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyStreakUpdated),
		UserID:        p.ID(),
		CurrentStreak: p.currentStreak,
		LongestStreak: p.longestStreak,
		Date:          p.lastActivityDate,
	}
}

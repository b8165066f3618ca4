package domain

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownAction = errors.New("unknown action type")

// ActionType is a user action the server awards XP for.
type ActionType string

const (
	ActionNoteAdded            ActionType = "NOTE_ADDED"
	ActionSessionCompleted     ActionType = "SESSION_COMPLETED"
	ActionChecklistComplete    ActionType = "CHECKLIST_COMPLETE"
	ActionClockIn              ActionType = "CLOCK_IN"
	ActionClockOut             ActionType = "CLOCK_OUT"
	ActionFocusSessionComplete ActionType = "FOCUS_SESSION_COMPLETE"
	ActionTaskCompleted        ActionType = "TASK_COMPLETED"
	ActionGoalCreated          ActionType = "GOAL_CREATED"
	ActionQuickNote            ActionType = "QUICK_NOTE"
	ActionJournalEntrySaved    ActionType = "JOURNAL_ENTRY_SAVED"
	ActionBodyDoublingSession  ActionType = "BODY_DOUBLING_SESSION"
	ActionBlockCompleted       ActionType = "BLOCK_COMPLETED"
	ActionWeeklyMilestone      ActionType = "WEEKLY_MILESTONE"

	// ActionAchievementUnlocked tags the reward of an unlocked achievement.
	// It cannot be awarded directly.
	ActionAchievementUnlocked ActionType = "ACHIEVEMENT_UNLOCKED"
)

var actionXP = map[ActionType]int{
	ActionNoteAdded:            5,
	ActionSessionCompleted:     10,
	ActionChecklistComplete:    20,
	ActionClockIn:              10,
	ActionClockOut:             20,
	ActionFocusSessionComplete: 30,
	ActionTaskCompleted:        15,
	ActionGoalCreated:          10,
	ActionQuickNote:            5,
	ActionJournalEntrySaved:    20,
	ActionBodyDoublingSession:  30,
	ActionBlockCompleted:       10,
	ActionWeeklyMilestone:      1000,
}

// ParseActionType validates an awardable action.
func ParseActionType(s string) (ActionType, error) {
	a := ActionType(s)
	if _, ok := actionXP[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// XP returns the server-side award for the action.
func (a ActionType) XP() (int, error) {
	xp, ok := actionXP[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	return xp, nil
}

// ActionTypes lists every awardable action in name order.
func ActionTypes() []ActionType {
	out := make([]ActionType, 0, len(actionXP))
	for a := range actionXP {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClientXPConfig is the table clients use for optimistic display.
func ClientXPConfig() map[string]int {
	return map[string]int{
		"clockIn":              10,
		"clockOut":             20,
		"hourWorked":           50,
		"streakDay":            25,
		"streak3Days":          100,
		"streak7Days":          250,
		"streak30Days":         1000,
		"focusSessionComplete": 30,
		"taskComplete":         15,
		"noteCreated":          5,
		"earlyArrival":         50,
		"fullWeek":             500,
	}
}

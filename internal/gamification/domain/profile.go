package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/workday/internal/shared/domain"
	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("gamification profile not found")

// XPTransaction is one ledger row written alongside a profile save.
type XPTransaction struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Amount     int
	Reason     string
	ActionType ActionType
	CreatedAt  time.Time
}

// AwardResult reports the profile totals after an award.
type AwardResult struct {
	TotalXP       int  `json:"total_xp"`
	Level         int  `json:"level"`
	XPGained      int  `json:"xp_gained"`
	LeveledUp     bool `json:"leveled_up"`
	PreviousLevel int  `json:"previous_level"`
}

// StreakResult reports the streak counters after an update.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// Profile is the per-user gamification aggregate. Its ID is the user ID.
type Profile struct {
	sharedDomain.BaseAggregateRoot
	totalXP          int
	currentStreak    int
	longestStreak    int
	lastActivityDate string
	totalWorkMinutes int
	totalSessions    int
	focusSessions    int
	unlocked         map[string]time.Time
	transactions     []XPTransaction
}

// NewProfile creates an empty level 1 profile.
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRootWithID(userID),
		unlocked:          make(map[string]time.Time),
	}
}

// ProfileState is the persisted form of a profile.
type ProfileState struct {
	UserID           uuid.UUID
	TotalXP          int
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate string
	TotalWorkMinutes int
	TotalSessions    int
	FocusSessions    int
	Unlocked         map[string]time.Time
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RehydrateProfile recreates a profile from persisted state.
func RehydrateProfile(s ProfileState) *Profile {
	unlocked := make(map[string]time.Time, len(s.Unlocked))
	for id, at := range s.Unlocked {
		unlocked[id] = at
	}
	entity := sharedDomain.RehydrateBaseEntity(s.UserID, s.CreatedAt, s.UpdatedAt)
	return &Profile{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity, s.Version),
		totalXP:           s.TotalXP,
		currentStreak:     s.CurrentStreak,
		longestStreak:     s.LongestStreak,
		lastActivityDate:  s.LastActivityDate,
		totalWorkMinutes:  s.TotalWorkMinutes,
		totalSessions:     s.TotalSessions,
		focusSessions:     s.FocusSessions,
		unlocked:          unlocked,
	}
}

func (p *Profile) UserID() uuid.UUID        { return p.ID() }
func (p *Profile) TotalXP() int             { return p.totalXP }
func (p *Profile) Level() int               { return LevelFor(p.totalXP) }
func (p *Profile) CurrentStreak() int       { return p.currentStreak }
func (p *Profile) LongestStreak() int       { return p.longestStreak }
func (p *Profile) LastActivityDate() string { return p.lastActivityDate }
func (p *Profile) TotalWorkMinutes() int    { return p.totalWorkMinutes }
func (p *Profile) TotalSessions() int       { return p.totalSessions }
func (p *Profile) FocusSessions() int       { return p.focusSessions }
func (p *Profile) Progress() LevelProgress  { return ProgressFor(p.totalXP) }

// TotalHoursWorked is whole hours of logged work.
func (p *Profile) TotalHoursWorked() int {
	return p.totalWorkMinutes / 60
}

// IsUnlocked reports whether the achievement has been unlocked.
func (p *Profile) IsUnlocked(id string) bool {
	_, ok := p.unlocked[id]
	return ok
}

// UnlockedAchievements returns unlock times by achievement ID.
func (p *Profile) UnlockedAchievements() map[string]time.Time {
	out := make(map[string]time.Time, len(p.unlocked))
	for id, at := range p.unlocked {
		out[id] = at
	}
	return out
}

// Achievements lists the whole catalog with this profile's progress.
func (p *Profile) Achievements() []Achievement {
	out := make([]Achievement, 0, len(catalog))
	for _, t := range catalog {
		a := Achievement{AchievementTemplate: t, Progress: min(p.counterFor(t), t.Requirement)}
		if at, ok := p.unlocked[t.ID]; ok {
			a.Unlocked = true
			a.UnlockedAt = &at
			a.Progress = t.Requirement
		}
		out = append(out, a)
	}
	return out
}

// PendingTransactions returns XP rows not yet persisted.
func (p *Profile) PendingTransactions() []XPTransaction {
	return append([]XPTransaction(nil), p.transactions...)
}

// ClearPendingTransactions is called by the repository after a save.
func (p *Profile) ClearPendingTransactions() {
	p.transactions = nil
}

// AwardXP grants the server-side amount for an action. An empty reason
// becomes "Action: <type>".
func (p *Profile) AwardXP(action ActionType, reason string) (AwardResult, error) {
	amount, err := action.XP()
	if err != nil {
		return AwardResult{}, err
	}
	if strings.TrimSpace(reason) == "" {
		reason = "Action: " + string(action)
	}
	if action == ActionFocusSessionComplete {
		p.focusSessions++
	}
	return p.addXP(amount, reason, action), nil
}

func (p *Profile) addXP(amount int, reason string, action ActionType) AwardResult {
	previous := p.Level()
	p.totalXP += amount
	level := p.Level()

	p.transactions = append(p.transactions, XPTransaction{
		ID:         uuid.New(),
		UserID:     p.ID(),
		Amount:     amount,
		Reason:     reason,
		ActionType: action,
		CreatedAt:  time.Now().UTC(),
	})
	p.Touch()
	p.AddDomainEvent(NewXPAwarded(p, amount, reason, action))
	if level > previous {
		p.AddDomainEvent(NewLevelUp(p, previous, level))
	}
	return AwardResult{
		TotalXP:       p.totalXP,
		Level:         level,
		XPGained:      amount,
		LeveledUp:     level > previous,
		PreviousLevel: previous,
	}
}

// UpdateStreak applies today's activity. Without increment it only
// reports the counters. today is YYYY-MM-DD.
func (p *Profile) UpdateStreak(increment bool, today string) StreakResult {
	if increment {
		switch p.lastActivityDate {
		case previousDay(today):
			p.currentStreak++
		case today:
		default:
			p.currentStreak = 1
		}
		p.lastActivityDate = today
		p.longestStreak = max(p.longestStreak, p.currentStreak)
		p.Touch()
		p.AddDomainEvent(NewStreakUpdated(p))
	}
	return StreakResult{CurrentStreak: p.currentStreak, LongestStreak: p.longestStreak}
}

// RecordWork adds one completed work session of the given length.
func (p *Profile) RecordWork(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	p.totalWorkMinutes += minutes
	p.totalSessions++
	p.Touch()
}

// Unlock unlocks an achievement and grants its reward. Unlocking twice
// returns false and grants nothing.
func (p *Profile) Unlock(id string, now time.Time) (AchievementTemplate, bool, error) {
	t, err := FindAchievement(id)
	if err != nil {
		return AchievementTemplate{}, false, err
	}
	if p.IsUnlocked(id) {
		return t, false, nil
	}
	p.unlock(t, now)
	return t, true, nil
}

func (p *Profile) unlock(t AchievementTemplate, now time.Time) {
	p.unlocked[t.ID] = now.UTC()
	p.AddDomainEvent(NewAchievementUnlocked(p, t))
	p.addXP(t.XPReward, fmt.Sprintf("Achievement: %s", t.Name), ActionAchievementUnlocked)
}

// EvaluateAchievements unlocks every counter-tracked achievement whose
// requirement is met and returns the new ones in catalog order.
func (p *Profile) EvaluateAchievements(now time.Time) []AchievementTemplate {
	var unlocked []AchievementTemplate
	for _, t := range catalog {
		if !t.tracksCounter() || p.IsUnlocked(t.ID) {
			continue
		}
		if p.counterFor(t) >= t.Requirement {
			p.unlock(t, now)
			unlocked = append(unlocked, t)
		}
	}
	return unlocked
}

func (p *Profile) counterFor(t AchievementTemplate) int {
	switch t.Category {
	case CategoryStreak:
		return p.currentStreak
	case CategoryProductivity:
		return p.TotalHoursWorked()
	case CategoryConsistency:
		return p.totalSessions
	case CategorySpecial:
		if strings.HasPrefix(t.ID, "focus_") {
			return p.focusSessions
		}
	}
	return 0
}

// UnlockedIDs returns the unlocked achievement IDs sorted.
func (p *Profile) UnlockedIDs() []string {
	ids := make([]string, 0, len(p.unlocked))
	for id := range p.unlocked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package queries

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/google/uuid"
)

type GetProfileQuery struct {
	UserID uuid.UUID
}

// ProfileDTO is the read model served to clients.
type ProfileDTO struct {
	UserID           uuid.UUID            `json:"user_id"`
	TotalXP          int                  `json:"total_xp"`
	Level            int                  `json:"level"`
	LevelTitle       string               `json:"level_title"`
	Progress         domain.LevelProgress `json:"progress"`
	CurrentStreak    int                  `json:"current_streak"`
	LongestStreak    int                  `json:"longest_streak"`
	LastActivityDate *string              `json:"last_activity_date"`
	TotalWorkMinutes int                  `json:"total_work_minutes"`
	TotalHoursWorked int                  `json:"total_hours_worked"`
	TotalSessions    int                  `json:"total_sessions"`
	FocusSessions    int                  `json:"focus_sessions"`
	Achievements     []domain.Achievement `json:"achievements"`
}

// GetProfileHandler handles GetProfileQuery.
type GetProfileHandler struct {
	profileRepo domain.ProfileRepository
}

func NewGetProfileHandler(profileRepo domain.ProfileRepository) *GetProfileHandler {
	return &GetProfileHandler{profileRepo: profileRepo}
}

// Handle returns level 1 defaults for a user with no profile.
func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfileQuery) (*ProfileDTO, error) {
	profile, err := h.profileRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = domain.NewProfile(query.UserID)
	}
	return ToProfileDTO(profile), nil
}

func ToProfileDTO(p *domain.Profile) *ProfileDTO {
	dto := &ProfileDTO{
		UserID:           p.UserID(),
		TotalXP:          p.TotalXP(),
		Level:            p.Level(),
		LevelTitle:       domain.LevelTitle(p.Level()),
		Progress:         p.Progress(),
		CurrentStreak:    p.CurrentStreak(),
		LongestStreak:    p.LongestStreak(),
		TotalWorkMinutes: p.TotalWorkMinutes(),
		TotalHoursWorked: p.TotalHoursWorked(),
		TotalSessions:    p.TotalSessions(),
		FocusSessions:    p.FocusSessions(),
		Achievements:     p.Achievements(),
	}
	if last := p.LastActivityDate(); last != "" {
		dto.LastActivityDate = &last
	}
	return dto
}

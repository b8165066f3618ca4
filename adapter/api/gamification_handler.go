package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	"github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
)

// GamificationHandler serves the XP, streak and achievement routes.
type GamificationHandler struct {
	getProfile *queries.GetProfileHandler
	awardXP    *commands.AwardXPHandler
	streak     *commands.UpdateStreakHandler
	unlock     *commands.UnlockAchievementHandler
	logger     *slog.Logger
}

func NewGamificationHandler(
	getProfile *queries.GetProfileHandler,
	awardXP *commands.AwardXPHandler,
	streak *commands.UpdateStreakHandler,
	unlock *commands.UnlockAchievementHandler,
	logger *slog.Logger,
) *GamificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GamificationHandler{
		getProfile: getProfile,
		awardXP:    awardXP,
		streak:     streak,
		unlock:     unlock,
		logger:     logger,
	}
}

// GetProfile handles GET /api/v1/gamification.
func (h *GamificationHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.getProfile.Handle(r.Context(), queries.GetProfileQuery{UserID: userFrom(r)})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// AwardXP handles POST /api/v1/gamification/xp. The amount in the body is
// ignored; the action type decides the award.
func (h *GamificationHandler) AwardXP(w http.ResponseWriter, r *http.Request) {
	var req dto.AwardXPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.awardXP.Handle(r.Context(), commands.AwardXPCommand{
		UserID:     userFrom(r),
		ActionType: req.ActionType,
		Reason:     req.Reason,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AwardXPResponse{
		Success:       true,
		TotalXP:       res.TotalXP,
		Level:         res.Level,
		XPGained:      res.XPGained,
		LeveledUp:     res.LeveledUp,
		PreviousLevel: res.PreviousLevel,
	})
}

// UpdateStreak handles POST /api/v1/gamification/streak. A user without a
// profile gets 404.
func (h *GamificationHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	var req dto.StreakRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.streak.Handle(r.Context(), commands.UpdateStreakCommand{
		UserID:     userFrom(r),
		Increment:  req.Increment,
		ClientDate: req.ClientDate,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	for _, a := range res.Unlocked {
		h.logger.InfoContext(r.Context(), "achievement unlocked", "achievement_id", a.ID)
	}
	writeJSON(w, http.StatusOK, dto.StreakResponse{
		Success:       true,
		CurrentStreak: res.CurrentStreak,
		LongestStreak: res.LongestStreak,
	})
}

// UnlockAchievement handles POST /api/v1/gamification/achievements/{id}/unlock.
func (h *GamificationHandler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	res, err := h.unlock.Handle(r.Context(), commands.UnlockAchievementCommand{
		UserID:        userFrom(r),
		AchievementID: r.PathValue("id"),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

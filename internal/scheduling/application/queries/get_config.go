package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

type GetConfigQuery struct {
	UserID uuid.UUID
}

// GetConfigHandler serves the client XP table and the user's template.
type GetConfigHandler struct {
	templateRepo domain.TemplateRepository
	xpConfig     map[string]int
	logger       *slog.Logger
}

func NewGetConfigHandler(templateRepo domain.TemplateRepository, xpConfig map[string]int, logger *slog.Logger) *GetConfigHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetConfigHandler{
		templateRepo: templateRepo,
		xpConfig:     xpConfig,
		logger:       logger,
	}
}

// Handle falls back to the built-in template when none is stored or the
// stored one cannot be read.
func (h *GetConfigHandler) Handle(ctx context.Context, query GetConfigQuery) (*dto.ConfigResponse, error) {
	tmpl, err := h.templateRepo.FindDefault(ctx, query.UserID)
	if err != nil {
		h.logger.Warn("template lookup failed, serving fallback",
			"user_id", query.UserID,
			"error", err,
		)
		tmpl = nil
	}
	if tmpl == nil || len(tmpl.Entries()) == 0 {
		tmpl = domain.FallbackTemplate()
	}

	xp := make(map[string]int, len(h.xpConfig))
	for k, v := range h.xpConfig {
		xp[k] = v
	}
	return &dto.ConfigResponse{
		XPConfig:        xp,
		DefaultTemplate: dto.FromTemplate(tmpl),
	}, nil
}

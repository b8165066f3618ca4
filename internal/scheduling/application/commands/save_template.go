package commands

import (
	"context"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SaveTemplateCommand stores the user's default day template.
type SaveTemplateCommand struct {
	UserID      uuid.UUID
	Name        string
	Description string
	Entries     []domain.TemplateEntry
}

// SaveTemplateHandler handles SaveTemplateCommand.
type SaveTemplateHandler struct {
	templateRepo domain.TemplateRepository
}

func NewSaveTemplateHandler(templateRepo domain.TemplateRepository) *SaveTemplateHandler {
	return &SaveTemplateHandler{templateRepo: templateRepo}
}

// Handle rejects entries with a non-positive duration.
func (h *SaveTemplateHandler) Handle(ctx context.Context, cmd SaveTemplateCommand) (*domain.Template, error) {
	tmpl, err := domain.NewTemplate(cmd.Name, cmd.Description, cmd.Entries)
	if err != nil {
		return nil, err
	}
	tmpl.MarkDefault()
	if err := h.templateRepo.SaveDefault(ctx, cmd.UserID, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

package services

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
)

// TemplateProvider never fails: any problem with the fetched template yields
// the built-in one.
type TemplateProvider struct {
	gateway ScheduleGateway
	logger  *slog.Logger
}

func NewTemplateProvider(gateway ScheduleGateway, logger *slog.Logger) *TemplateProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateProvider{gateway: gateway, logger: logger}
}

func (p *TemplateProvider) Template(ctx context.Context) *domain.Template {
	tmpl, err := p.gateway.FetchTemplate(ctx)
	switch {
	case err != nil:
		p.logger.Warn("template fetch failed, using fallback", "error", err)
	case tmpl == nil || len(tmpl.Entries()) == 0:
		p.logger.Debug("no template stored, using fallback")
	default:
		if err := tmpl.Validate(); err != nil {
			p.logger.Warn("stored template invalid, using fallback", "template", tmpl.Name(), "error", err)
			break
		}
		return tmpl
	}
	return domain.FallbackTemplate()
}

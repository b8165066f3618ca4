package gateway

import (
	"context"
	"errors"
	"time"

	gamificationCommands "github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	gamificationQueries "github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	gamificationDomain "github.com/felixgeelhaar/workday/internal/gamification/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// LocalScheduleGateway calls the scheduling handlers in process.
type LocalScheduleGateway struct {
	userID        uuid.UUID
	templates     domain.TemplateRepository
	getBlocks     *queries.GetBlocksHandler
	getIncomplete *queries.GetIncompleteHandler
	saveBlocks    *commands.SaveBlocksHandler
	carryOver     *commands.CommitCarryOverHandler
}

func NewLocalScheduleGateway(
	userID uuid.UUID,
	templates domain.TemplateRepository,
	getBlocks *queries.GetBlocksHandler,
	getIncomplete *queries.GetIncompleteHandler,
	saveBlocks *commands.SaveBlocksHandler,
	carryOver *commands.CommitCarryOverHandler,
) *LocalScheduleGateway {
	return &LocalScheduleGateway{
		userID:        userID,
		templates:     templates,
		getBlocks:     getBlocks,
		getIncomplete: getIncomplete,
		saveBlocks:    saveBlocks,
		carryOver:     carryOver,
	}
}

func (g *LocalScheduleGateway) FetchTemplate(ctx context.Context) (*domain.Template, error) {
	return g.templates.FindDefault(ctx, g.userID)
}

func (g *LocalScheduleGateway) LoadBlocks(ctx context.Context, date time.Time) ([]domain.Block, error) {
	resp, err := g.getBlocks.Handle(ctx, queries.GetBlocksQuery{UserID: g.userID, Date: date})
	if err != nil {
		return nil, err
	}
	return dto.ToBlocks(resp.Blocks)
}

func (g *LocalScheduleGateway) SaveBlocks(ctx context.Context, date time.Time, blocks []domain.Block) error {
	_, err := g.saveBlocks.Handle(ctx, commands.SaveBlocksCommand{UserID: g.userID, Date: date, Blocks: blocks})
	return err
}

func (g *LocalScheduleGateway) FetchIncomplete(ctx context.Context, today time.Time) ([]domain.Block, error) {
	resp, err := g.getIncomplete.Handle(ctx, queries.GetIncompleteQuery{UserID: g.userID, Today: today})
	if err != nil {
		return nil, err
	}
	return dto.ToBlocks(resp.IncompleteBlocks)
}

func (g *LocalScheduleGateway) CommitCarryOver(ctx context.Context, blockIDs []uuid.UUID, toDate time.Time) error {
	_, err := g.carryOver.Handle(ctx, commands.CommitCarryOverCommand{
		UserID:      g.userID,
		BlockIDs:    blockIDs,
		CarryToDate: domain.DateKey(toDate),
	})
	return err
}

// LocalXPGateway calls the gamification handlers in process.
type LocalXPGateway struct {
	userID  uuid.UUID
	profile *gamificationQueries.GetProfileHandler
	award   *gamificationCommands.AwardXPHandler
	streak  *gamificationCommands.UpdateStreakHandler
}

func NewLocalXPGateway(
	userID uuid.UUID,
	profile *gamificationQueries.GetProfileHandler,
	award *gamificationCommands.AwardXPHandler,
	streak *gamificationCommands.UpdateStreakHandler,
) *LocalXPGateway {
	return &LocalXPGateway{userID: userID, profile: profile, award: award, streak: streak}
}

func (g *LocalXPGateway) TotalXP(ctx context.Context) (int, error) {
	p, err := g.profile.Handle(ctx, gamificationQueries.GetProfileQuery{UserID: g.userID})
	if err != nil {
		return 0, err
	}
	return p.TotalXP, nil
}

// AwardXP ignores amount; the action decides the award.
func (g *LocalXPGateway) AwardXP(ctx context.Context, _ int, reason, actionType string) (services.XPAward, error) {
	res, err := g.award.Handle(ctx, gamificationCommands.AwardXPCommand{
		UserID:     g.userID,
		ActionType: actionType,
		Reason:     reason,
	})
	if err != nil {
		return services.XPAward{}, err
	}
	return services.XPAward{
		TotalXP:       res.TotalXP,
		Level:         res.Level,
		XPGained:      res.XPGained,
		LeveledUp:     res.LeveledUp,
		PreviousLevel: res.PreviousLevel,
	}, nil
}

func (g *LocalXPGateway) UpdateStreak(ctx context.Context, clientDate string) error {
	_, err := g.streak.Handle(ctx, gamificationCommands.UpdateStreakCommand{
		UserID:     g.userID,
		Increment:  true,
		ClientDate: clientDate,
	})
	if errors.Is(err, gamificationDomain.ErrProfileNotFound) {
		return nil
	}
	return err
}

package app

import (
	"github.com/felixgeelhaar/workday/adapter/api"
)

// NewAPIServer builds the HTTP API over the container's handlers. It
// returns nil when no database is open.
func (c *Container) NewAPIServer() *api.Server {
	if c.DBConn == nil {
		return nil
	}

	schedule := api.NewScheduleHandler(api.ScheduleHandlerConfig{
		GetBlocks:     c.GetBlocksHandler,
		GetIncomplete: c.GetIncompleteHandler,
		GetConfig:     c.GetConfigHandler,
		SaveBlocks:    c.SaveBlocksHandler,
		PatchBlock:    c.PatchBlockHandler,
		CarryOver:     c.CommitCarryOverHandler,
		SaveTemplate:  c.SaveTemplateHandler,
		Location:      c.Location,
		Logger:        c.Logger,
	})
	gamification := api.NewGamificationHandler(
		c.GetProfileHandler,
		c.AwardXPHandler,
		c.UpdateStreakHandler,
		c.UnlockAchievementHandler,
		c.Logger,
	)

	cfg := api.DefaultServerConfig()
	if c.Config.APIAddr != "" {
		cfg.Addr = c.Config.APIAddr
	}
	cfg.DefaultUser = c.Config.DefaultUser()
	return api.NewServer(cfg, schedule, gamification, c.Health, c.Logger)
}

package xp

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/workday/adapter/cli"
	internalApp "github.com/felixgeelhaar/workday/internal/app"
	"github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:            "test",
		LocalMode:         true,
		DatabaseDriver:    "sqlite",
		SQLitePath:        filepath.Join(t.TempDir(), "test.db"),
		UserID:            config.DefaultUserID,
		ScheduleStartTime: "08:00",
		TargetWorkMinutes: 480,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := internalApp.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(cfg, container.Session, container.CarryOver, container.ScheduleGateway, container.XPGateway)
	app.SetGamificationHandlers(container.GetProfileHandler, container.UnlockAchievementHandler)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestShowCmd_NewUser(t *testing.T) {
	setupLocalModeTestApp(t)

	out := run(t, showCmd)

	assert.Contains(t, out, "Level 1 Apprentice")
	assert.Contains(t, out, "XP: 0")
	assert.Contains(t, out, "100 XP to level 2")
	assert.Contains(t, out, "Streak: 0 days")
}

func TestAwardCmd(t *testing.T) {
	setupLocalModeTestApp(t)

	out := run(t, awardCmd, "task_completed", "shipped")
	assert.Contains(t, out, "+15 XP (total 15)")

	assert.Contains(t, run(t, showCmd), "XP: 15")
}

func TestAwardCmd_UnknownAction(t *testing.T) {
	setupLocalModeTestApp(t)

	awardCmd.SetContext(context.Background())
	err := awardCmd.RunE(awardCmd, []string{"DANCE"})
	assert.Error(t, err)
}

func TestStreakCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	ctx := context.Background()

	run(t, awardCmd, "CLOCK_IN")
	run(t, streakCmd)
	run(t, streakCmd)

	profile, err := app.GetProfileHandler.Handle(ctx, queries.GetProfileQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CurrentStreak)
}

func TestUnlockCmd(t *testing.T) {
	setupLocalModeTestApp(t)

	run(t, awardCmd, "CLOCK_IN")
	out := run(t, unlockCmd, "perfect_week")
	assert.Contains(t, out, "Unlocked")

	again := run(t, unlockCmd, "perfect_week")
	assert.Contains(t, again, "already unlocked")
}

func TestActionsCmd(t *testing.T) {
	out := run(t, actionsCmd)

	assert.Contains(t, out, "BLOCK_COMPLETED")
	assert.NotContains(t, out, "ACHIEVEMENT_UNLOCKED")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+"....................]", bar(0))
	assert.Equal(t, "["+"##########"+"##########"+"]", bar(100))
	assert.Equal(t, "["+"##########"+".........."+"]", bar(50))
}

package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

// RegisterPrompts registers MCP prompts for the daily workflow.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("start_day").
		Description("Open today, decide on yesterday's unfinished work and start the first block.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Start of Day", `Help me start my workday:

1. Read workday://carryover. If there is unfinished work from yesterday,
   tell me how much and ask whether to carry it over. Use carryover.accept
   or carryover.dismiss with my answer.
2. Read workday://schedule/today and summarize the blocks with their times.
3. Start the first pending work block with schedule.start.
4. Record the day with xp.streak.`), nil
		})

	srv.Prompt("check_in").
		Description("Compare progress with the clock and adjust the rest of the day.").
		Argument("note", "What you are working on right now", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			note := args["note"]
			if note == "" {
				note = "(no note)"
			}
			return userPrompt("Check-in", fmt.Sprintf(`Quick check-in. Current focus: %s

Read workday://schedule/today and tell me:
- whether I am on track or behind, and the estimated end of the day
- which block is current and which comes next

If the current block ran long, offer to move its end with schedule.update
so later blocks shift. Add my note to the current block if I agree.`, note)), nil
		})

	srv.Prompt("end_of_day").
		Description("Review the day, close out blocks and see XP earned.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("End of Day Review", `Let's wrap up my day:

1. Read workday://schedule/today.
2. For each block still pending or in progress, ask me whether it was done.
   Use schedule.complete or schedule.skip with my answer. Skipped work can
   be carried into tomorrow.
3. Summarize completed work minutes against the target and the XP earned.
4. Read workday://xp/profile and mention the streak and any achievement
   that is close to unlocking.`), nil
		})

	return nil
}

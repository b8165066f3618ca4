package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ErrNoApp is returned by commands run before the container is ready.
var ErrNoApp = errors.New("workday is not initialized")

// ErrUnknownBlock is returned when a block reference matches nothing.
var ErrUnknownBlock = errors.New("no such block")

// RequireApp returns the global app or ErrNoApp.
func RequireApp() (*App, error) {
	if app == nil || app.Session == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

// ResolveBlock finds a block by its 1-based position, full id, or an id
// prefix of at least four characters.
func ResolveBlock(blocks []domain.Block, ref string) (domain.Block, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(blocks) {
			return domain.Block{}, fmt.Errorf("%w: position %d of %d", ErrUnknownBlock, n, len(blocks))
		}
		return blocks[n-1], nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		for _, b := range blocks {
			if b.ID() == id {
				return b, nil
			}
		}
		return domain.Block{}, fmt.Errorf("%w: %s", ErrUnknownBlock, ref)
	}
	if len(ref) < 4 {
		return domain.Block{}, fmt.Errorf("%w: %q is too short", ErrUnknownBlock, ref)
	}

	var match *domain.Block
	for i := range blocks {
		if strings.HasPrefix(blocks[i].ID().String(), strings.ToLower(ref)) {
			if match != nil {
				return domain.Block{}, fmt.Errorf("%w: %q is ambiguous", ErrUnknownBlock, ref)
			}
			match = &blocks[i]
		}
	}
	if match == nil {
		return domain.Block{}, fmt.Errorf("%w: %s", ErrUnknownBlock, ref)
	}
	return *match, nil
}

// ParseClock places an HH:MM wall-clock time on day.
func ParseClock(day time.Time, value string) (time.Time, error) {
	tod, err := domain.ParseTimeOfDay(value)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(day), nil
}

func statusMark(s domain.BlockStatus) string {
	switch s {
	case domain.StatusCompleted:
		return "[x]"
	case domain.StatusInProgress:
		return "[>]"
	case domain.StatusSkipped:
		return "[-]"
	case domain.StatusCarriedOver:
		return "[~]"
	case domain.StatusPartial:
		return "[/]"
	default:
		return "[ ]"
	}
}

// PrintBlock writes one numbered block line.
func PrintBlock(w io.Writer, position int, b domain.Block) {
	fmt.Fprintf(w, "%2d. %s %s - %s  %-5s %s (%dm)",
		position,
		statusMark(b.Status()),
		b.StartTime().Format("15:04"),
		b.EndTime().Format("15:04"),
		b.Type(),
		b.Label(),
		b.DurationMinutes(),
	)
	if b.XPEarned() > 0 {
		fmt.Fprintf(w, " +%d XP", b.XPEarned())
	}
	fmt.Fprintln(w)
	if b.Notes() != "" {
		fmt.Fprintf(w, "      %s\n", b.Notes())
	}
}

// PrintSchedule writes the day with its totals and progress.
func PrintSchedule(w io.Writer, view services.ScheduleView) {
	fmt.Fprintf(w, "Schedule for %s (%s)\n", view.Date, view.Source)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for i, b := range view.Blocks {
		PrintBlock(w, i+1, b)
	}

	stats := view.Stats
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Work: %dm | Breaks: %dm", view.TotalWorkMinutes, view.TotalBreakMinutes)
	if view.CarriedMinutes > 0 {
		fmt.Fprintf(w, " | Carried: %dm", view.CarriedMinutes)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Done: %d/%d blocks, %dm of work (%.0f%%, expected %.0f%%)\n",
		stats.CompletedBlocks, stats.TotalBlocks,
		stats.CompletedWorkMinutes, stats.ProgressPercent, stats.ExpectedPercent)
	if view.IsComplete {
		fmt.Fprintln(w, "Day complete.")
	} else {
		track := "behind"
		if stats.IsOnTrack {
			track = "on track"
		}
		fmt.Fprintf(w, "Status: %s, estimated end %s\n", track, stats.EstimatedEndTime.Format("15:04"))
	}
	fmt.Fprintf(w, "XP: %d (level %d)", view.XP.TotalXP, view.XP.Level)
	if n := len(view.XP.Pending); n > 0 {
		fmt.Fprintf(w, " (%d pending)", n)
	}
	fmt.Fprintln(w)
}

// Package caldav mirrors a day's blocks into a CalDAV calendar (Apple
// Calendar, Fastmail, Nextcloud).
package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// PropXWorkday marks events created by the mirror.
const PropXWorkday = "X-WORKDAY"

var ErrNoCalendar = errors.New("no calendars found")

type Config struct {
	URL      string
	Username string
	Password string
	// CalendarPath selects a calendar; empty means the first one found.
	CalendarPath string
	Timeout      time.Duration
}

// Mirror writes one event per block and removes its own events that no
// longer match a block of the day.
type Mirror struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func NewMirror(cfg Config, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Mirror{cfg: cfg, logger: logger, now: time.Now}
}

// Configured reports whether a server URL is set.
func (m *Mirror) Configured() bool {
	return m.cfg.URL != ""
}

// Push replaces the mirrored events of date with blocks.
func (m *Mirror) Push(ctx context.Context, userID uuid.UUID, date time.Time, blocks []domain.Block) (*services.MirrorResult, error) {
	client, err := m.client()
	if err != nil {
		return nil, err
	}
	calPath, err := m.calendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("find calendar: %w", err)
	}

	result := &services.MirrorResult{}
	keep := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		eventPath := EventPath(calPath, b.ID())
		keep[eventPath] = struct{}{}

		_, getErr := client.GetCalendarObject(ctx, eventPath)
		if _, err := client.PutCalendarObject(ctx, eventPath, EventFor(userID, b, m.now())); err != nil {
			m.logger.Warn("caldav put failed", "event_path", eventPath, "error", err)
			result.Failed++
			continue
		}
		if getErr == nil {
			result.Updated++
		} else {
			result.Created++
		}
	}

	deleted, err := m.deleteStale(ctx, client, calPath, date, keep)
	if err != nil {
		m.logger.Warn("caldav cleanup failed", "date", domain.DateKey(date), "error", err)
	}
	result.Deleted = deleted

	m.logger.Info("calendar mirrored",
		"user_id", userID,
		"date", domain.DateKey(date),
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"failed", result.Failed,
	)
	return result, nil
}

func (m *Mirror) client() (*caldav.Client, error) {
	if !m.Configured() {
		return nil, errors.New("caldav url not configured")
	}
	httpClient := &http.Client{Timeout: m.cfg.Timeout}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, m.cfg.Username, m.cfg.Password), m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}
	return client, nil
}

func (m *Mirror) calendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if m.cfg.CalendarPath != "" {
		return m.cfg.CalendarPath, nil
	}
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", ErrNoCalendar
	}
	return cals[0].Path, nil
}

func (m *Mirror) deleteStale(ctx context.Context, client *caldav.Client, calPath string, date time.Time, keep map[string]struct{}) (int, error) {
	start := domain.StartOfDay(date)
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{Name: ical.CompEvent, Props: []string{ical.PropUID, PropXWorkday}}},
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{{Name: ical.CompEvent, Start: start, End: start.AddDate(0, 0, 1)}},
		},
	}
	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if !IsMirrored(obj.Data) {
			continue
		}
		if _, ok := keep[obj.Path]; ok {
			continue
		}
		if err := client.RemoveAll(ctx, obj.Path); err != nil {
			m.logger.Warn("caldav delete failed", "path", obj.Path, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// EventPath is where the event of a block lives.
func EventPath(calPath string, blockID uuid.UUID) string {
	return fmt.Sprintf("%s%s.ics", calPath, blockID)
}

// EventFor renders one block as a calendar with a single VEVENT.
func EventFor(userID uuid.UUID, b domain.Block, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Workday//Day Schedule//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, b.ID().String())
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, b.StartTime().UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, b.EndTime().UTC())
	event.Props.SetText(ical.PropSummary, b.Label())

	description := fmt.Sprintf("Type: %s\nStatus: %s", b.Type(), b.Status())
	if b.XPEarned() > 0 {
		description += fmt.Sprintf("\nXP: %d", b.XPEarned())
	}
	if b.Notes() != "" {
		description += "\n\n" + b.Notes()
	}
	event.Props.SetText(ical.PropDescription, description)
	if b.Status() == domain.StatusCompleted || b.Status() == domain.StatusCarriedOver || b.Status() == domain.StatusSkipped {
		event.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	}

	mark := ical.NewProp(PropXWorkday)
	mark.Value = userID.String()
	event.Props[PropXWorkday] = []ical.Prop{*mark}

	cal.Children = append(cal.Children, event.Component)
	return cal
}

// IsMirrored reports whether a calendar holds an event written by Push.
func IsMirrored(cal *ical.Calendar) bool {
	if cal == nil {
		return false
	}
	for _, child := range cal.Children {
		if child.Name == ical.CompEvent && len(child.Props[PropXWorkday]) > 0 {
			return true
		}
	}
	return false
}

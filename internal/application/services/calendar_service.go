package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

const (
	icalProdID   = "-//BeeMarshall//Scheduled Tasks//EN"
	icalCalName  = "BeeMarshall Scheduled Tasks"
	icalCalDesc  = "Scheduled beekeeping tasks from BeeMarshall"
	icalTimezone = "Pacific/Auckland"
	icalTimeFmt  = "20060102T150405"

	// Tasks without an explicit time default to a morning visit.
	defaultStartHour = 9
	defaultDuration  = 2 * time.Hour
)

type calendarService struct {
	taskRepo    ports.ScheduledTaskRepository
	siteRepo    ports.SiteRepository
	catalogRepo ports.TaskCatalogRepository
	logger      *logger.Logger
}

// NewCalendarService creates a new iCalendar export service instance
func NewCalendarService(
	taskRepo ports.ScheduledTaskRepository,
	siteRepo ports.SiteRepository,
	catalogRepo ports.TaskCatalogRepository,
	logger *logger.Logger,
) ports.CalendarService {
	return &calendarService{
		taskRepo:    taskRepo,
		siteRepo:    siteRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ExportPending renders every pending task due on or after from as an
// iCalendar feed. An empty schedule still yields a valid empty calendar.
func (s *calendarService) ExportPending(ctx context.Context, tenantID string, from time.Time) (string, error) {
	completed := false
	after := truncateToDay(from).Add(-time.Second)
	tasks, err := s.taskRepo.List(ctx, tenantID, ports.TaskFilter{Completed: &completed, DueAfter: &after})
	if err != nil {
		return "", fmt.Errorf("failed to list tasks for calendar export: %w", err)
	}

	siteNames := make(map[int]string)
	taskMeta := make(map[int]*entities.TaskCatalogEntry)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+icalProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	writeLine(&b, "X-WR-CALNAME:"+icalCalName)
	writeLine(&b, "X-WR-CALDESC:"+icalCalDesc)
	writeLine(&b, "X-WR-TIMEZONE:"+icalTimezone)

	stamp := time.Now().UTC().Format(icalTimeFmt) + "Z"
	for _, task := range tasks {
		siteName, ok := siteNames[task.SiteID]
		if !ok {
			siteName = fmt.Sprintf("Site #%d", task.SiteID)
			if site, sErr := s.siteRepo.GetByID(ctx, tenantID, task.SiteID); sErr == nil {
				siteName = site.Name
			}
			siteNames[task.SiteID] = siteName
		}

		taskName := fmt.Sprintf("Task #%d", task.TaskID)
		if entry, ok := taskMeta[task.TaskID]; ok && entry != nil {
			taskName = entry.Name
		} else if !ok {
			entry, cErr := s.catalogRepo.GetByID(ctx, task.TaskID)
			taskMeta[task.TaskID] = entry
			if cErr == nil {
				taskName = entry.Name
			}
		}

		start := eventStart(task)
		end := start.Add(defaultDuration)

		description := fmt.Sprintf("Site: %s\nPriority: %s", siteName, task.Priority)
		if task.Notes != "" {
			description += "\nNotes: " + task.Notes
		}

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, fmt.Sprintf("UID:%s@beemarshall", task.ID))
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "CREATED:"+stamp)
		writeLine(&b, "LAST-MODIFIED:"+stamp)
		writeLine(&b, "DTSTART:"+start.Format(icalTimeFmt))
		writeLine(&b, "DTEND:"+end.Format(icalTimeFmt))
		writeLine(&b, "SUMMARY:"+escapeText(fmt.Sprintf("%s - %s", taskName, siteName)))
		writeLine(&b, "DESCRIPTION:"+escapeText(description))
		writeLine(&b, "LOCATION:"+escapeText(siteName))
		writeLine(&b, "CATEGORIES:BEEKEEPING")
		writeLine(&b, fmt.Sprintf("PRIORITY:%d", task.Priority.ICalPriority()))
		writeLine(&b, "STATUS:CONFIRMED")
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")

	s.logger.Debugw("calendar exported", "tenant_id", tenantID, "events", len(tasks))
	return b.String(), nil
}

// eventStart combines the due date with the scheduled HH:MM time, falling
// back to the default morning slot.
func eventStart(task *entities.ScheduledTask) time.Time {
	day := truncateToDay(task.DueDate)
	if task.ScheduledTime != nil {
		if t, err := parseClock(*task.ScheduledTime); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return day.Add(defaultStartHour * time.Hour)
}

// writeLine terminates each content line with CRLF as RFC 5545 requires.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText escapes backslash, separators and newlines for TEXT values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}

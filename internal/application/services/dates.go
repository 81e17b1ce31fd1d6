package services

import "time"

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseDate parses a YYYY-MM-DD calendar date.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseClock parses a 24-hour HH:MM time of day.
func parseClock(s string) (time.Time, error) {
	return time.Parse(clockLayout, s)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

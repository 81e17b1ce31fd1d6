package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsOverdueAtUsesDatePrecision(t *testing.T) {
	task := &ScheduledTask{DueDate: day(2026, 3, 10)}

	// Same calendar day is not overdue, whatever the clock says.
	assert.False(t, task.IsOverdueAt(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, task.IsOverdueAt(day(2026, 3, 9)))
	assert.True(t, task.IsOverdueAt(day(2026, 3, 11)))

	task.Completed = true
	assert.False(t, task.IsOverdueAt(day(2026, 3, 11)))
}

func TestPromote(t *testing.T) {
	asOf := day(2026, 3, 15)

	task := &ScheduledTask{DueDate: day(2026, 3, 10), Priority: PriorityNormal}
	assert.True(t, task.Promote(asOf))
	assert.Equal(t, PriorityUrgent, task.Priority)
	assert.True(t, task.Overdue)
	require.NotNil(t, task.OverdueAt)

	// Second promotion is a no-op.
	assert.False(t, task.Promote(asOf))

	future := &ScheduledTask{DueDate: day(2026, 3, 20), Priority: PriorityNormal}
	assert.False(t, future.Promote(asOf))
	assert.Equal(t, PriorityNormal, future.Priority)
}

func TestRescheduleToFutureResetsState(t *testing.T) {
	now := day(2026, 3, 15)
	at := day(2026, 3, 1)
	task := &ScheduledTask{
		DueDate:   day(2026, 3, 1),
		Priority:  PriorityUrgent,
		Overdue:   true,
		OverdueAt: &at,
	}

	task.Reschedule(day(2026, 4, 1), "sam", now)

	assert.Equal(t, PriorityNormal, task.Priority)
	assert.False(t, task.Overdue)
	assert.Nil(t, task.OverdueAt)
	assert.True(t, task.Rescheduled)
}

func TestRescheduleToPastKeepsUrgency(t *testing.T) {
	now := day(2026, 3, 15)
	task := &ScheduledTask{DueDate: day(2026, 3, 1), Priority: PriorityUrgent, Overdue: true}

	task.Reschedule(day(2026, 3, 10), "sam", now)

	assert.Equal(t, PriorityUrgent, task.Priority)
	assert.True(t, task.Overdue)
}

func TestToActionLinksBackToTask(t *testing.T) {
	task := &ScheduledTask{
		TenantID: "t1",
		SiteID:   7,
		TaskID:   101,
		Notes:    "windy day",
	}
	at := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	action := task.ToAction("General Hive Inspection", "Inspection", "alex", at)

	assert.Equal(t, "t1", action.TenantID)
	assert.Equal(t, 7, action.SiteID)
	assert.Equal(t, "General Hive Inspection", action.TaskName)
	assert.Equal(t, day(2026, 3, 15), action.Date)
	assert.True(t, action.FromScheduled)
	require.NotNil(t, action.ScheduledTaskID)
	assert.Equal(t, task.ID, *action.ScheduledTaskID)
}

func TestHiveStacksOccupied(t *testing.T) {
	stacks := HiveStacks{Doubles: 3, TopSplits: 1, Singles: 2, Nucs: 1, Empty: 5}
	assert.Equal(t, 7, stacks.Occupied(), "empty boxes are not hives")
	assert.False(t, stacks.IsZero())
	assert.True(t, HiveStacks{}.IsZero())
}

func TestHiveStrengthTotalExcludesDead(t *testing.T) {
	strength := HiveStrength{Strong: 4, Medium: 2, Weak: 1, Nuc: 1, Dead: 3}
	assert.Equal(t, 8, strength.Total())
}

func validSite() *Site {
	return &Site{
		Name:       "River Flats",
		Latitude:   -41.28,
		Longitude:  174.77,
		HiveCount:  6,
		HiveStacks: HiveStacks{Doubles: 4, Singles: 2},
		Functional: SiteProduction,
		Seasonal:   SeasonYearRound,
	}
}

func TestSiteValidate(t *testing.T) {
	require.NoError(t, validSite().Validate())

	s := validSite()
	s.Name = ""
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	s = validSite()
	s.Latitude = -91
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	s = validSite()
	s.HiveCount = 5
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	// No stack breakdown recorded: the declared count stands alone.
	s = validSite()
	s.HiveStacks = HiveStacks{}
	require.NoError(t, s.Validate())

	s = validSite()
	s.HiveCount = 0
	s.HiveStacks = HiveStacks{}
	assert.ErrorIs(t, s.Validate(), ErrValidation)

	s.Seasonal = SeasonWinterOnly
	require.NoError(t, s.Validate())
}

func TestSiteCanDelete(t *testing.T) {
	s := validSite()
	assert.ErrorIs(t, s.CanDelete(), ErrSiteNotArchived)

	s.Archived = true
	assert.NoError(t, s.CanDelete())
}

func TestICalPriority(t *testing.T) {
	assert.Equal(t, 1, PriorityUrgent.ICalPriority())
	assert.Equal(t, 2, PriorityHigh.ICalPriority())
	assert.Equal(t, 3, PriorityNormal.ICalPriority())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, PriorityHigh.IsValid())
	assert.False(t, Priority("asap").IsValid())
	assert.True(t, FlagNone.IsValid())
	assert.False(t, ActionFlag("critical").IsValid())
	assert.True(t, SiteQueenRearing.IsValid())
	assert.False(t, FunctionalClassification("hobby").IsValid())
	assert.True(t, SeasonSummerOnly.IsValid())
	assert.False(t, SeasonalClassification("spring-only").IsValid())
}

func TestDefaultCatalogIsWellFormed(t *testing.T) {
	seen := make(map[int]bool)
	for _, entry := range DefaultTaskCatalog {
		assert.False(t, seen[entry.ID], "duplicate id %d", entry.ID)
		seen[entry.ID] = true
		assert.NotEmpty(t, entry.Name)
		assert.NotEmpty(t, entry.Category)
	}
	assert.True(t, seen[101])
	assert.True(t, seen[907])
}

func TestComplianceDeadlineNextOccurrence(t *testing.T) {
	adr := ComplianceDeadlines[2]
	require.Equal(t, "adr_return", adr.Key)

	before := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), adr.NextOccurrence(before))

	// The deadline day itself still counts as this year's occurrence.
	onDay := time.Date(2026, time.June, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, adr.NextOccurrence(onDay).Year())

	after := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2027, adr.NextOccurrence(after).Year())
}

func TestComplianceDeadlineTableIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range ComplianceDeadlines {
		assert.False(t, seen[d.Key], "duplicate key %s", d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.ReminderLeadDays, "deadline %s has no reminders", d.Key)
		assert.True(t, d.Day >= 1 && d.Day <= 31)
	}
	assert.True(t, seen["colony_snapshot"])
	assert.True(t, seen["coi_close"])
}

func TestComplianceObligationValidity(t *testing.T) {
	assert.True(t, ObligationADR.IsValid())
	assert.True(t, ObligationCOI.IsValid())
	assert.False(t, ComplianceObligation("afb").IsValid())
	assert.Equal(t, "Annual Disease Return (ADR)", ObligationADR.Label())
}

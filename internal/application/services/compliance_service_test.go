package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/ports"
)

func newComplianceFixture(t *testing.T) (ports.ComplianceService, *memComplianceRepo) {
	t.Helper()
	repo := newMemComplianceRepo()
	return NewComplianceService(repo, testLogger()), repo
}

func TestUpcomingDeadlinesSortedAndWindowed(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	// Mid May: ADR/Colony Return and levy payment (both 1 June) are 17
	// days out, nothing else within 30 days.
	asOf := time.Date(2026, time.May, 15, 10, 0, 0, 0, time.UTC)
	upcoming, err := svc.UpcomingDeadlines(ctx, testTenant, asOf, 30)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	keys := []string{upcoming[0].Key, upcoming[1].Key}
	assert.ElementsMatch(t, []string{"adr_return", "levy_payment"}, keys)
	for _, d := range upcoming {
		assert.Equal(t, 17, d.DaysUntil)
		assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), d.Date)
	}

	// A full-year window sees the whole statutory table.
	upcoming, err = svc.UpcomingDeadlines(ctx, testTenant, asOf, 365)
	require.NoError(t, err)
	assert.Len(t, upcoming, len(entities.ComplianceDeadlines))
	for i := 1; i < len(upcoming); i++ {
		assert.False(t, upcoming[i].Date.Before(upcoming[i-1].Date), "deadlines out of order")
	}

	_, err = svc.UpcomingDeadlines(ctx, testTenant, asOf, 0)
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestPassedDeadlineRollsToNextYear(t *testing.T) {
	svc, _ := newComplianceFixture(t)

	// December: the colony snapshot (31 March) has passed, so the next
	// occurrence is the following year.
	asOf := time.Date(2026, time.December, 10, 0, 0, 0, 0, time.UTC)
	upcoming, err := svc.UpcomingDeadlines(context.Background(), testTenant, asOf, 365)
	require.NoError(t, err)

	var snapshot *ports.UpcomingDeadline
	for i := range upcoming {
		if upcoming[i].Key == "colony_snapshot" {
			snapshot = &upcoming[i]
		}
	}
	require.NotNil(t, snapshot)
	assert.Equal(t, 2027, snapshot.Date.Year())
	assert.Equal(t, time.March, snapshot.Date.Month())
}

func TestDECAHoldersSkipCOIDeadlines(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	deca := true
	_, err := svc.UpdateProfile(ctx, testTenant, ports.UpdateComplianceProfileRequest{HasDECA: &deca})
	require.NoError(t, err)

	asOf := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	upcoming, err := svc.UpcomingDeadlines(ctx, testTenant, asOf, 365)
	require.NoError(t, err)
	for _, d := range upcoming {
		assert.NotContains(t, d.Key, "coi")
	}

	status, err := svc.Status(ctx, testTenant, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Total)
	for _, o := range status.Obligations {
		assert.NotEqual(t, entities.ObligationCOI, o.Obligation)
	}
}

func TestDueRemindersMatchLeadDays(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	// 25 May is 7 days before 1 June: a lead day for both the ADR return
	// and the levy payment.
	asOf := time.Date(2026, time.May, 25, 9, 0, 0, 0, time.UTC)
	due, err := svc.DueReminders(ctx, testTenant, asOf)
	require.NoError(t, err)
	require.Len(t, due, 2)

	// 24 May matches no configured lead day.
	due, err = svc.DueReminders(ctx, testTenant, asOf.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueRemindersRespectNotificationPreference(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	off := false
	_, err := svc.UpdateProfile(ctx, testTenant, ports.UpdateComplianceProfileRequest{NotificationsEnabled: &off})
	require.NoError(t, err)

	asOf := time.Date(2026, time.May, 25, 9, 0, 0, 0, time.UTC)
	due, err := svc.DueReminders(ctx, testTenant, asOf)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMarkObligationCompleted(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	status, err := svc.Status(ctx, testTenant, 2026)
	require.NoError(t, err)
	assert.Equal(t, 4, status.Total)
	assert.Equal(t, 0, status.Completed)

	status, err = svc.MarkObligationCompleted(ctx, testTenant, 2026, entities.ObligationADR, "sam")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Completed)

	var adr *ports.ObligationStatus
	for i := range status.Obligations {
		if status.Obligations[i].Obligation == entities.ObligationADR {
			adr = &status.Obligations[i]
		}
	}
	require.NotNil(t, adr)
	assert.True(t, adr.Completed)
	assert.Equal(t, "sam", adr.CompletedBy)
	require.NotNil(t, adr.CompletedAt)

	// Completions are per statutory year.
	next, err := svc.Status(ctx, testTenant, 2027)
	require.NoError(t, err)
	assert.Equal(t, 0, next.Completed)

	_, err = svc.MarkObligationCompleted(ctx, testTenant, 2026, "vespa-permit", "sam")
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestComplianceProfileRoundTrip(t *testing.T) {
	svc, _ := newComplianceFixture(t)
	ctx := context.Background()

	// Never-saved tenants get a default profile with reminders on.
	profile, err := svc.GetProfile(ctx, testTenant)
	require.NoError(t, err)
	assert.True(t, profile.NotificationsEnabled)
	assert.False(t, profile.HasDECA)

	reg := "NZBB-12345"
	email := true
	profile, err = svc.UpdateProfile(ctx, testTenant, ports.UpdateComplianceProfileRequest{
		NZBBRegistration:   &reg,
		EmailNotifications: &email,
	})
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, testTenant)
	require.NoError(t, err)
	assert.Equal(t, "NZBB-12345", got.NZBBRegistration)
	assert.True(t, got.EmailNotifications)
	assert.True(t, got.NotificationsEnabled)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/ports"
)

const testTenant = "hamilton-bees"

func newSchedulingFixture(t *testing.T) (ports.SchedulingService, *memTaskRepo, *memSiteRepo, *memActionRepo, *entities.Site) {
	t.Helper()
	actions := newMemActionRepo()
	taskRepo := newMemTaskRepo(actions)
	siteRepo := newMemSiteRepo()
	catalogRepo := newMemCatalogRepo()

	site, err := siteRepo.Create(context.Background(), newTestSite(testTenant, "River Flats"))
	require.NoError(t, err)

	svc := NewSchedulingService(taskRepo, siteRepo, catalogRepo, testLogger())
	return svc, taskRepo, siteRepo, actions, site
}

func TestScheduleTask(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	due := time.Now().AddDate(0, 0, 7).Format(dateLayout)
	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID:    site.ID,
		TaskID:    101,
		DueDate:   due,
		Priority:  "high",
		Notes:     "check queen",
		CreatedBy: "sam",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.PriorityHigh, task.Priority)
	assert.False(t, task.Completed)
	assert.False(t, task.Overdue)
	assert.Equal(t, due, task.DueDate.Format(dateLayout))

	got, err := svc.GetTask(ctx, testTenant, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestScheduleTaskValidation(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	_, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "next tuesday", CreatedBy: "sam",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-10-01", Priority: "asap", CreatedBy: "sam",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: 999, TaskID: 101, DueDate: "2026-10-01", CreatedBy: "sam",
	})
	assert.ErrorIs(t, err, entities.ErrSiteNotFound)

	_, err = svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 9999, DueDate: "2026-10-01", CreatedBy: "sam",
	})
	assert.ErrorIs(t, err, entities.ErrCatalogEntryNotFound)
}

func TestScheduleRejectsMalformedTime(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	for _, bad := range []string{"25:99", "9am", "14:30:00"} {
		_, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
			SiteID: site.ID, TaskID: 101, DueDate: "2026-10-01",
			ScheduledTime: bad, CreatedBy: "sam",
		})
		assert.ErrorIs(t, err, entities.ErrValidation, "time %q", bad)
	}

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-10-01", CreatedBy: "sam",
	})
	require.NoError(t, err)

	badTime := "24:00"
	_, err = svc.UpdateTask(ctx, testTenant, task.ID, ports.UpdateScheduledTaskRequest{
		ScheduledTime: &badTime, ModifiedBy: "sam",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	goodTime := "07:45"
	updated, err := svc.UpdateTask(ctx, testTenant, task.ID, ports.UpdateScheduledTaskRequest{
		ScheduledTime: &goodTime, ModifiedBy: "sam",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduledTime)
	assert.Equal(t, "07:45", *updated.ScheduledTime)
}

func TestScheduleVisitCreatesOneTaskPerID(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	tasks, err := svc.ScheduleVisit(ctx, testTenant, ports.ScheduleVisitRequest{
		SiteID:        site.ID,
		TaskIDs:       []int{101, 107, 108},
		DueDate:       "2026-09-15",
		ScheduledTime: "10:30",
		CreatedBy:     "sam",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	for _, task := range tasks {
		assert.Equal(t, site.ID, task.SiteID)
		assert.Equal(t, entities.PriorityNormal, task.Priority)
		require.NotNil(t, task.ScheduledTime)
		assert.Equal(t, "10:30", *task.ScheduledTime)
	}
}

func TestCompleteWritesActionAndMarksTask(t *testing.T) {
	svc, _, _, actions, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-09-01", Notes: "smoker needed", CreatedBy: "sam",
	})
	require.NoError(t, err)

	action, err := svc.Complete(ctx, testTenant, task.ID, "alex")
	require.NoError(t, err)

	assert.Equal(t, "General Hive Inspection", action.TaskName)
	assert.Equal(t, "Inspection", action.TaskCategory)
	assert.Equal(t, "alex", action.LoggedBy)
	assert.True(t, action.FromScheduled)
	require.NotNil(t, action.ScheduledTaskID)
	assert.Equal(t, task.ID, *action.ScheduledTaskID)

	stored, err := actions.GetByID(ctx, testTenant, action.ID)
	require.NoError(t, err)
	assert.Equal(t, action.TaskName, stored.TaskName)

	got, err := svc.GetTask(ctx, testTenant, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedBy)
	assert.Equal(t, "alex", *got.CompletedBy)
}

func TestCompleteTwiceFails(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-09-01", CreatedBy: "sam",
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, testTenant, task.ID, "alex")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, testTenant, task.ID, "alex")
	assert.ErrorIs(t, err, entities.ErrTaskAlreadyCompleted)
}

func TestRescheduleToFutureResetsOverdueState(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101,
		DueDate: time.Now().AddDate(0, 0, -10).Format(dateLayout),
		CreatedBy: "sam",
	})
	require.NoError(t, err)

	promoted, err := svc.PromoteOverdueTasks(ctx, testTenant, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), promoted)

	got, err := svc.GetTask(ctx, testTenant, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Overdue)
	assert.Equal(t, entities.PriorityUrgent, got.Priority)

	newDue := time.Now().AddDate(0, 0, 14).Format(dateLayout)
	rescheduled, err := svc.Reschedule(ctx, testTenant, task.ID, ports.RescheduleRequest{
		NewDueDate: newDue, RescheduledBy: "sam",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.PriorityNormal, rescheduled.Priority)
	assert.False(t, rescheduled.Overdue)
	assert.Nil(t, rescheduled.OverdueAt)
	assert.True(t, rescheduled.Rescheduled)
	assert.Equal(t, newDue, rescheduled.DueDate.Format(dateLayout))
}

func TestPromoteOverdueSkipsCompletedAndAlreadyUrgent(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()
	past := time.Now().AddDate(0, 0, -3).Format(dateLayout)

	overdueTask, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: past, CreatedBy: "sam",
	})
	require.NoError(t, err)

	urgentTask, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 107, DueDate: past, Priority: "urgent", CreatedBy: "sam",
	})
	require.NoError(t, err)

	doneTask, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 108, DueDate: past, CreatedBy: "sam",
	})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, testTenant, doneTask.ID, "sam")
	require.NoError(t, err)

	promoted, err := svc.PromoteOverdueTasks(ctx, testTenant, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), promoted)

	got, err := svc.GetTask(ctx, testTenant, overdueTask.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityUrgent, got.Priority)
	assert.True(t, got.Overdue)

	// Already-urgent tasks are left alone, so a second run changes nothing.
	promoted, err = svc.PromoteOverdueTasks(ctx, testTenant, time.Now())
	require.NoError(t, err)
	assert.Zero(t, promoted)

	got, err = svc.GetTask(ctx, testTenant, urgentTask.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityUrgent, got.Priority)
}

func TestListPendingIsPure(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101,
		DueDate: time.Now().AddDate(0, 0, -5).Format(dateLayout),
		CreatedBy: "sam",
	})
	require.NoError(t, err)

	// Listing annotates overdue but must not escalate anything; only the
	// explicit promotion persists a change.
	pending, err := svc.ListPending(ctx, testTenant, time.Now())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].Overdue)
	assert.Equal(t, entities.PriorityNormal, pending[0].Priority)

	got, err := svc.GetTask(ctx, testTenant, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityNormal, got.Priority)
	assert.False(t, got.Overdue)
}

func TestTimelineGroupsByDueDate(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	_, err := svc.ScheduleVisit(ctx, testTenant, ports.ScheduleVisitRequest{
		SiteID: site.ID, TaskIDs: []int{101, 107}, DueDate: "2026-09-10", CreatedBy: "sam",
	})
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 108, DueDate: "2026-09-20", CreatedBy: "sam",
	})
	require.NoError(t, err)

	groups, err := svc.Timeline(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "2026-09-10", groups[0].Date.Format(dateLayout))
	assert.Len(t, groups[0].Tasks, 2)
	assert.Equal(t, "2026-09-20", groups[1].Date.Format(dateLayout))
	assert.Len(t, groups[1].Tasks, 1)
}

func TestCancelPendingTask(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-09-01", CreatedBy: "sam",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, testTenant, task.ID))

	_, err = svc.GetTask(ctx, testTenant, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestCancelCompletedTaskFails(t *testing.T) {
	svc, _, _, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-09-01", CreatedBy: "sam",
	})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, testTenant, task.ID, "sam")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(ctx, testTenant, task.ID), entities.ErrTaskAlreadyCompleted)
}

func TestTasksAreTenantScoped(t *testing.T) {
	svc, _, siteRepo, _, site := newSchedulingFixture(t)
	ctx := context.Background()

	otherSite, err := siteRepo.Create(ctx, newTestSite("other-keeper", "Hilltop"))
	require.NoError(t, err)

	task, err := svc.Schedule(ctx, testTenant, ports.ScheduleTaskRequest{
		SiteID: site.ID, TaskID: 101, DueDate: "2026-09-01", CreatedBy: "sam",
	})
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, "other-keeper", ports.ScheduleTaskRequest{
		SiteID: otherSite.ID, TaskID: 101, DueDate: "2026-09-01", CreatedBy: "pat",
	})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, "other-keeper", task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	pending, err := svc.ListPending(ctx, testTenant, time.Now())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGetTaskNotFound(t *testing.T) {
	svc, _, _, _, _ := newSchedulingFixture(t)

	_, err := svc.GetTask(context.Background(), testTenant, uuid.New())
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

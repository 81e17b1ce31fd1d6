package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type schedulingService struct {
	taskRepo    ports.ScheduledTaskRepository
	siteRepo    ports.SiteRepository
	catalogRepo ports.TaskCatalogRepository
	logger      *logger.Logger
}

// NewSchedulingService creates a new scheduling service instance
func NewSchedulingService(
	taskRepo ports.ScheduledTaskRepository,
	siteRepo ports.SiteRepository,
	catalogRepo ports.TaskCatalogRepository,
	logger *logger.Logger,
) ports.SchedulingService {
	return &schedulingService{
		taskRepo:    taskRepo,
		siteRepo:    siteRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

func (s *schedulingService) Schedule(ctx context.Context, tenantID string, req ports.ScheduleTaskRequest) (*entities.ScheduledTask, error) {
	task, err := s.buildTask(ctx, tenantID, req.SiteID, req.TaskID, req.DueDate, req.ScheduledTime, req.Priority, req.Notes, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create scheduled task: %w", err)
	}

	s.logger.Infow("task scheduled",
		"task_id", task.ID,
		"tenant_id", tenantID,
		"site_id", task.SiteID,
		"catalog_task_id", task.TaskID,
		"due_date", task.DueDate.Format(dateLayout),
	)
	return task, nil
}

// ScheduleVisit schedules several tasks against one site for the same day,
// sharing due date, time and priority. The batch is written atomically.
func (s *schedulingService) ScheduleVisit(ctx context.Context, tenantID string, req ports.ScheduleVisitRequest) ([]*entities.ScheduledTask, error) {
	tasks := make([]*entities.ScheduledTask, 0, len(req.TaskIDs))
	for _, taskID := range req.TaskIDs {
		task, err := s.buildTask(ctx, tenantID, req.SiteID, taskID, req.DueDate, req.ScheduledTime, req.Priority, req.Notes, req.CreatedBy)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to create scheduled tasks: %w", err)
	}

	s.logger.Infow("visit scheduled",
		"tenant_id", tenantID,
		"site_id", req.SiteID,
		"task_count", len(tasks),
		"due_date", req.DueDate,
	)
	return tasks, nil
}

func (s *schedulingService) buildTask(ctx context.Context, tenantID string, siteID, taskID int, dueDate, scheduledTime, priority, notes, createdBy string) (*entities.ScheduledTask, error) {
	due, err := parseDate(dueDate)
	if err != nil {
		return nil, entities.NewValidationError("invalid due date %q", dueDate)
	}

	prio := entities.Priority(priority)
	if prio == "" {
		prio = entities.PriorityNormal
	}
	if !prio.IsValid() {
		return nil, entities.NewValidationError("invalid priority %q", priority)
	}

	if scheduledTime != "" {
		if _, err := parseClock(scheduledTime); err != nil {
			return nil, entities.NewValidationError("invalid scheduled time %q", scheduledTime)
		}
	}

	if _, err := s.siteRepo.GetByID(ctx, tenantID, siteID); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &entities.ScheduledTask{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SiteID:    siteID,
		TaskID:    taskID,
		DueDate:   due,
		Priority:  prio,
		Notes:     notes,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if scheduledTime != "" {
		st := scheduledTime
		task.ScheduledTime = &st
	}
	return task, nil
}

func (s *schedulingService) GetTask(ctx context.Context, tenantID string, id uuid.UUID) (*entities.ScheduledTask, error) {
	return s.taskRepo.GetByID(ctx, tenantID, id)
}

func (s *schedulingService) UpdateTask(ctx context.Context, tenantID string, id uuid.UUID, req ports.UpdateScheduledTaskRequest) (*entities.ScheduledTask, error) {
	task, err := s.taskRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, entities.ErrTaskAlreadyCompleted
	}

	if req.SiteID != nil {
		if _, err := s.siteRepo.GetByID(ctx, tenantID, *req.SiteID); err != nil {
			return nil, err
		}
		task.SiteID = *req.SiteID
	}
	if req.TaskID != nil {
		if _, err := s.catalogRepo.GetByID(ctx, *req.TaskID); err != nil {
			return nil, err
		}
		task.TaskID = *req.TaskID
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, entities.NewValidationError("invalid due date %q", *req.DueDate)
		}
		task.DueDate = due
	}
	if req.ScheduledTime != nil {
		if *req.ScheduledTime == "" {
			task.ScheduledTime = nil
		} else {
			if _, err := parseClock(*req.ScheduledTime); err != nil {
				return nil, entities.NewValidationError("invalid scheduled time %q", *req.ScheduledTime)
			}
			task.ScheduledTime = req.ScheduledTime
		}
	}
	if req.Priority != nil {
		prio := entities.Priority(*req.Priority)
		if !prio.IsValid() {
			return nil, entities.NewValidationError("invalid priority %q", *req.Priority)
		}
		task.Priority = prio
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update scheduled task: %w", err)
	}

	s.logger.Infow("scheduled task updated", "task_id", id, "tenant_id", tenantID, "modified_by", req.ModifiedBy)
	return task, nil
}

// Complete marks the task done and writes the derived action record in a
// single transaction, so the history and the schedule cannot diverge.
func (s *schedulingService) Complete(ctx context.Context, tenantID string, id uuid.UUID, completedBy string) (*entities.Action, error) {
	task, err := s.taskRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := task.CanComplete(); err != nil {
		return nil, err
	}

	name, category := s.resolveTask(ctx, task.TaskID)

	now := time.Now()
	task.MarkCompleted(completedBy, now)
	action := task.ToAction(name, category, completedBy, now)

	if err := s.taskRepo.Complete(ctx, task, action); err != nil {
		return nil, fmt.Errorf("failed to complete scheduled task: %w", err)
	}

	s.logger.Infow("scheduled task completed",
		"task_id", id,
		"tenant_id", tenantID,
		"site_id", task.SiteID,
		"action_id", action.ID,
		"completed_by", completedBy,
	)
	return action, nil
}

// resolveTask looks up the catalog name and category for a task id, falling
// back to the tombstone so completions of deleted tasks still record a name.
func (s *schedulingService) resolveTask(ctx context.Context, taskID int) (string, string) {
	entry, err := s.catalogRepo.GetByID(ctx, taskID)
	if err == nil {
		return entry.Name, entry.Category
	}
	if errors.Is(err, entities.ErrCatalogEntryNotFound) {
		if tomb, tErr := s.catalogRepo.GetDeleted(ctx, taskID); tErr == nil {
			return fmt.Sprintf("[Deleted: %s]", tomb.Name), tomb.Category
		}
	}
	return fmt.Sprintf("Task #%d", taskID), "Unknown"
}

func (s *schedulingService) Reschedule(ctx context.Context, tenantID string, id uuid.UUID, req ports.RescheduleRequest) (*entities.ScheduledTask, error) {
	task, err := s.taskRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, entities.ErrTaskAlreadyCompleted
	}

	newDate, err := parseDate(req.NewDueDate)
	if err != nil {
		return nil, entities.NewValidationError("invalid due date %q", req.NewDueDate)
	}

	task.Reschedule(newDate, req.RescheduledBy, time.Now())

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to reschedule task: %w", err)
	}

	s.logger.Infow("scheduled task rescheduled",
		"task_id", id,
		"tenant_id", tenantID,
		"new_due_date", req.NewDueDate,
		"by", req.RescheduledBy,
	)
	return task, nil
}

func (s *schedulingService) Cancel(ctx context.Context, tenantID string, id uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if task.Completed {
		return entities.ErrTaskAlreadyCompleted
	}

	if err := s.taskRepo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to cancel scheduled task: %w", err)
	}

	s.logger.Infow("scheduled task cancelled", "task_id", id, "tenant_id", tenantID)
	return nil
}

// ListPending returns pending tasks ordered by due date, each annotated
// with its overdue state as of asOf. It is a pure read: the annotation is
// never persisted, and escalation happens only in PromoteOverdueTasks.
func (s *schedulingService) ListPending(ctx context.Context, tenantID string, asOf time.Time) ([]*entities.ScheduledTask, error) {
	completed := false
	tasks, err := s.taskRepo.List(ctx, tenantID, ports.TaskFilter{Completed: &completed})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	for _, task := range tasks {
		if task.IsOverdueAt(asOf) {
			task.Overdue = true
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

func (s *schedulingService) ListCompleted(ctx context.Context, tenantID string, limit int) ([]*entities.ScheduledTask, error) {
	completed := true
	tasks, err := s.taskRepo.List(ctx, tenantID, ports.TaskFilter{Completed: &completed, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		ti, tj := tasks[i].CompletedAt, tasks[j].CompletedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	return tasks, nil
}

// Timeline groups pending tasks into due-date buckets, earliest first.
func (s *schedulingService) Timeline(ctx context.Context, tenantID string) ([]ports.TimelineGroup, error) {
	tasks, err := s.ListPending(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}

	groups := make([]ports.TimelineGroup, 0)
	byDate := make(map[time.Time]int)
	for _, task := range tasks {
		day := truncateToDay(task.DueDate)
		idx, ok := byDate[day]
		if !ok {
			idx = len(groups)
			byDate[day] = idx
			groups = append(groups, ports.TimelineGroup{Date: day})
		}
		groups[idx].Tasks = append(groups[idx].Tasks, task)
	}
	return groups, nil
}

// PromoteOverdueTasks escalates every pending task due before asOf to
// urgent. Called by the daily scheduler and exposed as an explicit command.
func (s *schedulingService) PromoteOverdueTasks(ctx context.Context, tenantID string, asOf time.Time) (int64, error) {
	promoted, err := s.taskRepo.PromoteOverdue(ctx, tenantID, truncateToDay(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to promote overdue tasks: %w", err)
	}

	if promoted > 0 {
		s.logger.Infow("overdue tasks promoted",
			"tenant_id", tenantID,
			"promoted", promoted,
			"as_of", asOf.Format(dateLayout),
		)
	}
	return promoted, nil
}

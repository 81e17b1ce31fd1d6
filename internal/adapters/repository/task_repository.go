package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type taskRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewScheduledTaskRepository creates a new PostgreSQL scheduled task repository
func NewScheduledTaskRepository(db *database.DB, logger *logger.Logger) ports.ScheduledTaskRepository {
	return &taskRepository{db: db, logger: logger}
}

const taskColumns = `
	id, tenant_id, site_id, task_id, due_date, scheduled_time, priority,
	completed, overdue, overdue_at, notes, created_by, created_at,
	completed_by, completed_at, rescheduled, rescheduled_at, rescheduled_by, updated_at`

const insertTaskQuery = `
	INSERT INTO scheduled_tasks (
		id, tenant_id, site_id, task_id, due_date, scheduled_time, priority,
		completed, overdue, overdue_at, notes, created_by, created_at,
		rescheduled, updated_at
	) VALUES (
		:id, :tenant_id, :site_id, :task_id, :due_date, :scheduled_time, :priority,
		:completed, :overdue, :overdue_at, :notes, :created_by, :created_at,
		:rescheduled, :updated_at
	)`

func (r *taskRepository) Create(ctx context.Context, task *entities.ScheduledTask) error {
	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, task); err != nil {
		return fmt.Errorf("failed to insert scheduled task: %w", err)
	}
	return nil
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []*entities.ScheduledTask) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, task := range tasks {
			if _, err := tx.NamedExecContext(ctx, insertTaskQuery, task); err != nil {
				return fmt.Errorf("failed to insert scheduled task: %w", err)
			}
		}
		return nil
	})
}

func (r *taskRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.ScheduledTask, error) {
	var task entities.ScheduledTask
	query := `SELECT` + taskColumns + ` FROM scheduled_tasks WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &task, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *entities.ScheduledTask) error {
	query := `
		UPDATE scheduled_tasks SET
			site_id = :site_id, task_id = :task_id, due_date = :due_date,
			scheduled_time = :scheduled_time, priority = :priority,
			completed = :completed, overdue = :overdue, overdue_at = :overdue_at,
			notes = :notes, completed_by = :completed_by, completed_at = :completed_at,
			rescheduled = :rescheduled, rescheduled_at = :rescheduled_at,
			rescheduled_by = :rescheduled_by, updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`

	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("failed to update scheduled task: %w", err)
	}
	return checkAffected(result, entities.ErrTaskNotFound)
}

func (r *taskRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled task: %w", err)
	}
	return checkAffected(result, entities.ErrTaskNotFound)
}

func (r *taskRepository) List(ctx context.Context, tenantID string, filter ports.TaskFilter) ([]*entities.ScheduledTask, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if filter.SiteID != nil {
		args = append(args, *filter.SiteID)
		conditions = append(conditions, fmt.Sprintf("site_id = $%d", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conditions = append(conditions, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conditions = append(conditions, fmt.Sprintf("due_date < $%d", len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		conditions = append(conditions, fmt.Sprintf("due_date > $%d", len(args)))
	}

	query := `SELECT` + taskColumns + ` FROM scheduled_tasks WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY due_date, created_at`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var tasks []*entities.ScheduledTask
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list scheduled tasks: %w", err)
	}
	return tasks, nil
}

// Complete marks the task completed and writes the derived action in the
// same transaction. A task already completed by a concurrent caller rolls
// the whole write back.
func (r *taskRepository) Complete(ctx context.Context, task *entities.ScheduledTask, action *entities.Action) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE scheduled_tasks SET
				completed = true, completed_by = $1, completed_at = $2, updated_at = $3
			WHERE tenant_id = $4 AND id = $5 AND NOT completed`,
			task.CompletedBy, task.CompletedAt, task.UpdatedAt,
			task.TenantID, task.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark task completed: %w", err)
		}
		if err := checkAffected(result, entities.ErrTaskAlreadyCompleted); err != nil {
			return err
		}
		return insertAction(ctx, tx, action)
	})
}

func (r *taskRepository) PromoteOverdue(ctx context.Context, tenantID string, asOf time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_tasks SET
			priority = 'urgent', overdue = true, overdue_at = $1, updated_at = $1
		WHERE tenant_id = $2 AND NOT completed AND due_date < $1 AND priority <> 'urgent'`,
		asOf, tenantID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to promote overdue tasks: %w", err)
	}
	return result.RowsAffected()
}

func (r *taskRepository) Tenants(ctx context.Context) ([]string, error) {
	var tenants []string
	query := `SELECT DISTINCT tenant_id FROM scheduled_tasks ORDER BY tenant_id`
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type actionRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewActionRepository creates a new PostgreSQL action log repository
func NewActionRepository(db *database.DB, logger *logger.Logger) ports.ActionRepository {
	return &actionRepository{db: db, logger: logger}
}

const actionColumns = `
	id, tenant_id, site_id, task_id, task_name, task_category,
	date, notes, flag, logged_by, created_at,
	from_scheduled_task, scheduled_task_id`

func (r *actionRepository) Create(ctx context.Context, action *entities.Action) error {
	if _, err := r.db.NamedExecContext(ctx, insertActionQuery, action); err != nil {
		return fmt.Errorf("failed to insert action: %w", err)
	}
	return nil
}

func (r *actionRepository) CreateBatch(ctx context.Context, actions []*entities.Action) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, action := range actions {
			if err := insertAction(ctx, tx, action); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *actionRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error) {
	var action entities.Action
	query := `SELECT` + actionColumns + ` FROM actions WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &action, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return &action, nil
}

func (r *actionRepository) List(ctx context.Context, tenantID string, filter ports.ActionFilter) ([]*entities.Action, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if filter.SiteID != nil {
		args = append(args, *filter.SiteID)
		conditions = append(conditions, fmt.Sprintf("site_id = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("task_category = $%d", len(args)))
	}
	if filter.LoggedBy != nil {
		args = append(args, *filter.LoggedBy)
		conditions = append(conditions, fmt.Sprintf("logged_by = $%d", len(args)))
	}
	if filter.Flag != nil {
		args = append(args, string(*filter.Flag))
		conditions = append(conditions, fmt.Sprintf("flag = $%d", len(args)))
	}
	if filter.FlaggedOnly {
		conditions = append(conditions, "flag <> ''")
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT` + actionColumns + ` FROM actions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var actions []*entities.Action
	if err := r.db.SelectContext(ctx, &actions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}

func (r *actionRepository) UpdateFlag(ctx context.Context, tenantID string, id uuid.UUID, flag entities.ActionFlag) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE actions SET flag = $1 WHERE tenant_id = $2 AND id = $3`,
		string(flag), tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update action flag: %w", err)
	}
	return checkAffected(result, entities.ErrActionNotFound)
}

func (r *actionRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM actions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	return checkAffected(result, entities.ErrActionNotFound)
}

func (r *actionRepository) DeleteBatch(ctx context.Context, tenantID string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM actions WHERE tenant_id = $1 AND id = ANY($2)`,
		tenantID, pq.Array(strIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to delete actions: %w", err)
	}
	return nil
}

func (r *actionRepository) CountByTask(ctx context.Context, tenantID string, taskID int) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM actions WHERE tenant_id = $1 AND task_id = $2`
	if err := r.db.GetContext(ctx, &count, query, tenantID, taskID); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

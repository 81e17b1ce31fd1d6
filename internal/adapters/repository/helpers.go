package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/beemarshall/core/internal/domain/entities"
)

// checkAffected turns a zero-row write into the given not-found error.
func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

const insertActionQuery = `
	INSERT INTO actions (
		id, tenant_id, site_id, task_id, task_name, task_category,
		date, notes, flag, logged_by, created_at,
		from_scheduled_task, scheduled_task_id
	) VALUES (
		:id, :tenant_id, :site_id, :task_id, :task_name, :task_category,
		:date, :notes, :flag, :logged_by, :created_at,
		:from_scheduled_task, :scheduled_task_id
	)`

// insertAction writes one action row inside an existing transaction. Shared
// by the writes that must land together with another table's update.
func insertAction(ctx context.Context, tx *sqlx.Tx, action *entities.Action) error {
	if _, err := tx.NamedExecContext(ctx, insertActionQuery, action); err != nil {
		return fmt.Errorf("failed to insert action: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type catalogRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewTaskCatalogRepository creates a new PostgreSQL task catalog repository
func NewTaskCatalogRepository(db *database.DB, logger *logger.Logger) ports.TaskCatalogRepository {
	return &catalogRepository{db: db, logger: logger}
}

func (r *catalogRepository) List(ctx context.Context) ([]*entities.TaskCatalogEntry, error) {
	var entries []*entities.TaskCatalogEntry
	query := `SELECT id, name, category, common, description FROM task_catalog ORDER BY id`
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	return entries, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, id int) (*entities.TaskCatalogEntry, error) {
	var entry entities.TaskCatalogEntry
	query := `SELECT id, name, category, common, description FROM task_catalog WHERE id = $1`
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	return &entry, nil
}

func (r *catalogRepository) Create(ctx context.Context, entry *entities.TaskCatalogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_catalog (id, name, category, common, description)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Name, entry.Category, entry.Common, entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert catalog entry: %w", err)
	}
	return nil
}

func (r *catalogRepository) Rename(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE task_catalog SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename catalog entry: %w", err)
	}
	return checkAffected(result, entities.ErrCatalogEntryNotFound)
}

// Delete removes the entry and writes its tombstone in one transaction so a
// deleted id can always be resolved to its last known name.
func (r *catalogRepository) Delete(ctx context.Context, id int, tombstone *entities.DeletedTaskRecord) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM task_catalog WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete catalog entry: %w", err)
		}
		if err := checkAffected(result, entities.ErrCatalogEntryNotFound); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO deleted_tasks (id, name, category, deleted_at, deleted_by)
			VALUES ($1, $2, $3, $4, $5)`,
			tombstone.ID, tombstone.Name, tombstone.Category, tombstone.DeletedAt, tombstone.DeletedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tombstone: %w", err)
		}
		return nil
	})
}

func (r *catalogRepository) GetDeleted(ctx context.Context, id int) (*entities.DeletedTaskRecord, error) {
	var tomb entities.DeletedTaskRecord
	query := `SELECT id, name, category, deleted_at, deleted_by FROM deleted_tasks WHERE id = $1`
	if err := r.db.GetContext(ctx, &tomb, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("failed to get deleted task record: %w", err)
	}
	return &tomb, nil
}

// MaxID spans live entries and tombstones, so deleted ids are never reused.
func (r *catalogRepository) MaxID(ctx context.Context) (int, error) {
	var max int
	query := `
		SELECT COALESCE(GREATEST(
			(SELECT MAX(id) FROM task_catalog),
			(SELECT MAX(id) FROM deleted_tasks)
		), 0)`
	if err := r.db.GetContext(ctx, &max, query); err != nil {
		return 0, fmt.Errorf("failed to get max catalog id: %w", err)
	}
	return max, nil
}

func (r *catalogRepository) Seed(ctx context.Context, entries []entities.TaskCatalogEntry) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for i := range entries {
			entry := entries[i]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO task_catalog (id, name, category, common, description)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO NOTHING`,
				entry.ID, entry.Name, entry.Category, entry.Common, entry.Description,
			)
			if err != nil {
				return fmt.Errorf("failed to seed catalog entry %d: %w", entry.ID, err)
			}
		}
		return nil
	})
}

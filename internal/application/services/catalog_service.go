package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type catalogService struct {
	catalogRepo ports.TaskCatalogRepository
	actionRepo  ports.ActionRepository
	logger      *logger.Logger
}

// NewCatalogService creates a new task catalog service instance
func NewCatalogService(catalogRepo ports.TaskCatalogRepository, actionRepo ports.ActionRepository, logger *logger.Logger) ports.CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		actionRepo:  actionRepo,
		logger:      logger,
	}
}

func (s *catalogService) ListEntries(ctx context.Context) ([]*entities.TaskCatalogEntry, error) {
	return s.catalogRepo.List(ctx)
}

func (s *catalogService) GetEntry(ctx context.Context, id int) (*entities.TaskCatalogEntry, error) {
	return s.catalogRepo.GetByID(ctx, id)
}

// CreateEntry adds a user-defined task. IDs continue from the highest
// existing entry so the seeded category blocks stay intact.
func (s *catalogService) CreateEntry(ctx context.Context, req ports.CreateCatalogEntryRequest) (*entities.TaskCatalogEntry, error) {
	maxID, err := s.catalogRepo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine next catalog id: %w", err)
	}

	entry := &entities.TaskCatalogEntry{
		ID:          maxID + 1,
		Name:        req.Name,
		Category:    req.Category,
		Common:      req.Common,
		Description: req.Description,
	}

	if err := s.catalogRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create catalog entry: %w", err)
	}

	s.logger.Infow("catalog entry created", "task_id", entry.ID, "name", entry.Name, "category", entry.Category)
	return entry, nil
}

func (s *catalogService) RenameEntry(ctx context.Context, id int, name string) (*entities.TaskCatalogEntry, error) {
	if name == "" {
		return nil, entities.NewValidationError("task name is required")
	}

	entry, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.catalogRepo.Rename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("failed to rename catalog entry: %w", err)
	}

	s.logger.Infow("catalog entry renamed", "task_id", id, "old_name", entry.Name, "new_name", name)
	entry.Name = name
	return entry, nil
}

// DeleteEntry removes a catalog entry, leaving a tombstone so historical
// actions keep a renderable name. Existing actions and scheduled tasks are
// not touched; the result reports how many reference the deleted id.
func (s *catalogService) DeleteEntry(ctx context.Context, tenantID string, id int, deletedBy string) (*ports.DeleteCatalogEntryResult, error) {
	entry, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := s.actionRepo.CountByTask(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count affected actions: %w", err)
	}

	tombstone := &entities.DeletedTaskRecord{
		ID:        entry.ID,
		Name:      entry.Name,
		Category:  entry.Category,
		DeletedAt: time.Now(),
		DeletedBy: deletedBy,
	}

	if err := s.catalogRepo.Delete(ctx, id, tombstone); err != nil {
		return nil, fmt.Errorf("failed to delete catalog entry: %w", err)
	}

	s.logger.Infow("catalog entry deleted",
		"task_id", id,
		"name", entry.Name,
		"deleted_by", deletedBy,
		"affected_actions", affected,
	)

	return &ports.DeleteCatalogEntryResult{
		Entry:           entry,
		AffectedActions: affected,
	}, nil
}

// DisplayName resolves a task id to a name for rendering. Deleted entries
// fall back to their tombstone in the "[Deleted: name]" form.
func (s *catalogService) DisplayName(ctx context.Context, id int) string {
	entry, err := s.catalogRepo.GetByID(ctx, id)
	if err == nil {
		return entry.Name
	}
	if errors.Is(err, entities.ErrCatalogEntryNotFound) {
		if tomb, tErr := s.catalogRepo.GetDeleted(ctx, id); tErr == nil {
			return fmt.Sprintf("[Deleted: %s]", tomb.Name)
		}
	}
	return fmt.Sprintf("Task #%d", id)
}

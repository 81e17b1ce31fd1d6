package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type actionService struct {
	actionRepo  ports.ActionRepository
	siteRepo    ports.SiteRepository
	catalogRepo ports.TaskCatalogRepository
	logger      *logger.Logger
}

// NewActionService creates a new action log service instance
func NewActionService(
	actionRepo ports.ActionRepository,
	siteRepo ports.SiteRepository,
	catalogRepo ports.TaskCatalogRepository,
	logger *logger.Logger,
) ports.ActionService {
	return &actionService{
		actionRepo:  actionRepo,
		siteRepo:    siteRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// LogVisit records one completed site visit as one action per task
// performed. The task name and category are copied at write time so the
// log survives later catalog edits.
func (s *actionService) LogVisit(ctx context.Context, tenantID string, req ports.LogActionRequest) ([]*entities.Action, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, entities.NewValidationError("invalid action date %q", req.Date)
	}

	flag := entities.ActionFlag(req.Flag)
	if !flag.IsValid() {
		return nil, entities.NewValidationError("invalid flag %q", req.Flag)
	}

	if _, err := s.siteRepo.GetByID(ctx, tenantID, req.SiteID); err != nil {
		return nil, err
	}

	now := time.Now()
	actions := make([]*entities.Action, 0, len(req.TaskIDs))
	for _, taskID := range req.TaskIDs {
		entry, err := s.catalogRepo.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		actions = append(actions, &entities.Action{
			ID:           uuid.New(),
			TenantID:     tenantID,
			SiteID:       req.SiteID,
			TaskID:       taskID,
			TaskName:     entry.Name,
			TaskCategory: entry.Category,
			Date:         date,
			Notes:        req.Notes,
			Flag:         flag,
			LoggedBy:     req.LoggedBy,
			CreatedAt:    now,
		})
	}

	if err := s.actionRepo.CreateBatch(ctx, actions); err != nil {
		return nil, fmt.Errorf("failed to log actions: %w", err)
	}

	s.logger.Infow("visit logged",
		"tenant_id", tenantID,
		"site_id", req.SiteID,
		"action_count", len(actions),
		"logged_by", req.LoggedBy,
	)
	return actions, nil
}

func (s *actionService) GetAction(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error) {
	return s.actionRepo.GetByID(ctx, tenantID, id)
}

func (s *actionService) ListActions(ctx context.Context, tenantID string, filter ports.ActionFilter) ([]*entities.Action, error) {
	return s.actionRepo.List(ctx, tenantID, filter)
}

func (s *actionService) SetFlag(ctx context.Context, tenantID string, id uuid.UUID, flag entities.ActionFlag) (*entities.Action, error) {
	if !flag.IsValid() {
		return nil, entities.NewValidationError("invalid flag %q", flag)
	}

	action, err := s.actionRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.actionRepo.UpdateFlag(ctx, tenantID, id, flag); err != nil {
		return nil, fmt.Errorf("failed to set action flag: %w", err)
	}

	action.Flag = flag
	s.logger.Infow("action flag set", "action_id", id, "tenant_id", tenantID, "flag", flag)
	return action, nil
}

func (s *actionService) ClearFlag(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error) {
	return s.SetFlag(ctx, tenantID, id, entities.FlagNone)
}

func (s *actionService) DeleteAction(ctx context.Context, tenantID string, id uuid.UUID) error {
	if _, err := s.actionRepo.GetByID(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.actionRepo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	s.logger.Infow("action deleted", "action_id", id, "tenant_id", tenantID)
	return nil
}

func (s *actionService) DeleteActions(ctx context.Context, tenantID string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.actionRepo.DeleteBatch(ctx, tenantID, ids); err != nil {
		return fmt.Errorf("failed to delete actions: %w", err)
	}

	s.logger.Infow("actions deleted", "tenant_id", tenantID, "count", len(ids))
	return nil
}

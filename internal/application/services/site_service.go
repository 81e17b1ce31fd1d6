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

type siteService struct {
	siteRepo ports.SiteRepository
	logger   *logger.Logger
}

// NewSiteService creates a new site service instance
func NewSiteService(siteRepo ports.SiteRepository, logger *logger.Logger) ports.SiteService {
	return &siteService{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

func (s *siteService) CreateSite(ctx context.Context, tenantID string, req ports.CreateSiteRequest) (*entities.Site, error) {
	now := time.Now()

	site := &entities.Site{
		TenantID:           tenantID,
		Name:               req.Name,
		Description:        req.Description,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		HiveCount:          req.HiveCount,
		HiveStrength:       req.HiveStrength,
		HiveStacks:         req.HiveStacks,
		Functional:         entities.FunctionalClassification(req.Functional),
		Seasonal:           entities.SeasonalClassification(req.Seasonal),
		HarvestTimeline:    req.HarvestTimeline,
		SugarRequirements:  req.SugarRequirements,
		Notes:              req.Notes,
		Landowner:          req.Landowner,
		AccessType:         req.AccessType,
		ContactBeforeVisit: req.ContactBeforeVisit,
		IsQuarantine:       req.IsQuarantine,
		HoneyPotentials:    req.HoneyPotentials,
		CreatedAt:          now,
		UpdatedAt:          now,
		LastModifiedBy:     req.CreatedBy,
	}
	if site.Functional == "" {
		site.Functional = entities.SiteProduction
	}
	if site.Seasonal == "" {
		site.Seasonal = entities.SeasonYearRound
	}
	// A hive count omitted alongside a stack breakdown is derived from it.
	if site.HiveCount == 0 && !site.HiveStacks.IsZero() {
		site.HiveCount = site.HiveStacks.Occupied()
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	created, err := s.siteRepo.Create(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	s.logger.Infow("site created",
		"site_id", created.ID,
		"tenant_id", tenantID,
		"name", created.Name,
		"hive_count", created.HiveCount,
	)

	return created, nil
}

func (s *siteService) GetSite(ctx context.Context, tenantID string, id int) (*entities.Site, error) {
	return s.siteRepo.GetByID(ctx, tenantID, id)
}

func (s *siteService) UpdateSite(ctx context.Context, tenantID string, id int, req ports.UpdateSiteRequest) (*entities.Site, error) {
	site, err := s.siteRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Description != nil {
		site.Description = *req.Description
	}
	if req.Latitude != nil {
		site.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = *req.Longitude
	}
	if req.HiveCount != nil {
		site.HiveCount = *req.HiveCount
	}
	if req.HiveStrength != nil {
		site.HiveStrength = *req.HiveStrength
	}
	if req.HiveStacks != nil {
		site.HiveStacks = *req.HiveStacks
		// The stack breakdown is authoritative when present.
		if !site.HiveStacks.IsZero() && req.HiveCount == nil {
			site.HiveCount = site.HiveStacks.Occupied()
		}
	}
	if req.Functional != nil {
		site.Functional = entities.FunctionalClassification(*req.Functional)
	}
	if req.Seasonal != nil {
		site.Seasonal = entities.SeasonalClassification(*req.Seasonal)
	}
	if req.HarvestTimeline != nil {
		site.HarvestTimeline = *req.HarvestTimeline
	}
	if req.SugarRequirements != nil {
		site.SugarRequirements = *req.SugarRequirements
	}
	if req.Notes != nil {
		site.Notes = *req.Notes
	}
	if req.Landowner != nil {
		site.Landowner = *req.Landowner
	}
	if req.AccessType != nil {
		site.AccessType = *req.AccessType
	}
	if req.ContactBeforeVisit != nil {
		site.ContactBeforeVisit = *req.ContactBeforeVisit
	}
	if req.IsQuarantine != nil {
		site.IsQuarantine = *req.IsQuarantine
	}
	if req.HoneyPotentials != nil {
		site.HoneyPotentials = req.HoneyPotentials
	}
	site.UpdatedAt = time.Now()
	site.LastModifiedBy = req.ModifiedBy

	if err := site.Validate(); err != nil {
		return nil, err
	}

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to update site: %w", err)
	}

	s.logger.Infow("site updated", "site_id", site.ID, "tenant_id", tenantID, "modified_by", req.ModifiedBy)
	return site, nil
}

func (s *siteService) ListSites(ctx context.Context, tenantID string, filter ports.SiteFilter) ([]*entities.Site, error) {
	return s.siteRepo.List(ctx, tenantID, filter)
}

func (s *siteService) ArchiveSite(ctx context.Context, tenantID string, id int, by string) (*entities.Site, error) {
	return s.setArchived(ctx, tenantID, id, by, true)
}

func (s *siteService) UnarchiveSite(ctx context.Context, tenantID string, id int, by string) (*entities.Site, error) {
	return s.setArchived(ctx, tenantID, id, by, false)
}

// setArchived flips the archive state and records the audit action in the
// same transaction, so the log always explains the state.
func (s *siteService) setArchived(ctx context.Context, tenantID string, id int, by string, archived bool) (*entities.Site, error) {
	site, err := s.siteRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if site.Archived == archived {
		return site, nil
	}

	now := time.Now()
	verb := "archived"
	site.Archived = archived
	if archived {
		site.ArchivedAt = &now
		site.ArchivedBy = &by
	} else {
		verb = "unarchived"
		site.ArchivedAt = nil
		site.ArchivedBy = nil
	}
	site.UpdatedAt = now
	site.LastModifiedBy = by

	action := &entities.Action{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SiteID:       site.ID,
		TaskName:     fmt.Sprintf("Site %s: %s", verb, site.Name),
		TaskCategory: "Administration",
		Date:         now,
		Flag:         entities.FlagInfo,
		LoggedBy:     by,
		CreatedAt:    now,
	}

	if err := s.siteRepo.SetArchived(ctx, site, action); err != nil {
		return nil, fmt.Errorf("failed to %s site: %w", verb, err)
	}

	s.logger.Infow("site archive state changed",
		"site_id", site.ID,
		"tenant_id", tenantID,
		"archived", archived,
		"by", by,
	)
	return site, nil
}

func (s *siteService) DeleteSite(ctx context.Context, tenantID string, id int) error {
	site, err := s.siteRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := site.CanDelete(); err != nil {
		return err
	}

	if err := s.siteRepo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}

	s.logger.Infow("site deleted", "site_id", id, "tenant_id", tenantID)
	return nil
}

func (s *siteService) AddHarvestRecord(ctx context.Context, tenantID string, siteID int, req ports.HarvestRecordRequest) (*entities.Site, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, entities.NewValidationError("invalid harvest date %q", req.Date)
	}
	if req.Quantity < 0 {
		return nil, entities.NewValidationError("harvest quantity cannot be negative")
	}

	if _, err := s.siteRepo.GetByID(ctx, tenantID, siteID); err != nil {
		return nil, err
	}

	rec := entities.HarvestRecord{Date: date, Quantity: req.Quantity, Notes: req.Notes}
	if err := s.siteRepo.AddHarvestRecord(ctx, tenantID, siteID, rec); err != nil {
		return nil, fmt.Errorf("failed to add harvest record: %w", err)
	}

	s.logger.Infow("harvest record added", "site_id", siteID, "tenant_id", tenantID, "quantity", req.Quantity)
	return s.siteRepo.GetByID(ctx, tenantID, siteID)
}

func (s *siteService) RemoveHarvestRecord(ctx context.Context, tenantID string, siteID int, index int) (*entities.Site, error) {
	site, err := s.siteRepo.GetByID(ctx, tenantID, siteID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(site.HarvestRecords) {
		return nil, entities.NewValidationError("harvest record index %d out of range", index)
	}

	if err := s.siteRepo.RemoveHarvestRecord(ctx, tenantID, siteID, index); err != nil {
		return nil, fmt.Errorf("failed to remove harvest record: %w", err)
	}

	s.logger.Infow("harvest record removed", "site_id", siteID, "tenant_id", tenantID, "index", index)
	return s.siteRepo.GetByID(ctx, tenantID, siteID)
}

func (s *siteService) GetStats(ctx context.Context, tenantID string) (*ports.SiteStats, error) {
	return s.siteRepo.Stats(ctx, tenantID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type complianceService struct {
	complianceRepo ports.ComplianceRepository
	logger         *logger.Logger
}

// NewComplianceService creates a new regulatory compliance service instance
func NewComplianceService(complianceRepo ports.ComplianceRepository, logger *logger.Logger) ports.ComplianceService {
	return &complianceService{
		complianceRepo: complianceRepo,
		logger:         logger,
	}
}

// UpcomingDeadlines projects the statutory deadline table onto the calendar
// from asOf, rolling past dates into the next year, soonest first.
func (s *complianceService) UpcomingDeadlines(ctx context.Context, tenantID string, asOf time.Time, daysAhead int) ([]ports.UpcomingDeadline, error) {
	if daysAhead <= 0 {
		return nil, entities.NewValidationError("days ahead must be positive, got %d", daysAhead)
	}

	profile, err := s.loadProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	upcoming := make([]ports.UpcomingDeadline, 0)
	for _, deadline := range entities.ComplianceDeadlines {
		if deadline.COIOnly && profile.HasDECA {
			continue
		}
		occurrence := deadline.NextOccurrence(asOf)
		days := daysBetween(asOf, occurrence)
		if days <= daysAhead {
			upcoming = append(upcoming, ports.UpcomingDeadline{
				Key:         deadline.Key,
				Label:       deadline.Label,
				Description: deadline.Description,
				Date:        occurrence,
				DaysUntil:   days,
			})
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return upcoming, nil
}

// DueReminders returns the deadlines whose reminder lead time falls exactly
// on asOf. The daily sweep calls this once per tenant.
func (s *complianceService) DueReminders(ctx context.Context, tenantID string, asOf time.Time) ([]ports.UpcomingDeadline, error) {
	profile, err := s.loadProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !profile.NotificationsEnabled {
		return nil, nil
	}

	due := make([]ports.UpcomingDeadline, 0)
	for _, deadline := range entities.ComplianceDeadlines {
		if deadline.COIOnly && profile.HasDECA {
			continue
		}
		occurrence := deadline.NextOccurrence(asOf)
		days := daysBetween(asOf, occurrence)
		for _, lead := range deadline.ReminderLeadDays {
			if days == lead {
				due = append(due, ports.UpcomingDeadline{
					Key:         deadline.Key,
					Label:       deadline.Label,
					Description: deadline.Description,
					Date:        occurrence,
					DaysUntil:   days,
				})
				break
			}
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Date.Before(due[j].Date) })
	return due, nil
}

func (s *complianceService) Status(ctx context.Context, tenantID string, year int) (*ports.ComplianceStatus, error) {
	if year < 2000 || year > 2200 {
		return nil, entities.NewValidationError("invalid compliance year %d", year)
	}

	profile, err := s.loadProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records, err := s.complianceRepo.ListRecords(ctx, tenantID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance records: %w", err)
	}
	byObligation := make(map[entities.ComplianceObligation]*entities.ComplianceRecord, len(records))
	for _, rec := range records {
		byObligation[rec.Obligation] = rec
	}

	checklist := []entities.ComplianceObligation{
		entities.ObligationADR,
		entities.ObligationColonyReturn,
		entities.ObligationLevyPayment,
	}
	// COI inspection is not required for DECA holders.
	if !profile.HasDECA {
		checklist = append(checklist, entities.ObligationCOI)
	}

	status := &ports.ComplianceStatus{Year: year, Total: len(checklist)}
	for _, obligation := range checklist {
		item := ports.ObligationStatus{Obligation: obligation, Label: obligation.Label()}
		if rec, ok := byObligation[obligation]; ok {
			at := rec.CompletedAt
			item.Completed = true
			item.CompletedBy = rec.CompletedBy
			item.CompletedAt = &at
			status.Completed++
		}
		status.Obligations = append(status.Obligations, item)
	}
	return status, nil
}

func (s *complianceService) MarkObligationCompleted(ctx context.Context, tenantID string, year int, obligation entities.ComplianceObligation, by string) (*ports.ComplianceStatus, error) {
	if !obligation.IsValid() {
		return nil, entities.NewValidationError("invalid compliance obligation %q", obligation)
	}
	if year < 2000 || year > 2200 {
		return nil, entities.NewValidationError("invalid compliance year %d", year)
	}

	record := &entities.ComplianceRecord{
		TenantID:    tenantID,
		Year:        year,
		Obligation:  obligation,
		CompletedBy: by,
		CompletedAt: time.Now(),
	}
	if err := s.complianceRepo.MarkCompleted(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to mark obligation completed: %w", err)
	}

	s.logger.Infow("compliance obligation completed",
		"tenant_id", tenantID,
		"year", year,
		"obligation", obligation,
		"by", by,
	)
	return s.Status(ctx, tenantID, year)
}

func (s *complianceService) GetProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error) {
	return s.loadProfile(ctx, tenantID)
}

func (s *complianceService) UpdateProfile(ctx context.Context, tenantID string, req ports.UpdateComplianceProfileRequest) (*entities.ComplianceProfile, error) {
	profile, err := s.loadProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.NZBBRegistration != nil {
		profile.NZBBRegistration = *req.NZBBRegistration
	}
	if req.HasDECA != nil {
		profile.HasDECA = *req.HasDECA
	}
	if req.NotificationsEnabled != nil {
		profile.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	profile.UpdatedAt = time.Now()

	if err := s.complianceRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save compliance profile: %w", err)
	}

	s.logger.Infow("compliance profile updated", "tenant_id", tenantID, "has_deca", profile.HasDECA)
	return profile, nil
}

// loadProfile falls back to a default profile with reminders enabled when
// the tenant has never saved one.
func (s *complianceService) loadProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error) {
	profile, err := s.complianceRepo.GetProfile(ctx, tenantID)
	if err != nil {
		if errors.Is(err, entities.ErrComplianceProfileNotFound) {
			return &entities.ComplianceProfile{
				TenantID:             tenantID,
				NotificationsEnabled: true,
			}, nil
		}
		return nil, fmt.Errorf("failed to get compliance profile: %w", err)
	}
	return profile, nil
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/beemarshall/core/internal/infrastructure/config"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// Scheduler runs the daily overdue promotion and compliance reminder
// sweeps across every tenant partition.
type Scheduler struct {
	cron       *cron.Cron
	scheduling ports.SchedulingService
	compliance ports.ComplianceService
	taskRepo   ports.ScheduledTaskRepository
	config     config.SchedulerConfig
	logger     *logger.Logger
}

// New creates a new scheduler instance
func New(
	cfg config.SchedulerConfig,
	scheduling ports.SchedulingService,
	compliance ports.ComplianceService,
	taskRepo ports.ScheduledTaskRepository,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		scheduling: scheduling,
		compliance: compliance,
		taskRepo:   taskRepo,
		config:     cfg,
		logger:     log,
	}
}

// Start registers the cron entries and begins scheduling. Returns without
// starting when the scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("overdue promotion scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.CronSpec, s.runDailySweep); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infow("daily sweep scheduler started", "cron_spec", s.config.CronSpec)
	return nil
}

// Stop halts the cron scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("overdue promotion scheduler stopped")
}

// PromoteAllTenants runs one promotion sweep across every tenant. Exposed
// for the command-line trigger; the cron entry calls the same path.
func (s *Scheduler) PromoteAllTenants(ctx context.Context) (int64, error) {
	tenants, err := s.taskRepo.Tenants(ctx)
	if err != nil {
		return 0, err
	}

	asOf := time.Now()
	var total int64
	for _, tenant := range tenants {
		promoted, err := s.scheduling.PromoteOverdueTasks(ctx, tenant, asOf)
		if err != nil {
			// One tenant failing must not starve the rest of the sweep.
			s.logger.Errorw("overdue promotion failed for tenant", "tenant_id", tenant, "error", err)
			continue
		}
		total += promoted
	}
	return total, nil
}

// CheckComplianceReminders surfaces statutory deadlines whose reminder lead
// time falls today, per tenant. Reminders are log-only: the obligations
// dashboard is the authoritative surface.
func (s *Scheduler) CheckComplianceReminders(ctx context.Context) error {
	tenants, err := s.taskRepo.Tenants(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, tenant := range tenants {
		due, err := s.compliance.DueReminders(ctx, tenant, now)
		if err != nil {
			s.logger.Errorw("compliance reminder check failed for tenant", "tenant_id", tenant, "error", err)
			continue
		}
		for _, deadline := range due {
			s.logger.Warnw("compliance deadline approaching",
				"tenant_id", tenant,
				"deadline", deadline.Label,
				"due", deadline.Date.Format("2006-01-02"),
				"days_until", deadline.DaysUntil,
			)
		}
	}
	return nil
}

func (s *Scheduler) runDailySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	total, err := s.PromoteAllTenants(ctx)
	if err != nil {
		s.logger.Errorw("overdue promotion sweep failed", "error", err)
	} else {
		s.logger.Infow("overdue promotion sweep finished", "promoted", total)
	}

	if err := s.CheckComplianceReminders(ctx); err != nil {
		s.logger.Errorw("compliance reminder sweep failed", "error", err)
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type complianceRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewComplianceRepository creates a new PostgreSQL compliance repository
func NewComplianceRepository(db *database.DB, logger *logger.Logger) ports.ComplianceRepository {
	return &complianceRepository{db: db, logger: logger}
}

func (r *complianceRepository) GetProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error) {
	var profile entities.ComplianceProfile
	query := `
		SELECT tenant_id, nzbb_registration, has_deca, notifications_enabled,
		       email_notifications, updated_at
		FROM compliance_profiles
		WHERE tenant_id = $1`
	if err := r.db.GetContext(ctx, &profile, query, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrComplianceProfileNotFound
		}
		return nil, fmt.Errorf("failed to get compliance profile: %w", err)
	}
	return &profile, nil
}

func (r *complianceRepository) SaveProfile(ctx context.Context, profile *entities.ComplianceProfile) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO compliance_profiles (
			tenant_id, nzbb_registration, has_deca, notifications_enabled,
			email_notifications, updated_at
		) VALUES (
			:tenant_id, :nzbb_registration, :has_deca, :notifications_enabled,
			:email_notifications, :updated_at
		)
		ON CONFLICT (tenant_id) DO UPDATE SET
			nzbb_registration     = EXCLUDED.nzbb_registration,
			has_deca              = EXCLUDED.has_deca,
			notifications_enabled = EXCLUDED.notifications_enabled,
			email_notifications   = EXCLUDED.email_notifications,
			updated_at            = EXCLUDED.updated_at`,
		profile,
	)
	if err != nil {
		return fmt.Errorf("failed to save compliance profile: %w", err)
	}
	return nil
}

func (r *complianceRepository) ListRecords(ctx context.Context, tenantID string, year int) ([]*entities.ComplianceRecord, error) {
	var records []*entities.ComplianceRecord
	query := `
		SELECT tenant_id, year, obligation, completed_by, completed_at
		FROM compliance_records
		WHERE tenant_id = $1 AND year = $2
		ORDER BY obligation`
	if err := r.db.SelectContext(ctx, &records, query, tenantID, year); err != nil {
		return nil, fmt.Errorf("failed to list compliance records: %w", err)
	}
	return records, nil
}

func (r *complianceRepository) MarkCompleted(ctx context.Context, record *entities.ComplianceRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO compliance_records (tenant_id, year, obligation, completed_by, completed_at)
		VALUES (:tenant_id, :year, :obligation, :completed_by, :completed_at)
		ON CONFLICT (tenant_id, year, obligation) DO UPDATE SET
			completed_by = EXCLUDED.completed_by,
			completed_at = EXCLUDED.completed_at`,
		record,
	)
	if err != nil {
		return fmt.Errorf("failed to mark compliance record: %w", err)
	}
	return nil
}

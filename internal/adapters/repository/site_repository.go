package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

type siteRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewSiteRepository creates a new PostgreSQL site repository
func NewSiteRepository(db *database.DB, logger *logger.Logger) ports.SiteRepository {
	return &siteRepository{db: db, logger: logger}
}

// siteRow is the flat database projection of a Site.
type siteRow struct {
	ID                 int            `db:"id"`
	TenantID           string         `db:"tenant_id"`
	Name               string         `db:"name"`
	Description        string         `db:"description"`
	Latitude           float64        `db:"latitude"`
	Longitude          float64        `db:"longitude"`
	HiveCount          int            `db:"hive_count"`
	StrengthStrong     int            `db:"strength_strong"`
	StrengthMedium     int            `db:"strength_medium"`
	StrengthWeak       int            `db:"strength_weak"`
	StrengthNuc        int            `db:"strength_nuc"`
	StrengthDead       int            `db:"strength_dead"`
	StacksDoubles      int            `db:"stacks_doubles"`
	StacksTopSplits    int            `db:"stacks_top_splits"`
	StacksSingles      int            `db:"stacks_singles"`
	StacksNucs         int            `db:"stacks_nucs"`
	StacksEmpty        int            `db:"stacks_empty"`
	Functional         string         `db:"functional_classification"`
	Seasonal           string         `db:"seasonal_classification"`
	HarvestTimeline    string         `db:"harvest_timeline"`
	SugarRequirements  string         `db:"sugar_requirements"`
	Notes              string         `db:"notes"`
	LandownerName      string         `db:"landowner_name"`
	LandownerPhone     string         `db:"landowner_phone"`
	LandownerEmail     string         `db:"landowner_email"`
	LandownerAddress   string         `db:"landowner_address"`
	AccessType         string         `db:"access_type"`
	ContactBeforeVisit bool           `db:"contact_before_visit"`
	IsQuarantine       bool           `db:"is_quarantine"`
	HoneyPotentials    pq.StringArray `db:"honey_potentials"`
	Archived           bool           `db:"archived"`
	ArchivedAt         *time.Time     `db:"archived_at"`
	ArchivedBy         *string        `db:"archived_by"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	LastModifiedBy     string         `db:"last_modified_by"`
}

func (r *siteRow) toEntity() *entities.Site {
	return &entities.Site{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Name:        r.Name,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		HiveCount:   r.HiveCount,
		HiveStrength: entities.HiveStrength{
			Strong: r.StrengthStrong,
			Medium: r.StrengthMedium,
			Weak:   r.StrengthWeak,
			Nuc:    r.StrengthNuc,
			Dead:   r.StrengthDead,
		},
		HiveStacks: entities.HiveStacks{
			Doubles:   r.StacksDoubles,
			TopSplits: r.StacksTopSplits,
			Singles:   r.StacksSingles,
			Nucs:      r.StacksNucs,
			Empty:     r.StacksEmpty,
		},
		Functional:        entities.FunctionalClassification(r.Functional),
		Seasonal:          entities.SeasonalClassification(r.Seasonal),
		HarvestTimeline:   r.HarvestTimeline,
		SugarRequirements: r.SugarRequirements,
		Notes:             r.Notes,
		Landowner: entities.Landowner{
			Name:    r.LandownerName,
			Phone:   r.LandownerPhone,
			Email:   r.LandownerEmail,
			Address: r.LandownerAddress,
		},
		AccessType:         r.AccessType,
		ContactBeforeVisit: r.ContactBeforeVisit,
		IsQuarantine:       r.IsQuarantine,
		HoneyPotentials:    r.HoneyPotentials,
		Archived:           r.Archived,
		ArchivedAt:         r.ArchivedAt,
		ArchivedBy:         r.ArchivedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		LastModifiedBy:     r.LastModifiedBy,
	}
}

func siteArgs(site *entities.Site) map[string]interface{} {
	return map[string]interface{}{
		"id":                        site.ID,
		"tenant_id":                 site.TenantID,
		"name":                      site.Name,
		"description":               site.Description,
		"latitude":                  site.Latitude,
		"longitude":                 site.Longitude,
		"hive_count":                site.HiveCount,
		"strength_strong":           site.HiveStrength.Strong,
		"strength_medium":           site.HiveStrength.Medium,
		"strength_weak":             site.HiveStrength.Weak,
		"strength_nuc":              site.HiveStrength.Nuc,
		"strength_dead":             site.HiveStrength.Dead,
		"stacks_doubles":            site.HiveStacks.Doubles,
		"stacks_top_splits":         site.HiveStacks.TopSplits,
		"stacks_singles":            site.HiveStacks.Singles,
		"stacks_nucs":               site.HiveStacks.Nucs,
		"stacks_empty":              site.HiveStacks.Empty,
		"functional_classification": string(site.Functional),
		"seasonal_classification":   string(site.Seasonal),
		"harvest_timeline":          site.HarvestTimeline,
		"sugar_requirements":        site.SugarRequirements,
		"notes":                     site.Notes,
		"landowner_name":            site.Landowner.Name,
		"landowner_phone":           site.Landowner.Phone,
		"landowner_email":           site.Landowner.Email,
		"landowner_address":         site.Landowner.Address,
		"access_type":               site.AccessType,
		"contact_before_visit":      site.ContactBeforeVisit,
		"is_quarantine":             site.IsQuarantine,
		"honey_potentials":          pq.StringArray(site.HoneyPotentials),
		"archived":                  site.Archived,
		"archived_at":               site.ArchivedAt,
		"archived_by":               site.ArchivedBy,
		"updated_at":                site.UpdatedAt,
		"last_modified_by":          site.LastModifiedBy,
	}
}

func (r *siteRepository) Create(ctx context.Context, site *entities.Site) (*entities.Site, error) {
	query := `
		INSERT INTO sites (
			tenant_id, name, description, latitude, longitude, hive_count,
			strength_strong, strength_medium, strength_weak, strength_nuc, strength_dead,
			stacks_doubles, stacks_top_splits, stacks_singles, stacks_nucs, stacks_empty,
			functional_classification, seasonal_classification, harvest_timeline,
			sugar_requirements, notes,
			landowner_name, landowner_phone, landowner_email, landowner_address,
			access_type, contact_before_visit, is_quarantine, honey_potentials,
			archived, created_at, updated_at, last_modified_by
		) VALUES (
			:tenant_id, :name, :description, :latitude, :longitude, :hive_count,
			:strength_strong, :strength_medium, :strength_weak, :strength_nuc, :strength_dead,
			:stacks_doubles, :stacks_top_splits, :stacks_singles, :stacks_nucs, :stacks_empty,
			:functional_classification, :seasonal_classification, :harvest_timeline,
			:sugar_requirements, :notes,
			:landowner_name, :landowner_phone, :landowner_email, :landowner_address,
			:access_type, :contact_before_visit, :is_quarantine, :honey_potentials,
			:archived, now(), :updated_at, :last_modified_by
		) RETURNING id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, siteArgs(site))
	if err != nil {
		return nil, fmt.Errorf("failed to insert site: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&site.ID, &site.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inserted site: %w", err)
		}
	}
	return site, nil
}

const siteColumns = `
	id, tenant_id, name, description, latitude, longitude, hive_count,
	strength_strong, strength_medium, strength_weak, strength_nuc, strength_dead,
	stacks_doubles, stacks_top_splits, stacks_singles, stacks_nucs, stacks_empty,
	functional_classification, seasonal_classification, harvest_timeline,
	sugar_requirements, notes,
	landowner_name, landowner_phone, landowner_email, landowner_address,
	access_type, contact_before_visit, is_quarantine, honey_potentials,
	archived, archived_at, archived_by, created_at, updated_at, last_modified_by`

func (r *siteRepository) GetByID(ctx context.Context, tenantID string, id int) (*entities.Site, error) {
	var row siteRow
	query := `SELECT` + siteColumns + ` FROM sites WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	site := row.toEntity()
	records, err := r.harvestRecords(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	site.HarvestRecords = records
	return site, nil
}

func (r *siteRepository) Update(ctx context.Context, site *entities.Site) error {
	query := `
		UPDATE sites SET
			name = :name, description = :description,
			latitude = :latitude, longitude = :longitude, hive_count = :hive_count,
			strength_strong = :strength_strong, strength_medium = :strength_medium,
			strength_weak = :strength_weak, strength_nuc = :strength_nuc, strength_dead = :strength_dead,
			stacks_doubles = :stacks_doubles, stacks_top_splits = :stacks_top_splits,
			stacks_singles = :stacks_singles, stacks_nucs = :stacks_nucs, stacks_empty = :stacks_empty,
			functional_classification = :functional_classification,
			seasonal_classification = :seasonal_classification,
			harvest_timeline = :harvest_timeline, sugar_requirements = :sugar_requirements,
			notes = :notes,
			landowner_name = :landowner_name, landowner_phone = :landowner_phone,
			landowner_email = :landowner_email, landowner_address = :landowner_address,
			access_type = :access_type, contact_before_visit = :contact_before_visit,
			is_quarantine = :is_quarantine, honey_potentials = :honey_potentials,
			archived = :archived, archived_at = :archived_at, archived_by = :archived_by,
			updated_at = :updated_at, last_modified_by = :last_modified_by
		WHERE tenant_id = :tenant_id AND id = :id`

	result, err := r.db.NamedExecContext(ctx, query, siteArgs(site))
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}
	return checkAffected(result, entities.ErrSiteNotFound)
}

func (r *siteRepository) Delete(ctx context.Context, tenantID string, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return checkAffected(result, entities.ErrSiteNotFound)
}

func (r *siteRepository) List(ctx context.Context, tenantID string, filter ports.SiteFilter) ([]*entities.Site, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if filter.ArchivedOnly {
		conditions = append(conditions, "archived = true")
	} else if !filter.IncludeArchived {
		conditions = append(conditions, "archived = false")
	}
	if filter.Functional != nil {
		args = append(args, string(*filter.Functional))
		conditions = append(conditions, fmt.Sprintf("functional_classification = $%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT` + siteColumns + ` FROM sites WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY name`

	var rows []siteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	sites := make([]*entities.Site, 0, len(rows))
	for i := range rows {
		sites = append(sites, rows[i].toEntity())
	}
	return sites, nil
}

func (r *siteRepository) SetArchived(ctx context.Context, site *entities.Site, action *entities.Action) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE sites SET
				archived = $1, archived_at = $2, archived_by = $3,
				updated_at = $4, last_modified_by = $5
			WHERE tenant_id = $6 AND id = $7`,
			site.Archived, site.ArchivedAt, site.ArchivedBy,
			site.UpdatedAt, site.LastModifiedBy,
			site.TenantID, site.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update archive state: %w", err)
		}
		if err := checkAffected(result, entities.ErrSiteNotFound); err != nil {
			return err
		}
		return insertAction(ctx, tx, action)
	})
}

func (r *siteRepository) harvestRecords(ctx context.Context, tenantID string, siteID int) ([]entities.HarvestRecord, error) {
	var records []entities.HarvestRecord
	query := `
		SELECT date, quantity, notes FROM harvest_records
		WHERE tenant_id = $1 AND site_id = $2
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &records, query, tenantID, siteID); err != nil {
		return nil, fmt.Errorf("failed to load harvest records: %w", err)
	}
	return records, nil
}

func (r *siteRepository) AddHarvestRecord(ctx context.Context, tenantID string, siteID int, rec entities.HarvestRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO harvest_records (tenant_id, site_id, date, quantity, notes)
		VALUES ($1, $2, $3, $4, $5)`,
		tenantID, siteID, rec.Date, rec.Quantity, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert harvest record: %w", err)
	}
	return nil
}

func (r *siteRepository) RemoveHarvestRecord(ctx context.Context, tenantID string, siteID int, index int) error {
	// Records are addressed by insertion order within the site.
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM harvest_records WHERE id = (
			SELECT id FROM harvest_records
			WHERE tenant_id = $1 AND site_id = $2
			ORDER BY id OFFSET $3 LIMIT 1
		)`,
		tenantID, siteID, index,
	)
	if err != nil {
		return fmt.Errorf("failed to delete harvest record: %w", err)
	}
	return checkAffected(result, entities.ErrSiteNotFound)
}

func (r *siteRepository) Stats(ctx context.Context, tenantID string) (*ports.SiteStats, error) {
	var stats ports.SiteStats
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT archived)                          AS active_sites,
			COUNT(*) FILTER (WHERE archived)                              AS archived_sites,
			COALESCE(SUM(hive_count)      FILTER (WHERE NOT archived), 0) AS total_hives,
			COALESCE(SUM(strength_strong) FILTER (WHERE NOT archived), 0) AS strong_hives,
			COALESCE(SUM(strength_medium) FILTER (WHERE NOT archived), 0) AS medium_hives,
			COALESCE(SUM(strength_weak)   FILTER (WHERE NOT archived), 0) AS weak_hives,
			COALESCE(SUM(strength_nuc)    FILTER (WHERE NOT archived), 0) AS nuc_hives,
			COALESCE(SUM(strength_dead)   FILTER (WHERE NOT archived), 0) AS dead_hives
		FROM sites WHERE tenant_id = $1`
	if err := r.db.GetContext(ctx, &stats, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to compute site stats: %w", err)
	}
	return &stats, nil
}

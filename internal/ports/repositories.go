package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/beemarshall/core/internal/domain/entities"
)

// SiteRepository defines the interface for apiary site data operations.
// Every method is scoped to a single tenant partition.
type SiteRepository interface {
	Create(ctx context.Context, site *entities.Site) (*entities.Site, error)
	GetByID(ctx context.Context, tenantID string, id int) (*entities.Site, error)
	Update(ctx context.Context, site *entities.Site) error
	Delete(ctx context.Context, tenantID string, id int) error
	List(ctx context.Context, tenantID string, filter SiteFilter) ([]*entities.Site, error)
	// SetArchived flips the archive state and writes the audit action in
	// the same transaction.
	SetArchived(ctx context.Context, site *entities.Site, action *entities.Action) error
	AddHarvestRecord(ctx context.Context, tenantID string, siteID int, rec entities.HarvestRecord) error
	RemoveHarvestRecord(ctx context.Context, tenantID string, siteID int, index int) error
	Stats(ctx context.Context, tenantID string) (*SiteStats, error)
}

// ScheduledTaskRepository defines the interface for scheduled task data
// operations.
type ScheduledTaskRepository interface {
	Create(ctx context.Context, task *entities.ScheduledTask) error
	CreateBatch(ctx context.Context, tasks []*entities.ScheduledTask) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.ScheduledTask, error)
	Update(ctx context.Context, task *entities.ScheduledTask) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	List(ctx context.Context, tenantID string, filter TaskFilter) ([]*entities.ScheduledTask, error)
	// Complete persists the completion marker and the derived action as a
	// single transaction so neither write can land without the other.
	Complete(ctx context.Context, task *entities.ScheduledTask, action *entities.Action) error
	// PromoteOverdue escalates every pending task due before asOf to
	// urgent in one statement and returns the number of rows changed.
	PromoteOverdue(ctx context.Context, tenantID string, asOf time.Time) (int64, error)
	// Tenants lists every tenant partition holding scheduled tasks.
	Tenants(ctx context.Context) ([]string, error)
}

// ActionRepository defines the interface for the append-only action log.
type ActionRepository interface {
	Create(ctx context.Context, action *entities.Action) error
	CreateBatch(ctx context.Context, actions []*entities.Action) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error)
	List(ctx context.Context, tenantID string, filter ActionFilter) ([]*entities.Action, error)
	// UpdateFlag is the only permitted mutation of an existing action.
	UpdateFlag(ctx context.Context, tenantID string, id uuid.UUID, flag entities.ActionFlag) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	DeleteBatch(ctx context.Context, tenantID string, ids []uuid.UUID) error
	CountByTask(ctx context.Context, tenantID string, taskID int) (int64, error)
}

// TaskCatalogRepository defines the interface for the shared task catalog.
// The catalog is reference data common to all tenants.
type TaskCatalogRepository interface {
	List(ctx context.Context) ([]*entities.TaskCatalogEntry, error)
	GetByID(ctx context.Context, id int) (*entities.TaskCatalogEntry, error)
	Create(ctx context.Context, entry *entities.TaskCatalogEntry) error
	Rename(ctx context.Context, id int, name string) error
	// Delete removes the entry and writes its tombstone in one transaction.
	Delete(ctx context.Context, id int, tombstone *entities.DeletedTaskRecord) error
	GetDeleted(ctx context.Context, id int) (*entities.DeletedTaskRecord, error)
	MaxID(ctx context.Context) (int, error)
	// Seed inserts the built-in catalog entries that are not yet present.
	Seed(ctx context.Context, entries []entities.TaskCatalogEntry) error
}

// ComplianceRepository defines the interface for regulatory compliance
// state: the tenant profile and per-year obligation completions.
type ComplianceRepository interface {
	GetProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error)
	// SaveProfile inserts or replaces the tenant's profile.
	SaveProfile(ctx context.Context, profile *entities.ComplianceProfile) error
	ListRecords(ctx context.Context, tenantID string, year int) ([]*entities.ComplianceRecord, error)
	// MarkCompleted records an obligation done for a year. Re-marking an
	// obligation refreshes the completion audit.
	MarkCompleted(ctx context.Context, record *entities.ComplianceRecord) error
}

// Filter types for repository queries

type SiteFilter struct {
	IncludeArchived bool
	ArchivedOnly    bool
	Functional      *entities.FunctionalClassification
	Search          *string
}

type TaskFilter struct {
	SiteID    *int
	Completed *bool
	Priority  *entities.Priority
	DueBefore *time.Time
	DueAfter  *time.Time
	Limit     int
	Offset    int
}

type ActionFilter struct {
	SiteID      *int
	Category    *string
	LoggedBy    *string
	Flag        *entities.ActionFlag
	FlaggedOnly bool
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// SiteStats is the dashboard aggregate over a tenant's active sites.
type SiteStats struct {
	ActiveSites   int `json:"active_sites" db:"active_sites"`
	ArchivedSites int `json:"archived_sites" db:"archived_sites"`
	TotalHives    int `json:"total_hives" db:"total_hives"`
	StrongHives   int `json:"strong_hives" db:"strong_hives"`
	MediumHives   int `json:"medium_hives" db:"medium_hives"`
	WeakHives     int `json:"weak_hives" db:"weak_hives"`
	NucHives      int `json:"nuc_hives" db:"nuc_hives"`
	DeadHives     int `json:"dead_hives" db:"dead_hives"`
}
